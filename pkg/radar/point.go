// pkg/radar/point.go
package radar

import "math"

// Point is a position on the radar plane. X is to the right of the ship and
// Y is straight ahead.
type Point struct {
	X float64
	Y float64
}

// Add returns the sum of two points
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference between two points
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale multiplies the point by a scalar value
func (p Point) Scale(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

// Length returns the distance from the ship
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Bearing returns the clockwise angle from dead ahead, in radians.
func (p Point) Bearing() float64 {
	return math.Atan2(p.X, p.Y)
}
