package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const dt = 1.0 / 60.0

func TestNew_InitialState(t *testing.T) {
	s := New(DefaultParams())

	if s.Velocity() != -1 {
		t.Errorf("Expected initial velocity -1, got %f", s.Velocity())
	}
	if s.Rotation() != mgl64.QuatIdent() {
		t.Errorf("Expected identity rotation, got %v", s.Rotation())
	}
	if s.Pitch() != 0 || s.Yaw() != 0 || s.Roll() != 0 {
		t.Errorf("Expected zero rotation components, got %f %f %f", s.Pitch(), s.Yaw(), s.Roll())
	}
}

func TestUpdate_DragDecaysTowardMaxVelocity(t *testing.T) {
	s := New(DefaultParams())
	s.SetControls(-50, 0, 0, 0)
	s.Update(dt)
	if s.Velocity() != -51 {
		t.Fatalf("Expected velocity -51 after thrust, got %f", s.Velocity())
	}

	s.SetControls(0, 0, 0, 0)
	prev := s.Velocity()
	for i := 0; i < 200; i++ {
		s.Update(dt)
		v := s.Velocity()
		if v > -1 || v < -100 {
			t.Fatalf("tick %d: velocity %f out of range", i, v)
		}
		if prev < -1 {
			want := math.Min(prev+0.8, -1)
			if math.Abs(v-want) > 1e-9 {
				t.Fatalf("tick %d: expected %f, got %f", i, want, v)
			}
			if v <= prev {
				t.Fatalf("tick %d: velocity should increase under drag, %f -> %f", i, prev, v)
			}
		} else if v != -1 {
			t.Fatalf("tick %d: expected velocity to stay at -1, got %f", i, v)
		}
		prev = v
	}
}

func TestUpdate_VelocityClamp(t *testing.T) {
	tests := []struct {
		name     string
		thrust   float64
		ticks    int
		expected float64
	}{
		{"positive thrust saturates upper bound", 10, 50, -1},
		{"small negative thrust", -5, 3, -16},
		{"large negative thrust saturates lower bound", -1000, 1, -100},
		{"repeated negative thrust", -30, 10, -100},
		{"tiny positive thrust", 0.1, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(DefaultParams())
			for i := 0; i < tt.ticks; i++ {
				s.SetControls(tt.thrust, 0, 0, 0)
				s.Update(dt)
				if v := s.Velocity(); v > -1 || v < -100 {
					t.Fatalf("tick %d: velocity %f outside [-100, -1]", i, v)
				}
			}
			if math.Abs(s.Velocity()-tt.expected) > 1e-9 {
				t.Errorf("Expected velocity %f, got %f", tt.expected, s.Velocity())
			}
		})
	}
}

func TestUpdate_ZeroControlsKeepIdentity(t *testing.T) {
	s := New(DefaultParams())
	for i := 0; i < 10; i++ {
		s.SetControls(0, 0, 0, 0)
		s.Update(dt)
		if s.Pitch() != 0 || s.Yaw() != 0 || s.Roll() != 0 {
			t.Fatalf("tick %d: expected zero rotation, got %f %f %f", i, s.Pitch(), s.Yaw(), s.Roll())
		}
		if s.Rotation().W != 1 {
			t.Fatalf("tick %d: expected W 1, got %f", i, s.Rotation().W)
		}
	}
}

func TestUpdate_RotationNotPathDependent(t *testing.T) {
	s := New(DefaultParams())

	s.SetControls(0, 0.3, -0.2, 0.5)
	s.Update(dt)
	first := s.Rotation()

	for i := 0; i < 20; i++ {
		s.SetControls(0, 0.3, -0.2, 0.5)
		s.Update(dt)
		if !s.Rotation().ApproxEqual(first) {
			t.Fatalf("tick %d: rotation changed with identical controls: %v vs %v", i, s.Rotation(), first)
		}
	}

	// A different sample in between does not leak into later ticks.
	s.SetControls(0, -1, 1, -1)
	s.Update(dt)
	s.SetControls(0, 0.3, -0.2, 0.5)
	s.Update(dt)
	if !s.Rotation().ApproxEqual(first) {
		t.Errorf("rotation depends on earlier samples: %v vs %v", s.Rotation(), first)
	}
}

func TestUpdate_CompositionOrder(t *testing.T) {
	s := New(DefaultParams())
	roll, pitch, yaw := 0.4, 0.7, -0.3
	s.SetControls(0, roll, pitch, yaw)
	s.Update(dt)

	want := mgl64.QuatRotate(roll, mgl64.Vec3{0, 0, 1}).
		Mul(mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0})).
		Mul(mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0}))

	if !s.Rotation().ApproxEqual(want) {
		t.Errorf("Expected %v, got %v", want, s.Rotation())
	}
	if math.Abs(s.Rotation().Len()-1) > 1e-12 {
		t.Errorf("rotation not normalised: len %f", s.Rotation().Len())
	}
	if s.Pitch() != want.X() || s.Yaw() != want.Y() || s.Roll() != want.Z() {
		t.Errorf("getter mapping wrong: pitch %f yaw %f roll %f, want %f %f %f",
			s.Pitch(), s.Yaw(), s.Roll(), want.X(), want.Y(), want.Z())
	}
}

func TestRadGetters(t *testing.T) {
	s := New(DefaultParams())
	s.SetControls(0, 0.5, 0.25, -0.75)
	s.Update(dt)

	if s.PitchRad() != s.Pitch()*DegToRad {
		t.Errorf("PitchRad = %f, want %f", s.PitchRad(), s.Pitch()*DegToRad)
	}
	if s.YawRad() != s.Yaw()*DegToRad {
		t.Errorf("YawRad = %f, want %f", s.YawRad(), s.Yaw()*DegToRad)
	}
	if s.RollRad() != s.Roll()*DegToRad {
		t.Errorf("RollRad = %f, want %f", s.RollRad(), s.Roll()*DegToRad)
	}
}

func TestOnAxisSignConvention(t *testing.T) {
	limit := 15.0 / 360.0

	tests := []struct {
		name               string
		roll, pitch, yaw   float64
		wantPitch, wantYaw float64
		wantRoll           float64
	}{
		{"pitch saturates positive", 0, 10, 0, limit, 0, 0},
		{"yaw returned negated", 0, 0, 10, 0, -limit, 0},
		{"roll returned negated", 10, 0, 0, 0, 0, -limit},
		{"small values pass through", 1, 1, 1, DegToRad, -DegToRad, -DegToRad},
		{"negative values are not clamped", -100, -100, -100, -100 * DegToRad, 100 * DegToRad, 100 * DegToRad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(DefaultParams())
			s.SetControls(0, tt.roll, tt.pitch, tt.yaw)
			s.Update(dt)

			if math.Abs(s.PitchOnAxis()-tt.wantPitch) > 1e-12 {
				t.Errorf("PitchOnAxis = %f, want %f", s.PitchOnAxis(), tt.wantPitch)
			}
			if math.Abs(s.YawOnAxis()-tt.wantYaw) > 1e-12 {
				t.Errorf("YawOnAxis = %f, want %f", s.YawOnAxis(), tt.wantYaw)
			}
			if math.Abs(s.RollOnAxis()-tt.wantRoll) > 1e-12 {
				t.Errorf("RollOnAxis = %f, want %f", s.RollOnAxis(), tt.wantRoll)
			}
		})
	}
}

func TestSnapshotAndControls(t *testing.T) {
	s := New(DefaultParams())
	s.SetControls(-3, 0.1, 0.2, 0.3)

	if c := s.Controls(); c != (Controls{Thrust: -3, Roll: 0.1, Pitch: 0.2, Yaw: 0.3}) {
		t.Errorf("Controls() = %+v", c)
	}

	s.Update(dt)
	snap := s.Snapshot()
	if snap.Velocity != s.Velocity() {
		t.Errorf("snapshot velocity %f, want %f", snap.Velocity, s.Velocity())
	}
	if snap.Rotation != s.Rotation() {
		t.Errorf("snapshot rotation %v, want %v", snap.Rotation, s.Rotation())
	}

	s.SetControls(-3, 0, 0, 0)
	s.Update(dt)
	if snap.Velocity == s.Velocity() {
		t.Error("snapshot should not track later updates")
	}
}
