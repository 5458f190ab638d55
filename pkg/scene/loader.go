package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
)

// modelFile is the on-disk ship model: vertex positions and triangle faces.
type modelFile struct {
	Name     string       `json:"name"`
	Vertices [][3]float64 `json:"vertices"`
	Faces    [][3]int     `json:"faces"`
}

// DecodeMesh reads a JSON model of the form
// {"vertices":[[x,y,z],...],"faces":[[a,b,c],...]}.
func DecodeMesh(r io.Reader, name string) (*Mesh, error) {
	var model modelFile
	if err := json.NewDecoder(r).Decode(&model); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", name, err)
	}
	if len(model.Vertices) == 0 {
		return nil, fmt.Errorf("model %s has no vertices", name)
	}

	vertices := make([]mgl64.Vec3, len(model.Vertices))
	for i, v := range model.Vertices {
		vertices[i] = mgl64.Vec3{v[0], v[1], v[2]}
	}

	indices := make([]int, 0, len(model.Faces)*3)
	for i, f := range model.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("model %s face %d: index %d out of range", name, i, idx)
			}
		}
		indices = append(indices, f[0], f[1], f[2])
	}

	if model.Name != "" {
		name = model.Name
	}
	return NewMesh(name, vertices, indices), nil
}
