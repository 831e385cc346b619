package models

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/nurbs/pkg/math3d"
	"github.com/taigrr/nurbs/pkg/nurbs"
)

// Definition is the serialized form of a curve, shared by the YAML and CBOR
// encodings:
//
//	name: arc
//	degree: 2
//	points: [[1, 0, 0], [1, 1, 0], [0, 1, 0]]
//	weights: [1, 0.7071, 1]   # optional, defaults to 1
//	knots: [0, 0, 0, 1, 1, 1] # optional, defaults to clamped uniform
type Definition struct {
	Name    string       `yaml:"name,omitempty" cbor:"1,keyasint,omitempty"`
	Degree  int          `yaml:"degree" cbor:"2,keyasint"`
	Points  [][3]float64 `yaml:"points" cbor:"3,keyasint"`
	Weights []float64    `yaml:"weights,omitempty" cbor:"4,keyasint,omitempty"`
	Knots   []float64    `yaml:"knots,omitempty" cbor:"5,keyasint,omitempty"`
}

// DefinitionFromCurve captures c, including its knot vector, so that
// Definition.Curve reproduces it exactly.
func DefinitionFromCurve(name string, c *nurbs.Curve) Definition {
	def := Definition{
		Name:    name,
		Degree:  c.Degree(),
		Points:  make([][3]float64, c.Len()),
		Weights: c.Weights(),
		Knots:   c.Knots(),
	}
	for i, p := range c.Points() {
		def.Points[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return def
}

// Curve builds the curve the definition describes. Explicit knots go
// through nurbs.NewCurve; otherwise the knots are clamped uniform and the
// weighted or unweighted constructor is used.
func (d Definition) Curve() (*nurbs.Curve, error) {
	pts := make([]math3d.Vec3, len(d.Points))
	for i, p := range d.Points {
		pts[i] = math3d.V3(p[0], p[1], p[2])
	}

	switch {
	case d.Knots != nil:
		weights := d.Weights
		if weights == nil {
			weights = make([]float64, len(pts))
			for i := range weights {
				weights[i] = 1
			}
		}
		if len(weights) != len(pts) {
			return nil, fmt.Errorf("%w: %d points but %d weights", nurbs.ErrInvalidControlPointData, len(pts), len(weights))
		}
		cps := make([]nurbs.Point4, len(pts))
		for i, p := range pts {
			cps[i] = nurbs.NewWeightedPoint4(p, weights[i])
		}
		return nurbs.NewCurve(d.Degree, d.Knots, cps)
	case d.Weights != nil:
		return nurbs.NewCurveFromWeightedPoints(pts, d.Weights, d.Degree)
	default:
		return nurbs.NewCurveFromPoints(pts, d.Degree)
	}
}

// ParseDefinition decodes a YAML curve definition. Unknown keys are an error.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("parse definition: %w", err)
	}
	return def, nil
}

// LoadDefinition reads a YAML curve definition from path.
func LoadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read definition: %w", err)
	}
	return ParseDefinition(data)
}

// EncodeYAML renders the definition as YAML.
func (d Definition) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode definition: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode definition: %w", err)
	}
	return buf.Bytes(), nil
}
