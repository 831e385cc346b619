package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/nurbs/pkg/nurbs"
)

// ErrUnsupportedFormat is returned for file extensions with no codec.
var ErrUnsupportedFormat = errors.New("unsupported curve format")

// LoadCurve reads a curve from path, choosing the codec by extension:
// .yaml and .yml definitions, .cbor encodings, and .glb or .gltf control
// polygons. degree applies to glTF files, and to definitions that leave
// the degree unset.
func LoadCurve(path string, degree int) (string, *nurbs.Curve, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		def, err := LoadDefinition(path)
		if err != nil {
			return "", nil, err
		}
		if def.Degree == 0 {
			def.Degree = degree
		}
		if def.Name != "" {
			name = def.Name
		}
		c, err := def.Curve()
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", path, err)
		}
		return name, c, nil

	case ".cbor":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", nil, fmt.Errorf("read curve: %w", err)
		}
		encName, c, err := DecodeCurve(data)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", path, err)
		}
		if encName != "" {
			name = encName
		}
		return name, c, nil

	case ".glb", ".gltf":
		c, err := LoadGLB(path, degree)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", path, err)
		}
		return name, c, nil

	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// SaveCurve writes c to path, choosing the codec by extension. samples is
// the tessellation density for glTF output and is ignored otherwise.
func SaveCurve(path, name string, c *nurbs.Curve, samples int) error {
	var data []byte
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb":
		return SaveGLB(path, c, samples)
	case ".cbor":
		data, err = EncodeCurve(name, c)
	case ".yaml", ".yml":
		data, err = DefinitionFromCurve(name, c).EncodeYAML()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write curve: %w", err)
	}
	return nil
}
