package models

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/taigrr/nurbs/pkg/nurbs"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
	dm, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	decMode = dm
}

// EncodeDefinition encodes d as deterministic CBOR with integer map keys.
func EncodeDefinition(d Definition) ([]byte, error) {
	b, err := encMode.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("models: encode definition: %w", err)
	}
	return b, nil
}

// DecodeDefinition decodes a CBOR definition. Unknown keys are an error.
func DecodeDefinition(data []byte) (Definition, error) {
	var d Definition
	if err := decMode.Unmarshal(data, &d); err != nil {
		return Definition{}, fmt.Errorf("models: decode definition: %w", err)
	}
	return d, nil
}

// EncodeCurve encodes c, including its knot vector.
func EncodeCurve(name string, c *nurbs.Curve) ([]byte, error) {
	return EncodeDefinition(DefinitionFromCurve(name, c))
}

// DecodeCurve decodes and validates a curve written by EncodeCurve. The
// returned name is empty when none was encoded.
func DecodeCurve(data []byte) (string, *nurbs.Curve, error) {
	d, err := DecodeDefinition(data)
	if err != nil {
		return "", nil, err
	}
	c, err := d.Curve()
	if err != nil {
		return "", nil, err
	}
	return d.Name, c, nil
}
