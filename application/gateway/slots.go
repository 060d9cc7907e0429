package gateway

import (
	"fmt"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	domainerrors "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/errors"
)

// predicate accepts an argument for a slot and returns its validated Value,
// or a non-empty reason when the argument does not fit.
type predicate func(entities.Argument) (entities.Value, string)

// slot is one positional input of the call signature.
type slot struct {
	name   string
	unit   string
	kind   string
	accept predicate
	reject func(index int, name, reason string) *domainerrors.ValidationError
}

// signature is the fixed positional layout of get_atm_density.
var signature = []slot{
	{name: "altitude", unit: "km", kind: kindRealScalar, accept: realScalar, reject: domainerrors.NewInvalidScalar},
	{name: "latitude", unit: "deg", kind: kindRealScalar, accept: realScalar, reject: domainerrors.NewInvalidScalar},
	{name: "longitude", unit: "deg", kind: kindRealScalar, accept: realScalar, reject: domainerrors.NewInvalidScalar},
	{name: "epoch", unit: "YYYY-MM-DD hh:mm:ss", kind: kindText, accept: asciiText, reject: domainerrors.NewInvalidText},
}

const (
	kindRealScalar = "real scalar"
	kindText       = "text"
)

// Signature describes get_atm_density for hosts that introspect functions.
func Signature() entities.Signature {
	inputs := make([]entities.Parameter, len(signature))
	for i, s := range signature {
		inputs[i] = entities.Parameter{Name: s.name, Unit: s.unit, Kind: s.kind}
	}
	return entities.Signature{
		Name:        FunctionName,
		Description: "Atmospheric mass density at a given altitude, latitude, longitude and epoch.",
		Inputs:      inputs,
		Outputs:     []entities.Parameter{{Name: "density", Unit: "kg/m^3", Kind: kindRealScalar}},
	}
}

// realScalar accepts a non-complex numeric argument with exactly one element.
func realScalar(a entities.Argument) (entities.Value, string) {
	if !a.Class.IsNumeric() {
		return nil, fmt.Sprintf("got %s", describeClass(a.Class))
	}
	if a.Complex {
		return nil, "got a complex value"
	}
	if n := a.NumElements(); n != 1 {
		return nil, fmt.Sprintf("got %d elements", n)
	}
	return entities.Scalar(a.Real[0]), ""
}

// asciiText accepts char or string data that converts to ASCII.
// The content is not checked against the epoch layout.
func asciiText(a entities.Argument) (entities.Value, string) {
	if !a.Class.IsText() {
		return nil, fmt.Sprintf("got %s", describeClass(a.Class))
	}
	for i := 0; i < len(a.Text); i++ {
		if a.Text[i] > 0x7f {
			return nil, "contains non-ASCII characters"
		}
	}
	return entities.Text(a.Text), ""
}

func describeClass(c entities.Class) string {
	if c == "" {
		return "an untyped value"
	}
	return string(c)
}
