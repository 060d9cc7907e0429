package entities

import "unicode/utf8"

// Class is the host-side type tag of an argument.
type Class string

const (
	ClassDouble  Class = "double"
	ClassSingle  Class = "single"
	ClassInt8    Class = "int8"
	ClassInt16   Class = "int16"
	ClassInt32   Class = "int32"
	ClassInt64   Class = "int64"
	ClassUint8   Class = "uint8"
	ClassUint16  Class = "uint16"
	ClassUint32  Class = "uint32"
	ClassUint64  Class = "uint64"
	ClassLogical Class = "logical"
	ClassChar    Class = "char"
	ClassString  Class = "string"
	ClassCell    Class = "cell"
	ClassStruct  Class = "struct"
)

// Classes lists every class the host can deliver, in declaration order.
func Classes() []Class {
	return []Class{
		ClassDouble, ClassSingle,
		ClassInt8, ClassInt16, ClassInt32, ClassInt64,
		ClassUint8, ClassUint16, ClassUint32, ClassUint64,
		ClassLogical, ClassChar, ClassString, ClassCell, ClassStruct,
	}
}

// IsNumeric reports whether c is a numeric class. Logical is not numeric.
func (c Class) IsNumeric() bool {
	switch c {
	case ClassDouble, ClassSingle,
		ClassInt8, ClassInt16, ClassInt32, ClassInt64,
		ClassUint8, ClassUint16, ClassUint32, ClassUint64:
		return true
	default:
		return false
	}
}

// IsText reports whether c holds character data.
func (c Class) IsText() bool {
	return c == ClassChar || c == ClassString
}

// Argument is a single untyped value passed by the host environment.
// Numeric and logical data live in Real (and Imag when Complex is set),
// character data lives in Text.
type Argument struct {
	// Class is the host type of the value.
	Class Class `json:"class" jsonschema:"enum=double,enum=single,enum=int8,enum=int16,enum=int32,enum=int64,enum=uint8,enum=uint16,enum=uint32,enum=uint64,enum=logical,enum=char,enum=string,enum=cell,enum=struct"`

	// Complex marks complex-valued numeric data.
	Complex bool `json:"complex,omitempty"`

	// Real holds the real parts of the elements, column-major.
	Real []float64 `json:"real,omitempty"`

	// Imag holds the imaginary parts when Complex is set.
	Imag []float64 `json:"imag,omitempty"`

	// Text holds char or string data.
	Text string `json:"text,omitempty"`
}

// NumElements returns the element count the host would report.
func (a Argument) NumElements() int {
	switch a.Class {
	case ClassChar:
		return utf8.RuneCountInString(a.Text)
	case ClassString:
		return 1
	default:
		return len(a.Real)
	}
}

// ScalarArgument builds a real double scalar.
func ScalarArgument(v float64) Argument {
	return Argument{Class: ClassDouble, Real: []float64{v}}
}

// ArrayArgument builds a real double array.
func ArrayArgument(vs ...float64) Argument {
	re := make([]float64, len(vs))
	copy(re, vs)
	return Argument{Class: ClassDouble, Real: re}
}

// ComplexArgument builds a complex double scalar.
func ComplexArgument(re, im float64) Argument {
	return Argument{Class: ClassDouble, Complex: true, Real: []float64{re}, Imag: []float64{im}}
}

// CharArgument builds a char row vector.
func CharArgument(s string) Argument {
	return Argument{Class: ClassChar, Text: s}
}

// StringArgument builds a string scalar.
func StringArgument(s string) Argument {
	return Argument{Class: ClassString, Text: s}
}

// LogicalArgument builds a logical scalar.
func LogicalArgument(b bool) Argument {
	v := 0.0
	if b {
		v = 1
	}
	return Argument{Class: ClassLogical, Real: []float64{v}}
}
