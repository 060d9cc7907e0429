package entities

// Value is a validated argument: either a Scalar or a Text.
type Value interface {
	isValue()
}

// Scalar is a real numeric scalar.
type Scalar float64

// Text is ASCII character data.
type Text string

func (Scalar) isValue() {}
func (Text) isValue()   {}
