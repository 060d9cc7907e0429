package entities

// CallRequest is a host call as it crosses a serialized boundary.
type CallRequest struct {
	// Nargout is the number of outputs the caller asks for.
	Nargout int `json:"nargout" jsonschema:"minimum=0"`

	// Inputs are the positional arguments.
	Inputs []Argument `json:"inputs"`
}
