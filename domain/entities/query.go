package entities

// ReferenceFile is the name of the model's reference-data index file.
const ReferenceFile = "NameRef.txt"

// Query is a validated density request.
type Query struct {
	// Altitude in kilometers.
	Altitude float64 `json:"altitude"`

	// Latitude in degrees.
	Latitude float64 `json:"latitude"`

	// Longitude in degrees.
	Longitude float64 `json:"longitude"`

	// Epoch in the layout "YYYY-MM-DD hh:mm:ss", passed to the model verbatim.
	Epoch string `json:"epoch"`
}

// InitParams initializes a model instance.
type InitParams struct {
	ReferencePath string `json:"path"`
	ReferenceFile string `json:"file"`
	Epoch         string `json:"epoch"`
}

// TrajectoryInput is a single-point evaluation request to the model.
type TrajectoryInput struct {
	Altitude    float64
	Latitude    float64
	Longitude   float64
	ElapsedTime float64

	// Update recomputes the perturbation state.
	Update bool

	// FirstCall forces a full initialization of the model state.
	FirstCall bool
}

// NewTrajectoryInput builds the evaluation request used for a query.
// Elapsed time is zero and both flags are set since model instances are
// never reused.
func NewTrajectoryInput(q Query) TrajectoryInput {
	return TrajectoryInput{
		Altitude:    q.Altitude,
		Latitude:    q.Latitude,
		Longitude:   q.Longitude,
		ElapsedTime: 0,
		Update:      true,
		FirstCall:   true,
	}
}

// AtmosphereState is everything the model yields for one point.
// Mean, perturbed, standard deviation and small-scale components are
// reported separately.
type AtmosphereState struct {
	Density float64 `json:"density"`

	MeanPressure    float64 `json:"pm"`
	MeanTemperature float64 `json:"tm"`
	MeanWindU       float64 `json:"um"`
	MeanWindV       float64 `json:"vm"`
	MeanWindW       float64 `json:"wm"`

	PerturbedDensity     float64 `json:"dp"`
	PerturbedPressure    float64 `json:"pp"`
	PerturbedTemperature float64 `json:"tp"`
	PerturbedWindU       float64 `json:"up"`
	PerturbedWindV       float64 `json:"vp"`
	PerturbedWindW       float64 `json:"wp"`

	StdDevDensity     float64 `json:"ds"`
	StdDevPressure    float64 `json:"ps"`
	StdDevTemperature float64 `json:"ts"`
	StdDevWindU       float64 `json:"us"`
	StdDevWindV       float64 `json:"vs"`
	StdDevWindW       float64 `json:"ws"`

	SmallScaleDensity     float64 `json:"dsmall"`
	SmallScalePressure    float64 `json:"psmall"`
	SmallScaleTemperature float64 `json:"tsmall"`
	SmallScaleWindU       float64 `json:"usmall"`
	SmallScaleWindV       float64 `json:"vsmall"`
	SmallScaleWindW       float64 `json:"wsmall"`

	SpeedOfSound          float64 `json:"sos"`
	PerturbedSpeedOfSound float64 `json:"sosp"`
}
