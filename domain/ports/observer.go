package ports

import "time"

// Call outcomes reported to a CallObserver.
const (
	OutcomeOK              = "ok"
	OutcomeValidationError = "validation_error"
	OutcomeModelInitError  = "model_init_error"
	OutcomeModelEvalError  = "model_eval_error"
	OutcomeInternalError   = "internal_error"
)

// CallObserver records the outcome and latency of gateway calls.
type CallObserver interface {
	ObserveCall(outcome string, elapsed time.Duration)
}
