package ports

// DiagnosticsSink is the host environment's error channel.
// The gateway holds one for its whole lifetime and submits one message per
// failed call. Reporting does not unwind the caller.
type DiagnosticsSink interface {
	Report(message string)
}
