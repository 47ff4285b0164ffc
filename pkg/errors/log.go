package errors

import (
	"os"

	"github.com/rs/zerolog"
)

var stderrLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// LogHandler is an ErrorHandler that writes structured events with zerolog.
// The zero value logs to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger overrides the destination logger.
	Logger *zerolog.Logger
}

func (h *LogHandler) logger() *zerolog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return &stderrLogger
}

// HandleError logs a FrameworkError.
func (h *LogHandler) HandleError(err *FrameworkError) {
	if err == nil {
		return
	}
	event := h.logger().Error().
		Str("op", err.Op).
		Stringer("kind", err.Kind).
		Err(err.Err)
	if h.Verbose && err.StackTrace != "" {
		event = event.Str("stack", err.StackTrace)
	}
	event.Msg("compose error")
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	event := h.logger().Error().Interface("value", err.Value)
	if err.Op != "" {
		event = event.Str("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		event = event.Str("stack", err.StackTrace)
	}
	event.Msg("compose panic")
}

// HandleBuildError logs a BuildError.
func (h *LogHandler) HandleBuildError(err *BuildError) {
	if err == nil {
		return
	}
	event := h.logger().Warn().
		Str("view", err.View).
		Str("element", err.Element)
	if err.Recovered != nil {
		event = event.Interface("recovered", err.Recovered)
	}
	if err.Err != nil {
		event = event.Err(err.Err)
	}
	if h.Verbose && err.StackTrace != "" {
		event = event.Str("stack", err.StackTrace)
	}
	event.Msg("compose build error")
}
