package core

import (
	"sync"

	"github.com/go-drift/compose/pkg/errors"
)

// ErrorViewBuilder creates the view shown in place of a build that panicked.
type ErrorViewBuilder func(err *errors.BuildError) View

var (
	errorViewBuilder ErrorViewBuilder
	errorViewMu      sync.RWMutex
)

// SetErrorViewBuilder configures the replacement view for failed builds.
// Pass nil to render nothing.
func SetErrorViewBuilder(builder ErrorViewBuilder) {
	errorViewMu.Lock()
	defer errorViewMu.Unlock()
	errorViewBuilder = builder
}

// GetErrorViewBuilder returns the current error view builder.
func GetErrorViewBuilder() ErrorViewBuilder {
	errorViewMu.RLock()
	defer errorViewMu.RUnlock()
	return errorViewBuilder
}
