// Package testbed provides internal test views for the testing framework.
package testbed

import (
	"fmt"

	"github.com/go-drift/compose/pkg/core"
)

// Counter is a stateful view that displays a count.
type Counter struct {
	Initial int
	Label   string
}

func (c Counter) CreateState() core.State {
	return &CounterState{}
}

// CounterState is the state of a Counter.
type CounterState struct {
	core.StateBase
	Count int
}

func (s *CounterState) InitState() {
	s.Count = s.Element().Configuration().Value().(Counter).Initial
}

// Increment bumps the count and schedules a rebuild.
func (s *CounterState) Increment() {
	s.SetState(func() {
		s.Count++
	})
}

func (s *CounterState) Build(ctx core.BuildContext) core.View {
	label := s.Element().Configuration().Value().(Counter).Label
	return core.RenderObject(Text{Content: fmt.Sprintf("%s%d", label, s.Count)})
}
