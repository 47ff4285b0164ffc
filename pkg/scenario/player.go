package scenario

import (
	"github.com/go-drift/compose/pkg/core"
)

// Player reconciles the frames of a scenario one after the other against
// the same root.
type Player struct {
	ctx   *core.FrameworkContext
	root  core.ElementID
	frame int
}

// NewPlayer returns a player driving ctx.
func NewPlayer(ctx *core.FrameworkContext) *Player {
	return &Player{ctx: ctx, frame: -1}
}

// Play reconciles the root against frame and flushes scheduled builds.
// It returns the id now holding the root, NoElement for an empty frame.
func (p *Player) Play(frame Frame) core.ElementID {
	p.root = p.ctx.UpdateRoot(p.root, frame.Root.View())
	p.ctx.FlushBuild()
	p.frame++
	return p.root
}

// Root returns the current root element id.
func (p *Player) Root() core.ElementID { return p.root }

// Frame returns the index of the last played frame, -1 before the first.
func (p *Player) Frame() int { return p.frame }

// Replay plays every frame of s, calling after (if not nil) once each
// frame is reconciled. A non-nil error from after stops the replay.
func Replay(ctx *core.FrameworkContext, s *Scenario, after func(index int, frame Frame, root core.ElementID) error) error {
	player := NewPlayer(ctx)
	for i, frame := range s.Frames {
		root := player.Play(frame)
		if after == nil {
			continue
		}
		if err := after(i, frame, root); err != nil {
			return err
		}
	}
	return nil
}
