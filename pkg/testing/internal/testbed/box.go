package testbed

import (
	"github.com/go-drift/compose/pkg/core"
	"github.com/go-drift/compose/pkg/layout"
)

// Box is a fixed-size render view with declared children.
type Box struct {
	Name   string
	Width  float64
	Height float64
	Kids   []core.View
}

func (b Box) CreateRenderObject(_ core.BuildContext) layout.RenderObject {
	return &RenderBox{Name: b.Name, Width: b.Width, Height: b.Height}
}

func (b Box) UpdateRenderObject(_ core.BuildContext, renderObject layout.RenderObject) {
	if box, ok := renderObject.(*RenderBox); ok {
		box.Name = b.Name
		box.Width = b.Width
		box.Height = b.Height
	}
}

func (b Box) Children() []core.View { return b.Kids }

// RenderBox is the render object of a Box.
type RenderBox struct {
	Name     string
	Width    float64
	Height   float64
	children []layout.RenderObject
}

func (r *RenderBox) SetChildren(children []layout.RenderObject) { r.children = children }

// Children returns the render children in order.
func (r *RenderBox) Children() []layout.RenderObject { return r.children }

// Text is a leaf render view.
type Text struct {
	Content string
}

func (t Text) CreateRenderObject(_ core.BuildContext) layout.RenderObject {
	return &RenderText{Content: t.Content}
}

func (t Text) UpdateRenderObject(_ core.BuildContext, renderObject layout.RenderObject) {
	if text, ok := renderObject.(*RenderText); ok {
		text.Content = t.Content
	}
}

// RenderText is the render object of a Text.
type RenderText struct {
	Content string
}
