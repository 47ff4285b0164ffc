package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-drift/compose/pkg/layout"
)

// DebugMode controls whether build errors carry stack traces.
var DebugMode = true

// SetDebugMode enables or disables debug mode for the engine.
func SetDebugMode(debug bool) {
	DebugMode = debug
}

// DumpElementTree writes an indented listing of every element tree in ctx,
// one element per line, annotated with its render node.
func DumpElementTree(w io.Writer, ctx *FrameworkContext) error {
	for _, root := range ctx.Roots() {
		if err := dumpElement(w, ctx, root, 0); err != nil {
			return err
		}
	}
	return nil
}

func dumpElement(w io.Writer, ctx *FrameworkContext, id ElementID, indent int) error {
	element, ok := ctx.Element(id)
	if !ok {
		return nil
	}
	line := fmt.Sprintf("%s%s %s %T @%s", strings.Repeat("  ", indent), id, element.Kind(),
		element.View().Payload(), element.View().KeyPath())
	if render, ok := element.(*RenderObjectElement); ok {
		if renderID, ok := render.RenderID(); ok {
			line += " render=" + renderID.String()
		}
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, child := range ctx.Children(id) {
		if err := dumpElement(w, ctx, child, indent+1); err != nil {
			return err
		}
	}
	return nil
}

// DumpRenderTree writes an indented listing of the render tree of ctx.
func DumpRenderTree(w io.Writer, ctx *FrameworkContext) error {
	tree := ctx.RenderTree()
	var err error
	for _, root := range tree.Roots() {
		tree.Visit(root, func(id layout.RenderID, object layout.RenderObject) bool {
			if err != nil {
				return false
			}
			_, err = fmt.Fprintf(w, "%s%s %T\n", strings.Repeat("  ", tree.Depth(id)), id, object)
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}
