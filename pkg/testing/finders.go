package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/compose/pkg/core"
	"github.com/go-drift/compose/pkg/layout"
)

// Finder locates elements in the element tree.
type Finder interface {
	// Evaluate returns all matching elements under root (depth-first pre-order).
	Evaluate(root core.Element) []core.Element
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []core.Element
	finder   Finder
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() core.Element {
	if len(r.elements) == 0 {
		panic(fmt.Sprintf("Finder found no elements: %s", r.description()))
	}
	return r.elements[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() core.Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) core.Element {
	if index < 0 || index >= len(r.elements) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.elements), r.description()))
	}
	return r.elements[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []core.Element {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.elements)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.elements) > 0
}

// View returns the view retained by the first match. Panics if no matches.
func (r FinderResult) View() core.View {
	return r.First().View()
}

// Payload returns the configuration payload of the first match.
func (r FinderResult) Payload() any {
	return r.View().Payload()
}

// RenderObject returns the render object the first match contributes.
// Returns nil if its subtree has no render element.
func (r FinderResult) RenderObject() layout.RenderObject {
	return extractRenderObject(r.First())
}

// IDs returns the element ids of all matches.
func (r FinderResult) IDs() []core.ElementID {
	ids := make([]core.ElementID, len(r.elements))
	for i, e := range r.elements {
		ids[i] = e.ElementID()
	}
	return ids
}

// typeFinder matches elements whose payload is of the specified type.
type typeFinder struct {
	payloadType reflect.Type
}

func (f *typeFinder) Evaluate(root core.Element) []core.Element {
	return collectMatches(root, func(e core.Element) bool {
		return reflect.TypeOf(e.View().Payload()) == f.payloadType
	})
}

func (f *typeFinder) Description() string {
	return fmt.Sprintf("ByType(%s)", f.payloadType)
}

// ByType returns a finder that matches elements whose configuration
// payload is of type T.
func ByType[T any]() Finder {
	return &typeFinder{payloadType: reflect.TypeFor[T]()}
}

// keyFinder matches elements whose explicit key equals the given key.
type keyFinder struct {
	key core.KeyPath
}

func (f *keyFinder) Evaluate(root core.Element) []core.Element {
	return collectMatches(root, func(e core.Element) bool {
		return e.View().KeyPath().Equal(f.key)
	})
}

func (f *keyFinder) Description() string {
	return fmt.Sprintf("ByKey(%s)", f.key)
}

// ByKey returns a finder that matches elements created with the explicit
// key, through a Keyed constructor or a [core.Keyed] payload.
func ByKey(key any) Finder {
	return &keyFinder{key: core.Key(key)}
}

// kindFinder matches elements of a view kind.
type kindFinder struct {
	kind core.ViewKind
}

func (f *kindFinder) Evaluate(root core.Element) []core.Element {
	return collectMatches(root, func(e core.Element) bool {
		return e.Kind() == f.kind
	})
}

func (f *kindFinder) Description() string {
	return fmt.Sprintf("ByKind(%s)", f.kind)
}

// ByKind returns a finder that matches elements of the given view kind.
func ByKind(kind core.ViewKind) Finder {
	return &kindFinder{kind: kind}
}

// textFinder matches payloads that carry text, exactly or by substring.
type textFinder struct {
	text    string
	partial bool
}

func (f *textFinder) Evaluate(root core.Element) []core.Element {
	return collectMatches(root, func(e core.Element) bool {
		content, ok := textOf(e.View().Payload())
		if !ok {
			return false
		}
		if f.partial {
			return strings.Contains(content, f.text)
		}
		return content == f.text
	})
}

func (f *textFinder) Description() string {
	if f.partial {
		return fmt.Sprintf("ByTextContaining(%q)", f.text)
	}
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText returns a finder that matches payloads whose text equals text.
// A payload has text when it has a Text() string method or an exported
// string field named Content, Text or Label.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

// ByTextContaining is like ByText but matches a substring.
func ByTextContaining(substring string) Finder {
	return &textFinder{text: substring, partial: true}
}

var textFields = []string{"Content", "Text", "Label"}

func textOf(payload any) (string, bool) {
	if t, ok := payload.(interface{ Text() string }); ok {
		return t.Text(), true
	}
	v := reflect.ValueOf(payload)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", false
	}
	for _, name := range textFields {
		field := v.FieldByName(name)
		if field.IsValid() && field.Kind() == reflect.String {
			return field.String(), true
		}
	}
	return "", false
}

// predicateFinder matches elements satisfying a predicate.
type predicateFinder struct {
	fn   func(core.Element) bool
	desc string
}

func (f *predicateFinder) Evaluate(root core.Element) []core.Element {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches elements satisfying fn.
func ByPredicate(fn func(core.Element) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds elements matching 'matching' that are descendants
// of elements matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root core.Element) []core.Element {
	var results []core.Element
	seen := make(map[core.ElementID]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		// The ancestor itself is not its own descendant.
		visitChildren(ancestor, func(child core.Element) {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match.ElementID()] {
					seen[match.ElementID()] = true
					results = append(results, match)
				}
			}
		})
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches elements satisfying 'matching'
// that are descendants of elements matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds elements matching 'matching' that are ancestors
// of elements matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root core.Element) []core.Element {
	descendants := f.of.Evaluate(root)
	if len(descendants) == 0 {
		return nil
	}
	ancestors := make(map[core.ElementID]bool)
	for _, d := range descendants {
		ctx := d.Framework()
		for id, ok := ctx.Parent(d.ElementID()); ok; id, ok = ctx.Parent(id) {
			ancestors[id] = true
		}
	}
	// Keep traversal order of the candidates.
	var results []core.Element
	for _, candidate := range f.matching.Evaluate(root) {
		if ancestors[candidate.ElementID()] {
			results = append(results, candidate)
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches elements satisfying 'matching'
// that are ancestors of elements matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

// collectMatches performs depth-first pre-order traversal, collecting
// elements that satisfy the predicate.
func collectMatches(root core.Element, predicate func(core.Element) bool) []core.Element {
	var results []core.Element
	walkTree(root, func(e core.Element) bool {
		if predicate(e) {
			results = append(results, e)
		}
		return true
	})
	return results
}

// walkTree performs a depth-first pre-order traversal of the element tree.
// The visitor returns false to prune the subtree below an element.
func walkTree(root core.Element, visitor func(core.Element) bool) {
	if !visitor(root) {
		return
	}
	visitChildren(root, func(child core.Element) {
		walkTree(child, visitor)
	})
}

func visitChildren(e core.Element, fn func(core.Element)) {
	ctx := e.Framework()
	e.VisitChildren(func(id core.ElementID) bool {
		if child, ok := ctx.Element(id); ok {
			fn(child)
		}
		return true
	})
}
