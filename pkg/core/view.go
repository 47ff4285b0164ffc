package core

import (
	"fmt"
	"reflect"

	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/layout"
)

// ViewKind tags the closed set of view variants.
type ViewKind uint8

const (
	// KindEmpty is the view that produces no element.
	KindEmpty ViewKind = iota
	// KindStateless views build their child from the configuration alone.
	KindStateless
	// KindStateful views build their child from a retained State.
	KindStateful
	// KindRenderObject views own a render object and declared children.
	KindRenderObject
)

func (k ViewKind) String() string {
	switch k {
	case KindStateless:
		return "stateless"
	case KindStateful:
		return "stateful"
	case KindRenderObject:
		return "render"
	default:
		return "empty"
	}
}

// View is the immutable description of one UI node and its identity.
//
// The set of implementations is closed: [Empty] and [Configuration] values
// built by [Stateless], [Stateful], [RenderObject] and their variants. A nil
// View is treated as Empty everywhere.
type View interface {
	Kind() ViewKind
	KeyPath() KeyPath
	// Payload returns the concrete configuration value.
	Payload() any
	cell() any
}

// StatelessConfiguration is the payload of a stateless view.
type StatelessConfiguration interface {
	Build(ctx BuildContext) View
}

// StatefulConfiguration is the payload of a stateful view. CreateState is
// called once per element lifetime.
type StatefulConfiguration interface {
	CreateState() State
}

// RenderObjectConfiguration is the payload of a render view.
type RenderObjectConfiguration interface {
	CreateRenderObject(ctx BuildContext) layout.RenderObject
}

// ChildrenDeclarer is implemented by render configurations that have
// children. The returned views are reconciled against the element's
// existing children on every rebuild.
type ChildrenDeclarer interface {
	Children() []View
}

// RenderObjectUpdater is implemented by render configurations that push
// new configuration into an existing render object after an in-place update.
type RenderObjectUpdater interface {
	UpdateRenderObject(ctx BuildContext, renderObject layout.RenderObject)
}

// Keyed is implemented by payloads that carry an explicit identity. A
// non-nil Key takes precedence over the call-site position.
type Keyed interface {
	Key() any
}

// Equaler lets a payload define its own structural equality. other always
// has the same dynamic type as the receiver.
type Equaler interface {
	Equal(other any) bool
}

// Viewer is implemented by values that know how to lift themselves into a View.
type Viewer interface {
	IntoView() View
}

type emptyView struct{}

func (emptyView) Kind() ViewKind   { return KindEmpty }
func (emptyView) KeyPath() KeyPath { return KeyPath{} }
func (emptyView) Payload() any     { return nil }
func (emptyView) cell() any        { return nil }

// Empty is the view that produces no element.
var Empty View = emptyView{}

// Configuration is a key-pathed handle to a view payload. The payload cell
// is shared by every copy of the Configuration, so the transient View and
// the element retaining it observe the same value.
type Configuration[T any] struct {
	keyPath KeyPath
	kind    ViewKind
	payload *T
}

func newConfiguration[T any](kind ViewKind, keyPath KeyPath, payload T) Configuration[T] {
	return Configuration[T]{keyPath: keyPath, kind: kind, payload: &payload}
}

// Kind returns the view variant.
func (c Configuration[T]) Kind() ViewKind { return c.kind }

// KeyPath returns the identity of the view.
func (c Configuration[T]) KeyPath() KeyPath { return c.keyPath }

// Payload returns the payload as an untyped value.
func (c Configuration[T]) Payload() any { return *c.payload }

// Value returns the typed payload.
func (c Configuration[T]) Value() T { return *c.payload }

// Set replaces the shared payload. Every holder of this configuration,
// including a mounted element, observes the new value. Set does not
// schedule a rebuild.
func (c Configuration[T]) Set(value T) { *c.payload = value }

func (c Configuration[T]) cell() any { return c.payload }

func (c Configuration[T]) String() string {
	return fmt.Sprintf("%s %T @%s", c.kind, *c.payload, c.keyPath)
}

// Stateless lifts cfg into a stateless View keyed by cfg's explicit key or
// by the caller's position.
func Stateless(cfg StatelessConfiguration) View {
	return StatelessAt(keyPathFor(cfg), cfg)
}

// StatelessKeyed lifts cfg into a stateless View with an explicit key.
// A nil key behaves like [Stateless].
func StatelessKeyed(key any, cfg StatelessConfiguration) View {
	return StatelessAt(keyPathOf(key), cfg)
}

// StatelessAt lifts cfg into a stateless View with the given key path.
func StatelessAt(keyPath KeyPath, cfg StatelessConfiguration) View {
	if cfg == nil {
		return Empty
	}
	return newConfiguration(KindStateless, keyPath, cfg)
}

// Stateful lifts cfg into a stateful View keyed by cfg's explicit key or by
// the caller's position.
func Stateful(cfg StatefulConfiguration) View {
	return StatefulAt(keyPathFor(cfg), cfg)
}

// StatefulKeyed lifts cfg into a stateful View with an explicit key.
// A nil key behaves like [Stateful].
func StatefulKeyed(key any, cfg StatefulConfiguration) View {
	return StatefulAt(keyPathOf(key), cfg)
}

// StatefulAt lifts cfg into a stateful View with the given key path.
func StatefulAt(keyPath KeyPath, cfg StatefulConfiguration) View {
	if cfg == nil {
		return Empty
	}
	return newConfiguration(KindStateful, keyPath, cfg)
}

// RenderObject lifts cfg into a render View keyed by cfg's explicit key or
// by the caller's position.
func RenderObject(cfg RenderObjectConfiguration) View {
	return RenderObjectAt(keyPathFor(cfg), cfg)
}

// RenderObjectKeyed lifts cfg into a render View with an explicit key.
// A nil key behaves like [RenderObject].
func RenderObjectKeyed(key any, cfg RenderObjectConfiguration) View {
	return RenderObjectAt(keyPathOf(key), cfg)
}

// RenderObjectAt lifts cfg into a render View with the given key path.
func RenderObjectAt(keyPath KeyPath, cfg RenderObjectConfiguration) View {
	if cfg == nil {
		return Empty
	}
	return newConfiguration(KindRenderObject, keyPath, cfg)
}

// IntoView converts v into a View. It accepts a View, a [Viewer] or nil;
// anything else is reported as a type mismatch.
func IntoView(v any) View {
	switch typed := v.(type) {
	case nil:
		return Empty
	case View:
		return normalize(typed)
	case Viewer:
		return normalize(typed.IntoView())
	default:
		errors.Fatal("core.IntoView", errors.KindTypeMismatch, "%T is not a View or Viewer", v)
		return Empty
	}
}

func normalize(v View) View {
	if v == nil {
		return Empty
	}
	return v
}

// SameType reports whether a and b are concrete views of the same variant
// and the same dynamic payload type. Empty never type-matches anything.
func SameType(a, b View) bool {
	a, b = normalize(a), normalize(b)
	if a.Kind() == KindEmpty || b.Kind() == KindEmpty {
		return false
	}
	if a.Kind() != b.Kind() {
		return false
	}
	return reflect.TypeOf(a.Payload()) == reflect.TypeOf(b.Payload())
}

// CanUpdate reports whether an element built for a can be updated in place
// with b: same payload type and same key path.
func CanUpdate(a, b View) bool {
	return SameType(a, b) && normalize(a).KeyPath().Equal(normalize(b).KeyPath())
}

// ViewsEqual reports structural equality: same variant, same payload type,
// same key path and equal payload values. Payload values are compared only
// after the type check, through [Equaler] when implemented and
// reflect.DeepEqual otherwise. Empty equals only Empty.
func ViewsEqual(a, b View) bool {
	a, b = normalize(a), normalize(b)
	if a.Kind() == KindEmpty || b.Kind() == KindEmpty {
		return a.Kind() == b.Kind()
	}
	if !CanUpdate(a, b) {
		return false
	}
	if a.cell() == b.cell() {
		return true
	}
	pa, pb := a.Payload(), b.Payload()
	if eq, ok := pa.(Equaler); ok {
		return eq.Equal(pb)
	}
	return reflect.DeepEqual(pa, pb)
}
