package core

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
)

// KeyPath is the identity token that matches a view to an existing element
// across rebuilds. Two views at the same slot share identity, and therefore
// retained element state, only if their payload types and key paths match.
//
// A key path is either explicit (see [Key]) or positional, derived from the
// source position at which the view constructor was called. Explicit keys
// survive refactors; positional keys are a convenience that changes as soon
// as the calling line moves. Two views built on the same source line share a
// positional key, so siblings built in a loop need explicit keys.
type KeyPath struct {
	explicit bool
	key      any
	file     string
	line     int
}

// Key returns an explicit key path. A nil key carries no identity and
// yields the zero KeyPath.
func Key(key any) KeyPath {
	if key == nil {
		return KeyPath{}
	}
	return KeyPath{explicit: true, key: key}
}

// CallerKeyPath returns the positional key path of the caller skip frames
// above the function calling CallerKeyPath. CallerKeyPath(0) identifies
// the line that called it.
func CallerKeyPath(skip int) KeyPath {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return KeyPath{}
	}
	return KeyPath{file: file, line: line}
}

// keyPathFor prefers an explicit key from a Keyed payload and falls back to
// the position of the caller of the public view constructor.
func keyPathFor(payload any) KeyPath {
	if keyed, ok := payload.(Keyed); ok {
		if key := keyed.Key(); key != nil {
			return Key(key)
		}
	}
	return CallerKeyPath(2)
}

// keyPathOf is keyPathFor for the *Keyed constructors: a nil key falls back
// to the caller's position like an unkeyed view.
func keyPathOf(key any) KeyPath {
	if key != nil {
		return Key(key)
	}
	return CallerKeyPath(2)
}

// IsExplicit reports whether the key path was supplied by the user.
func (k KeyPath) IsExplicit() bool {
	return k.explicit
}

// IsZero reports whether k carries no identity at all.
func (k KeyPath) IsZero() bool {
	return !k.explicit && k.file == "" && k.line == 0
}

// Equal reports whether two key paths denote the same identity. An explicit
// key never equals a positional one.
func (k KeyPath) Equal(other KeyPath) bool {
	if k.explicit != other.explicit {
		return false
	}
	if k.explicit {
		return reflect.DeepEqual(k.key, other.key)
	}
	return k.file == other.file && k.line == other.line
}

func (k KeyPath) String() string {
	switch {
	case k.explicit:
		return fmt.Sprintf("key(%v)", k.key)
	case k.IsZero():
		return "key(-)"
	default:
		return fmt.Sprintf("%s:%d", filepath.Base(k.file), k.line)
	}
}
