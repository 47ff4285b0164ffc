// Package scenario describes element trees as YAML so they can be replayed
// through the engine without writing Go views.
//
// A scenario is a list of frames. Each frame declares the root node of the
// tree at that point in time; replaying it reconciles the previous frame's
// elements against the new description.
//
//	name: toggle
//	frames:
//	  - root:
//	      type: box
//	      key: root
//	      children:
//	        - type: label
//	          text: hello
//	  - root:
//	      type: box
//	      key: root
//	      children:
//	        - type: counter
//	          text: "clicks "
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node types.
const (
	TypeBox     = "box"
	TypeLabel   = "label"
	TypeGroup   = "group"
	TypeCounter = "counter"
	TypeEmpty   = "empty"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid scenario")

// Scenario is a named sequence of frames.
type Scenario struct {
	Name   string  `yaml:"name,omitempty"`
	Frames []Frame `yaml:"frames"`
}

// Frame is the declared tree at one point in time. A nil root is Empty.
type Frame struct {
	Name string `yaml:"name,omitempty"`
	Root *Node  `yaml:"root,omitempty"`
}

// Node declares one view.
type Node struct {
	Type     string  `yaml:"type"`
	Key      string  `yaml:"key,omitempty"`
	Text     string  `yaml:"text,omitempty"`
	Width    float64 `yaml:"width,omitempty"`
	Height   float64 `yaml:"height,omitempty"`
	Children []Node  `yaml:"children,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks node types and shapes.
func (s *Scenario) Validate() error {
	if len(s.Frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrInvalid)
	}
	for i, frame := range s.Frames {
		if frame.Root == nil {
			continue
		}
		if err := frame.Root.validate(fmt.Sprintf("frames[%d].root", i)); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) validate(path string) error {
	switch n.Type {
	case TypeBox, TypeGroup:
	case TypeLabel, TypeCounter, TypeEmpty:
		if len(n.Children) > 0 {
			return fmt.Errorf("%w: %s: %s cannot have children", ErrInvalid, path, n.Type)
		}
	case "":
		return fmt.Errorf("%w: %s: missing type", ErrInvalid, path)
	default:
		return fmt.Errorf("%w: %s: unknown type %q (want one of %s)", ErrInvalid, path, n.Type,
			strings.Join([]string{TypeBox, TypeLabel, TypeGroup, TypeCounter, TypeEmpty}, ", "))
	}
	keys := make(map[string]bool)
	for i := range n.Children {
		child := &n.Children[i]
		if child.Key != "" {
			if keys[child.Key] {
				return fmt.Errorf("%w: %s: duplicate key %q among siblings", ErrInvalid, path, child.Key)
			}
			keys[child.Key] = true
		}
		if err := child.validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}
