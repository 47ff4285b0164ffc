package testing

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/compose/pkg/core"
	"github.com/go-drift/compose/pkg/layout"
)

// UpdateSnapshotsEnv names the environment variable that makes MatchesFile
// rewrite golden files instead of comparing against them.
const UpdateSnapshotsEnv = "COMPOSE_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the element tree and the render tree projected from it.
type Snapshot struct {
	Elements []*ElementNode `yaml:"elements,omitempty"`
	Render   []*RenderNode  `yaml:"render,omitempty"`
}

// ElementNode represents an element in a snapshot.
type ElementNode struct {
	ID       string         `yaml:"id"`
	Kind     string         `yaml:"kind"`
	Key      string         `yaml:"key,omitempty"`
	Props    map[string]any `yaml:"props,omitempty"`
	Children []*ElementNode `yaml:"children,omitempty"`
}

// RenderNode represents a render object in a snapshot.
type RenderNode struct {
	ID       string         `yaml:"id"`
	Props    map[string]any `yaml:"props,omitempty"`
	Children []*RenderNode  `yaml:"children,omitempty"`
}

// CaptureSnapshot captures the current element and render trees.
// Identifiers are assigned per type in traversal order ("Box#0", "Box#1")
// so they stay stable across runs.
func (t *ViewTester) CaptureSnapshot() *Snapshot {
	return CaptureSnapshot(t.ctx)
}

// CaptureSnapshot captures every root of ctx.
func CaptureSnapshot(ctx *core.FrameworkContext) *Snapshot {
	snap := &Snapshot{}
	elements := &typeCounter{}
	for _, root := range ctx.Roots() {
		snap.Elements = append(snap.Elements, captureElement(ctx, root, elements))
	}
	tree := ctx.RenderTree()
	objects := &typeCounter{}
	for _, root := range tree.Roots() {
		snap.Render = append(snap.Render, captureRender(tree, root, objects))
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// COMPOSE_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := LoadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal encodes the snapshot as YAML.
func (s *Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Diff returns a unified diff from other (expected) to this snapshot
// (actual). Returns the empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	actual, _ := s.Marshal()
	expected, _ := other.Marshal()
	if bytes.Equal(actual, expected) {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(expected)),
		B:        difflib.SplitLines(string(actual)),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("diff failed: %v", err)
	}
	return diff
}

// LoadSnapshot reads a snapshot written by UpdateFile.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return &snap, nil
}

// typeCounter assigns stable IDs like "Box#0", "Box#1".
type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(typeName string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[typeName]
	c.counts[typeName] = n + 1
	return fmt.Sprintf("%s#%d", typeName, n)
}

func captureElement(ctx *core.FrameworkContext, id core.ElementID, counter *typeCounter) *ElementNode {
	element, ok := ctx.Element(id)
	if !ok {
		return nil
	}
	view := element.View()
	node := &ElementNode{
		ID:    counter.next(typeName(view.Payload())),
		Kind:  element.Kind().String(),
		Props: captureProperties(view.Payload()),
	}
	if keyPath := view.KeyPath(); keyPath.IsExplicit() {
		node.Key = keyPath.String()
	}
	element.VisitChildren(func(child core.ElementID) bool {
		if childNode := captureElement(ctx, child, counter); childNode != nil {
			node.Children = append(node.Children, childNode)
		}
		return true
	})
	return node
}

func captureRender(tree *layout.RenderTree, id layout.RenderID, counter *typeCounter) *RenderNode {
	object, _ := tree.Object(id)
	node := &RenderNode{
		ID:    counter.next(typeName(object)),
		Props: captureProperties(object),
	}
	for _, child := range tree.Children(id) {
		node.Children = append(node.Children, captureRender(tree, child, counter))
	}
	return node
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

// captureProperties collects the exported scalar fields of a struct value.
// Views, slices and nested structs are left out.
func captureProperties(v any) map[string]any {
	value := reflect.ValueOf(v)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	props := make(map[string]any)
	t := value.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if val, ok := scalar(value.Field(i)); ok {
			props[field.Name] = val
		}
	}
	if len(props) == 0 {
		return nil
	}
	return props
}

func scalar(v reflect.Value) (any, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), true
	case reflect.Float32, reflect.Float64:
		return round2(v.Float()), true
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return v.Bool(), true
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.String {
			values := make([]string, v.Len())
			for i := range values {
				values[i] = v.Index(i).String()
			}
			return values, true
		}
	}
	return nil, false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
