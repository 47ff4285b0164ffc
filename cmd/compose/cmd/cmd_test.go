package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return &out
}

func project(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestHelpAndVersion(t *testing.T) {
	out := capture(t)

	require.NoError(t, Execute(nil))
	assert.Contains(t, out.String(), "replay")
	assert.Contains(t, out.String(), "config")

	out.Reset()
	require.NoError(t, Execute([]string{"--version"}))
	assert.Contains(t, out.String(), "compose version "+Version)

	out.Reset()
	require.NoError(t, Execute([]string{"replay", "--help"}))
	assert.Contains(t, out.String(), "compose replay [--quiet] <scenario.yaml>")
}

func TestUnknownCommand(t *testing.T) {
	capture(t)
	err := Execute([]string{"paint"})
	assert.ErrorContains(t, err, "unknown command: paint")
}

func TestDirFlagRequiresValue(t *testing.T) {
	capture(t)
	assert.ErrorContains(t, Execute([]string{"config", "--dir"}), "--dir requires")
}

func TestConfigCommand(t *testing.T) {
	out := capture(t)
	dir := project(t, map[string]string{
		"go.mod":       "module example.com/tools/demo\n\ngo 1.24\n",
		"compose.yaml": "log:\n  level: warn\n",
	})

	require.NoError(t, Execute([]string{"--dir=" + dir, "config"}))

	assert.Contains(t, out.String(), "app:          demo")
	assert.Contains(t, out.String(), "module:       example.com/tools/demo")
	assert.Contains(t, out.String(), "log level:    warn")
}

const toggle = `
name: toggle
frames:
  - root: {type: box, key: root, text: main, children: [{type: label, key: a, text: hello}]}
  - root: {type: box, key: root, text: main, children: [{type: label, key: a, text: hello}]}
  - name: swap
    root: {type: box, key: root, text: main, children: [{type: counter, key: a, text: "n="}]}
`

func TestReplay(t *testing.T) {
	out := capture(t)
	dir := project(t, map[string]string{"toggle.yaml": toggle})

	require.NoError(t, Execute([]string{"--dir", dir, "replay", filepath.Join(dir, "toggle.yaml")}))

	text := out.String()
	assert.Contains(t, text, "scenario toggle: 3 frames")
	assert.Contains(t, text, "== frame 2 (swap)")
	assert.Contains(t, text, "elements:")
	assert.Contains(t, text, "*scenario.RenderLabel")
	// The swapped child is matched by key and kind, so it is removed and
	// the counter with its label is inflated in its place.
	assert.Contains(t, text, "inflate  4")
	assert.Contains(t, text, "skip     1")
	assert.Contains(t, text, "update   1")
	assert.Contains(t, text, "remove   1")
	assert.Contains(t, text, "replace  0")
}

func TestReplayQuietWithoutMetrics(t *testing.T) {
	out := capture(t)
	dir := project(t, map[string]string{
		"toggle.yaml":  toggle,
		"compose.yaml": "metrics:\n  disabled: true\n",
	})

	require.NoError(t, Execute([]string{"--dir", dir, "replay", "--quiet", filepath.Join(dir, "toggle.yaml")}))

	assert.NotContains(t, out.String(), "elements:")
	assert.NotContains(t, out.String(), "decisions:")
	assert.Contains(t, out.String(), "== frame 0")
}

func TestReplayArguments(t *testing.T) {
	capture(t)
	dir := project(t, nil)

	assert.ErrorContains(t, Execute([]string{"--dir", dir, "replay"}), "requires a scenario file")
	assert.ErrorContains(t, Execute([]string{"--dir", dir, "replay", "a.yaml", "b.yaml"}), "one scenario file")
	assert.ErrorIs(t, Execute([]string{"--dir", dir, "replay", filepath.Join(dir, "missing.yaml")}), os.ErrNotExist)
}
