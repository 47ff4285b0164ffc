package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toggle = `
name: toggle
frames:
  - root:
      type: box
      key: root
      children:
        - type: label
          key: a
          text: hello
        - type: group
          text: inner
          children:
            - type: counter
              text: "n="
  - name: second
    root:
      type: box
      key: root
      children:
        - type: label
          key: a
          text: world
  - {}
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(toggle))
	require.NoError(t, err)

	assert.Equal(t, "toggle", s.Name)
	require.Len(t, s.Frames, 3)
	assert.Equal(t, "second", s.Frames[1].Name)
	assert.Nil(t, s.Frames[2].Root)

	root := s.Frames[0].Root
	require.NotNil(t, root)
	assert.Equal(t, TypeBox, root.Type)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "n=", root.Children[1].Children[0].Text)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"no frames":      `name: x`,
		"missing type":   "frames:\n  - root: {key: a}\n",
		"unknown type":   "frames:\n  - root: {type: slider}\n",
		"leaf children":  "frames:\n  - root: {type: label, children: [{type: label}]}\n",
		"duplicate keys": "frames:\n  - root: {type: box, children: [{type: label, key: a}, {type: label, key: a}]}\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("frames: [\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "failed to parse scenario")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toggle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(toggle), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Frames, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
