package columns

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, []Column{Name, ID}, []Row{
		{Name: "foo", ID: "aaaa"},
		{ID: "bbbb", Name: "bar"},
		{ID: "cccc"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"NAME", "ID"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"foo", "aaaa"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"bar", "bbbb"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"-", "cccc"}, strings.Fields(lines[3]))
	assert.Equal(t, strings.Index(lines[0], "ID"), strings.Index(lines[1], "aaaa"))
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []Column{Name, ID}, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "no data")
}
