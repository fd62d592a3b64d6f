package pprint

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := Out, ErrOut
	Out, ErrOut = &out, &errOut
	t.Cleanup(func() { Out, ErrOut = prevOut, prevErr })
	return &out, &errOut
}

func TestLines(t *testing.T) {
	out, errOut := capture(t)

	Success("ok %d", 1)
	Error("bad %s", "thing")

	assert.Contains(t, out.String(), "ok 1")
	assert.Contains(t, errOut.String(), "bad thing")
	assert.NotContains(t, out.String(), "bad thing")
}

func TestTable_AlignsColumns(t *testing.T) {
	out, _ := capture(t)

	tbl := NewTable("CASE", "STATUS")
	tbl.AddRow("construction", Status(true))
	tbl.AddRow("invocation", Status(false))
	tbl.Render()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "construction")
	assert.Contains(t, lines[2], "PASS")
	assert.Contains(t, lines[3], "FAIL")
}

func TestPanel(t *testing.T) {
	out, _ := capture(t)

	Panel("Summary", "2/2 passed")

	s := out.String()
	assert.Contains(t, s, "Summary")
	assert.Contains(t, s, "2/2 passed")
	assert.Contains(t, s, "╭")
}
