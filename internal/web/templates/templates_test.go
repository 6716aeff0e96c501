package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csv3d/internal/core"
)

func renderString(t *testing.T, fn func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fn(&buf))
	return buf.String()
}

func TestErrorAlert_Escapes(t *testing.T) {
	out := renderString(t, func(b *bytes.Buffer) error {
		return ErrorAlert("<script>x</script>", "Try again", "FILE006").Render(context.Background(), b)
	})
	assert.NotContains(t, out, "<script>x")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "Code: FILE006")
	assert.Contains(t, out, "Try again")
}

func TestErrorPage(t *testing.T) {
	out := renderString(t, func(b *bytes.Buffer) error {
		return ErrorPage("Session not found", "", "SES001").Render(context.Background(), b)
	})
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "Session not found")
	assert.NotContains(t, out, "<p></p>")
}

func TestIndexPage(t *testing.T) {
	out := renderString(t, func(b *bytes.Buffer) error {
		return IndexPage("50 MB").Render(context.Background(), b)
	})
	assert.Contains(t, out, `name="file"`)
	assert.Contains(t, out, "50 MB")
}

func TestSessionPage(t *testing.T) {
	ds, err := core.ParseString(context.Background(), "x,y,z,tag\n1,2,3,<b>\n4,,6,a\n", core.DefaultParseOptions())
	require.NoError(t, err)

	sess := core.Session{FileName: "points.csv", FileSize: 1536, Dataset: ds, Mapping: core.SuggestMapping(ds)}
	out := renderString(t, func(b *bytes.Buffer) error {
		return SessionPage(sess.View(), ds.RowObjects(0, 10)).Render(context.Background(), b)
	})

	assert.Contains(t, out, "<title>points.csv</title>")
	assert.Contains(t, out, "1.5 KB, 2 rows, 4 columns")
	assert.Contains(t, out, "Ready to plot.")
	assert.Contains(t, out, "&lt;b&gt;")
	assert.Contains(t, out, `<span class="muted">null</span>`)
	assert.Contains(t, out, `<span class="muted">unset</span>`, "color is not mapped")
}

func TestSessionPage_NotPlottable(t *testing.T) {
	ds, err := core.ParseString(context.Background(), "name,age\nAlice,25\n", core.DefaultParseOptions())
	require.NoError(t, err)

	sess := core.Session{FileName: "people.csv", Dataset: ds}
	out := renderString(t, func(b *bytes.Buffer) error {
		return SessionPage(sess.View(), nil).Render(context.Background(), b)
	})
	assert.Contains(t, out, "This dataset cannot be plotted")
	assert.Contains(t, out, "At least 3 numeric columns are required")
	assert.NotContains(t, out, "<h2>Preview</h2>")
}
