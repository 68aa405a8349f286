package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/docsentry/docsentry/internal/check"
)

func init() {
	// Keep assertions on plain text.
	color.NoColor = true
}

func TestShortenLongLink(t *testing.T) {
	t.Parallel()

	link := "https://example.com/" + strings.Repeat("a", 90) + "/middle/" + strings.Repeat("z", 80) + "/page.html"
	require.Greater(t, len(link), 200-1)

	short := Shorten(link, DisplayWidth)
	require.Len(t, []rune(short), DisplayWidth)
	require.Contains(t, short, "...")
	require.True(t, strings.HasPrefix(short, "https://example.com/"), "head preserved: %q", short)
	require.True(t, strings.HasSuffix(short, "/page.html"), "tail preserved: %q", short)
}

func TestShortenLeavesShortLinksAlone(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://e.com", Shorten("https://e.com", DisplayWidth))
	require.Equal(t, "abc", Shorten("abc", 2))
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "200", StatusLabel(check.Outcome{Status: 200}))
	require.Equal(t, "404", StatusLabel(check.Outcome{Status: 404}))
	require.Equal(t, "ERR", StatusLabel(check.Outcome{Err: errors.New("dns failure")}))
}

func TestRender(t *testing.T) {
	t.Parallel()

	reports := []check.FileReport{
		{SourceFile: "a.md", Outcomes: []check.Outcome{
			{Status: 200, Original: "https://example.com/ok", SourceFile: "a.md"},
			{Status: 404, Original: "./missing.md", SourceFile: "a.md"},
		}},
		{SourceFile: "b.md"},
	}
	summary := check.RunSummary{
		TotalLinks: 2,
		TotalFiles: 2,
		Failures:   []check.Outcome{{Status: 404, Original: "./missing.md", SourceFile: "a.md"}},
	}

	var buf bytes.Buffer
	Render(&buf, reports, summary)
	out := buf.String()

	require.Contains(t, out, "a.md")
	require.Contains(t, out, "b.md")
	require.Contains(t, out, "✓ 200  https://example.com/ok")
	require.Contains(t, out, "✗ 404  ./missing.md")
	require.Contains(t, out, "failing links")
	require.Contains(t, out, "2 links checked across 2 files, 1 failing")

	// Files appear in discovery order.
	require.Less(t, strings.Index(out, "a.md"), strings.Index(out, "b.md"))
}

func TestRenderNoFailuresSkipsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Render(&buf, []check.FileReport{{SourceFile: "a.md"}}, check.RunSummary{TotalFiles: 1})
	out := buf.String()

	require.NotContains(t, out, "failing links")
	require.Contains(t, out, "0 links checked across 1 files, 0 failing")
}
