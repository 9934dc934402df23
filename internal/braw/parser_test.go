package braw

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parseNow = time.Date(2026, 3, 9, 22, 15, 0, 0, time.UTC)

func TestParse_Defaults(t *testing.T) {
	doc, err := Parse("# Hello\n\nSome text\n", "/blogs/hello/hello.braw", parseNow)
	require.NoError(t, err)

	assert.Equal(t, "hello", doc.Title)
	assert.Equal(t, DefaultAuthor, doc.Metadata.Author)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), doc.Metadata.PublishDate)
	assert.Equal(t, []string{"# Hello", "Some text"}, doc.Lines)
	assert.False(t, doc.HasThumbnail())
	assert.Equal(t, "hello.html", doc.OutputName())
	assert.Equal(t, "/blogs/hello", doc.SourceDir())
}

func TestParse_MetaPrefix(t *testing.T) {
	raw := "!meta:date 2024/01/15\r\n!meta:author Jane Doe\r\n\r\n# Title\r\nSome text\r\n"
	doc, err := Parse(raw, "post.braw", parseNow)
	require.NoError(t, err)

	assert.Equal(t, "Jane", doc.Metadata.Author)
	assert.Equal(t, "2024/01/15", doc.Metadata.PublishDate.Format(DateLayout))
	assert.Equal(t, []string{"# Title", "Some text"}, doc.Lines)
}

func TestParse_DateRoundTrip(t *testing.T) {
	for _, token := range []string{"2024/01/15", "2000/02/29", "1999/12/31", "2025/07/04"} {
		t.Run(token, func(t *testing.T) {
			doc, err := Parse("!meta:date "+token+"\nbody", "a.braw", parseNow)
			require.NoError(t, err)
			assert.Equal(t, token, doc.Metadata.PublishDate.Format(DateLayout))
		})
	}
}

func TestParse_MetaOnlyRecognizedAsPrefix(t *testing.T) {
	doc, err := Parse("intro\n!meta:author X\n", "a.braw", parseNow)
	require.NoError(t, err)

	assert.Equal(t, DefaultAuthor, doc.Metadata.Author)
	assert.Equal(t, []string{"intro", "!meta:author X"}, doc.Lines)

	_, err = RenderContent(doc, "out")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownDirective)
}

func TestParse_FatalMetaErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
		line int
	}{
		{name: "bad date format", raw: "!meta:date 2024-01-15\nx", want: ErrInvalidDate, line: 1},
		{name: "impossible date", raw: "!meta:date 2023/02/30\nx", want: ErrInvalidDate, line: 1},
		{name: "short date", raw: "!meta:date 2024/1/5\nx", want: ErrInvalidDate, line: 1},
		{name: "missing date", raw: "!meta:date\nx", want: ErrMissingMetaArgument, line: 1},
		{name: "missing author", raw: "!meta:date 2024/01/15\n!meta:author   \nx", want: ErrMissingMetaArgument, line: 2},
		{name: "unknown specifier", raw: "!meta:tags go\nx", want: ErrUnknownMetaSpecifier, line: 1},
		{name: "no colon", raw: "!meta author Jane\nx", want: ErrMalformedMeta, line: 1},
		{name: "empty specifier", raw: "\n\n!meta:\nx", want: ErrMalformedMeta, line: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw, "/src/post/post.braw", parseNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsFatal(err))

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, "/src/post/post.braw", pe.Path)
			assert.Contains(t, err.Error(), "/src/post/post.braw")
		})
	}
}

func TestParse_Thumbnail(t *testing.T) {
	raw := "!meta:author Jane\nintro\n!img  pics/cover.png \n!img pics/second.png\n"
	doc, err := Parse(raw, "/blogs/trip/trip.braw", parseNow)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/blogs/trip", "pics/cover.png"), doc.Thumbnail)
	// the thumbnail line is still content
	assert.Equal(t, []string{"intro", "!img  pics/cover.png ", "!img pics/second.png"}, doc.Lines)
}

func TestParse_NotABlogSource(t *testing.T) {
	for _, path := range []string{"post.md", "post", "dir/.braw"} {
		_, err := Parse("text", path, parseNow)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotABlogSource)
		assert.False(t, IsFatal(err))
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.braw")
	require.NoError(t, os.WriteFile(path, []byte("!meta:author Ken\nhi\n"), 0o644))

	doc, err := ParseFile(path, parseNow)
	require.NoError(t, err)
	assert.Equal(t, "note", doc.Title)
	assert.Equal(t, "Ken", doc.Metadata.Author)

	sub := filepath.Join(dir, "folder.braw")
	require.NoError(t, os.Mkdir(sub, 0o755))
	_, err = ParseFile(sub, parseNow)
	assert.ErrorIs(t, err, ErrNotABlogSource)

	_, err = ParseFile(filepath.Join(dir, "missing.braw"), parseNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, IsFatal(err))
}
