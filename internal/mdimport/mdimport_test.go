package mdimport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ReCoderDojoEniwa/HomePage/internal/braw"
)

func TestConvert(t *testing.T) {
	src := `---
date: 2024-01-15
author: Jane
---
# Trip *report*

We went to the
**sea**. ![cover](pics/cover.png)

## Day 1

- swim
- eat
`
	got, err := Convert([]byte(src))
	require.NoError(t, err)

	want := "!meta:date 2024/01/15\n" +
		"!meta:author Jane\n" +
		"# Trip report\n" +
		"We went to the sea.\n" +
		"!img pics/cover.png\n" +
		"## Day 1\n" +
		"swim\n" +
		"eat\n"
	assert.Equal(t, want, got)
}

func TestConvert_WithoutFrontMatter(t *testing.T) {
	got, err := Convert([]byte("### Deep\n\nplain text\n"))
	require.NoError(t, err)
	assert.Equal(t, "## Deep\nplain text\n", got)
}

func TestConvert_EscapesMarkupLookalikes(t *testing.T) {
	got, err := Convert([]byte("#hashtag\n\n!bang\n\n```\n# not a heading\n!img nope\n```\n"))
	require.NoError(t, err)
	assert.Equal(t, "&#35;hashtag\n&#33;bang\n&#35; not a heading\n&#33;img nope\n", got)
}

func TestConvert_InvalidDate(t *testing.T) {
	_, err := Convert([]byte("---\ndate: last tuesday\n---\nbody\n"))
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestConvert_OutputParses(t *testing.T) {
	src := "---\ndate: 2023-07-04T10:00:00Z\nauthor: Ken\n---\n# Title\n\nText with ![a](a.png) image.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	out, err := Convert([]byte(src))
	require.NoError(t, err)

	doc, err := braw.Parse(out, "/raw/post/post.braw", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Ken", doc.Metadata.Author)
	assert.Equal(t, "2023/07/04", doc.Metadata.PublishDate.Format(braw.DateLayout))
	assert.Equal(t, "/raw/post/a.png", doc.Thumbnail)
	assert.Equal(t, []string{"# Title", "Text with image.", "!img a.png", "a | b", "1 | 2"}, doc.Lines)

	_, err = braw.RenderContent(doc, "/out")
	require.NoError(t, err)
}

func TestConvert_MultiWordAuthor(t *testing.T) {
	_, err := Convert([]byte("---\nauthor: Jane Doe\n---\nbody\n"))
	assert.ErrorIs(t, err, ErrMultiWordAuthor)

	out, err := Convert([]byte("---\nauthor: Jane_Doe\n---\nbody\n"))
	require.NoError(t, err)
	doc, err := braw.Parse(out, "/raw/post/post.braw", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Jane_Doe", doc.Metadata.Author)
}

func TestConvert_NonLocalImages(t *testing.T) {
	for _, dest := range []string{"https://example.com/a.png", "//cdn.example.com/a.png", "/static/a.png"} {
		t.Run(dest, func(t *testing.T) {
			_, err := Convert([]byte("text ![x](" + dest + ")\n"))
			assert.ErrorIs(t, err, ErrNonLocalImage)
		})
	}

	got, err := Convert([]byte("text ![x](pics/a.png)\n"))
	require.NoError(t, err)
	assert.Equal(t, "text\n!img pics/a.png\n", got)
}
