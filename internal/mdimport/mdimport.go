// Package mdimport converts Markdown posts into .braw sources.
//
// Only what .braw can express survives: headings collapse to two levels,
// inline formatting is flattened to text, and images become standalone
// !img lines following the block they appeared in.
package mdimport

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/ReCoderDojoEniwa/HomePage/internal/braw"
)

var (
	ErrInvalidDate = errors.New("unrecognized front matter date")

	// ErrMultiWordAuthor is returned because !meta:author keeps only its first token.
	ErrMultiWordAuthor = errors.New("front matter author must be a single word")

	// ErrNonLocalImage is returned for remote or rooted image destinations; !img
	// paths always resolve against the post folder.
	ErrNonLocalImage = errors.New("image must be a path relative to the post")
)

// frontMatterDateFormats are tried in order.
var frontMatterDateFormats = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	braw.DateLayout,
}

type frontMatter struct {
	Date   string `yaml:"date" toml:"date" json:"date"`
	Author string `yaml:"author" toml:"author" json:"author"`
}

type converter struct {
	src   []byte
	lines []string
}

// Convert turns Markdown (with optional YAML, TOML or JSON front matter) into .braw source text.
func Convert(src []byte) (string, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return "", fmt.Errorf("parse front matter: %w", err)
	}

	c := &converter{src: body}
	if err := c.meta(fm); err != nil {
		return "", err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(body))
	if err := ast.Walk(doc, c.visit); err != nil {
		return "", err
	}
	return strings.Join(c.lines, "\n") + "\n", nil
}

func (c *converter) meta(fm frontMatter) error {
	if fm.Date != "" {
		date, err := parseFrontMatterDate(fm.Date)
		if err != nil {
			return err
		}
		c.lines = append(c.lines, "!meta:date "+date.Format(braw.DateLayout))
	}
	if author := strings.TrimSpace(fm.Author); author != "" {
		if len(strings.Fields(author)) > 1 {
			return fmt.Errorf("%w: %q", ErrMultiWordAuthor, author)
		}
		c.lines = append(c.lines, "!meta:author "+author)
	}
	return nil
}

func parseFrontMatterDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range frontMatterDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (c *converter) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	switch node := n.(type) {
	case *ast.Heading:
		txt, images := c.inline(node)
		marker := "##"
		if node.Level == 1 {
			marker = "#"
		}
		c.lines = append(c.lines, strings.TrimSpace(marker+" "+txt))
		return ast.WalkSkipChildren, c.images(images)
	case *ast.Paragraph, *ast.TextBlock:
		txt, images := c.inline(node)
		if txt != "" {
			c.lines = append(c.lines, escapeLine(txt))
		}
		return ast.WalkSkipChildren, c.images(images)
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		c.rawLines(node.Lines())
		return ast.WalkSkipChildren, nil
	case *east.TableHeader, *east.TableRow:
		var cells []string
		var images []string
		for cell := node.FirstChild(); cell != nil; cell = cell.NextSibling() {
			txt, imgs := c.inline(cell)
			cells = append(cells, txt)
			images = append(images, imgs...)
		}
		c.lines = append(c.lines, escapeLine(strings.Join(cells, " | ")))
		return ast.WalkSkipChildren, c.images(images)
	}
	return ast.WalkContinue, nil
}

// inline flattens the inline children of n to a single line and collects image destinations.
func (c *converter) inline(n ast.Node) (string, []string) {
	var b strings.Builder
	var images []string
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(util.UnescapePunctuations(node.Segment.Value(c.src)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.CodeSpan:
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if t, ok := child.(*ast.Text); ok {
					b.Write(t.Segment.Value(c.src))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.URL(c.src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				b.Write(seg.Value(c.src))
			}
		case *ast.Image:
			images = append(images, string(node.Destination))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " "), images
}

func (c *converter) images(dests []string) error {
	for _, d := range dests {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if !isLocalPath(d) {
			return fmt.Errorf("%w: %q", ErrNonLocalImage, d)
		}
		c.lines = append(c.lines, "!img "+d)
	}
	return nil
}

func isLocalPath(dest string) bool {
	if strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, `\`) {
		return false
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

func (c *converter) rawLines(segs *text.Segments) {
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		line := strings.TrimSpace(string(seg.Value(c.src)))
		if line != "" {
			c.lines = append(c.lines, escapeLine(line))
		}
	}
}

// escapeLine keeps body text from being read as a heading or directive. Paragraphs
// are emitted verbatim, so the entity renders as the original character.
func escapeLine(line string) string {
	switch {
	case strings.HasPrefix(line, "#"):
		return "&#35;" + line[1:]
	case strings.HasPrefix(line, "!"):
		return "&#33;" + line[1:]
	}
	return line
}
