package braw

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Template markers. ContentMarker is required by the layout loader; the others
// are substituted only when a page template contains them.
const (
	ContentMarker = "<!-- Insert Content Here -->"
	TitleMarker   = "<!-- Insert Title Here -->"
	AuthorMarker  = "<!-- Insert Author Here -->"
	DateMarker    = "<!-- Insert Date Here -->"
)

const (
	DefaultOverviewLength = 100
	DefaultThumbnail      = "img/no_thumbnail.png"
	TruncationMark        = "‥‥"
	IndexDateLayout       = "2006年01月02日"
)

// IndexOptions tune RenderIndexEntry. Zero values fall back to the defaults.
type IndexOptions struct {
	DefaultThumbnail string
	OverviewLength   int
}

func (o IndexOptions) withDefaults() IndexOptions {
	if o.DefaultThumbnail == "" {
		o.DefaultThumbnail = DefaultThumbnail
	}
	if o.OverviewLength <= 0 {
		o.OverviewLength = DefaultOverviewLength
	}
	return o
}

// RenderPage renders every content line and places the result in pageTemplate
// at ContentMarker. outputDir is the folder the page will be written to.
func RenderPage(doc *Document, outputDir, pageTemplate string) (string, error) {
	body, err := RenderContent(doc, outputDir)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", doc.SourcePath, err)
	}
	// Markers are filled before the body goes in, so body text that looks
	// like a marker stays as written.
	page := strings.Replace(pageTemplate, TitleMarker, doc.Title, 1)
	page = strings.Replace(page, AuthorMarker, doc.Metadata.Author, 1)
	page = strings.Replace(page, DateMarker, doc.Metadata.PublishDate.Format(DateLayout), 1)
	return FillTemplate(page, body), nil
}

// RenderContent translates the document lines to HTML, one element per line.
func RenderContent(doc *Document, outputDir string) (string, error) {
	sourceDir := doc.SourceDir()
	out := make([]string, 0, len(doc.Lines))
	for i, line := range doc.Lines {
		html, err := TranslateLine(line, sourceDir, outputDir)
		if err != nil {
			var le *LineError
			if errors.As(err, &le) {
				le.Index = i
			}
			return "", err
		}
		out = append(out, html)
	}
	return strings.Join(out, "\n"), nil
}

// FillTemplate replaces the first ContentMarker in tpl with content. A template
// without the marker is returned unchanged; internal/layout rejects such templates on load.
func FillTemplate(tpl, content string) string {
	return strings.Replace(tpl, ContentMarker, content, 1)
}

// TranslateLine renders a single content line. sourceDir is the folder image
// paths are relative to and outputDir the folder of the HTML that references them.
func TranslateLine(line, sourceDir, outputDir string) (string, error) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "!"):
		d, err := ParseDirective(line)
		if err != nil {
			return "", &LineError{Index: -1, Text: line, Err: err}
		}
		return renderDirective(d, line, sourceDir, outputDir)
	case strings.HasPrefix(line, "##"):
		return fmt.Sprintf(`<h3 class="subheading">%s</h3>`, strings.TrimSpace(line[2:])), nil
	case strings.HasPrefix(line, "#"):
		return fmt.Sprintf(`<h2 class="heading">%s</h2>`, strings.TrimSpace(line[1:])), nil
	default:
		return fmt.Sprintf("<p>%s</p>", line), nil
	}
}

func renderDirective(d Directive, line, sourceDir, outputDir string) (string, error) {
	switch d.Kind {
	case DirectiveImage:
		src, err := RelativeRef(filepath.Join(sourceDir, d.Arg), outputDir)
		if err != nil {
			return "", &LineError{Index: -1, Text: line, Err: err}
		}
		return fmt.Sprintf(`<img class="image" src="%s">`, src), nil
	default:
		return "", &LineError{Index: -1, Text: line, Err: fmt.Errorf("%w %q", ErrUnknownDirective, d.Word)}
	}
}

// RenderIndexEntry renders the index listing fragment for doc. indexDir is the
// folder of the index page and pagePath the location the page was written to.
func RenderIndexEntry(doc *Document, indexDir, pagePath string, opts IndexOptions) (string, error) {
	opts = opts.withDefaults()

	thumb := opts.DefaultThumbnail
	if doc.HasThumbnail() {
		rel, err := RelativeRef(doc.Thumbnail, indexDir)
		if err != nil {
			return "", fmt.Errorf("thumbnail of %s: %w", doc.SourcePath, err)
		}
		thumb = rel
	}
	href, err := RelativeRef(pagePath, indexDir)
	if err != nil {
		return "", fmt.Errorf("page link of %s: %w", doc.SourcePath, err)
	}

	var b strings.Builder
	b.WriteString("<div class=\"blog_container\">\n")
	fmt.Fprintf(&b, "<img class=\"blog_thumbnail\" src=\"%s\">\n", thumb)
	b.WriteString("<div>\n")
	fmt.Fprintf(&b, "<a class=\"blog_title\" href=\"%s\">%s</a>\n", href, doc.Title)
	fmt.Fprintf(&b, "<p class=\"blog_date\">%s</p>\n", doc.Metadata.PublishDate.Format(IndexDateLayout))
	fmt.Fprintf(&b, "<p>%s</p>\n", Overview(doc, opts.OverviewLength))
	b.WriteString("</div>\n")
	b.WriteString("</div>")
	return b.String(), nil
}

// Overview is the plain-text summary used in index entries: directives dropped,
// '#' removed, cut to n characters with TruncationMark appended when longer.
// A base character and its combining marks count as one character and are
// never split; the text itself is not normalized.
func Overview(doc *Document, n int) string {
	kept := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		if strings.HasPrefix(strings.TrimSpace(line), "!") {
			continue
		}
		kept = append(kept, strings.TrimSpace(strings.ReplaceAll(line, "#", "")))
	}
	text := strings.Join(kept, "\n")
	cut := 0
	for i := 0; i < n && cut < len(text); i++ {
		step := norm.NFC.NextBoundaryInString(text[cut:], true)
		if step <= 0 {
			step = len(text) - cut
		}
		cut += step
	}
	if cut >= len(text) {
		return text
	}
	return text[:cut] + TruncationMark
}

// RelativeRef expresses target relative to fromDir with forward slashes, for use
// in src and href attributes.
func RelativeRef(target, fromDir string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absFrom, err := filepath.Abs(fromDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absFrom, absTarget)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
