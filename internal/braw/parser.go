package braw

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	metaMarker      = "!meta"
	thumbnailMarker = "!img "
)

var datePattern = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`)

// ParseFile reads and parses the source at path. Paths that are not regular
// .braw files yield a ParseError wrapping ErrNotABlogSource.
func ParseFile(path string, now time.Time) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, &ParseError{Path: path, Err: ErrNotABlogSource}
	}
	if !isSourcePath(path) {
		return nil, &ParseError{Path: path, Err: ErrNotABlogSource}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(string(raw), path, now)
}

// Parse builds a Document from raw source text. now supplies the publish date
// when the source has no !meta:date directive.
func Parse(raw, sourcePath string, now time.Time) (*Document, error) {
	if !isSourcePath(sourcePath) {
		return nil, &ParseError{Path: sourcePath, Err: ErrNotABlogSource}
	}

	doc := &Document{
		Title:      titleFromPath(sourcePath),
		SourcePath: sourcePath,
		Metadata: Metadata{
			PublishDate: civilDate(now),
			Author:      DefaultAuthor,
		},
	}

	inMetaPrefix := true
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if inMetaPrefix {
			if isMetaLine(trimmed) {
				if err := applyMeta(&doc.Metadata, trimmed); err != nil {
					return nil, &ParseError{Path: sourcePath, Line: i + 1, Text: line, Err: err}
				}
				continue
			}
			inMetaPrefix = false
		}

		if !doc.HasThumbnail() {
			if rel, ok := strings.CutPrefix(trimmed, thumbnailMarker); ok {
				doc.Thumbnail = filepath.Join(doc.SourceDir(), strings.TrimSpace(rel))
			}
		}
		doc.Lines = append(doc.Lines, line)
	}

	return doc, nil
}

func isSourcePath(path string) bool {
	return filepath.Ext(path) == Extension && titleFromPath(path) != ""
}

// isMetaLine matches "!meta" followed by a colon, whitespace or nothing, so that
// "!meta date x" is reported as malformed rather than treated as content.
func isMetaLine(line string) bool {
	rest, ok := strings.CutPrefix(line, metaMarker)
	if !ok {
		return false
	}
	return rest == "" || rest[0] == ':' || rest[0] == ' ' || rest[0] == '\t'
}

func applyMeta(meta *Metadata, line string) error {
	rest, ok := strings.CutPrefix(strings.TrimPrefix(line, metaMarker), ":")
	if !ok {
		return ErrMalformedMeta
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ErrMalformedMeta
	}

	specifier, args := fields[0], fields[1:]
	switch specifier {
	case "date":
		if len(args) == 0 {
			return fmt.Errorf("date: %w", ErrMissingMetaArgument)
		}
		date, err := parseDate(args[0])
		if err != nil {
			return err
		}
		meta.PublishDate = date
	case "author":
		if len(args) == 0 {
			return fmt.Errorf("author: %w", ErrMissingMetaArgument)
		}
		meta.Author = args[0]
	default:
		return fmt.Errorf("%w %q", ErrUnknownMetaSpecifier, specifier)
	}
	return nil
}

func parseDate(token string) (time.Time, error) {
	if !datePattern.MatchString(token) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, token)
	}
	date, err := time.Parse(DateLayout, token)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, token)
	}
	return date, nil
}
