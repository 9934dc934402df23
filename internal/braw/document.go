// Package braw parses .braw blog sources and renders them to HTML.
//
// A .braw source is line oriented: an optional prefix of !meta directives,
// followed by headings ("# ", "## "), image directives ("!img path") and
// plain paragraph lines.
package braw

import (
	"path/filepath"
	"strings"
	"time"
)

// Extension is the file extension recognized as a blog source.
const Extension = ".braw"

// DefaultAuthor is used when a source has no !meta:author directive.
const DefaultAuthor = "Unknown"

// DateLayout is the layout of the !meta:date argument.
const DateLayout = "2006/01/02"

// Metadata holds the values set by !meta directives.
type Metadata struct {
	PublishDate time.Time
	Author      string
}

// Document is a parsed blog source. It is built once by Parse and only read afterwards.
type Document struct {
	Title      string
	Metadata   Metadata
	SourcePath string
	// Thumbnail is the first !img target joined to the source folder, or empty.
	Thumbnail string
	// Lines are the non-empty, non-meta lines in source order, untrimmed.
	Lines []string
}

// SourceDir is the folder holding the source file; relative assets resolve against it.
func (d *Document) SourceDir() string {
	return filepath.Dir(d.SourcePath)
}

func (d *Document) HasThumbnail() bool {
	return d.Thumbnail != ""
}

// OutputName is the file name of the rendered page.
func (d *Document) OutputName() string {
	return d.Title + ".html"
}

// civilDate truncates t to its calendar day in its own location, expressed as midnight UTC.
func civilDate(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
