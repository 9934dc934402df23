// Package site runs a full blog build: it discovers one .braw source per
// folder, writes a page per document and assembles the index page.
package site

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ReCoderDojoEniwa/HomePage/internal/braw"
	"github.com/ReCoderDojoEniwa/HomePage/internal/config"
	"github.com/ReCoderDojoEniwa/HomePage/internal/errors"
	"github.com/ReCoderDojoEniwa/HomePage/internal/layout"
	"github.com/ReCoderDojoEniwa/HomePage/internal/logfields"
	"github.com/ReCoderDojoEniwa/HomePage/internal/model"
)

type Builder struct {
	cfg    config.Config
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Builder)

// WithClock sets the clock used for default publish dates and report timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

func NewBuilder(cfg config.Config, logger *slog.Logger, opts ...Option) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Builder{cfg: cfg, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type indexEntry struct {
	date time.Time
	html string
}

// run holds the state of one Build call.
type run struct {
	pageTpl *layout.Template
	titles  map[string]string // title -> folder that claimed it
	entries []indexEntry
}

// Build renders every discovered document. A failing document is recorded in
// the report and the run continues, unless FailFast is set. The returned error
// is non-nil only when the run was aborted.
func (b *Builder) Build(ctx context.Context) (*model.BuildReport, error) {
	report := model.NewBuildReport(b.now())
	defer func() { report.End = b.now() }()

	if err := b.cfg.Validate(); err != nil {
		return report, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "invalid configuration")
	}

	pageTpl, err := layout.Load(b.cfg.PageTemplate)
	if err != nil {
		return report, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "load page template").
			WithContext("path", b.cfg.PageTemplate)
	}
	indexTpl, err := layout.Load(b.cfg.IndexTemplate)
	if err != nil {
		return report, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "load index template").
			WithContext("path", b.cfg.IndexTemplate)
	}

	folders, err := discoverFolders(b.cfg.SourceDir)
	if err != nil {
		return report, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "discover source folders")
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return report, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "create output directory").
			WithContext("path", b.cfg.OutputDir)
	}
	b.logger.Info("Starting blog build",
		logfields.Path(b.cfg.SourceDir), logfields.Count(len(folders)))

	r := &run{pageTpl: pageTpl, titles: make(map[string]string)}
	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, errors.CategoryInternal, errors.SeverityFatal, "build cancelled")
		}
		res, failure := b.buildFolder(r, folder)
		report.Add(res)
		if failure != nil && b.cfg.FailFast {
			failure.Severity = errors.SeverityFatal
			return report, failure
		}
	}

	if err := b.writeIndex(indexTpl, r.entries); err != nil {
		return report, err
	}
	report.IndexPath = b.cfg.IndexOutput
	report.End = b.now()

	if b.cfg.ReportPath != "" {
		if err := report.Persist(b.cfg.ReportPath); err != nil {
			b.logger.Warn("Could not write build report", logfields.Path(b.cfg.ReportPath), logfields.Error(err))
		}
	}
	b.logger.Info("Blog build finished",
		logfields.Count(report.Count(model.StatusWritten)),
		slog.Int("failed", report.Count(model.StatusFailed)),
		slog.Int("skipped", report.Count(model.StatusSkipped)),
		logfields.DurationMS(float64(report.End.Sub(report.Start).Microseconds())/1000))
	return report, nil
}

// buildFolder processes one source folder. The returned error is set only when
// the document failed.
func (b *Builder) buildFolder(r *run, folder string) (model.DocumentResult, *errors.BuildError) {
	res := model.DocumentResult{Folder: folder}
	log := b.logger.With(logfields.Folder(folder))

	source, err := findSource(folder)
	if err != nil {
		res.Status = model.StatusSkipped
		res.Reason = err.Error()
		log.Warn("Skipping folder", logfields.Error(err))
		return res, nil
	}
	res.SourcePath = source

	doc, err := braw.ParseFile(source, b.now())
	switch {
	case err == nil:
	case stdErrors.Is(err, braw.ErrNotABlogSource):
		res.Status = model.StatusSkipped
		res.Reason = err.Error()
		log.Warn("Skipping folder", logfields.Error(err))
		return res, nil
	case braw.IsFatal(err):
		return b.fail(log, res, errors.Wrap(err, errors.CategoryParse, errors.SeverityError, "invalid blog source").
			WithContext("path", source))
	default:
		return b.fail(log, res, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "read blog source").
			WithContext("path", source))
	}

	res.Title = doc.Title
	res.Author = doc.Metadata.Author
	res.Date = doc.Metadata.PublishDate.Format(braw.DateLayout)

	if owner, dup := r.titles[doc.Title]; dup {
		return b.fail(log, res, errors.New(errors.CategoryParse, errors.SeverityError,
			fmt.Sprintf("duplicate title %q, already used by %s", doc.Title, owner)).WithContext("path", source))
	}

	pagePath := filepath.Join(b.cfg.OutputDir, doc.OutputName())
	page, err := braw.RenderPage(doc, b.cfg.OutputDir, r.pageTpl.Text())
	if err != nil {
		return b.fail(log, res, errors.Wrap(err, errors.CategoryRender, errors.SeverityError, "render page").
			WithContext("path", source))
	}
	entry, err := braw.RenderIndexEntry(doc, b.cfg.IndexDir(), pagePath, braw.IndexOptions{
		DefaultThumbnail: b.cfg.DefaultThumbnail,
		OverviewLength:   b.cfg.OverviewLength,
	})
	if err != nil {
		return b.fail(log, res, errors.Wrap(err, errors.CategoryRender, errors.SeverityError, "render index entry").
			WithContext("path", source))
	}
	if err := writeFileAtomic(pagePath, []byte(page+"\n")); err != nil {
		return b.fail(log, res, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "write page").
			WithContext("path", pagePath))
	}

	r.titles[doc.Title] = folder
	r.entries = append(r.entries, indexEntry{date: doc.Metadata.PublishDate, html: entry})
	res.OutputPath = pagePath
	res.Status = model.StatusWritten
	log.Info("Generated page", logfields.Title(doc.Title), logfields.Path(pagePath))
	return res, nil
}

func (b *Builder) fail(log *slog.Logger, res model.DocumentResult, err *errors.BuildError) (model.DocumentResult, *errors.BuildError) {
	res.Status = model.StatusFailed
	res.Category = string(err.Category)
	res.Reason = err.Error()
	log.Error("Document failed", logfields.Status(string(res.Status)), logfields.Error(err))
	return res, err
}

// writeIndex writes the index page with entries newest first; entries sharing a
// date keep folder order.
func (b *Builder) writeIndex(tpl *layout.Template, entries []indexEntry) error {
	slices.SortStableFunc(entries, func(x, y indexEntry) int {
		return y.date.Compare(x.date)
	})
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.html
	}
	if err := writeFileAtomic(b.cfg.IndexOutput, []byte(tpl.Fill(strings.Join(parts, "\n"))+"\n")); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "write index page").
			WithContext("path", b.cfg.IndexOutput)
	}
	b.logger.Info("Generated index", logfields.Path(b.cfg.IndexOutput), logfields.Count(len(entries)))
	return nil
}
