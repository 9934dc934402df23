package cmd

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ReCoderDojoEniwa/HomePage/internal/config"
	"github.com/ReCoderDojoEniwa/HomePage/internal/errors"
	"github.com/ReCoderDojoEniwa/HomePage/internal/model"
)

func TestRelevantChange(t *testing.T) {
	root := t.TempDir()
	appConfig = config.Config{
		SourceDir:     filepath.Join(root, "blogs_raw"),
		OutputDir:     filepath.Join(root, "blogs_parsed"),
		PageTemplate:  filepath.Join(root, "blog_template.html"),
		IndexTemplate: filepath.Join(root, "blog_index_template.html"),
		IndexOutput:   filepath.Join(root, "blog_index.html"),
	}
	t.Cleanup(func() { appConfig = config.Config{} })

	ev := func(name string, op fsnotify.Op) fsnotify.Event { return fsnotify.Event{Name: name, Op: op} }

	assert.True(t, relevantChange(ev(filepath.Join(root, "blogs_raw", "post", "post.braw"), fsnotify.Write)))
	assert.True(t, relevantChange(ev(filepath.Join(root, "blogs_raw", "new"), fsnotify.Create)))
	assert.True(t, relevantChange(ev(filepath.Join(root, "blog_template.html"), fsnotify.Rename)))
	assert.False(t, relevantChange(ev(filepath.Join(root, "blog_index.html"), fsnotify.Write)))
	assert.False(t, relevantChange(ev(filepath.Join(root, "blogs_raw_backup", "x.braw"), fsnotify.Write)))
	assert.False(t, relevantChange(ev(filepath.Join(root, "blogs_raw", "post", "post.braw"), fsnotify.Chmod)))
}

func TestFailedDocumentsError(t *testing.T) {
	report := &model.BuildReport{Documents: []model.DocumentResult{
		{Folder: "a", Status: model.StatusWritten},
		{Folder: "b", SourcePath: "b/b.braw", Status: model.StatusFailed, Category: string(errors.CategoryParse), Reason: "bad date"},
	}}
	err := failedDocumentsError(report)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryParse))
	assert.False(t, errors.IsFatal(err))
	assert.Contains(t, err.Error(), "1 of 2 document(s) failed")

	assert.NoError(t, failedDocumentsError(&model.BuildReport{}))
}
