package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func valid() Config {
	return Config{
		SourceDir:      "blogs_raw",
		OutputDir:      "blogs_parsed",
		PageTemplate:   "blog_template.html",
		IndexTemplate:  "blog_index_template.html",
		IndexOutput:    "site/blog_index.html",
		OverviewLength: 100,
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, valid().Validate())

	c := valid()
	c.SourceDir = ""
	assert.ErrorContains(t, c.Validate(), "sourceDir")

	c = valid()
	c.OverviewLength = 0
	assert.ErrorContains(t, c.Validate(), "overviewLength")

	c = valid()
	c.OutputDir = "./blogs_raw/"
	assert.ErrorContains(t, c.Validate(), "must differ")
}

func TestIndexDir(t *testing.T) {
	assert.Equal(t, "site", valid().IndexDir())
	c := valid()
	c.IndexOutput = "blog_index.html"
	assert.Equal(t, ".", c.IndexDir())
}
