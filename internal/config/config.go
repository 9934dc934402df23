package config

import (
	"fmt"
	"path/filepath"
)

type Config struct {
	SourceDir        string `mapstructure:"sourceDir"`
	OutputDir        string `mapstructure:"outputDir"`
	PageTemplate     string `mapstructure:"pageTemplate"`
	IndexTemplate    string `mapstructure:"indexTemplate"`
	IndexOutput      string `mapstructure:"indexOutput"`
	DefaultThumbnail string `mapstructure:"defaultThumbnail"`
	OverviewLength   int    `mapstructure:"overviewLength"`
	FailFast         bool   `mapstructure:"failFast"`
	ReportPath       string `mapstructure:"reportPath"`
	ServeRoot        string `mapstructure:"serveRoot"`
	Port             int    `mapstructure:"port"`
}

// Defaults mirrors the layout of a blog working directory: raw sources in
// blogs_raw/<post>/<post>.braw, pages in blogs_parsed/, the index next to them.
func Defaults() map[string]any {
	return map[string]any{
		"sourceDir":        "blogs_raw",
		"outputDir":        "blogs_parsed",
		"pageTemplate":     "blog_template.html",
		"indexTemplate":    "blog_index_template.html",
		"indexOutput":      "blog_index.html",
		"defaultThumbnail": "img/no_thumbnail.png",
		"overviewLength":   100,
		"failFast":         false,
		"reportPath":       "",
		"serveRoot":        ".",
		"port":             1313,
	}
}

func (c Config) Validate() error {
	required := []struct{ key, value string }{
		{"sourceDir", c.SourceDir},
		{"outputDir", c.OutputDir},
		{"pageTemplate", c.PageTemplate},
		{"indexTemplate", c.IndexTemplate},
		{"indexOutput", c.IndexOutput},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s must not be empty", r.key)
		}
	}
	if c.OverviewLength <= 0 {
		return fmt.Errorf("overviewLength must be positive, got %d", c.OverviewLength)
	}
	if filepath.Clean(c.SourceDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("sourceDir and outputDir must differ (%s)", c.SourceDir)
	}
	return nil
}

// IndexDir is the folder the index page is written to; index links are relative to it.
func (c Config) IndexDir() string {
	return filepath.Dir(c.IndexOutput)
}
