package model

import (
	"fmt"
	"time"
)

// DocumentStatus is the outcome of one source folder in a build.
type DocumentStatus string

const (
	StatusWritten DocumentStatus = "written"
	StatusSkipped DocumentStatus = "skipped"
	StatusFailed  DocumentStatus = "failed"
)

// DocumentResult records what happened to a single source folder.
type DocumentResult struct {
	Folder     string         `yaml:"folder"`
	SourcePath string         `yaml:"source,omitempty"`
	Title      string         `yaml:"title,omitempty"`
	Date       string         `yaml:"date,omitempty"`
	Author     string         `yaml:"author,omitempty"`
	OutputPath string         `yaml:"output,omitempty"`
	Status     DocumentStatus `yaml:"status"`
	Category   string         `yaml:"category,omitempty"`
	Reason     string         `yaml:"reason,omitempty"`
}

// BuildReport summarizes a build run.
type BuildReport struct {
	Start     time.Time        `yaml:"start"`
	End       time.Time        `yaml:"end"`
	IndexPath string           `yaml:"index,omitempty"`
	Documents []DocumentResult `yaml:"documents"`
}

func NewBuildReport(start time.Time) *BuildReport {
	return &BuildReport{Start: start}
}

func (r *BuildReport) Add(res DocumentResult) {
	r.Documents = append(r.Documents, res)
}

// Count returns the number of documents with the given status.
func (r *BuildReport) Count(status DocumentStatus) int {
	n := 0
	for _, d := range r.Documents {
		if d.Status == status {
			n++
		}
	}
	return n
}

// Failed returns the failed documents in run order.
func (r *BuildReport) Failed() []DocumentResult {
	var out []DocumentResult
	for _, d := range r.Documents {
		if d.Status == StatusFailed {
			out = append(out, d)
		}
	}
	return out
}

func (r *BuildReport) Summary() string {
	return fmt.Sprintf("written=%d skipped=%d failed=%d duration=%s",
		r.Count(StatusWritten), r.Count(StatusSkipped), r.Count(StatusFailed), r.End.Sub(r.Start).Round(time.Millisecond))
}
