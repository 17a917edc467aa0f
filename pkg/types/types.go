// Package types defines core data structures used across ShutterStamp modules.
package types

import (
	"time"
)

// FileEntry represents a scanned JPEG file.
type FileEntry struct {
	// Path is the path to the file, joined from the scanned directory.
	Path string
	// Name is the base filename.
	Name string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the file modification time.
	ModTime time.Time
	// Extension is the lowercase file extension without dot (e.g., "jpg").
	Extension string
}

// Outcome is the per-file classification result of one processing attempt.
type Outcome string

const (
	OutcomeSuccess                 Outcome = "success"
	OutcomeFailed                  Outcome = "failed"
	OutcomeSkippedNoPattern        Outcome = "skipped_no_pattern"
	OutcomeSkippedAlreadyProcessed Outcome = "skipped_already_processed"
)

// FileResult is the report emitted for one file as soon as it is processed.
type FileResult struct {
	// Index is the 1-based position of the file within its directory batch.
	Index int `json:"index"`
	// Total is the number of JPEG files in the batch.
	Total int `json:"total"`
	// Entry is the processed file.
	Entry FileEntry `json:"-"`
	// Outcome is the classification assigned to the file.
	Outcome Outcome `json:"outcome"`
	// Timestamp is the EXIF datetime string written on success.
	Timestamp string `json:"timestamp,omitempty"`
	// Error contains the failure cause if Outcome is OutcomeFailed.
	Error string `json:"error,omitempty"`
}

// DirectoryTally counts outcomes for a single directory.
// There is no cross-directory aggregate; recursive runs return one tally per directory.
type DirectoryTally struct {
	Directory               string `json:"directory"`
	TotalFiles              int    `json:"total_files"`
	Success                 int    `json:"success"`
	Failed                  int    `json:"failed"`
	SkippedNoPattern        int    `json:"skipped_no_pattern"`
	SkippedAlreadyProcessed int    `json:"skipped_already_processed"`
}

// Record increments the counter matching outcome.
func (t *DirectoryTally) Record(outcome Outcome) {
	switch outcome {
	case OutcomeSuccess:
		t.Success++
	case OutcomeFailed:
		t.Failed++
	case OutcomeSkippedNoPattern:
		t.SkippedNoPattern++
	case OutcomeSkippedAlreadyProcessed:
		t.SkippedAlreadyProcessed++
	}
}
