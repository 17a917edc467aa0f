package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/On-Jun9/ShutterStamp/pkg/types"
)

// Logger writes the run's status lines to the console and, optionally,
// text and/or JSON records to an append-only log file.
type Logger struct {
	mu      sync.Mutex
	console io.Writer
	file    *os.File
	logJSON bool
	logText bool
}

// New creates a Logger. An empty logFilePath gives a console-only logger.
func New(logFilePath string, logJSON, logText bool) (*Logger, error) {
	l := &Logger{
		console: os.Stdout,
		logJSON: logJSON,
		logText: logText,
	}
	if logFilePath == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	l.file = file

	return l, nil
}

// SetConsole redirects console output, e.g. to a buffer in tests.
func (l *Logger) SetConsole(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

type LogEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Level     string        `json:"level"`
	Message   string        `json:"message"`
	File      string        `json:"file,omitempty"`
	Outcome   types.Outcome `json:"outcome,omitempty"`
	ExifTime  string        `json:"exif_time,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// LogResult records one file's outcome in the log file.
func (l *Logger) LogResult(result types.FileResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   fmt.Sprintf("%s: %s", result.Outcome, result.Entry.Name),
		File:      result.Entry.Path,
		Outcome:   result.Outcome,
		ExifTime:  result.Timestamp,
	}

	if result.Error != "" {
		entry.Level = "ERROR"
		entry.Error = result.Error
	}

	l.writeEntry(entry)
}

func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   msg,
	}
	l.writeEntry(entry)
}

func (l *Logger) Error(msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "ERROR",
		Message:   msg,
		Error:     err.Error(),
	}
	l.writeEntry(entry)
}

func (l *Logger) writeEntry(entry LogEntry) {
	if l.logJSON && l.file != nil {
		data, _ := json.Marshal(entry)
		l.file.Write(data)
		l.file.Write([]byte("\n"))
	}

	if l.logText && l.file != nil {
		line := fmt.Sprintf("[%s] %s %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Level,
			entry.Message,
		)
		if entry.Error != "" {
			line = fmt.Sprintf("[%s] %s %s - Error: %s\n",
				entry.Timestamp.Format("2006-01-02 15:04:05"),
				entry.Level,
				entry.Message,
				entry.Error,
			)
		}
		l.file.WriteString(line)
	}
}

func (l *Logger) RunStart(root string, forceUpdate bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	force := "No"
	if forceUpdate {
		force = "Yes"
	}
	fmt.Fprintf(l.console, "Processing files in directory: %s\n", root)
	fmt.Fprintf(l.console, "Force update: %s\n", force)
}

// Subdirectory announces a directory visited in recursive mode.
func (l *Logger) Subdirectory(dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "\nProcessing subdirectory: %s\n", dir)
}

func (l *Logger) DirectoryStart(dir string, fileCount int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "Found %d JPG files in %s\n", fileCount, dir)
}

// Progress prints the one-line outcome of a file as soon as it is processed.
func (l *Logger) Progress(result types.FileResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := fmt.Sprintf("[%d/%d]", result.Index, result.Total)
	name := result.Entry.Name

	switch result.Outcome {
	case types.OutcomeSuccess:
		fmt.Fprintf(l.console, "%s Set EXIF datetime for %s: %s\n", prefix, name, result.Timestamp)
	case types.OutcomeFailed:
		fmt.Fprintf(l.console, "%s Failed to set EXIF for %s: %s\n", prefix, name, result.Error)
	case types.OutcomeSkippedNoPattern:
		fmt.Fprintf(l.console, "%s Skipped %s: pattern not found\n", prefix, name)
	case types.OutcomeSkippedAlreadyProcessed:
		fmt.Fprintf(l.console, "%s Skipped %s: already has EXIF datetime\n", prefix, name)
	}
}

func (l *Logger) Summary(tally types.DirectoryTally) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, "\nSummary:")
	fmt.Fprintf(l.console, "Total files: %d\n", tally.TotalFiles)
	fmt.Fprintf(l.console, "Success: %d\n", tally.Success)
	fmt.Fprintf(l.console, "Failed: %d\n", tally.Failed)
	fmt.Fprintf(l.console, "Skipped (no pattern): %d\n", tally.SkippedNoPattern)
	fmt.Fprintf(l.console, "Skipped (already processed): %d\n", tally.SkippedAlreadyProcessed)
}
