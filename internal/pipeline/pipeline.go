package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/On-Jun9/ShutterStamp/internal/config"
	"github.com/On-Jun9/ShutterStamp/internal/filename"
	"github.com/On-Jun9/ShutterStamp/internal/log"
	"github.com/On-Jun9/ShutterStamp/internal/metadata"
	"github.com/On-Jun9/ShutterStamp/internal/scanner"
	"github.com/On-Jun9/ShutterStamp/internal/verify"
	"github.com/On-Jun9/ShutterStamp/pkg/types"
)

type timestampInspector interface {
	Inspect(path string) metadata.InspectResult
}

type timestampWriter interface {
	Write(path string, ts time.Time) error
}

type Pipeline struct {
	cfg              *config.Config
	scanner          *scanner.Scanner
	inspector        timestampInspector
	writer           timestampWriter
	verifier         *verify.Verifier
	logger           *log.Logger
	progressCallback ProgressCallback
}

func New(cfg *config.Config) (*Pipeline, error) {
	logger, err := log.New(cfg.LogFile, cfg.LogJSON, true)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		scanner:   scanner.New(cfg.IncludeExtensions),
		inspector: metadata.NewInspector(),
		writer:    metadata.NewWriter(metadata.NewStore()),
		verifier:  verify.New(cfg.Verify),
		logger:    logger,
	}, nil
}

func (p *Pipeline) SetProgressCallback(cb ProgressCallback) {
	p.progressCallback = cb
}

// SetOutput redirects the console status lines.
func (p *Pipeline) SetOutput(w io.Writer) {
	p.logger.SetConsole(w)
}

func (p *Pipeline) emit(update ProgressUpdate) {
	if p.progressCallback != nil {
		p.progressCallback(update)
	}
}

// Run processes cfg.Root, or every directory below it in recursive mode,
// and returns one tally per visited directory in visit order.
func (p *Pipeline) Run() ([]types.DirectoryTally, error) {
	root := p.cfg.Root

	if err := config.CheckRoot(root); err != nil {
		p.emit(ProgressUpdate{Type: "error", Error: err.Error()})
		return nil, err
	}

	p.logger.RunStart(root, p.cfg.ForceUpdate)
	p.logger.Info(fmt.Sprintf("Starting run: '%s' (force=%t, recursive=%t)", root, p.cfg.ForceUpdate, p.cfg.Recursive))
	p.emit(ProgressUpdate{
		Type:        "status",
		Message:     "Processing files in directory: " + root,
		Directory:   root,
		ForceUpdate: p.cfg.ForceUpdate,
	})

	dirs := []string{root}
	if p.cfg.Recursive {
		var err error
		dirs, err = scanner.Dirs(root)
		if err != nil {
			p.logger.Error("Failed to walk directory tree", err)
			p.emit(ProgressUpdate{Type: "error", Error: err.Error()})
			return nil, err
		}
	}

	tallies := make([]types.DirectoryTally, 0, len(dirs))
	for _, dir := range dirs {
		if p.cfg.Recursive {
			p.logger.Subdirectory(dir)
		}
		tallies = append(tallies, p.ProcessDirectory(dir, p.cfg.ForceUpdate))
	}

	p.emit(ProgressUpdate{Type: "complete", Tallies: tallies})

	return tallies, nil
}

// ProcessDirectory handles the matching files directly inside dir.
// Per-file failures are counted, never returned.
func (p *Pipeline) ProcessDirectory(dir string, forceUpdate bool) types.DirectoryTally {
	tally := types.DirectoryTally{Directory: dir}

	entries, err := p.scanner.Scan(dir)
	if err != nil {
		p.logger.Error("Failed to list directory '"+dir+"'", err)
		p.emit(ProgressUpdate{Type: "error", Directory: dir, Error: err.Error()})
		entries = nil
	}

	tally.TotalFiles = len(entries)
	p.logger.DirectoryStart(dir, len(entries))
	p.emit(ProgressUpdate{Type: "directory", Directory: dir, Total: len(entries)})

	for i, entry := range entries {
		result := p.processFile(entry, forceUpdate)
		result.Index = i + 1
		result.Total = len(entries)

		tally.Record(result.Outcome)
		p.logger.Progress(result)
		p.logger.LogResult(result)

		p.emit(ProgressUpdate{
			Type:      "progress",
			Directory: dir,
			Current:   result.Index,
			Total:     result.Total,
			Filename:  entry.Name,
			Outcome:   result.Outcome,
			Timestamp: result.Timestamp,
			Error:     result.Error,
		})
	}

	p.logger.Summary(tally)
	summary := tally
	p.emit(ProgressUpdate{Type: "summary", Directory: dir, Summary: &summary})

	return tally
}

func (p *Pipeline) processFile(entry types.FileEntry, forceUpdate bool) types.FileResult {
	result := types.FileResult{Entry: entry}

	if !forceUpdate {
		inspection := p.inspector.Inspect(entry.Path)
		if inspection.Status == metadata.ReadError {
			p.logger.Info(fmt.Sprintf("Unreadable EXIF in %s, treating as no timestamp: %v", entry.Name, inspection.Err))
		}
		if inspection.HasTimestamp() {
			result.Outcome = types.OutcomeSkippedAlreadyProcessed
			return result
		}
	}

	ts, ok := filename.Parse(entry.Name)
	if !ok {
		result.Outcome = types.OutcomeSkippedNoPattern
		return result
	}

	if !p.writeTimestamp(entry, ts, &result) {
		result.Outcome = types.OutcomeFailed
		return result
	}

	result.Outcome = types.OutcomeSuccess
	result.Timestamp = filename.Format(ts)
	return result
}

// writeTimestamp reports whether the write (and verification, if enabled) succeeded.
// On failure the cause is stored on result and logged.
func (p *Pipeline) writeTimestamp(entry types.FileEntry, ts time.Time, result *types.FileResult) bool {
	err := p.writer.Write(entry.Path, ts)
	if err == nil {
		err = p.verifier.Verify(entry.Path, filename.Format(ts))
	}
	if err != nil {
		result.Error = err.Error()
		p.logger.Error("Failed to set EXIF for "+entry.Name, err)
		return false
	}
	return true
}

func (p *Pipeline) Close() error {
	return p.logger.Close()
}
