package metadata

import (
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// TimestampStatus is the three-way result of inspecting a file's capture timestamp.
type TimestampStatus int

const (
	TimestampMissing TimestampStatus = iota
	TimestampPresent
	ReadError
)

func (s TimestampStatus) String() string {
	switch s {
	case TimestampPresent:
		return "present"
	case TimestampMissing:
		return "missing"
	case ReadError:
		return "read_error"
	default:
		return "unknown"
	}
}

// InspectResult reports whether a file already carries DateTimeOriginal.
// Err is set only when Status is ReadError.
type InspectResult struct {
	Status TimestampStatus
	Err    error
}

// HasTimestamp collapses the result with a fail-open policy:
// unreadable metadata counts as no timestamp so the file still gets a write attempt.
func (r InspectResult) HasTimestamp() bool {
	return r.Status == TimestampPresent
}

type Inspector struct{}

func NewInspector() *Inspector {
	return &Inspector{}
}

func (i *Inspector) Inspect(path string) InspectResult {
	f, err := os.Open(path)
	if err != nil {
		return InspectResult{Status: ReadError, Err: err}
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return InspectResult{Status: ReadError, Err: fmt.Errorf("no EXIF data: %w", err)}
	}

	if _, err := x.Get(exif.DateTimeOriginal); err == nil {
		return InspectResult{Status: TimestampPresent}
	}

	return InspectResult{Status: TimestampMissing}
}
