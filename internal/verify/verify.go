package verify

import (
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

var timestampFields = []exif.FieldName{
	exif.DateTime,
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
}

type Verifier struct {
	enabled bool
}

func New(enabled bool) *Verifier {
	return &Verifier{enabled: enabled}
}

func (v *Verifier) Enabled() bool {
	return v.enabled
}

// Verify re-reads path and checks that every timestamp field equals expected.
// It is a no-op when the verifier is disabled.
func (v *Verifier) Verify(path, expected string) error {
	if !v.enabled {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("written file not found: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return fmt.Errorf("failed to read back EXIF: %w", err)
	}

	for _, field := range timestampFields {
		tag, err := x.Get(field)
		if err != nil {
			return fmt.Errorf("%s missing after write", field)
		}
		got, err := tag.StringVal()
		if err != nil {
			return fmt.Errorf("%s unreadable after write: %w", field, err)
		}
		if got != expected {
			return fmt.Errorf("%s mismatch: expected %q, got %q", field, expected, got)
		}
	}

	return nil
}
