package metadata

import (
	"time"

	"github.com/On-Jun9/ShutterStamp/internal/filename"
)

var timestampFields = []struct {
	group Group
	tag   string
}{
	{GroupImage, "DateTime"},
	{GroupCapture, "DateTimeOriginal"},
	{GroupCapture, "DateTimeDigitized"},
}

// Writer merges a capture timestamp into a file's existing EXIF block.
type Writer struct {
	store BlockStore
}

func NewWriter(store BlockStore) *Writer {
	return &Writer{store: store}
}

// Write sets DateTime, DateTimeOriginal and DateTimeDigitized to ts and persists the file.
// A file whose existing EXIF cannot be read is written from an empty block instead.
func (w *Writer) Write(path string, ts time.Time) error {
	value := filename.Format(ts)

	block, _, err := w.loadOrEmpty(path)
	if err != nil {
		return err
	}

	for _, f := range timestampFields {
		if err := block.Set(f.group, f.tag, value); err != nil {
			return err
		}
	}

	return w.store.Save(block, path)
}

// loadOrEmpty reports fellBack when the existing block was unreadable and an empty one was substituted.
func (w *Writer) loadOrEmpty(path string) (block *Block, fellBack bool, err error) {
	block, loadErr := w.store.Load(path)
	if loadErr == nil {
		return block, false, nil
	}

	block, err = w.store.NewBlock()
	if err != nil {
		return nil, true, err
	}
	return block, true, nil
}
