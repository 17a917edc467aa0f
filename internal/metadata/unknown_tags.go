package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"

	dexif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

const ifdEntrySize = 12

// registerUnknownTags walks the IFD chain in rawExif and adds every tag ID
// that ti does not know to ti, typed as found in the file. The enumerator
// drops unregistered tags, so this has to run before Collect with the same ti.
func registerUnknownTags(im *exifcommon.IfdMapping, ti *dexif.TagIndex, rawExif []byte) error {
	eh, err := dexif.ParseExifHeader(rawExif)
	if err != nil {
		return err
	}
	if err := dexif.LoadStandardTags(ti); err != nil {
		return fmt.Errorf("load tag index: %w", err)
	}

	w := &ifdWalker{
		im:      im,
		ti:      ti,
		data:    rawExif,
		order:   eh.ByteOrder,
		added:   make(map[*dexif.IndexedTag]bool),
		visited: make(map[uint32]bool),
	}
	return w.walk(exifcommon.IfdStandardIfdIdentity, eh.FirstIfdOffset)
}

type ifdWalker struct {
	im      *exifcommon.IfdMapping
	ti      *dexif.TagIndex
	data    []byte
	order   binary.ByteOrder
	added   map[*dexif.IndexedTag]bool
	visited map[uint32]bool
}

// walk visits the IFD at offset, its child IFDs and the IFDs chained after it.
func (w *ifdWalker) walk(ii *exifcommon.IfdIdentity, offset uint32) error {
	for offset != 0 {
		if w.visited[offset] {
			return nil
		}
		w.visited[offset] = true

		start := int(offset)
		if start < 0 || start+2 > len(w.data) {
			return fmt.Errorf("IFD %s at offset %d is out of range", ii, offset)
		}
		count := int(w.order.Uint16(w.data[start:]))
		end := start + 2 + count*ifdEntrySize
		if end+4 > len(w.data) {
			return fmt.Errorf("IFD %s at offset %d is truncated", ii, offset)
		}

		for i := 0; i < count; i++ {
			entry := w.data[start+2+i*ifdEntrySize:]
			if err := w.visitEntry(ii, entry); err != nil {
				return err
			}
		}

		offset = w.order.Uint32(w.data[end:])
		ii = ii.NewSibling(ii.Index() + 1)
	}
	return nil
}

func (w *ifdWalker) visitEntry(ii *exifcommon.IfdIdentity, entry []byte) error {
	tagID := w.order.Uint16(entry[0:])
	tagType := exifcommon.TagTypePrimitive(w.order.Uint16(entry[2:]))

	if mi, err := w.im.GetChild(ii.UnindexedString(), tagID); err == nil {
		parent := ii.IfdTag()
		child := ii.NewChild(exifcommon.NewIfdTag(&parent, tagID, mi.Name), 0)
		return w.walk(child, w.order.Uint32(entry[8:]))
	}

	// the enumerator skips invalid types on its own
	if !tagType.IsValid() {
		return nil
	}

	it, err := w.ti.Get(ii, tagID)
	if err == nil {
		if w.added[it] && !it.DoesSupportType(tagType) {
			it.SupportedTypes = append(it.SupportedTypes, tagType)
		}
		return nil
	}
	if !errors.Is(err, dexif.ErrTagNotFound) {
		return err
	}

	it = &dexif.IndexedTag{
		Id:             tagID,
		Name:           fmt.Sprintf("UnknownTag0x%04X", tagID),
		IfdPath:        ii.UnindexedString(),
		SupportedTypes: []exifcommon.TagTypePrimitive{tagType},
	}
	if err := w.ti.Add(it); err != nil {
		return fmt.Errorf("register tag 0x%04x in %s: %w", tagID, ii, err)
	}
	w.added[it] = true
	return nil
}
