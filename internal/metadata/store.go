package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	dexif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
)

// Group names an IFD within the EXIF tree, as a path from the root IFD.
type Group string

const (
	// GroupImage is IFD0, the image-level group (DateTime, Make, Software, ...).
	GroupImage Group = "IFD"
	// GroupCapture is the Exif sub-IFD (DateTimeOriginal, DateTimeDigitized, ...).
	GroupCapture Group = "IFD/Exif"
	// GroupGPS is the GPSInfo sub-IFD.
	GroupGPS Group = "IFD/GPSInfo"
)

// Block is the EXIF tree of one JPEG file, held only for the duration of an update.
// Tags that Set does not touch, including IFD1 and its thumbnail, are carried
// over from the existing chain unchanged.
type Block struct {
	root *dexif.IfdBuilder
}

// Set sets tagName in group to value, creating the group if it is absent.
func (b *Block) Set(group Group, tagName string, value interface{}) error {
	ib := b.root
	if group != GroupImage {
		child, err := dexif.GetOrCreateIbFromRootIb(b.root, string(group))
		if err != nil {
			return fmt.Errorf("resolve %s: %w", group, err)
		}
		ib = child
	}

	if err := ib.SetStandardWithName(tagName, value); err != nil {
		return fmt.Errorf("set %s %s: %w", group, tagName, err)
	}
	return nil
}

// BlockStore loads and saves EXIF blocks of JPEG files.
type BlockStore interface {
	Load(path string) (*Block, error)
	NewBlock() (*Block, error)
	Save(block *Block, path string) error
}

// Store reads and rewrites the APP1 EXIF segment of JPEG files.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// Load parses the JPEG at path and builds an editable copy of its EXIF tree.
// A JPEG without an EXIF segment yields an empty tree. An EXIF segment that
// cannot be parsed is reported as an error. Tags missing from the standard
// tag index are registered first so the rewrite keeps them.
func (s *Store) Load(path string) (*Block, error) {
	sl, err := parseJPEG(path)
	if err != nil {
		return nil, err
	}

	_, segment, err := sl.FindExif()
	if errors.Is(err, dexif.ErrNoExif) {
		return s.NewBlock()
	}
	if err != nil {
		return nil, fmt.Errorf("read EXIF: %w", err)
	}
	rawExif := segment.Data[len(exifHeader):]

	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, fmt.Errorf("build IFD mapping: %w", err)
	}
	ti := dexif.NewTagIndex()

	if err := registerUnknownTags(im, ti, rawExif); err != nil {
		return nil, fmt.Errorf("read EXIF: %w", err)
	}

	_, index, err := dexif.Collect(im, ti, rawExif)
	if err != nil {
		return nil, fmt.Errorf("read EXIF: %w", err)
	}

	return &Block{root: dexif.NewIfdBuilderFromExistingChain(index.RootIfd)}, nil
}

// NewBlock returns an empty EXIF tree. Groups with no entries are not encoded.
func (s *Store) NewBlock() (*Block, error) {
	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, fmt.Errorf("build IFD mapping: %w", err)
	}
	ti := dexif.NewTagIndex()

	rootIb := dexif.NewIfdBuilder(im, ti, exifcommon.IfdStandardIfdIdentity, exifcommon.EncodeDefaultByteOrder)
	return &Block{root: rootIb}, nil
}

// Save encodes block into the JPEG at path, replacing its EXIF segment or
// inserting one after SOI. The file is replaced atomically and keeps its mode.
func (s *Store) Save(block *Block, path string) error {
	if block == nil || block.root == nil {
		return errors.New("save EXIF: empty block")
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	sl, err := parseJPEG(path)
	if err != nil {
		return err
	}

	if err := sl.SetExif(block.root); err != nil {
		return fmt.Errorf("encode EXIF: %w", err)
	}

	var buf bytes.Buffer
	if err := sl.Write(&buf); err != nil {
		return fmt.Errorf("serialize JPEG: %w", err)
	}

	return replaceFile(path, buf.Bytes(), info.Mode().Perm())
}

var jpegSOI = []byte{0xFF, 0xD8}

// exifHeader prefixes the TIFF data inside an APP1 EXIF segment.
const exifHeader = "Exif\x00\x00"

func parseJPEG(path string) (*jpegstructure.SegmentList, error) {
	if err := checkSOI(path); err != nil {
		return nil, err
	}

	mc, err := jpegstructure.NewJpegMediaParser().ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse JPEG: %w", err)
	}

	sl, ok := mc.(*jpegstructure.SegmentList)
	if !ok {
		return nil, fmt.Errorf("parse JPEG: unexpected media context %T", mc)
	}
	return sl, nil
}

func checkSOI(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, len(jpegSOI))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, jpegSOI) {
		return fmt.Errorf("parse JPEG: %s is not a JPEG file", filepath.Base(path))
	}
	return nil
}

// replaceFile writes data next to path as a .part file and renames it over path.
func replaceFile(path string, data []byte, perm os.FileMode) error {
	partPath := path + ".part"

	f, err := os.OpenFile(partPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	err = f.Chmod(perm)
	if err == nil {
		_, err = f.Write(data)
	}
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partPath)
		return err
	}

	if err := os.Rename(partPath, path); err != nil {
		os.Remove(partPath)
		return err
	}
	return nil
}
