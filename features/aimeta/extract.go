package aimeta

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/sagan/mapic/features/exifreader"
	"github.com/sagan/mapic/features/pngtext"
	"github.com/sagan/mapic/util/pathutil"
)

var (
	// The image carries no generation metadata payload.
	ErrNoMetadata = errors.New("no metadata")
	// The image format can not carry a metadata payload (only PNG and JPEG do).
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Extractor reads the raw metadata payload of image files and extracts ImageMetadata from it.
// It's safe for concurrent use if the UserCommentReader is.
type Extractor struct {
	comments exifreader.UserCommentReader
}

// NewExtractor returns an Extractor that reads JPEG UserComment with comments.
// A nil comments disables JPEG metadata.
func NewExtractor(comments exifreader.UserCommentReader) *Extractor {
	return &Extractor{comments: comments}
}

// Fetch returns the raw metadata payload of the image file:
// the first present text chunk of pngtext.PayloadKeys for PNG, the EXIF UserComment for JPEG.
func (e *Extractor) Fetch(name string) (string, error) {
	switch {
	case pathutil.IsPng(name):
		metadata, err := pngtext.ReadFile(name)
		if errors.Is(err, pngtext.ErrTruncated) && len(metadata) > 0 {
			log.Debugf("%s: %v, using the text chunks before the truncation", name, err)
		} else if err != nil {
			return "", err
		}
		if _, value, ok := pngtext.Lookup(metadata); ok {
			return value, nil
		}
		return "", ErrNoMetadata
	case pathutil.IsJpeg(name):
		if e.comments == nil {
			return "", ErrNoMetadata
		}
		comment, err := e.comments.ReadUserComment(name)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNoMetadata, err)
		}
		return comment, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// ExtractFile extracts the metadata of the image file.
// It only fails if the file does not exist or can not be opened;
// an absent, unreadable or malformed payload yields the empty record.
func (e *Extractor) ExtractFile(name string) (*ImageMetadata, error) {
	stat, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", name)
	}
	raw, err := e.Fetch(name)
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err != nil {
		log.Debugf("%s: %v", name, err)
		return Empty(), nil
	}
	return Parse(raw), nil
}

// Extract is similar to ExtractFile but never fails: any error yields the empty record.
func (e *Extractor) Extract(name string) *ImageMetadata {
	m, err := e.ExtractFile(name)
	if err != nil {
		log.Debugf("%s: %v", name, err)
		return Empty()
	}
	return m
}
