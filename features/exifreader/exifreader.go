// Package exifreader reads the EXIF UserComment field of JPEG files, where AI generation tools
// (Civitai, ComfyUI savers, A1111 JPEG output) store their metadata payload.
package exifreader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sagan/mapic/constants"
)

var (
	// The file has no EXIF data or no UserComment tag.
	ErrNoUserComment = errors.New("no UserComment")
	// The exiftool binary can not be found or started.
	ErrExiftoolUnavailable = errors.New("exiftool unavailable")
)

// UserCommentReader reads the decoded UserComment text of a JPEG file.
type UserCommentReader interface {
	ReadUserComment(name string) (string, error)
}

// Reader is a UserCommentReader that holds resources (e.g. a subprocess) to release.
type Reader interface {
	UserCommentReader
	io.Closer
}

// Chain tries each reader in order and returns the first non-empty UserComment.
type Chain []UserCommentReader

func (c Chain) ReadUserComment(name string) (string, error) {
	var errs []error
	for _, reader := range c {
		comment, err := reader.ReadUserComment(name)
		if err == nil && strings.TrimSpace(comment) != "" {
			return comment, nil
		}
		if err == nil {
			err = ErrNoUserComment
		}
		errs = append(errs, fmt.Errorf("%T: %w", reader, err))
	}
	if len(errs) == 0 {
		return "", ErrNoUserComment
	}
	return "", errors.Join(errs...)
}

func (c Chain) Close() error {
	var errs []error
	for _, reader := range c {
		if closer, ok := reader.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}

// New returns the UserComment reader of mode:
//   - "exiftool": the exiftool subprocess only.
//   - "embedded": the built-in EXIF parsers only (go-exif, then goexif).
//   - "auto" (or anything else): exiftool if it's found, then the built-in parsers.
//
// The returned reader should be closed after use.
func New(mode string, exiftoolPath string) Reader {
	embedded := Chain{&GoExif{}, &GoExifLegacy{}}
	switch mode {
	case constants.EXIF_READER_EXIFTOOL:
		et := NewExiftool(exiftoolPath)
		if !et.Available() {
			log.Warnf("%q not found. JPEG metadata extraction will be disabled", exiftoolPath)
		}
		return Chain{et}
	case constants.EXIF_READER_EMBEDDED:
		return embedded
	default:
		et := NewExiftool(exiftoolPath)
		if !et.Available() {
			log.Debugf("%q not found, using the built-in EXIF parsers", exiftoolPath)
			return embedded
		}
		return append(Chain{et}, embedded...)
	}
}
