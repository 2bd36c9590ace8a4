package exifreader

import (
	"errors"
	"fmt"
	"os"

	exif "github.com/dsoprea/go-exif/v3"
	exifundefined "github.com/dsoprea/go-exif/v3/undefined"
	goexif "github.com/rwcarlsen/goexif/exif"
)

// GoExif reads UserComment with the built-in dsoprea/go-exif parser.
type GoExif struct{}

func (GoExif) ReadUserComment(name string) (comment string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("go-exif panic: %v", r)
		}
	}()
	rawExif, err := exif.SearchFileAndExtractExif(name)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return "", ErrNoUserComment
		}
		return "", err
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.TagId != 0x9286 {
			continue
		}
		if len(entry.ValueBytes) > 0 {
			return DecodeUserComment(entry.ValueBytes), nil
		}
		switch v := entry.Value.(type) {
		case exifundefined.Tag9286UserComment:
			return DecodeUserComment(v.EncodingBytes), nil
		case *exifundefined.Tag9286UserComment:
			return DecodeUserComment(v.EncodingBytes), nil
		case []byte:
			return DecodeUserComment(v), nil
		case string:
			return v, nil
		}
		return entry.Formatted, nil
	}
	return "", ErrNoUserComment
}

// GoExifLegacy reads UserComment with the built-in rwcarlsen/goexif parser.
type GoExifLegacy struct{}

func (GoExifLegacy) ReadUserComment(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	x, err := goexif.Decode(f)
	if err != nil {
		return "", err
	}
	tag, err := x.Get(goexif.UserComment)
	if err != nil {
		if goexif.IsTagNotPresentError(err) {
			return "", ErrNoUserComment
		}
		return "", err
	}
	return DecodeUserComment(tag.Val), nil
}
