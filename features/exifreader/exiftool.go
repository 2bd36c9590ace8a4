package exifreader

import (
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	"github.com/barasher/go-exiftool"
	log "github.com/sirupsen/logrus"
)

// Exiftool reads UserComment through an exiftool subprocess (-stay_open mode),
// started on first use and shared by later calls until Close.
type Exiftool struct {
	binary string

	lookOnce  sync.Once
	available bool

	mu sync.Mutex
	et *exiftool.Exiftool
}

func NewExiftool(binary string) *Exiftool {
	return &Exiftool{binary: binary}
}

// Available reports whether the exiftool binary can be found.
func (e *Exiftool) Available() bool {
	e.lookOnce.Do(func() {
		_, err := exec.LookPath(e.binary)
		e.available = err == nil
	})
	return e.available
}

func (e *Exiftool) ReadUserComment(name string) (string, error) {
	if !e.Available() {
		return "", ErrExiftoolUnavailable
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.et == nil {
		et, err := exiftool.NewExiftool(exiftool.SetExiftoolBinaryPath(e.binary))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrExiftoolUnavailable, err)
		}
		e.et = et
	}
	metadatas := e.et.ExtractMetadata(name)
	if len(metadatas) == 0 {
		return "", ErrNoUserComment
	}
	metadata := metadatas[0]
	if metadata.Err != nil {
		return "", fmt.Errorf("exiftool %q: %w", name, metadata.Err)
	}
	value, ok := metadata.Fields["UserComment"]
	if !ok || value == nil {
		return "", ErrNoUserComment
	}
	return commentText(name, value), nil
}

// commentText converts the decoded exiftool JSON value of UserComment to text.
// exiftool outputs a numeric comment as a JSON number, which loses digits as float64,
// so the exact text is read again from the file with the embedded parsers.
func commentText(name string, value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if comment, err := (Chain{GoExif{}, GoExifLegacy{}}).ReadUserComment(name); err == nil && comment != "" {
			return comment
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		log.Debugf("exiftool %q: UserComment of type %T", name, value)
		return fmt.Sprint(v)
	}
}

// Close stops the exiftool subprocess, if started.
func (e *Exiftool) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.et == nil {
		return nil
	}
	err := e.et.Close()
	e.et = nil
	return err
}
