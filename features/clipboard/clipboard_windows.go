//go:build windows

package clipboard

import (
	"bytes"
	"os"
	"sync"

	"golang.design/x/clipboard"

	"github.com/sagan/mapic/util/imgutil"
)

var (
	initializeOnce sync.Once
	clipboardError error
)

// Init initializes the clipboard. It's safe to call multiple times.
func Init() error {
	initializeOnce.Do(func() {
		clipboardError = clipboard.Init()
	})
	return clipboardError
}

func CopyString(str string) error {
	if err := Init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(str))
	return nil
}

// CopyImage copies the image file as png.
func CopyImage(name string) error {
	if err := Init(); err != nil {
		return err
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	buf := bytes.NewBuffer(nil)
	if err = imgutil.ConvertFormat(f, buf, "png"); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}
