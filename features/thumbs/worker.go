package thumbs

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"slices"

	"github.com/natefinch/atomic"
	log "github.com/sirupsen/logrus"
	uberatomic "go.uber.org/atomic"

	"github.com/sagan/mapic/constants"
	"github.com/sagan/mapic/util"
	"github.com/sagan/mapic/util/imgutil"
	"github.com/sagan/mapic/util/pathutil"
)

const JPEG_QUALITY = 85

// Options of thumbnail generation.
type Options struct {
	Width  int
	Height int
	// Content-aware crop to exactly Width x Height instead of fitting inside it.
	SmartCrop bool
	// If true, thumbnails are also written as "<name>.thumb.jpg" files.
	Save bool
	// Dir of saved thumbnail files. Empty means next to the images.
	Dir string
	// Overwrite existing thumbnail files.
	Force bool
}

func (o *Options) normalize() {
	if o.Width <= 0 {
		o.Width = constants.DEFAULT_THUMBNAIL_WIDTH
	}
	if o.Height <= 0 {
		o.Height = constants.DEFAULT_THUMBNAIL_HEIGHT
	}
}

// Notification is sent once per processed file.
type Notification struct {
	File  string
	Index int // 1-based
	Total int
	// Saved thumbnail file path, if any.
	Output string
	Err    error
}

func (n Notification) String() string {
	return fmt.Sprintf("Thumbnail cache: %d / %d", n.Index, n.Total)
}

// Worker generates the thumbnails of files, one by one in sorted order.
// Abort stops it between two files.
type Worker struct {
	files         []string
	options       Options
	cache         *Cache
	aborted       *uberatomic.Bool
	notifications chan Notification
	done          chan struct{}
}

func NewWorker(files []string, cache *Cache, options Options) *Worker {
	files = slices.Clone(files)
	slices.Sort(files)
	options.normalize()
	return &Worker{
		files:         files,
		options:       options,
		cache:         cache,
		aborted:       uberatomic.NewBool(false),
		notifications: make(chan Notification, len(files)),
		done:          make(chan struct{}),
	}
}

// Notifications returns the channel of per file notifications. It's closed when the worker returns.
func (w *Worker) Notifications() <-chan Notification {
	return w.notifications
}

func (w *Worker) Files() []string {
	return w.files
}

func (w *Worker) Abort() {
	w.aborted.Store(true)
}

func (w *Worker) Aborted() bool {
	return w.aborted.Load()
}

// Done is closed when Run returns.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Run processes all files, unless aborted or ctx is canceled.
// Failures of single files are reported in notifications, not returned.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.done)
	defer close(w.notifications)
	for i, file := range w.files {
		if w.Aborted() {
			log.Debugf("thumbnail worker aborted at %d / %d", i, len(w.files))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		output, err := w.process(file)
		if err != nil {
			log.Debugf("%s: %v", file, err)
		}
		w.notifications <- Notification{File: file, Index: i + 1, Total: len(w.files), Output: output, Err: err}
	}
	return nil
}

func (w *Worker) process(file string) (output string, err error) {
	thumbnail, ok := w.cache.Get(file)
	if !ok {
		if w.options.SmartCrop {
			thumbnail, err = imgutil.SmartCropThumbnail(file, w.options.Width, w.options.Height)
		} else {
			thumbnail, err = imgutil.Thumbnail(file, w.options.Width, w.options.Height)
		}
		if err != nil {
			return "", err
		}
		w.cache.Add(file, thumbnail)
	}
	if !w.options.Save {
		return "", nil
	}
	output = pathutil.ThumbnailPath(file, w.options.Dir, constants.THUMBNAIL_SUFFIX)
	if !w.options.Force {
		if exists, err := util.FileExists(output); err != nil || exists {
			return output, err
		}
	}
	return output, save(output, thumbnail)
}

func save(output string, thumbnail image.Image) error {
	buf := &bytes.Buffer{}
	if err := imgutil.EncodeJpeg(buf, thumbnail, JPEG_QUALITY); err != nil {
		return err
	}
	return atomic.WriteFile(output, buf)
}
