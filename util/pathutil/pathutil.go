package pathutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sagan/mapic/util/stringutil"
)

// Lowercase extensions of image files recognized in a folder scan.
var ImageExts = []string{".png", ".jpg", ".jpeg", ".webp"}

// IsImageFile reports whether name has one of ImageExts (case insensitive).
func IsImageFile(name string) bool {
	return stringutil.HasAnySuffix(strings.ToLower(name), ImageExts...)
}

// IsPng reports whether name has ".png" ext (case insensitive).
func IsPng(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".png")
}

// IsJpeg reports whether name has ".jpg" or ".jpeg" ext (case insensitive).
func IsJpeg(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".jpg" || ext == ".jpeg"
}

// ReplaceExt returns the sibling path of p with its ext replaced by ext. E.g. "a/b.png", ".txt" => "a/b.txt".
func ReplaceExt(p string, ext string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + ext
}

// SidecarPath returns the plain text sidecar path of an image: "X.ext" => "X.txt".
func SidecarPath(imagePath string) string {
	return ReplaceExt(imagePath, ".txt")
}

// ThumbnailPath returns the thumbnail file path of an image in dir: "X.ext" => "<dir>/X.thumb.jpg".
// If dir is empty, the thumbnail sits next to the image.
func ThumbnailPath(imagePath string, dir string, suffix string) string {
	name := ReplaceExt(filepath.Base(imagePath), suffix)
	if dir == "" {
		dir = filepath.Dir(imagePath)
	}
	return filepath.Join(dir, name)
}

// ListImages returns the paths of image files directly inside dir, sorted by filename.
// Hidden files (".xxx") and sub dirs are skipped.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !IsImageFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}
