package imgutil

import (
	"fmt"
	"image"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
	"github.com/muesli/smartcrop/nfnt"
)

// Read image data from input, detect it's format (png / jpg (jpeg) / webp / gif / bmp, etc),
// and convert to target format using best possible quality. Write converted image to output.
// ext : image format extension, with or without leading dot.
func ConvertFormat(input io.Reader, output io.Writer, ext string) error {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return fmt.Errorf("%s: %w", ext, err)
	}
	img, err := imaging.Decode(input, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	return imaging.Encode(output, img, format)
}

// Size returns the pixel dimensions of the image file without decoding the whole image.
func Size(name string) (width, height int, err error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	config, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return config.Width, config.Height, nil
}

// Thumbnail opens the image file and scales it down to fit within width x height,
// preserving the aspect ratio. EXIF orientation is applied. Smaller images are not enlarged.
func Thumbnail(name string, width, height int) (image.Image, error) {
	img, err := imaging.Open(name, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return FitImage(img, width, height), nil
}

// FitImage scales img down to fit within width x height.
func FitImage(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= width && bounds.Dy() <= height {
		return img
	}
	return imaging.Fit(img, width, height, imaging.Lanczos)
}

// SmartCropThumbnail opens the image file, finds the most interesting region of
// width:height aspect ratio (muesli/smartcrop) and scales it to exactly width x height.
func SmartCropThumbnail(name string, width, height int) (image.Image, error) {
	img, err := imaging.Open(name, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return SmartCrop(img, width, height)
}

func SmartCrop(img image.Image, width, height int) (image.Image, error) {
	analyzer := smartcrop.NewAnalyzer(nfnt.NewDefaultResizer())
	crop, err := analyzer.FindBestCrop(img, width, height)
	if err != nil {
		return nil, fmt.Errorf("smart crop: %w", err)
	}
	return imaging.Resize(imaging.Crop(img, crop), width, height, imaging.Lanczos), nil
}

// EncodeJpeg writes img to output as JPEG of quality.
func EncodeJpeg(output io.Writer, img image.Image, quality int) error {
	return imaging.Encode(output, img, imaging.JPEG, imaging.JPEGQuality(quality))
}
