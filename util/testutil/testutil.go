// Package testutil builds image fixtures for tests.
package testutil

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Chunk is a PNG text chunk fixture.
type Chunk struct {
	Type  string // "tEXt", "zTXt" or "iTXt"
	Key   string
	Value string
	// iTXt only
	Compressed bool
}

// Image returns a small gradient image.
func Image(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 7), uint8(y * 5), 90, 255})
		}
	}
	return img
}

// PngBytes encodes a width x height PNG with text chunks inserted after IHDR.
func PngBytes(t testing.TB, width, height int, chunks ...Chunk) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, Image(width, height)))
	data := buf.Bytes()
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	var out bytes.Buffer
	out.Write(data[:ihdrEnd])
	for _, chunk := range chunks {
		writeChunk(t, &out, chunk.Type, chunkData(t, chunk))
	}
	out.Write(data[ihdrEnd:])
	return out.Bytes()
}

// WritePng writes a PNG fixture named name into dir and returns its path.
func WritePng(t testing.TB, dir, name string, chunks ...Chunk) string {
	t.Helper()
	return WriteFile(t, dir, name, PngBytes(t, 32, 24, chunks...))
}

func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0644))
	return p
}

func chunkData(t testing.TB, chunk Chunk) []byte {
	var data bytes.Buffer
	data.WriteString(chunk.Key)
	data.WriteByte(0)
	switch chunk.Type {
	case "tEXt":
		data.WriteString(chunk.Value)
	case "zTXt":
		data.WriteByte(0)
		data.Write(deflate(t, []byte(chunk.Value)))
	case "iTXt":
		if chunk.Compressed {
			data.Write([]byte{1, 0})
		} else {
			data.Write([]byte{0, 0})
		}
		data.WriteString("en")
		data.WriteByte(0)
		data.WriteByte(0)
		if chunk.Compressed {
			data.Write(deflate(t, []byte(chunk.Value)))
		} else {
			data.WriteString(chunk.Value)
		}
	default:
		t.Fatalf("unsupported chunk type %q", chunk.Type)
	}
	return data.Bytes()
}

func deflate(t testing.TB, data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeChunk(t testing.TB, out *bytes.Buffer, chunkType string, data []byte) {
	require.NoError(t, binary.Write(out, binary.BigEndian, uint32(len(data))))
	out.WriteString(chunkType)
	out.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(chunkType))
	crc.Write(data)
	require.NoError(t, binary.Write(out, binary.BigEndian, crc.Sum32()))
}

// JpegBytes encodes a width x height JPEG. If userComment is not nil, an APP1 Exif segment
// holding a single UserComment tag (raw value, including the 8 bytes charset prefix) is inserted.
func JpegBytes(t testing.TB, width, height int, userComment []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, Image(width, height), &jpeg.Options{Quality: 80}))
	data := buf.Bytes()
	if userComment == nil {
		return data
	}
	tiff := exifTiff(userComment)
	var out bytes.Buffer
	out.Write(data[:2]) // SOI
	out.Write([]byte{0xFF, 0xE1})
	require.NoError(t, binary.Write(&out, binary.BigEndian, uint16(2+6+len(tiff))))
	out.WriteString("Exif\x00\x00")
	out.Write(tiff)
	out.Write(data[2:])
	return out.Bytes()
}

// UserComment returns a raw UserComment value of the charset prefix ("ASCII", "UNICODE", "JIS" or "")
// and body.
func UserComment(charset string, body []byte) []byte {
	prefix := make([]byte, 8)
	copy(prefix, charset)
	return append(prefix, body...)
}

// exifTiff builds a little endian TIFF structure: IFD0 with an Exif IFD pointer,
// Exif IFD with the UserComment (0x9286, UNDEFINED) tag.
func exifTiff(userComment []byte) []byte {
	le := binary.LittleEndian
	var b bytes.Buffer
	b.WriteString("II")
	binary.Write(&b, le, uint16(42))
	binary.Write(&b, le, uint32(8))
	// IFD0 at 8: 1 entry
	const exifIfdOffset = 8 + 2 + 12 + 4
	binary.Write(&b, le, uint16(1))
	binary.Write(&b, le, uint16(0x8769)) // ExifIFDPointer
	binary.Write(&b, le, uint16(4))      // LONG
	binary.Write(&b, le, uint32(1))
	binary.Write(&b, le, uint32(exifIfdOffset))
	binary.Write(&b, le, uint32(0))
	// Exif IFD: 1 entry
	const valueOffset = exifIfdOffset + 2 + 12 + 4
	binary.Write(&b, le, uint16(1))
	binary.Write(&b, le, uint16(0x9286)) // UserComment
	binary.Write(&b, le, uint16(7))      // UNDEFINED
	binary.Write(&b, le, uint32(len(userComment)))
	binary.Write(&b, le, uint32(valueOffset))
	binary.Write(&b, le, uint32(0))
	b.Write(userComment)
	if b.Len()%2 == 1 {
		b.WriteByte(0)
	}
	return b.Bytes()
}

// WriteJpeg writes a JPEG fixture named name into dir and returns its path.
func WriteJpeg(t testing.TB, dir, name string, userComment []byte) string {
	t.Helper()
	return WriteFile(t, dir, name, JpegBytes(t, 32, 24, userComment))
}
