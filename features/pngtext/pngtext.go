// Package pngtext reads the textual metadata chunks (tEXt, zTXt, iTXt) of PNG files.
package pngtext

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/sagan/mapic/util/stringutil"
)

var (
	ErrNotPNG = errors.New("not a valid PNG file")
	// Chunk larger than MaxChunkSize.
	ErrChunkTooLarge = errors.New("PNG chunk too large")
	// The file ends in the middle of a chunk.
	ErrTruncated = errors.New("truncated PNG file")
)

var pngSignature = []byte{137, 80, 78, 71, 13, 10, 26, 10}

// MaxChunkSize is the largest text chunk that is read into memory.
// Larger non-text chunks (IDAT) are skipped without reading.
const MaxChunkSize = 64 << 20

// Keys of the generation payload, in lookup priority order:
// ComfyUI "prompt", AUTOMATIC1111 "parameters", then generic description / comment.
var PayloadKeys = []string{"prompt", "parameters", "Description", "description", "comment", "Comment"}

// ReadTextChunks scans a PNG stream for text chunks without decoding the image,
// and returns the keyword => text map. A later chunk of the same keyword overwrites an earlier one.
// A malformed compressed chunk is skipped.
// If the stream ends in the middle of a chunk, the chunks read so far are returned with ErrTruncated.
func ReadTextChunks(f io.Reader) (map[string]string, error) {
	header := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(f, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrNotPNG
		}
		return nil, err
	}
	if !bytes.Equal(header, pngSignature) {
		return nil, ErrNotPNG
	}

	metadata := make(map[string]string)
	for {
		var length uint32
		if err := binary.Read(f, binary.BigEndian, &length); err != nil {
			if err == io.EOF {
				break
			}
			return truncated(metadata, err)
		}
		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(f, chunkType); err != nil {
			return truncated(metadata, err)
		}

		switch string(chunkType) {
		case "tEXt", "zTXt", "iTXt":
			if length > MaxChunkSize {
				return nil, fmt.Errorf("%s chunk of %d bytes: %w", chunkType, length, ErrChunkTooLarge)
			}
			data := make([]byte, length)
			if _, err := io.ReadFull(f, data); err != nil {
				return truncated(metadata, err)
			}
			key, value, err := decodeTextChunk(string(chunkType), data)
			if err != nil {
				log.Debugf("skip malformed %s chunk: %v", chunkType, err)
			} else if key != "" {
				metadata[key] = value
			}
			if _, err := io.CopyN(io.Discard, f, 4); err != nil {
				return truncated(metadata, err)
			}
		case "IEND":
			return metadata, nil
		default:
			if _, err := io.CopyN(io.Discard, f, int64(length)+4); err != nil {
				return truncated(metadata, err)
			}
		}
	}
	return metadata, nil
}

func truncated(metadata map[string]string, err error) (map[string]string, error) {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return metadata, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return nil, err
}

// ReadFile is similar to ReadTextChunks but reads the PNG file of name.
func ReadFile(name string) (map[string]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTextChunks(f)
}

// Lookup returns the value of the first present key among keys.
// If keys is empty, PayloadKeys is used.
func Lookup(metadata map[string]string, keys ...string) (key string, value string, ok bool) {
	if len(keys) == 0 {
		keys = PayloadKeys
	}
	for _, key := range keys {
		if value, ok := metadata[key]; ok {
			return key, value, true
		}
	}
	return "", "", false
}

func decodeTextChunk(chunkType string, data []byte) (key string, value string, err error) {
	keyword, rest, found := bytes.Cut(data, []byte{0})
	if !found {
		return "", "", fmt.Errorf("missing keyword separator")
	}
	key = latin1(keyword)
	switch chunkType {
	case "tEXt":
		// tEXt is Latin-1, but many tools write UTF-8.
		if utf8.Valid(rest) {
			return key, string(rest), nil
		}
		return key, latin1(rest), nil
	case "zTXt":
		if len(rest) < 1 {
			return "", "", fmt.Errorf("missing compression method")
		}
		text, err := inflate(rest[1:])
		if err != nil {
			return "", "", err
		}
		return key, latin1OrUtf8(text), nil
	default: // iTXt
		if len(rest) < 2 {
			return "", "", fmt.Errorf("missing compression flag")
		}
		compressed := rest[0] == 1
		rest = rest[2:]
		// language tag, translated keyword
		for range 2 {
			_, after, found := bytes.Cut(rest, []byte{0})
			if !found {
				return "", "", fmt.Errorf("malformed iTXt header")
			}
			rest = after
		}
		if compressed {
			if rest, err = inflate(rest); err != nil {
				return "", "", err
			}
		}
		return key, string(rest), nil
	}
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(io.LimitReader(r, MaxChunkSize))
}

func latin1(data []byte) string {
	text, _ := stringutil.DecodeText(data, "ISO-8859-1", true)
	return string(text)
}

func latin1OrUtf8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return latin1(data)
}
