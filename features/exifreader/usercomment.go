package exifreader

import (
	"bytes"
	"strings"

	"github.com/sagan/mapic/util/stringutil"
)

// The 8 bytes character code prefixes of the EXIF UserComment value.
var (
	prefixASCII     = []byte("ASCII\x00\x00\x00")
	prefixUnicode   = []byte("UNICODE\x00")
	prefixJIS       = []byte("JIS\x00\x00\x00\x00\x00")
	prefixUndefined = []byte("\x00\x00\x00\x00\x00\x00\x00\x00")
)

// DecodeUserComment decodes a raw EXIF UserComment value (8 bytes character code prefix + body) to text.
// UNICODE bodies are UTF-16, big endian unless the data looks little endian;
// ASCII and undefined bodies are used as UTF-8 if valid, otherwise their charset is detected.
// A value without a known prefix is decoded as a whole. Trailing NULs and spaces are trimmed.
func DecodeUserComment(raw []byte) string {
	var text string
	switch {
	case len(raw) >= 8 && bytes.Equal(raw[:8], prefixUnicode):
		text = decodeUTF16(raw[8:])
	case len(raw) >= 8 && bytes.Equal(raw[:8], prefixJIS):
		output, err := stringutil.DecodeText(raw[8:], "ISO-2022-JP", false)
		if err != nil {
			output, _ = stringutil.DecodeText(raw[8:], "Shift_JIS", true)
		}
		text = string(output)
	case len(raw) >= 8 && (bytes.Equal(raw[:8], prefixASCII) || bytes.Equal(raw[:8], prefixUndefined)):
		text = stringutil.DecodeAuto(raw[8:])
	default:
		text = stringutil.DecodeAuto(raw)
	}
	return strings.TrimRight(text, "\x00 \t\r\n")
}

func decodeUTF16(body []byte) string {
	charset := "UTF-16BE"
	switch {
	case bytes.HasPrefix(body, []byte{0xFF, 0xFE}):
		charset = "UTF-16LE"
		body = body[2:]
	case bytes.HasPrefix(body, []byte{0xFE, 0xFF}):
		body = body[2:]
	case looksLittleEndian(body):
		charset = "UTF-16LE"
	}
	output, _ := stringutil.DecodeText(body, charset, true)
	return string(output)
}

// looksLittleEndian reports whether mostly ASCII UTF-16 body has its zero bytes at odd offsets.
func looksLittleEndian(body []byte) bool {
	even, odd := 0, 0
	for i := 0; i+1 < len(body) && i < 512; i += 2 {
		if body[i] == 0 {
			even++
		}
		if body[i+1] == 0 {
			odd++
		}
	}
	return odd > even
}
