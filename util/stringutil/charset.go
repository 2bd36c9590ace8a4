package stringutil

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	unicodeEncoding "golang.org/x/text/encoding/unicode"
)

var (
	ErrSeemsInvalid = fmt.Errorf("input seems not a valid string of specified charset")
)

// Key: IANA charset name (case sensitive) used by chardet.
var encodings = map[string]encoding.Encoding{
	"GB-18030":     simplifiedchinese.GB18030,
	"Big5":         traditionalchinese.Big5,
	"EUC-JP":       japanese.EUCJP, // GBK 字符串容易被误识别为 EUC-JP。
	"ISO-2022-JP":  japanese.ISO2022JP,
	"Shift_JIS":    japanese.ShiftJIS,
	"EUC-KR":       korean.EUCKR,
	"UTF-16BE":     unicodeEncoding.UTF16(unicodeEncoding.BigEndian, unicodeEncoding.IgnoreBOM),
	"UTF-16LE":     unicodeEncoding.UTF16(unicodeEncoding.LittleEndian, unicodeEncoding.IgnoreBOM),
	"ISO-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
}

func DecodeText(input []byte, charset string, force bool) ([]byte, error) {
	if charset == "UTF-8" {
		if !force && strings.ContainsRune(string(input), '�') {
			return input, ErrSeemsInvalid
		}
		return input, nil
	}
	if enc, ok := encodings[charset]; ok {
		output, err := enc.NewDecoder().Bytes(input)
		if !force && strings.ContainsRune(string(output), '�') { // U+FFFD, unicode REPLACEMENT CHARACTER
			return output, ErrSeemsInvalid
		}
		return output, err
	}
	return nil, fmt.Errorf("unsupported charset %s", charset)
}

// DetectCharset returns the IANA name of the most likely charset of input, e.g. "Shift_JIS".
func DetectCharset(input []byte) (string, error) {
	result, err := chardet.NewTextDetector().DetectBest(input)
	if err != nil {
		return "", err
	}
	return result.Charset, nil
}

// DecodeAuto converts input of unknown charset to a UTF-8 string.
// Valid UTF-8 (including pure ASCII) input is returned as is;
// otherwise the charset is detected and, if decoding fails, input is treated as latin-1.
func DecodeAuto(input []byte) string {
	if utf8.Valid(input) {
		return string(input)
	}
	if charset, err := DetectCharset(input); err == nil {
		if output, err := DecodeText(input, charset, false); err == nil {
			return string(output)
		}
	}
	output, _ := charmap.ISO8859_1.NewDecoder().Bytes(input)
	return string(output)
}
