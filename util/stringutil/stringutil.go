package stringutil

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// HasAnySuffix reports whether str ends with any of suffixes.
func HasAnySuffix(str string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(str, suffix) {
			return true
		}
	}
	return false
}

func ContainsI(str string, substr string) bool {
	return strings.Contains(
		strings.ToLower(str),
		strings.ToLower(substr),
	)
}

// Return prefix of string at most width and actual width.
// ASCII char has 1 width. CJK char has 2 width.
func StringPrefixInWidth(str string, width int) (string, int) {
	strWidth := 0
	sb := &strings.Builder{}
	for _, char := range str {
		runeWidth := runewidth.RuneWidth(char)
		if strWidth+runeWidth > width {
			break
		}
		sb.WriteRune(char)
		strWidth += runeWidth
	}
	return sb.String(), strWidth
}

// PrintStringInWidth prints the prefix of str fitting in width, padded with spaces to width.
// It returns the remaining (not printed) part of str.
func PrintStringInWidth(output io.Writer, str string, width int, padRight bool) (remain string) {
	pstr, strWidth := StringPrefixInWidth(str, width)
	remain = str[len(pstr):]
	if padRight {
		pstr += strings.Repeat(" ", width-strWidth)
	} else {
		pstr = strings.Repeat(" ", width-strWidth) + pstr
	}
	fmt.Fprint(output, pstr)
	return
}

// CollapseSpaces replaces every run of whitespace (including line breaks) with a single space
// and trims both ends. CollapseSpaces(CollapseSpaces(s)) == CollapseSpaces(s).
func CollapseSpaces(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// /<[^>]*>/
var tagRegex = regexp.MustCompile(`<[^>]*>`)

// StripTags removes every "<...>" substring from str, e.g. "<lora:x:1>" or "<b>".
func StripTags(str string) string {
	return tagRegex.ReplaceAllString(str, "")
}

// /\\u[0-9a-fA-F]{4}/
var unicodeEscapeRegex = regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)

// DecodeSurrogates decodes literal "\uXXXX" escape sequences in str, including UTF-16 surrogate pairs
// (`\ud83d\ude00` => "\U0001F600"). If str contains a lone or malformed surrogate, str is returned unchanged.
// Other text, including non-ASCII chars, is kept as is.
func DecodeSurrogates(str string) string {
	if !strings.Contains(str, `\u`) {
		return str
	}
	locs := unicodeEscapeRegex.FindAllStringIndex(str, -1)
	if len(locs) == 0 {
		return str
	}
	sb := &strings.Builder{}
	last := 0
	for i := 0; i < len(locs); i++ {
		loc := locs[i]
		sb.WriteString(str[last:loc[0]])
		last = loc[1]
		r := escapeValue(str[loc[0]:loc[1]])
		if utf16.IsSurrogate(r) {
			if r >= 0xDC00 || i+1 >= len(locs) || locs[i+1][0] != loc[1] {
				return str
			}
			low := escapeValue(str[locs[i+1][0]:locs[i+1][1]])
			r = utf16.DecodeRune(r, low)
			if r == utf8.RuneError {
				return str
			}
			i++
			last = locs[i][1]
		}
		sb.WriteRune(r)
	}
	sb.WriteString(str[last:])
	return sb.String()
}

// escape is a `\uXXXX` string.
func escapeValue(escape string) rune {
	v, _ := strconv.ParseUint(escape[2:], 16, 32)
	return rune(v)
}
