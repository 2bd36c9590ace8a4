package stringutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseSpaces(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"a  b", "a b"},
		{"\t masterpiece,\n\n best quality \r\n", "masterpiece, best quality"},
		{"1girl,\u3000solo", "1girl, solo"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := CollapseSpaces(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CollapseSpaces(got), "idempotent")
		})
	}
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Prompt: a cat, ", StripTags("Prompt: a cat, <lora:styleA:0.8>"))
	assert.Equal(t, "no tags", StripTags("no tags"))
	assert.Equal(t, "bold", StripTags("<b>bold</b>"))
	assert.Equal(t, "a < b", StripTags("a < b"))
}

func TestDecodeSurrogates(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "best quality", "best quality"},
		{"bmp escape", `caf\u00e9`, "café"},
		{"surrogate pair", `smile \ud83d\ude00!`, "smile \U0001F600!"},
		{"already decoded", "猫耳", "猫耳"},
		{"lone high surrogate", `bad \ud83d end`, `bad \ud83d end`},
		{"lone low surrogate", `bad \ude00 end`, `bad \ude00 end`},
		{"high followed by non surrogate", `\ud83d\u0041`, `\ud83d\u0041`},
		{"truncated escape", `\u12`, `\u12`},
		{"backslash only", `C:\users\x`, `C:\users\x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, DecodeSurrogates(tt.in))
			})
		})
	}
}

func TestDecodeText(t *testing.T) {
	utf16be := []byte{0x00, 'h', 0x00, 'i', 0x30, 0x42}
	out, err := DecodeText(utf16be, "UTF-16BE", false)
	require.NoError(t, err)
	assert.Equal(t, "hiあ", string(out))

	_, err = DecodeText([]byte("x"), "KOI8-R", false)
	assert.Error(t, err)
}

func TestDecodeAuto(t *testing.T) {
	assert.Equal(t, "masterpiece", DecodeAuto([]byte("masterpiece")))
	assert.Equal(t, "日本語", DecodeAuto([]byte("日本語")))
	assert.NotEmpty(t, DecodeAuto([]byte{0xE9, 't', 0xE9}))
}

func TestPrintStringInWidth(t *testing.T) {
	var buf bytes.Buffer
	remain := PrintStringInWidth(&buf, "猫耳girl", 5, true)
	assert.Equal(t, "猫耳g", buf.String())
	assert.Equal(t, "irl", remain)

	buf.Reset()
	PrintStringInWidth(&buf, "ab", 4, false)
	assert.Equal(t, "  ab", buf.String())
}

func TestContainsI(t *testing.T) {
	assert.True(t, ContainsI("Positive Prompt", "positive"))
	assert.False(t, ContainsI("CLIP Text Encode", "negative"))
}
