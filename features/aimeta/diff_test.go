package aimeta

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	a := Parse("a  cat <lora:styleA:0.8> <lora:styleB:1>, Steps: 20, Seed: 1, Sampler: Euler a")
	b := Parse("a cat <lora:styleA:0.5> <lora:styleC:1>, Steps: 20, Seed: 2, Sampler: Euler a")

	diffs := Diff(a, b)
	require.Len(t, diffs, 5)
	assert.Equal(t, FieldDiff{"prompt", "a cat <lora:styleA:0.8> <lora:styleB:1>",
		"a cat <lora:styleA:0.5> <lora:styleC:1>"}, diffs[0])
	assert.Equal(t, FieldDiff{"seed", "1", "2"}, diffs[1])
	assert.Equal(t, FieldDiff{"lora:styleA", "0.8", "0.5"}, diffs[2])
	assert.Equal(t, FieldDiff{"lora:styleB", "1", ""}, diffs[3])
	assert.Equal(t, FieldDiff{"lora:styleC", "", "1"}, diffs[4])

	buf := &bytes.Buffer{}
	require.NoError(t, PrintDiff(buf, diffs[1:2]))
	assert.Equal(t, "seed: \"1\" => \"2\"\n", buf.String())

	assert.Empty(t, Diff(a, a))
	assert.Empty(t, Diff(Empty(), Empty()))
}
