package aimeta

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagan/mapic/features/exifreader"
	"github.com/sagan/mapic/util/testutil"
)

const a1111 = "best quality, 1girl, Negative prompt: blurry, Steps: 20, Sampler: Euler a, CFG scale: 7.5, Seed: 12345"

func TestExtractPng(t *testing.T) {
	dir := t.TempDir()
	extractor := NewExtractor(nil)

	comfy := testutil.WritePng(t, dir, "comfy.png",
		testutil.Chunk{Type: "tEXt", Key: "workflow", Value: `{"nodes": []}`},
		testutil.Chunk{Type: "tEXt", Key: "prompt", Value: titledGraph},
		testutil.Chunk{Type: "tEXt", Key: "parameters", Value: a1111},
	)
	m, err := extractor.ExtractFile(comfy)
	require.NoError(t, err)
	assert.Equal(t, "sdxl_base.safetensors", m.Model)
	assert.Equal(t, "42", m.Seed)

	forge := testutil.WritePng(t, dir, "forge.PNG", testutil.Chunk{Type: "iTXt", Key: "parameters", Value: a1111})
	m, err = extractor.ExtractFile(forge)
	require.NoError(t, err)
	assert.Equal(t, "best quality, 1girl", m.Prompt)
	assert.Equal(t, "12345", m.Seed)

	described := testutil.WritePng(t, dir, "described.png",
		testutil.Chunk{Type: "zTXt", Key: "Description", Value: "  a   watercolor fox "})
	m, err = extractor.ExtractFile(described)
	require.NoError(t, err)
	assert.Equal(t, "a watercolor fox", m.Prompt)
	assert.Equal(t, "-", m.Steps)

	plain := testutil.WritePng(t, dir, "plain.png", testutil.Chunk{Type: "tEXt", Key: "Software", Value: "GIMP"})
	m, err = extractor.ExtractFile(plain)
	require.NoError(t, err)
	assert.Equal(t, Empty(), m)
}

func TestExtractBrokenPng(t *testing.T) {
	dir := t.TempDir()
	name := testutil.WriteFile(t, dir, "fake.png", []byte("this is not a png"))
	m, err := NewExtractor(nil).ExtractFile(name)
	require.NoError(t, err)
	assert.Equal(t, Empty(), m)
}

func TestExtractTruncatedPng(t *testing.T) {
	dir := t.TempDir()
	data := testutil.PngBytes(t, 32, 24, testutil.Chunk{Type: "tEXt", Key: "prompt", Value: titledGraph})
	idat := bytes.Index(data, []byte("IDAT"))
	require.Greater(t, idat, 0)
	name := testutil.WriteFile(t, dir, "partial.png", data[:idat+10])

	m, err := NewExtractor(nil).ExtractFile(name)
	require.NoError(t, err)
	assert.Equal(t, "sdxl_base.safetensors", m.Model)
	assert.Equal(t, "42", m.Seed)

	cut := testutil.WriteFile(t, dir, "cut.png", data[:40])
	m, err = NewExtractor(nil).ExtractFile(cut)
	require.NoError(t, err)
	assert.Equal(t, Empty(), m)
}

func TestExtractJpeg(t *testing.T) {
	dir := t.TempDir()
	name := testutil.WriteJpeg(t, dir, "civitai.jpg", testutil.UserComment("ASCII", []byte(a1111)))
	noComment := testutil.WriteJpeg(t, dir, "camera.jpeg", nil)

	extractor := NewExtractor(exifreader.Chain{exifreader.GoExifLegacy{}})
	m, err := extractor.ExtractFile(name)
	require.NoError(t, err)
	assert.Equal(t, "blurry", m.NegativePrompt)
	assert.Equal(t, "7.5", m.CfgScale)

	m, err = extractor.ExtractFile(noComment)
	require.NoError(t, err)
	assert.Equal(t, Empty(), m)
}

func TestExtractJpegToolUnavailable(t *testing.T) {
	dir := t.TempDir()
	name := testutil.WriteJpeg(t, dir, "civitai.jpg", testutil.UserComment("ASCII", []byte(a1111)))
	et := exifreader.NewExiftool(filepath.Join(dir, "no-such-exiftool"))
	defer et.Close()

	extractor := NewExtractor(et)
	m, err := extractor.ExtractFile(name)
	require.NoError(t, err)
	assert.Equal(t, Empty(), m)

	_, err = extractor.Fetch(name)
	assert.ErrorIs(t, err, ErrNoMetadata)
	assert.ErrorIs(t, err, exifreader.ErrExiftoolUnavailable)
}

func TestExtractOtherFiles(t *testing.T) {
	dir := t.TempDir()
	extractor := NewExtractor(nil)

	webp := testutil.WriteFile(t, dir, "a.webp", []byte("RIFF"))
	m, err := extractor.ExtractFile(webp)
	require.NoError(t, err)
	assert.Equal(t, Empty(), m)
	_, err = extractor.Fetch(webp)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	missing := filepath.Join(dir, "missing.png")
	_, err = extractor.ExtractFile(missing)
	assert.Error(t, err)
	assert.Equal(t, Empty(), extractor.Extract(missing))

	_, err = extractor.ExtractFile(dir)
	assert.Error(t, err)
}
