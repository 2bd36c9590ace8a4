// Package report renders extracted image metadata: labeled text lines, ".txt" sidecars,
// CSV / XLSX folder exports and the themed HTML metadata page.
package report

import (
	"fmt"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/sagan/mapic/features/aimeta"
	"github.com/sagan/mapic/util/imgutil"
	"github.com/sagan/mapic/util/pathutil"
)

// Line is one labeled field of the metadata.
type Line struct {
	Label string
	Value string
}

func (l Line) String() string {
	return l.Label + ": " + l.Value
}

// Lines returns the labeled fields of m, prompts whitespace collapsed.
func Lines(m *aimeta.ImageMetadata) []Line {
	return []Line{
		{"Prompt", m.CleanPrompt()},
		{"Negative Prompt", m.CleanNegativePrompt()},
		{"Checkpoint", m.Model},
		{"Sampler", m.Sampler},
		{"Scheduler", m.Scheduler},
		{"Steps", m.Steps},
		{"CFG scale", m.CfgScale},
		{"Seed", m.Seed},
		{"Denoise", m.Denoise},
		{"VAE", m.Vae},
		{"LoRA", m.LorasString()},
	}
}

// SizeLine returns the "Size: W x H" line of the image.
func SizeLine(width, height int) Line {
	return Line{"Size", fmt.Sprintf("%d x %d", width, height)}
}

// Text returns the sidecar contents of image: one "Label: value" line per field,
// leading with the size line if the image can be decoded.
func Text(image string, m *aimeta.ImageMetadata) string {
	sb := &strings.Builder{}
	if width, height, err := imgutil.Size(image); err == nil {
		fmt.Fprintln(sb, SizeLine(width, height))
	}
	for _, line := range Lines(m) {
		fmt.Fprintln(sb, line)
	}
	return sb.String()
}

// SaveSidecar writes the metadata of image to its "X.txt" sibling, overwriting it.
// It returns the sidecar path.
func SaveSidecar(image string, m *aimeta.ImageMetadata) (string, error) {
	sidecar := pathutil.SidecarPath(image)
	if err := atomic.WriteFile(sidecar, strings.NewReader(Text(image, m))); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", sidecar, err)
	}
	return sidecar, nil
}
