package aimeta

import (
	"fmt"
	"io"
	"strconv"
)

// FieldDiff is a differing field of two records. Absent values are "N/A" / "-".
type FieldDiff struct {
	Field string `json:"field" yaml:"field" toml:"field"`
	Left  string `json:"left" yaml:"left" toml:"left"`
	Right string `json:"right" yaml:"right" toml:"right"`
}

var diffFields = []string{"prompt", "negative_prompt", "model", "sampler", "scheduler", "steps",
	"cfg_scale", "seed", "denoise", "vae"}

// Diff returns the differing fields of a and b, in field order. Prompts are compared whitespace collapsed.
// LoRAs are compared by name: "lora:<name>" entries for added, removed or reweighted ones.
func Diff(a, b *ImageMetadata) []FieldDiff {
	var diffs []FieldDiff
	for _, field := range diffFields {
		left, _ := a.Field(field)
		right, _ := b.Field(field)
		if left != right {
			diffs = append(diffs, FieldDiff{field, left, right})
		}
	}
	weights := map[string]float64{}
	for _, lora := range b.Loras {
		weights[lora.Name] = lora.Weight
	}
	seen := map[string]bool{}
	for _, lora := range a.Loras {
		seen[lora.Name] = true
		weight, ok := weights[lora.Name]
		if !ok {
			diffs = append(diffs, FieldDiff{"lora:" + lora.Name, formatWeight(lora.Weight), ""})
		} else if weight != lora.Weight {
			diffs = append(diffs, FieldDiff{"lora:" + lora.Name, formatWeight(lora.Weight), formatWeight(weight)})
		}
	}
	for _, lora := range b.Loras {
		if !seen[lora.Name] {
			diffs = append(diffs, FieldDiff{"lora:" + lora.Name, "", formatWeight(lora.Weight)})
		}
	}
	return diffs
}

func formatWeight(weight float64) string {
	return strconv.FormatFloat(weight, 'f', -1, 64)
}

// PrintDiff writes diffs as "field: left => right" lines.
func PrintDiff(output io.Writer, diffs []FieldDiff) error {
	for _, diff := range diffs {
		if _, err := fmt.Fprintf(output, "%s: %q => %q\n", diff.Field, diff.Left, diff.Right); err != nil {
			return err
		}
	}
	return nil
}
