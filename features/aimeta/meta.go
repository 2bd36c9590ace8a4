// Package aimeta extracts AI image generation metadata (prompts, sampler settings, LoRAs)
// from the raw text payloads that generation tools embed in image files.
package aimeta

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sagan/mapic/constants"
	"github.com/sagan/mapic/util/stringutil"
)

// Lora is a LoRA adapter reference and its applied weight.
type Lora struct {
	Name   string  `json:"name" yaml:"name" toml:"name"`
	Weight float64 `json:"weight" yaml:"weight" toml:"weight"`
}

func (l Lora) String() string {
	return fmt.Sprintf("%s (%s)", l.Name, strconv.FormatFloat(l.Weight, 'f', -1, 64))
}

// ImageMetadata is the generation metadata of one image.
// Absent prompts are "N/A", absent scalar fields are "-".
// Scalar fields are kept as the source text (e.g. "7.5", "euler_ancestral").
type ImageMetadata struct {
	Prompt         string `json:"prompt" yaml:"prompt" toml:"prompt" jsonschema_description:"Positive prompt"`
	NegativePrompt string `json:"negative_prompt" yaml:"negative_prompt" toml:"negative_prompt"`
	Model          string `json:"model" yaml:"model" toml:"model" jsonschema_description:"Checkpoint filename"`
	Sampler        string `json:"sampler" yaml:"sampler" toml:"sampler"`
	Scheduler      string `json:"scheduler" yaml:"scheduler" toml:"scheduler"`
	Steps          string `json:"steps" yaml:"steps" toml:"steps"`
	CfgScale       string `json:"cfg_scale" yaml:"cfg_scale" toml:"cfg_scale"`
	Seed           string `json:"seed" yaml:"seed" toml:"seed"`
	Denoise        string `json:"denoise" yaml:"denoise" toml:"denoise"`
	Vae            string `json:"vae" yaml:"vae" toml:"vae"`
	Loras          []Lora `json:"loras" yaml:"loras" toml:"loras"`
}

// Empty returns the canonical record of an image without (recognizable) metadata.
func Empty() *ImageMetadata {
	m := &ImageMetadata{}
	m.finalize()
	return m
}

// IsEmpty reports whether m carries no metadata at all.
func (m *ImageMetadata) IsEmpty() bool {
	return m.Prompt == constants.NA && m.NegativePrompt == constants.NA &&
		len(m.Loras) == 0 && m.Model == constants.NONE && m.Sampler == constants.NONE &&
		m.Scheduler == constants.NONE && m.Steps == constants.NONE && m.CfgScale == constants.NONE &&
		m.Seed == constants.NONE && m.Denoise == constants.NONE && m.Vae == constants.NONE
}

// CleanPrompt returns the whitespace collapsed positive prompt.
func (m *ImageMetadata) CleanPrompt() string {
	return stringutil.CollapseSpaces(m.Prompt)
}

// CleanNegativePrompt returns the whitespace collapsed negative prompt.
func (m *ImageMetadata) CleanNegativePrompt() string {
	return stringutil.CollapseSpaces(m.NegativePrompt)
}

// LorasString returns loras formatted as "name (weight), ...", or "-" if there is none.
func (m *ImageMetadata) LorasString() string {
	if len(m.Loras) == 0 {
		return constants.NONE
	}
	parts := make([]string, 0, len(m.Loras))
	for _, lora := range m.Loras {
		parts = append(parts, lora.String())
	}
	return strings.Join(parts, ", ")
}

// Field returns the value of a field by its json name, e.g. "prompt", "seed".
// The prompts are whitespace collapsed.
func (m *ImageMetadata) Field(name string) (string, error) {
	switch strings.ToLower(name) {
	case "prompt":
		return m.CleanPrompt(), nil
	case "negative_prompt", "negative":
		return m.CleanNegativePrompt(), nil
	case "model":
		return m.Model, nil
	case "sampler":
		return m.Sampler, nil
	case "scheduler":
		return m.Scheduler, nil
	case "steps":
		return m.Steps, nil
	case "cfg_scale", "cfg":
		return m.CfgScale, nil
	case "seed":
		return m.Seed, nil
	case "denoise":
		return m.Denoise, nil
	case "vae":
		return m.Vae, nil
	case "loras", "lora":
		return m.LorasString(), nil
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// finalize fills absent fields with placeholders.
func (m *ImageMetadata) finalize() {
	for _, field := range []*string{&m.Prompt, &m.NegativePrompt} {
		if strings.TrimSpace(*field) == "" {
			*field = constants.NA
		}
	}
	for _, field := range []*string{&m.Model, &m.Sampler, &m.Scheduler, &m.Steps, &m.CfgScale,
		&m.Seed, &m.Denoise, &m.Vae} {
		*field = strings.TrimSpace(*field)
		if *field == "" {
			*field = constants.NONE
		}
	}
	if m.Loras == nil {
		m.Loras = []Lora{}
	}
}

// PayloadKind is the recognized shape of a raw metadata payload.
type PayloadKind int

const (
	// Opaque payload, used as the prompt as a whole.
	KindOpaque PayloadKind = iota
	// JSON node graph (ComfyUI API prompt / workflow, optionally wrapped with Civitai "extraMetadata").
	KindNodeGraph
	// AUTOMATIC1111 style free text parameters block.
	KindFreeText
)

func (k PayloadKind) String() string {
	switch k {
	case KindNodeGraph:
		return "node_graph"
	case KindFreeText:
		return "free_text"
	default:
		return "opaque"
	}
}
