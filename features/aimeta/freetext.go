package aimeta

import (
	"regexp"
	"strings"

	"github.com/sagan/mapic/util/stringutil"
)

var (
	negativeMarkerRegex = regexp.MustCompile(`(?i)Negative prompt:`)
	stepsMarkerRegex    = regexp.MustCompile(`\bSteps:`)
	modelNameRegex      = regexp.MustCompile(`"modelName"\s*:\s*"([^"]*)"`)
)

// labelRegex returns the pattern of a "Label: value" setting, value terminated at the next comma or line end.
// The label may follow any separator, e.g. "a cat Steps: 20".
func labelRegex(labels ...string) *regexp.Regexp {
	quoted := make([]string, 0, len(labels))
	for _, label := range labels {
		quoted = append(quoted, regexp.QuoteMeta(label))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `):[ \t]*([^,\n]*)`)
}

var freeTextLabels = []struct {
	regex *regexp.Regexp
	field func(m *ImageMetadata) *string
}{
	{labelRegex("Sampler"), func(m *ImageMetadata) *string { return &m.Sampler }},
	{labelRegex("CFG scale"), func(m *ImageMetadata) *string { return &m.CfgScale }},
	{labelRegex("Steps"), func(m *ImageMetadata) *string { return &m.Steps }},
	{labelRegex("Seed"), func(m *ImageMetadata) *string { return &m.Seed }},
	{labelRegex("Model"), func(m *ImageMetadata) *string { return &m.Model }},
	{labelRegex("Schedule type", "Scheduler"), func(m *ImageMetadata) *string { return &m.Scheduler }},
	{labelRegex("Denoising strength", "Denoise"), func(m *ImageMetadata) *string { return &m.Denoise }},
	{labelRegex("VAE"), func(m *ImageMetadata) *string { return &m.Vae }},
}

// extractFreeText extracts metadata from an AUTOMATIC1111 style parameters block:
//
//	<prompt>
//	Negative prompt: <negative prompt>
//	Steps: 20, Sampler: Euler a, CFG scale: 7, Seed: 1, Size: 512x768, Model: xxx
func extractFreeText(text string) *ImageMetadata {
	m := &ImageMetadata{}
	stepsIndex := -1
	if loc := stepsMarkerRegex.FindStringIndex(text); loc != nil {
		stepsIndex = loc[0]
	}

	if loc := negativeMarkerRegex.FindStringIndex(text); loc != nil {
		m.Prompt = text[:loc[0]]
		negative := text[loc[1]:]
		if end := stepsMarkerRegex.FindStringIndex(negative); end != nil {
			negative = negative[:end[0]]
		}
		m.NegativePrompt = strings.TrimRight(strings.TrimSpace(negative), ",")
	} else if stepsIndex >= 0 {
		m.Prompt = text[:stepsIndex]
	} else {
		m.Prompt = text
	}
	m.Prompt = strings.TrimRight(strings.TrimSpace(m.Prompt), ",.")
	m.Prompt = stringutil.CollapseSpaces(m.Prompt)
	m.NegativePrompt = stringutil.CollapseSpaces(m.NegativePrompt)

	// settings are searched after the last prompt text, so that labels inside prompts are ignored
	settings := text
	if stepsIndex >= 0 {
		settings = text[stepsIndex:]
	}
	for _, item := range freeTextLabels {
		match := item.regex.FindStringSubmatch(settings)
		if match == nil && stepsIndex >= 0 {
			match = item.regex.FindStringSubmatch(text)
		}
		if match != nil {
			*item.field(m) = strings.TrimSpace(match[1])
		}
	}
	if m.Model == "" {
		if match := modelNameRegex.FindStringSubmatch(text); match != nil {
			m.Model = match[1]
		}
	}

	m.Loras = MergeLoras(lorasFromText(text), InlineLoras(text))

	m.Prompt = stringutil.DecodeSurrogates(m.Prompt)
	m.NegativePrompt = stringutil.DecodeSurrogates(m.NegativePrompt)
	m.Model = stringutil.DecodeSurrogates(m.Model)
	return m
}

// extractOpaque uses the whole payload as the prompt.
func extractOpaque(raw string) *ImageMetadata {
	return &ImageMetadata{Prompt: stringutil.CollapseSpaces(raw)}
}
