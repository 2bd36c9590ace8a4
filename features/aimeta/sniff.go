package aimeta

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Labels of an AUTOMATIC1111 style parameters block.
var freeTextMarkerRegex = regexp.MustCompile(`(Steps|Negative prompt|Seed|CFG scale|Sampler|Model):`)

// Classify detects the shape of a raw metadata payload.
// For KindNodeGraph, the parsed JSON document is also returned.
//
// A payload that starts with "{" and is a valid JSON object is a node graph.
// A payload that starts with "{" but is not valid JSON is opaque.
// Otherwise, a payload with any parameters label ("Steps:", "Negative prompt:", ...) is free text.
// Everything else is opaque.
func Classify(raw string) (PayloadKind, gjson.Result) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		if doc, ok := parseDocument(trimmed); ok {
			return KindNodeGraph, doc
		}
		return KindOpaque, gjson.Result{}
	}
	if freeTextMarkerRegex.MatchString(raw) {
		return KindFreeText, gjson.Result{}
	}
	return KindOpaque, gjson.Result{}
}

// Parse classifies raw and extracts the metadata with the matching extractor.
// It never fails: an empty or unrecognized payload yields the canonical empty / opaque record.
func Parse(raw string) *ImageMetadata {
	if strings.TrimSpace(raw) == "" {
		return Empty()
	}
	var m *ImageMetadata
	kind, doc := Classify(raw)
	switch kind {
	case KindNodeGraph:
		m = extractNodeGraph(doc)
	case KindFreeText:
		m = extractFreeText(raw)
	default:
		m = extractOpaque(raw)
	}
	m.finalize()
	return m
}
