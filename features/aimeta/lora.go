package aimeta

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// <lora:NAME:WEIGHT>, WEIGHT (and anything after it, e.g. a clip weight) optional.
var inlineLoraRegex = regexp.MustCompile(`<lora:([^:>]+)(?::([^:>]*))?[^>]*>`)

// A flat JSON object inside free text, e.g. a Civitai resource {"type":"lora","modelName":"x","weight":0.8}.
var jsonSnippetRegex = regexp.MustCompile(`\{[^{}]*\}`)

// Keys naming the LoRA of a key/weight node, in priority order.
var loraNameKeys = []string{"lora_name", "lora"}

// Keys holding the weight of a key/weight node, in priority order.
var loraWeightKeys = []string{"strength_model", "weight", "strength"}

// loraFromObject recognizes a key/weight LoRA node: an object with a LoRA name key
// ("lora_name", or "modelName" / "name" of a {"type":"lora"} resource) and a weight key.
// A weight that is not a number (e.g. a node link) counts as 1.0.
func loraFromObject(obj gjson.Result) (Lora, bool) {
	if !obj.IsObject() {
		return Lora{}, false
	}
	name := ""
	for _, key := range loraNameKeys {
		if v := obj.Get(key); v.Type == gjson.String && v.String() != "" {
			name = v.String()
			break
		}
	}
	if name == "" && strings.EqualFold(obj.Get("type").String(), "lora") {
		for _, key := range []string{"modelName", "name"} {
			if v := obj.Get(key); v.Type == gjson.String && v.String() != "" {
				name = v.String()
				break
			}
		}
	}
	if name == "" {
		return Lora{}, false
	}
	for _, key := range loraWeightKeys {
		v := obj.Get(key)
		if !v.Exists() {
			continue
		}
		return Lora{Name: name, Weight: parseWeight(v)}, true
	}
	return Lora{}, false
}

func parseWeight(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Float()
	case gjson.String:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64); err == nil {
			return f
		}
	}
	return 1.0
}

// lorasFromTree returns all key/weight LoRA nodes of a JSON document in pre-order.
func lorasFromTree(doc gjson.Result) (loras []Lora) {
	Walk(doc, func(_ string, v gjson.Result) bool {
		if lora, ok := loraFromObject(v); ok {
			loras = append(loras, lora)
		}
		return true
	})
	return loras
}

// stringsFromTree returns every string value of a JSON document in pre-order.
func stringsFromTree(doc gjson.Result) (strs []string) {
	Walk(doc, func(_ string, v gjson.Result) bool {
		if IsText(v) {
			strs = append(strs, v.String())
		}
		return true
	})
	return strs
}

// InlineLoras returns the <lora:NAME:WEIGHT> tags of text in order of appearance.
// A missing or unparsable WEIGHT counts as 1.0.
func InlineLoras(text string) (loras []Lora) {
	for _, match := range inlineLoraRegex.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(match[1])
		if name == "" {
			continue
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(match[2]), 64)
		if err != nil {
			weight = 1.0
		}
		loras = append(loras, Lora{Name: name, Weight: weight})
	}
	return loras
}

// lorasFromText returns the key/weight LoRA nodes found in JSON snippets embedded in text.
func lorasFromText(text string) (loras []Lora) {
	for _, snippet := range jsonSnippetRegex.FindAllString(text, -1) {
		if !gjson.Valid(snippet) {
			continue
		}
		if lora, ok := loraFromObject(gjson.Parse(snippet)); ok {
			loras = append(loras, lora)
		}
	}
	return loras
}

// MergeLoras merges lists of LoRAs, deduplicating by name.
// A name keeps the position of its first appearance and the weight of its last one.
func MergeLoras(lists ...[]Lora) []Lora {
	index := map[string]int{}
	merged := []Lora{}
	for _, list := range lists {
		for _, lora := range list {
			if i, ok := index[lora.Name]; ok {
				merged[i].Weight = lora.Weight
				continue
			}
			index[lora.Name] = len(merged)
			merged = append(merged, lora)
		}
	}
	return merged
}
