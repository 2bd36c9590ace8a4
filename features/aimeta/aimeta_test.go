package aimeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want PayloadKind
	}{
		{"node graph", ` {"3": {"class_type": "KSampler"}}`, KindNodeGraph},
		{"free text", "a cat\nNegative prompt: dog\nSteps: 20", KindFreeText},
		{"free text only seed", "a cat, Seed: 1", KindFreeText},
		{"broken json", `{"3": {"class_type": `, KindOpaque},
		{"broken json with labels", `{"a": broken, Steps: 20`, KindOpaque},
		{"dynamic prompt braces", `{a|b} cat, Steps: 20, Seed: 1`, KindOpaque},
		{"space separated labels", "a cat Steps: 20, Seed: 7", KindFreeText},
		{"json array", `["a", "b"]`, KindOpaque},
		{"caption", "a photo of a cat", KindOpaque},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _ := Classify(tt.raw)
			assert.Equal(t, tt.want, kind, kind.String())
		})
	}
}

func TestParseEmpty(t *testing.T) {
	assert.Equal(t, Empty(), Parse(""))
	assert.Equal(t, Empty(), Parse(" \n "))
	assert.True(t, Empty().IsEmpty())
	assert.Equal(t, &ImageMetadata{
		Prompt: "N/A", NegativePrompt: "N/A", Model: "-", Sampler: "-", Scheduler: "-", Steps: "-",
		CfgScale: "-", Seed: "-", Denoise: "-", Vae: "-", Loras: []Lora{},
	}, Empty())
}

func TestParseFreeText(t *testing.T) {
	m := Parse("best quality, 1girl, Negative prompt: blurry, Steps: 20, Sampler: Euler a, CFG scale: 7.5, Seed: 12345")
	assert.Equal(t, &ImageMetadata{
		Prompt:         "best quality, 1girl",
		NegativePrompt: "blurry",
		Model:          "-",
		Sampler:        "Euler a",
		Scheduler:      "-",
		Steps:          "20",
		CfgScale:       "7.5",
		Seed:           "12345",
		Denoise:        "-",
		Vae:            "-",
		Loras:          []Lora{},
	}, m)
}

func TestParseFreeTextSpaceSeparated(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		prompt   string
		negative string
		steps    string
		sampler  string
		seed     string
	}{
		{"steps after prompt", "a cat Steps: 20, Sampler: Euler a, Seed: 7", "a cat", "N/A", "20", "Euler a", "7"},
		{"negative after prompt", "masterpiece Negative prompt: ugly Steps: 30, Sampler: Euler, Seed: 5",
			"masterpiece", "ugly", "30", "Euler", "5"},
		{"tab before steps", "a dog\tSteps: 12, Seed: 3", "a dog", "N/A", "12", "-", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(tt.raw)
			assert.Equal(t, tt.prompt, m.Prompt)
			assert.Equal(t, tt.negative, m.NegativePrompt)
			assert.Equal(t, tt.steps, m.Steps)
			assert.Equal(t, tt.sampler, m.Sampler)
			assert.Equal(t, tt.seed, m.Seed)
		})
	}
}

func TestParseFreeTextInlineLoraSteps(t *testing.T) {
	m := Parse("<lora:styleA:0.8> a cat Steps: 1")
	assert.Equal(t, "1", m.Steps)
	assert.NotContains(t, m.Prompt, "Steps")
	assert.Equal(t, []Lora{{"styleA", 0.8}}, m.Loras)
}

func TestParseFreeTextFull(t *testing.T) {
	raw := "a cat,  <lora:x:0.5>\nNegative prompt: bad hands,\n  lowres\n" +
		"Steps: 20, Sampler: DPM++ 2M, Schedule type: Karras, CFG scale: 7, Seed: 99, Size: 512x768, " +
		"Model hash: abc, Model: realistic, Denoising strength: 0.3, VAE hash: def, VAE: vae.pt"
	m := Parse(raw)
	assert.Equal(t, &ImageMetadata{
		Prompt:         "a cat, <lora:x:0.5>",
		NegativePrompt: "bad hands, lowres",
		Model:          "realistic",
		Sampler:        "DPM++ 2M",
		Scheduler:      "Karras",
		Steps:          "20",
		CfgScale:       "7",
		Seed:           "99",
		Denoise:        "0.3",
		Vae:            "vae.pt",
		Loras:          []Lora{{"x", 0.5}},
	}, m)
}

func TestParseFreeTextNoNegative(t *testing.T) {
	m := Parse("masterpiece, 1girl,.\nSteps: 30, Seed: 5")
	assert.Equal(t, "masterpiece, 1girl", m.Prompt)
	assert.Equal(t, "N/A", m.NegativePrompt)
	assert.Equal(t, "30", m.Steps)
	assert.Equal(t, "5", m.Seed)
	assert.Equal(t, "-", m.Sampler)
}

func TestParseFreeTextResources(t *testing.T) {
	raw := `a dog, Steps: 10, Civitai resources: [{"type":"lora","modelName":"dogLora","weight":0.4}], ` +
		`"modelName":"dogModel" <lora:dogLora:0.6>`
	m := Parse(raw)
	assert.Equal(t, "a dog", m.Prompt)
	assert.Equal(t, "10", m.Steps)
	assert.Equal(t, "dogLora", m.Model)
	assert.Equal(t, []Lora{{"dogLora", 0.6}}, m.Loras)
}

func TestParseOpaque(t *testing.T) {
	m := Parse("  just   some\ncaption ")
	assert.Equal(t, "just some caption", m.Prompt)
	assert.Equal(t, "N/A", m.NegativePrompt)
	assert.Equal(t, "-", m.Seed)
	assert.Empty(t, m.Loras)

	m = Parse(`{"prompt": broken`)
	assert.Equal(t, `{"prompt": broken`, m.Prompt)
	assert.Equal(t, "-", m.Model)

	m = Parse(`{"a": broken, Steps: 20, Seed: 1`)
	assert.Equal(t, `{"a": broken, Steps: 20, Seed: 1`, m.Prompt)
	assert.Equal(t, "-", m.Steps)
	assert.Equal(t, "-", m.Seed)
}

const titledGraph = `{
  "4": {"class_type": "CheckpointLoaderSimple", "inputs": {"ckpt_name": "sdxl_base.safetensors"}},
  "7": {"class_type": "CLIPTextEncode", "_meta": {"title": "Negative Prompt"},
        "inputs": {"text": "blurry, lowres", "clip": ["4", 1]}},
  "6": {"class_type": "CLIPTextEncode", "_meta": {"title": "Positive Prompt"},
        "inputs": {"text": "a cat <lora:catStyle:0.7>", "clip": ["10", 1]}},
  "10": {"class_type": "LoraLoader",
         "inputs": {"lora_name": "detail.safetensors", "strength_model": 0.6, "strength_clip": 1, "model": ["4", 0]}},
  "3": {"class_type": "KSampler", "inputs": {"seed": 42, "steps": 30, "cfg": 6.5, "sampler_name": "dpmpp_2m",
        "scheduler": "karras", "denoise": 1.0, "model": ["10", 0]}}
}`

func TestParseTitledGraph(t *testing.T) {
	m := Parse(titledGraph)
	assert.Equal(t, &ImageMetadata{
		Prompt:         "a cat <lora:catStyle:0.7>",
		NegativePrompt: "blurry, lowres",
		Model:          "sdxl_base.safetensors",
		Sampler:        "dpmpp_2m",
		Scheduler:      "karras",
		Steps:          "30",
		CfgScale:       "6.5",
		Seed:           "42",
		Denoise:        "1.0",
		Vae:            "-",
		Loras:          []Lora{{"detail.safetensors", 0.6}, {"catStyle", 0.7}},
	}, m)
}

func TestParseTitledEncodersAnyOrder(t *testing.T) {
	positive := `"1": {"class_type": "smZ CLIPTextEncode", "_meta": {"title": "positive"}, "inputs": {"text": "sunset"}}`
	negative := `"2": {"class_type": "CLIPTextEncode", "_meta": {"title": "NEGATIVE"}, "inputs": {"text": "people"}}`
	for _, doc := range []string{
		"{" + positive + "," + negative + "}",
		"{" + negative + "," + positive + "}",
	} {
		m := Parse(doc)
		assert.Equal(t, "sunset", m.Prompt)
		assert.Equal(t, "people", m.NegativePrompt)
	}
}

func TestParseExtraMetadata(t *testing.T) {
	doc := `{
  "6": {"class_type": "smZ CLIPTextEncode", "_meta": {"title": "Positive"}, "inputs": {"text": "node positive"}},
  "extraMetadata": "{\"prompt\":\"extra positive\",\"negativePrompt\":\"extra negative\",\"steps\":25,\"cfgScale\":5,` +
		`\"sampler\":\"Euler a\",\"modelName\":\"extraModel\",\"resources\":[{\"type\":\"lora\",\"modelName\":\"civitLora\",\"weight\":0.9}]}",
  "3": {"class_type": "FaceDetailer", "inputs": {"steps": 12, "cfg": 4, "sampler_name": "euler", "seed": 7,
        "scheduler": "normal", "denoise": 0.4}}
}`
	m := Parse(doc)
	assert.Equal(t, &ImageMetadata{
		Prompt:         "node positive",
		NegativePrompt: "extra negative",
		Model:          "extraModel",
		Sampler:        "euler",
		Scheduler:      "normal",
		Steps:          "12",
		CfgScale:       "4",
		Seed:           "7",
		Denoise:        "0.4",
		Vae:            "-",
		Loras:          []Lora{{"civitLora", 0.9}},
	}, m)
}

func TestParseExtraMetadataSeedFallback(t *testing.T) {
	doc := `{
  "extraMetadata": "{\"prompt\":\"p\"}",
  "9": {"class_type": "SamplerCustom", "inputs": {"noise": {"seed": 31337}, "scheduler": "sgm_uniform"}}
}`
	m := Parse(doc)
	assert.Equal(t, "p", m.Prompt)
	assert.Equal(t, "31337", m.Seed)
	assert.Equal(t, "sgm_uniform", m.Scheduler)
	assert.Equal(t, "-", m.Steps)
}

func TestParsePlainGraph(t *testing.T) {
	doc := `{
  "1": {"inputs": {"text": "first text", "clip": ["2", 0]}, "class_type": "CLIPTextEncode"},
  "2": {"inputs": {"text": "second text"}, "class_type": "CLIPTextEncode"},
  "3": {"inputs": {"seed": ["9", 0], "steps": 20, "cfg": 8, "sampler_name": "euler", "scheduler": "normal", "denoise": 1}},
  "9": {"inputs": {"seed": 1234}},
  "5": {"inputs": {"ckpt_name": "model.ckpt", "vae": ["x", 2]}}
}`
	m := Parse(doc)
	assert.Equal(t, &ImageMetadata{
		Prompt:         "first text",
		NegativePrompt: "second text",
		Model:          "model.ckpt",
		Sampler:        "euler",
		Scheduler:      "normal",
		Steps:          "20",
		CfgScale:       "8",
		Seed:           "1234",
		Denoise:        "1",
		Vae:            "-",
		Loras:          []Lora{},
	}, m)
}

func TestParseGraphSurrogates(t *testing.T) {
	doc := `{"6": {"class_type": "CLIPTextEncode", "_meta": {"title": "Positive"},
  "inputs": {"text": "smile \\ud83d\\ude00"}}}`
	m := Parse(doc)
	assert.Equal(t, "smile \U0001F600", m.Prompt)
}

func TestInlineLoras(t *testing.T) {
	loras := MergeLoras(InlineLoras("<lora:styleA:0.8> <lora:styleA:1.2> <lora:styleB:0.5>"))
	assert.Equal(t, []Lora{{"styleA", 1.2}, {"styleB", 0.5}}, loras)

	assert.Equal(t, []Lora{{"noWeight", 1.0}, {"bad", 1.0}, {"clip", 0.4}},
		InlineLoras("<lora:noWeight> <lora:bad:x> <lora:clip:0.4:0.9>"))
	assert.Nil(t, InlineLoras("no tags <b>"))
}

func TestMergeLoras(t *testing.T) {
	merged := MergeLoras(
		[]Lora{{"a", 1}, {"b", 0.5}},
		nil,
		[]Lora{{"c", 0.2}, {"a", 0.3}},
	)
	assert.Equal(t, []Lora{{"a", 0.3}, {"b", 0.5}, {"c", 0.2}}, merged)
	assert.Equal(t, []Lora{}, MergeLoras())
}

func TestLoraFromObject(t *testing.T) {
	tests := []struct {
		json string
		want Lora
		ok   bool
	}{
		{`{"lora_name": "a.safetensors", "strength_model": 0.8}`, Lora{"a.safetensors", 0.8}, true},
		{`{"lora_name": "a", "strength_model": ["12", 0]}`, Lora{"a", 1.0}, true},
		{`{"lora_name": "a", "weight": "0.25"}`, Lora{"a", 0.25}, true},
		{`{"type": "lora", "modelName": "civit", "weight": 0.9}`, Lora{"civit", 0.9}, true},
		{`{"on": true, "lora": "power.safetensors", "strength": 0.7}`, Lora{"power.safetensors", 0.7}, true},
		{`{"lora_name": "no weight"}`, Lora{}, false},
		{`{"type": "checkpoint", "modelName": "x", "weight": 1}`, Lora{}, false},
		{`["lora_name", 1]`, Lora{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			lora, ok := loraFromObject(gjson.Parse(tt.json))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, lora)
		})
	}
}

func TestFindFirst(t *testing.T) {
	doc := gjson.Parse(`{"a": {"seed": ["1", 0], "b": [{"seed": 5}, {"seed": 6}]}, "seed": 7}`)
	v, ok := FindFirst(doc, "seed", IsScalar)
	assert.True(t, ok)
	assert.Equal(t, "5", v.Raw)

	v, ok = FindFirst(doc, "seed", nil)
	assert.True(t, ok)
	assert.True(t, v.IsArray())

	_, ok = FindFirst(doc, "steps", nil)
	assert.False(t, ok)

	assert.Len(t, FindAll(doc, "seed"), 4)
}

func TestWalkOrder(t *testing.T) {
	doc := gjson.Parse(`{"z": {"y": 1}, "a": [2, {"b": 3}]}`)
	var keys []string
	Walk(doc, func(key string, v gjson.Result) bool {
		keys = append(keys, key)
		return true
	})
	assert.Equal(t, []string{"", "z", "y", "a", "", "", "b"}, keys)
}

func TestMetadataHelpers(t *testing.T) {
	m := Parse(titledGraph)
	assert.Equal(t, "detail.safetensors (0.6), catStyle (0.7)", m.LorasString())
	assert.Equal(t, "-", Empty().LorasString())

	seed, err := m.Field("seed")
	assert.NoError(t, err)
	assert.Equal(t, "42", seed)
	negative, err := m.Field("negative")
	assert.NoError(t, err)
	assert.Equal(t, "blurry, lowres", negative)
	_, err = m.Field("size")
	assert.Error(t, err)
	assert.False(t, m.IsEmpty())
}
