package aimeta

import (
	"github.com/tidwall/gjson"

	"github.com/sagan/mapic/util/stringutil"
)

// ComfyUI node class types recognized by the titled node scan.
var (
	textEncoderClasses = map[string]bool{
		"CLIPTextEncode":             true,
		"smZ CLIPTextEncode":         true,
		"CLIPTextEncodeSDXL":         true,
		"BNK_CLIPTextEncodeAdvanced": true,
	}
	checkpointLoaderClasses = map[string]bool{
		"CheckpointLoaderSimple": true,
		"CheckpointLoader":       true,
	}
	samplerClasses = map[string]bool{
		"FaceDetailer":     true,
		"KSampler":         true,
		"KSamplerAdvanced": true,
	}
	vaeLoaderClasses = map[string]bool{
		"VAELoader": true,
	}
)

// Sampler node input name => field.
var samplerInputs = []struct {
	input string
	field func(m *ImageMetadata) *string
}{
	{"steps", func(m *ImageMetadata) *string { return &m.Steps }},
	{"cfg", func(m *ImageMetadata) *string { return &m.CfgScale }},
	{"sampler_name", func(m *ImageMetadata) *string { return &m.Sampler }},
	{"seed", func(m *ImageMetadata) *string { return &m.Seed }},
	{"noise_seed", func(m *ImageMetadata) *string { return &m.Seed }},
	{"scheduler", func(m *ImageMetadata) *string { return &m.Scheduler }},
	{"denoise", func(m *ImageMetadata) *string { return &m.Denoise }},
}

// Whole tree key => field, used by plain graphs and the fallback lookup.
var treeKeys = []struct {
	key   string
	field func(m *ImageMetadata) *string
}{
	{"ckpt_name", func(m *ImageMetadata) *string { return &m.Model }},
	{"sampler_name", func(m *ImageMetadata) *string { return &m.Sampler }},
	{"scheduler", func(m *ImageMetadata) *string { return &m.Scheduler }},
	{"steps", func(m *ImageMetadata) *string { return &m.Steps }},
	{"cfg", func(m *ImageMetadata) *string { return &m.CfgScale }},
	{"seed", func(m *ImageMetadata) *string { return &m.Seed }},
	{"denoise", func(m *ImageMetadata) *string { return &m.Denoise }},
	{"vae", func(m *ImageMetadata) *string { return &m.Vae }},
}

// extraMetadata key => field.
var extraMetadataKeys = []struct {
	key   string
	field func(m *ImageMetadata) *string
}{
	{"prompt", func(m *ImageMetadata) *string { return &m.Prompt }},
	{"negativePrompt", func(m *ImageMetadata) *string { return &m.NegativePrompt }},
	{"sampler", func(m *ImageMetadata) *string { return &m.Sampler }},
	{"steps", func(m *ImageMetadata) *string { return &m.Steps }},
	{"cfgScale", func(m *ImageMetadata) *string { return &m.CfgScale }},
	{"modelName", func(m *ImageMetadata) *string { return &m.Model }},
	{"seed", func(m *ImageMetadata) *string { return &m.Seed }},
	{"scheduler", func(m *ImageMetadata) *string { return &m.Scheduler }},
	{"denoise", func(m *ImageMetadata) *string { return &m.Denoise }},
	{"vae", func(m *ImageMetadata) *string { return &m.Vae }},
}

// extractNodeGraph extracts metadata from a JSON node graph document.
//
// A graph wrapped with Civitai "extraMetadata", or having a text encoder node titled
// "Positive" / "Negative", is read as an annotated graph: extraMetadata values first,
// then recognized nodes overwrite them in document order. Any other graph is a plain graph:
// the first and second "text" strings are the prompts, and each scalar field is the first
// occurrence of its key anywhere in the tree.
func extractNodeGraph(doc gjson.Result) *ImageMetadata {
	m := &ImageMetadata{}
	extra, hasExtra := extraMetadata(doc)
	if hasExtra {
		for _, item := range extraMetadataKeys {
			if value, ok := Scalar(extra.Get(item.key)); ok {
				*item.field(m) = value
			}
		}
	}

	if hasExtra || hasTitledEncoder(doc) {
		scanNodes(doc, m)
		for _, item := range []string{"seed", "scheduler"} {
			fillFromTree(doc, m, item)
		}
	} else {
		var texts []string
		Walk(doc, func(key string, v gjson.Result) bool {
			if key == "text" && IsText(v) {
				texts = append(texts, v.String())
			}
			return len(texts) < 2
		})
		if len(texts) > 0 {
			m.Prompt = texts[0]
		}
		if len(texts) > 1 {
			m.NegativePrompt = texts[1]
		}
		for _, item := range treeKeys {
			fillFromTree(doc, m, item.key)
		}
	}

	strs := stringsFromTree(doc)
	loraLists := [][]Lora{lorasFromTree(doc)}
	if hasExtra {
		loraLists = append(loraLists, lorasFromTree(extra))
		strs = append(strs, stringsFromTree(extra)...)
	}
	for _, s := range strs {
		loraLists = append(loraLists, InlineLoras(s))
	}
	m.Loras = MergeLoras(loraLists...)

	m.Prompt = stringutil.DecodeSurrogates(m.Prompt)
	m.NegativePrompt = stringutil.DecodeSurrogates(m.NegativePrompt)
	m.Model = stringutil.DecodeSurrogates(m.Model)
	return m
}

// extraMetadata returns the parsed Civitai "extraMetadata" document of doc, which is
// usually a JSON string holding an object.
func extraMetadata(doc gjson.Result) (gjson.Result, bool) {
	extra := doc.Get("extraMetadata")
	switch {
	case extra.IsObject():
		return extra, true
	case extra.Type == gjson.String:
		return parseDocument(extra.String())
	}
	return gjson.Result{}, false
}

// nodeTitle returns the "_meta.title" of a ComfyUI node.
func nodeTitle(node gjson.Result) string {
	return node.Get("_meta.title").String()
}

func hasTitledEncoder(doc gjson.Result) bool {
	found := false
	doc.ForEach(func(_, node gjson.Result) bool {
		if node.IsObject() && textEncoderClasses[node.Get("class_type").String()] {
			title := nodeTitle(node)
			if stringutil.ContainsI(title, "positive") || stringutil.ContainsI(title, "negative") {
				found = true
			}
		}
		return !found
	})
	return found
}

// scanNodes reads recognized top level nodes of doc in document order. Later nodes win.
func scanNodes(doc gjson.Result, m *ImageMetadata) {
	doc.ForEach(func(_, node gjson.Result) bool {
		if !node.IsObject() {
			return true
		}
		classType := node.Get("class_type").String()
		inputs := node.Get("inputs")
		switch {
		case textEncoderClasses[classType]:
			text := inputs.Get("text")
			if !IsText(text) {
				break
			}
			title := nodeTitle(node)
			// a title naming both counts as negative
			if stringutil.ContainsI(title, "negative") {
				m.NegativePrompt = text.String()
			} else if stringutil.ContainsI(title, "positive") {
				m.Prompt = text.String()
			}
		case checkpointLoaderClasses[classType]:
			if value, ok := Scalar(inputs.Get("ckpt_name")); ok {
				m.Model = value
			}
		case vaeLoaderClasses[classType]:
			if value, ok := Scalar(inputs.Get("vae_name")); ok {
				m.Vae = value
			}
		case samplerClasses[classType]:
			for _, item := range samplerInputs {
				if value, ok := Scalar(inputs.Get(item.input)); ok {
					*item.field(m) = value
				}
			}
		}
		return true
	})
}

// fillFromTree sets the field of key, if still unset, to the first scalar value of key in doc.
func fillFromTree(doc gjson.Result, m *ImageMetadata, key string) {
	for _, item := range treeKeys {
		if item.key != key {
			continue
		}
		field := item.field(m)
		if *field != "" {
			return
		}
		if value, ok := FindFirst(doc, key, IsScalar); ok {
			*field, _ = Scalar(value)
		}
		return
	}
}
