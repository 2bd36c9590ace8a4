package aimeta

import (
	"github.com/tidwall/gjson"
)

// Walk visits node and then every value below it in pre-order:
// object members in document order, array items by index.
// fn receives the member key ("" for the root and array items).
// Returning false from fn stops the whole walk; Walk then returns false.
func Walk(node gjson.Result, fn func(key string, value gjson.Result) bool) bool {
	if !fn("", node) {
		return false
	}
	return walkChildren(node, fn)
}

func walkChildren(node gjson.Result, fn func(key string, value gjson.Result) bool) bool {
	if !node.IsObject() && !node.IsArray() {
		return true
	}
	isObject := node.IsObject()
	cont := true
	node.ForEach(func(k, v gjson.Result) bool {
		key := ""
		if isObject {
			key = k.String()
		}
		if !fn(key, v) || !walkChildren(v, fn) {
			cont = false
		}
		return cont
	})
	return cont
}

// FindFirst returns the first value stored under key anywhere in node (pre-order),
// skipping values rejected by accept. A nil accept takes any value.
func FindFirst(node gjson.Result, key string, accept func(gjson.Result) bool) (gjson.Result, bool) {
	var found gjson.Result
	ok := false
	Walk(node, func(k string, v gjson.Result) bool {
		if k == key && (accept == nil || accept(v)) {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

// FindAll returns all values stored under key anywhere in node, in pre-order.
func FindAll(node gjson.Result, key string) []gjson.Result {
	var values []gjson.Result
	Walk(node, func(k string, v gjson.Result) bool {
		if k == key {
			values = append(values, v)
		}
		return true
	})
	return values
}

// IsScalar reports whether v is a non-empty string, a number or a bool.
func IsScalar(v gjson.Result) bool {
	_, ok := Scalar(v)
	return ok
}

// IsText reports whether v is a string.
func IsText(v gjson.Result) bool {
	return v.Type == gjson.String
}

// Scalar returns the text of a scalar value. Numbers keep their source text ("1.0" stays "1.0").
// Empty strings, null, objects and arrays (e.g. ComfyUI node links like ["4", 0]) are not scalars.
func Scalar(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String:
		s := v.String()
		return s, s != ""
	case gjson.Number, gjson.True, gjson.False:
		return v.Raw, true
	}
	return "", false
}

// parseDocument parses str as a JSON object. A JSON string holding an object (double encoded) is unwrapped.
func parseDocument(str string) (gjson.Result, bool) {
	if !gjson.Valid(str) {
		return gjson.Result{}, false
	}
	doc := gjson.Parse(str)
	if doc.Type == gjson.String && gjson.Valid(doc.String()) {
		doc = gjson.Parse(doc.String())
	}
	return doc, doc.IsObject()
}
