package util

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/constraints"
	"gopkg.in/yaml.v3"
)

// ErrorWriter wraps an io.Writer and tracks the first error encountered.
// After the first failure, subsequent writes are silently dropped.
type ErrorWriter struct {
	W   io.Writer
	Err error
}

func (ew *ErrorWriter) Write(p []byte) (n int, err error) {
	if ew.Err != nil {
		return len(p), nil
	}
	n, err = ew.W.Write(p)
	if err != nil {
		ew.Err = err
	}
	return n, err
}

// Fprintf is a convenience wrapper that ignores the returned count/error,
// relying on the ErrorWriter to track the error state.
func (ew *ErrorWriter) Fprintf(format string, a ...any) {
	_, _ = fmt.Fprintf(ew, format, a...)
}

// Check whether a file (or dir) with name exists in file system.
// If it encounter an file system access error, return false,err
func FileExists(name string) (bool, error) {
	_, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func ParseInt[T constraints.Integer](s string, defaultValue T) T {
	if s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			return T(i)
		}
	}
	return defaultValue
}

// Return filtered ss. The ret is nil if and only if ss is nil.
func FilterSlice[T any](ss []T, test func(T) bool) (ret []T) {
	if ss != nil {
		ret = []T{}
	}
	for _, s := range ss {
		if test(s) {
			ret = append(ret, s)
		}
	}
	return
}

// UniqueSlice returns ss with duplicate elements removed, keeping the first occurrence of each.
func UniqueSlice[T comparable](ss []T) []T {
	seen := map[T]struct{}{}
	var result []T
	for _, s := range ss {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	return result
}

// ToString returns the string representation of v.
// nil => "", []byte => string(v), fmt.Stringer => v.String(), others => fmt.Sprint(v).
func ToString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case []byte:
		return string(value)
	case fmt.Stringer:
		return value.String()
	case error:
		return value.Error()
	default:
		return fmt.Sprint(value)
	}
}

func normalizeContentType(contentType string) string {
	if strings.ContainsRune(contentType, '/') {
		if mediatype, _, err := mime.ParseMediaType(contentType); err == nil {
			contentType = mediatype
		}
	}
	switch contentType {
	case "application/json", "text/json", "json", ".json":
		return "json"
	case "application/yaml", "text/yaml", "yaml", ".yaml", "yml", ".yml":
		return "yaml"
	case "application/xml", "text/xml", "xml", ".xml":
		return "xml"
	case "application/toml", "text/toml", "toml", ".toml":
		return "toml"
	}
	return ""
}

// UnmarshalTo decodes a json / yaml / toml / xml body into target, which must be a pointer.
// contentType could be: a mediatype (e.g. "application/json"), or a file type or extension (e.g. "json" or ".json").
// Empty body is a no-op.
func UnmarshalTo(contentType string, body []byte, target any) error {
	format := normalizeContentType(contentType)
	if format == "" {
		return fmt.Errorf("Unmarshal: unsupported contentType %s", contentType)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	switch format {
	case "json":
		return json.Unmarshal(body, target)
	case "yaml":
		return yaml.Unmarshal(body, target)
	case "xml":
		return xml.Unmarshal(body, target)
	default:
		return toml.Unmarshal(body, target)
	}
}

// Marshal a object to json / yaml / toml / xml string according to contentType.
// contentType could be: a mediatype (e.g. "application/json"), or a file type or extension (e.g. "json" or ".json").
// If contentType is empty or is not a supported type, return an error.
// Json output is indented.
func Marshal(contentType string, input any) (data []byte, err error) {
	switch normalizeContentType(contentType) {
	case "json":
		return json.MarshalIndent(input, "", "  ")
	case "yaml":
		return yaml.Marshal(input)
	case "xml":
		return xml.MarshalIndent(input, "", "  ")
	case "toml":
		return toml.Marshal(input)
	default:
		return nil, fmt.Errorf("Marshal: unsupported format %s", contentType)
	}
}
