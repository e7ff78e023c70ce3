// Package jsonutil decodes, encodes, and copies generic JSON trees.
//
// Trees use Go's usual decoded form: nil, bool, json.Number, string, []any,
// and map[string]any. Numbers stay json.Number so integers past 2^53 keep
// their exact digits. YAML input is normalized into the same form so the rest
// of schemaref never sees YAML-specific types.
package jsonutil

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// Format identifies a document encoding.
type Format string

const (
	// FormatJSON is JSON text.
	FormatJSON Format = "json"
	// FormatYAML is YAML text.
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension. Anything that is not
// .yaml or .yml is treated as JSON, since schema folders hold .json files.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FormatFromContent guesses the format of inline content: JSON documents
// start with '{' or '['.
func FormatFromContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses data in the given format into a generic tree.
func Decode(data []byte, format Format) (any, error) {
	var v any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return Normalize(v), nil
	default:
		r := bytes.NewReader(data)
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		rest, err := io.ReadAll(io.MultiReader(dec.Buffered(), r))
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(rest)) > 0 {
			return nil, fmt.Errorf("invalid character %q after top-level value", bytes.TrimSpace(rest)[0])
		}
		return v, nil
	}
}

// Encode serializes v in the given format. JSON output is indented with two
// spaces; object keys come out sorted so output is stable.
func Encode(v any, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(yamlNumbers(v))
	case FormatJSON:
		return json.MarshalIndent(v, "", "  ")
	default:
		return nil, fmt.Errorf("jsonutil: unsupported format %q", format)
	}
}

// yamlNumbers swaps json.Number values for tagged scalar nodes. A bare
// json.Number is a string to the YAML encoder and would come out quoted.
func yamlNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = yamlNumbers(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = yamlNumbers(item)
		}
		return out
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(t.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String()}
	default:
		return v
	}
}

// Normalize converts YAML-decoded values into the JSON tree form: numbers
// become json.Number, non-string map keys are stringified, and timestamps
// are rendered as RFC 3339 strings. NaN and infinities have no JSON spelling
// and stay float64.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case int:
		return json.Number(strconv.Itoa(t))
	case int64:
		return json.Number(strconv.FormatInt(t, 10))
	case uint64:
		return json.Number(strconv.FormatUint(t, 10))
	case float32:
		return json.Number(strconv.FormatFloat(float64(t), 'g', -1, 32))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return t
		}
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64))
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return v
	}
}
