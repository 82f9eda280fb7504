// Package serializer reads and writes documents as JSON or YAML,
// appending a trailing newline on JSON writes and creating parent
// directories as needed, the way the teacher's config loader reads KDL
// and the rest of the pack's examples round-trip YAML via gopkg.in/yaml.v3.
package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/packsmith/cpack/internal/docvalue"
	"github.com/packsmith/cpack/internal/filenamepolicy"
)

// JSONOptions controls JSON serialization.
type JSONOptions struct {
	// Indent is the per-level indent string; defaults to two spaces.
	Indent string
	// Replacer, if set, is applied to every (key, value) pair before
	// marshaling, root included (key ""), mirroring JSON.stringify's
	// replacer argument.
	Replacer func(key string, value interface{}) interface{}
}

// YAMLOptions controls YAML serialization.
type YAMLOptions struct {
	// Indent is the number of spaces per nesting level; defaults to 2.
	Indent int
}

// Read loads a document from path, parsing it according to the file's
// classification (YAML or JSON). Unrecognized extensions return an error.
func Read(path string) (docvalue.Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch filenamepolicy.Classify(path) {
	case filenamepolicy.KindYAML:
		var doc docvalue.Doc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("serializer: parsing YAML %s: %w", path, err)
		}
		return normalizeYAMLValue(doc).(docvalue.Doc), nil
	case filenamepolicy.KindJSON:
		var doc docvalue.Doc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("serializer: parsing JSON %s: %w", path, err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("serializer: %s is neither JSON nor YAML", path)
	}
}

// normalizeYAMLValue recursively converts map[interface{}]interface{} and
// similar YAML-decoder shapes into map[string]interface{}/[]interface{}
// so downstream code (docvalue, the walker) can treat every document
// uniformly regardless of source format.
func normalizeYAMLValue(v interface{}) interface{} {
	switch val := v.(type) {
	case docvalue.Doc:
		out := make(docvalue.Doc, len(val))
		for k, e := range val {
			out[k] = normalizeYAMLValue(e)
		}
		return out
	case map[interface{}]interface{}:
		out := make(docvalue.Doc, len(val))
		for k, e := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAMLValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = normalizeYAMLValue(e)
		}
		return out
	default:
		return val
	}
}

// WriteYAML serializes doc as YAML to path, creating parent directories
// as needed. No trailing newline is forced beyond what the encoder emits.
func WriteYAML(path string, doc docvalue.Doc, opts *YAMLOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	indent := 2
	if opts != nil && opts.Indent > 0 {
		indent = opts.Indent
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(doc); err != nil {
		_ = enc.Close()
		return fmt.Errorf("serializer: encoding YAML for %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("serializer: closing YAML encoder for %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteJSON serializes doc as JSON to path with a trailing newline,
// creating parent directories as needed.
func WriteJSON(path string, doc docvalue.Doc, opts *JSONOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	indent := "  "
	var replacer func(string, interface{}) interface{}
	if opts != nil {
		if opts.Indent != "" {
			indent = opts.Indent
		}
		replacer = opts.Replacer
	}

	var payload interface{} = doc
	if replacer != nil {
		payload = applyReplacer("", payload, replacer)
	}

	data, err := json.MarshalIndent(payload, "", indent)
	if err != nil {
		return fmt.Errorf("serializer: encoding JSON for %s: %w", path, err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// Write dispatches to WriteYAML or WriteJSON based on yamlMode.
func Write(path string, doc docvalue.Doc, yamlMode bool, yamlOpts *YAMLOptions, jsonOpts *JSONOptions) error {
	if yamlMode {
		return WriteYAML(path, doc, yamlOpts)
	}
	return WriteJSON(path, doc, jsonOpts)
}

func applyReplacer(key string, value interface{}, fn func(string, interface{}) interface{}) interface{} {
	value = fn(key, value)
	switch val := value.(type) {
	case docvalue.Doc:
		out := make(docvalue.Doc, len(val))
		for k, v := range val {
			out[k] = applyReplacer(k, v, fn)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, v := range val {
			out[i] = applyReplacer(fmt.Sprintf("%d", i), v, fn)
		}
		return out
	default:
		return val
	}
}
