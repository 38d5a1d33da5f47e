package remote

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Response schemas, validated before any payload is normalized into the
// internal types. They are deliberately tolerant of the service's loose
// field casing: required fields and container shapes are pinned down,
// extra fields pass through.
var (
	questionSetSchema = map[string]any{
		"type":     "object",
		"required": []any{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object"},
			},
		},
	}

	sectionAnswersSchema = map[string]any{
		"type":     "object",
		"required": []any{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"question"},
				},
			},
		},
	}

	submitSchema = map[string]any{
		"type":     "object",
		"required": []any{"message"},
		"properties": map[string]any{
			"message": map[string]any{"type": "string"},
		},
	}

	historySchema = map[string]any{
		"type":     "object",
		"required": []any{"history"},
		"properties": map[string]any{
			"history": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"band", "status"},
				},
			},
		},
	}

	startTimeSchema = map[string]any{
		"type":     "object",
		"required": []any{"start_time"},
	}
)

// schemaCache caches compiled schemas by operation name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validate checks raw against the named schema and returns an
// *ErrInvalidResponse on any mismatch.
func validate(op string, definition map[string]any, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{Op: op, Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(op, definition)
	if err != nil {
		return &ErrInvalidResponse{Op: op, Content: raw, Err: fmt.Errorf("compile schema: %w", err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{Op: op, Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

func compiledSchema(name string, definition map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema compiler expects a parsed JSON value (any), not raw
	// bytes. Round-trip the definition to get a clean representation.
	defBytes, err := json.Marshal(definition)
	if err != nil {
		return nil, err
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	// Operation names may contain spaces, which are not valid in a URL
	// host; replace them so the resource URL parses.
	url := fmt.Sprintf("schema://%s.json", strings.ReplaceAll(name, " ", "-"))
	if err := compiler.AddResource(url, defParsed); err != nil {
		return nil, err
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, err
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
