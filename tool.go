package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	santhosh "github.com/santhosh-tekuri/jsonschema/v6"
)

// Tool is a named, caller-supplied capability the model may request be
// executed. It is built once, carries its compiled invocation schema, and is
// invoked with the raw JSON arguments supplied by the model.
type Tool interface {
	Name() string
	Description() string
	Schema() ToolSchema
	Invoke(ctx context.Context, args json.RawMessage) (string, error)
}

// toolOptions hold optional per-tool settings.
type toolOptions struct {
	reflected bool
	validate  bool
}

// ToolOption configures a tool built by NewTool or NewDynamicTool.
type ToolOption func(*toolOptions)

// WithReflectedSchema derives a fully typed schema from the argument struct
// (numbers, booleans, enums from struct tags) instead of the default
// string-typed properties.
func WithReflectedSchema() ToolOption {
	return func(o *toolOptions) { o.reflected = true }
}

// WithValidation validates the model-supplied arguments against the tool's
// schema before invoking it. Off by default: arguments are treated as opaque
// and handed straight to the tool.
func WithValidation() ToolOption {
	return func(o *toolOptions) { o.validate = true }
}

// tool is the internal implementation built by NewTool and NewDynamicTool.
type tool struct {
	schema   ToolSchema
	compiled *santhosh.Schema
	validate bool
	invoke   func(ctx context.Context, args json.RawMessage) (string, error)
}

// NewTool builds a Tool from a typed function. The invocation schema is
// derived from T by reflection; doc supplies the description (first line,
// trimmed; "Execute <name>" when empty). The schema is compiled here so a
// malformed argument type fails construction, never a later call.
func NewTool[T any](name, doc string, fn func(ctx context.Context, args T) (string, error), opts ...ToolOption) (Tool, error) {
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	typ := reflect.TypeOf(*new(T))
	if typ == nil {
		return nil, &SchemaError{Tool: name, Err: fmt.Errorf("cannot derive a schema from an interface argument type")}
	}
	var schemaMap map[string]any
	var err error
	if o.reflected {
		schemaMap, err = reflectInputSchema(typ)
	} else {
		schemaMap, err = buildInputSchema(typ)
	}
	if err != nil {
		return nil, &SchemaError{Tool: name, Err: err}
	}
	compiled, err := compileInputSchema(name, schemaMap)
	if err != nil {
		return nil, &SchemaError{Tool: name, Err: err}
	}
	t := &tool{
		schema: ToolSchema{
			Name:        name,
			Description: firstLine(doc, name),
			InputSchema: schemaMap,
		},
		compiled: compiled,
		validate: o.validate,
	}
	t.invoke = func(ctx context.Context, args json.RawMessage) (string, error) {
		if err := t.validateArgs(args); err != nil {
			return "", err
		}
		var parsed T
		if err := json.Unmarshal(emptyToObject(args), &parsed); err != nil {
			return "", fmt.Errorf("parse arguments: %w", err)
		}
		return fn(ctx, parsed)
	}
	return t, nil
}

// NewDynamicTool builds a Tool from an explicit raw JSON Schema and a function
// that receives the arguments unparsed. Use it when reflection cannot express
// the invocation shape. The schema map is defensively copied and compiled at
// construction.
func NewDynamicTool(name, doc string, schemaMap map[string]any, fn func(ctx context.Context, args json.RawMessage) (string, error), opts ...ToolOption) (Tool, error) {
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	if schemaMap == nil {
		return nil, &SchemaError{Tool: name, Err: fmt.Errorf("schema map must not be nil")}
	}
	if fn == nil {
		return nil, &SchemaError{Tool: name, Err: fmt.Errorf("handler must not be nil")}
	}
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, &SchemaError{Tool: name, Err: err}
	}
	var schemaCopy map[string]any
	if err := json.Unmarshal(data, &schemaCopy); err != nil {
		return nil, &SchemaError{Tool: name, Err: err}
	}
	compiled, err := compileInputSchema(name, schemaCopy)
	if err != nil {
		return nil, &SchemaError{Tool: name, Err: err}
	}
	t := &tool{
		schema: ToolSchema{
			Name:        name,
			Description: firstLine(doc, name),
			InputSchema: schemaCopy,
		},
		compiled: compiled,
		validate: o.validate,
	}
	t.invoke = func(ctx context.Context, args json.RawMessage) (string, error) {
		if err := t.validateArgs(args); err != nil {
			return "", err
		}
		return fn(ctx, emptyToObject(args))
	}
	return t, nil
}

func (t *tool) Name() string        { return t.schema.Name }
func (t *tool) Description() string { return t.schema.Description }

// Schema returns the tool descriptor. InputSchema is shared; callers must not
// mutate it.
func (t *tool) Schema() ToolSchema { return t.schema }

func (t *tool) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	return t.invoke(ctx, args)
}

func (t *tool) validateArgs(args json.RawMessage) error {
	if !t.validate {
		return nil
	}
	doc, err := santhosh.UnmarshalJSON(bytes.NewReader(emptyToObject(args)))
	if err != nil {
		return fmt.Errorf("parse arguments: %w", err)
	}
	if err := t.compiled.Validate(doc); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// emptyToObject normalizes an absent argument payload to an empty JSON object
// so zero-parameter tools decode cleanly.
func emptyToObject(args json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(args)) == 0 {
		return json.RawMessage("{}")
	}
	return args
}
