package agent

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	invopop "github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v6"
)

// ToolSchema is the tool descriptor advertised to the model on every request,
// in the Messages API tool format.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// buildInputSchema derives a JSON Schema from the argument struct type by
// reflection. Every exported field becomes a string-typed property (richer
// typing is opt-in, see WithReflectedSchema); the property name comes from the
// json tag; a field is required unless its tag carries omitempty or the field
// is a pointer. Optional description and enum struct tags enrich the property.
func buildInputSchema(typ reflect.Type) (map[string]any, error) {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("argument type must be a struct, got %s", typ.Kind())
	}
	properties := make(map[string]any)
	required := make([]any, 0, typ.NumField())
	for field := range typ.Fields() {
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		prop := map[string]any{"type": "string"}
		if desc := field.Tag.Get("description"); desc != "" {
			prop["description"] = desc
		}
		if enumTag := field.Tag.Get("enum"); enumTag != "" {
			parts := strings.Split(enumTag, ",")
			enum := make([]any, len(parts))
			for i, p := range parts {
				enum[i] = strings.TrimSpace(p)
			}
			prop["enum"] = enum
		}
		properties[name] = prop
		if !strings.Contains(tag, ",omitempty") && field.Type.Kind() != reflect.Pointer {
			required = append(required, name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}, nil
}

// reflectInputSchema derives a fully typed JSON Schema from the argument
// struct using invopop reflection, preserving numeric/boolean/enum typing
// from struct tags.
func reflectInputSchema(typ reflect.Type) (map[string]any, error) {
	r := &invopop.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.ReflectFromType(typ)
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return nil, err
	}
	delete(schemaMap, "$schema")
	delete(schemaMap, "$id")
	return schemaMap, nil
}

// compileInputSchema compiles a raw schema map into a validator. Called once
// per tool at construction so a malformed schema fails registration, not a
// later call.
func compileInputSchema(name string, schemaMap map[string]any) (*santhosh.Schema, error) {
	// Round-trip through JSON so typed values (e.g. []string from callers)
	// become the plain decoded forms the compiler expects.
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, err
	}
	doc, err := santhosh.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}
	c := santhosh.NewCompiler()
	url := name + ".schema.json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	return c.Compile(url)
}

// firstLine returns the trimmed first line of doc, or "Execute <name>" when
// doc is empty.
func firstLine(doc, name string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(doc), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "Execute " + name
	}
	return line
}
