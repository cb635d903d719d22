package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/panbanda/tsorder/schema/config.json"

// compileSchema compiles the embedded configuration schema.
func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to read config schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add config schema: %w", err)
	}
	return c.Compile(schemaURL)
}

// ValidateFile checks the raw document at path against the configuration schema,
// catching unknown keys and wrongly typed values that decoding would ignore.
func ValidateFile(path string) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return ValidateDocument(k.Raw())
}

// ValidateDocument checks a decoded configuration document against the schema.
func ValidateDocument(doc map[string]any) error {
	sch, err := compileSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so numbers and nested maps have the shapes the
	// validator expects regardless of the source format.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	return sch.Validate(inst)
}
