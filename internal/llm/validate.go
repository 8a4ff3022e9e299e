package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var compiled = struct {
	sync.Mutex
	byName map[string]*jsonschema.Schema
}{byName: make(map[string]*jsonschema.Schema)}

// validateResponse checks raw against schema and returns a
// KindInvalidResponse error on mismatch. Compiled schemas are cached by
// name, so names must be unique per definition.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return invalidResponse(raw, "not JSON: %v", err)
	}

	sch, err := compileSchema(schema)
	if err != nil {
		return invalidResponse(raw, "schema %q: %v", schema.Name, err)
	}
	if err := sch.Validate(doc); err != nil {
		return invalidResponse(raw, "does not match schema %q: %v", schema.Name, err)
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	compiled.Lock()
	defer compiled.Unlock()

	if sch, ok := compiled.byName[schema.Name]; ok {
		return sch, nil
	}

	// The compiler wants decoded JSON values, not Go literals like []string.
	b, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, err
	}
	var def any
	if err := json.Unmarshal(b, &def); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("mem://schemas/%s.json", schema.Name)
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, err
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled.byName[schema.Name] = sch
	return sch, nil
}
