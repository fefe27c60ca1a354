package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Request body schemas, keyed by endpoint.
var requestSchemas = map[string]string{
	"role": `{
		"type": "object",
		"required": ["role"],
		"properties": {"role": {"enum": ["student", "teacher"]}},
		"additionalProperties": false
	}`,
	"personalize": `{
		"type": "object",
		"required": ["content"],
		"properties": {
			"content": {"type": "string", "minLength": 1},
			"difficulty": {"enum": ["", "easy", "medium", "hard"]},
			"full": {"type": "boolean"}
		},
		"additionalProperties": false
	}`,
	"quiz": `{
		"type": "object",
		"properties": {
			"content": {"type": "string"},
			"count": {"type": "integer", "minimum": 1}
		},
		"additionalProperties": false
	}`,
	"simplify": `{
		"type": "object",
		"required": ["text"],
		"properties": {"text": {"type": "string", "minLength": 1}},
		"additionalProperties": false
	}`,
	"process": `{
		"type": "object",
		"properties": {"text": {"type": "string"}},
		"additionalProperties": false
	}`,
	"ask": `{
		"type": "object",
		"required": ["question"],
		"properties": {"question": {"type": "string", "minLength": 1}},
		"additionalProperties": false
	}`,
	"grade": `{
		"type": "object",
		"required": ["answers"],
		"properties": {
			"answers": {
				"type": "object",
				"additionalProperties": {"type": "string"}
			}
		},
		"additionalProperties": false
	}`,
}

type schemaSet map[string]*jsonschema.Schema

func compileSchemas() (schemaSet, error) {
	c := jsonschema.NewCompiler()
	set := make(schemaSet, len(requestSchemas))
	for name, src := range requestSchemas {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("parse schema %q: %w", name, err)
		}
		url := fmt.Sprintf("schema://edututor/%s.json", name)
		if err := c.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("add schema %q: %w", name, err)
		}
		sch, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %q: %w", name, err)
		}
		set[name] = sch
	}
	return set, nil
}

// validationMessage flattens a schema failure into one line.
func validationMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	for _, u := range ve.BasicOutput().Errors {
		if u.Error == nil {
			continue
		}
		loc := u.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		msgs = append(msgs, loc+": "+u.Error.String())
	}
	if len(msgs) == 0 {
		return ve.Error()
	}
	return strings.Join(msgs, "; ")
}
