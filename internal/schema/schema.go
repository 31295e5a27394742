// Package schema validates the JSON export of a recipe against an embedded
// JSON Schema (draft 2020-12).
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-cooklang/internal/recipe"
)

const resourceName = "recipe.schema.json"

//go:embed recipe.schema.json
var recipeSchema []byte

var (
	ErrSchemaInvalid    = errors.New("schema: embedded recipe schema invalid")
	ErrSchemaValidation = errors.New("schema: recipe validation failed")
)

// Issue is a single violation at an instance location such as "/steps/0/tokens".
type Issue struct {
	Location string
	Message  string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Issues []Issue
	Cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := "#" + strings.TrimPrefix(strings.TrimSpace(issue.Location), "#")
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrSchemaValidation
}

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resourceName, bytes.NewReader(recipeSchema)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	s, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return s, nil
})

// Source returns the embedded schema document.
func Source() []byte {
	return bytes.Clone(recipeSchema)
}

// Validate checks the JSON encoding of r.
func Validate(r *recipe.Recipe) error {
	if r == nil {
		return &ValidationError{Issues: []Issue{{Message: "recipe is nil"}}}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("schema: encode recipe: %w", err)
	}
	return ValidateJSON(data)
}

// ValidateJSON checks an already encoded recipe document.
func ValidateJSON(data []byte) error {
	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return &ValidationError{
			Issues: []Issue{{Message: "invalid JSON: " + err.Error()}},
			Cause:  err,
		}
	}

	s, err := compiled()
	if err != nil {
		return err
	}
	if err := s.Validate(document); err != nil {
		return &ValidationError{Issues: Issues(err), Cause: err}
	}
	return nil
}

// Issues extracts the leaf violations from err.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Issues
	}
	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) {
		return collectIssues(schemaErr)
	}
	return []Issue{{Message: err.Error()}}
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
