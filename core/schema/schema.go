// Package schema owns the named, versioned output contracts exchanged with the
// structured generation capability. Prompt wording lives with the role nodes;
// the shape of every request/response lives here so the two evolve separately.
package schema

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// ErrInvalidOutput is wrapped by every schema verification failure.
var ErrInvalidOutput = errors.New("output does not satisfy schema")

// Output is a typed generation result. Validate enforces the constraints the
// JSON schema cannot express (numeric ranges, closed sets, non-empty text).
type Output interface {
	Validate() error
}

// Schema is a named, versioned output contract.
type Schema struct {
	Name        string
	Version     int
	Description string
	Definition  jsonschema.Definition
}

// ID returns the stable contract identifier, e.g. "mentor.v1".
func (s Schema) ID() string {
	return fmt.Sprintf("%s.v%d", s.Name, s.Version)
}

// Verify checks content against the schema definition, decodes it into out
// and runs out.Validate. Markdown code fences around the payload are tolerated.
func (s Schema) Verify(content string, out Output) error {
	payload := stripCodeFence(content)
	if payload == "" {
		return fmt.Errorf("%w: %s: empty payload", ErrInvalidOutput, s.ID())
	}

	if err := jsonschema.VerifySchemaAndUnmarshal(s.Definition, []byte(payload), out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidOutput, s.ID(), err)
	}

	if err := out.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidOutput, s.ID(), err)
	}

	return nil
}

var fencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if m := fencePattern.FindStringSubmatch(content); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return content
}

func str(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: description}
}

func boolean(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Boolean, Description: description}
}

func number(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Number, Description: description}
}

func stringList(description string) jsonschema.Definition {
	return jsonschema.Definition{
		Type:        jsonschema.Array,
		Description: description,
		Items:       &jsonschema.Definition{Type: jsonschema.String},
	}
}

func enum(description string, values ...string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: description, Enum: values}
}

// object builds a strict object definition: every property is required and
// no additional properties are allowed.
func object(properties map[string]jsonschema.Definition) jsonschema.Definition {
	required := make([]string, 0, len(properties))
	for name := range properties {
		required = append(required, name)
	}
	sort.Strings(required)

	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           properties,
		Required:             required,
		AdditionalProperties: false,
	}
}

func validConfidence(score float64) error {
	if score != score || score < 0 || score > 100 {
		return fmt.Errorf("confidence_score %v outside [0,100]", score)
	}
	return nil
}
