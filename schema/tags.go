package schema

import (
	"encoding/json"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/oascapture/openapi"
)

// parseJSONTag parses a struct field's json tag.
// Returns the field name and options (like "omitempty").
func parseJSONTag(tag string) (name string, opts []string) {
	if tag == "" {
		return "", nil
	}

	parts := strings.Split(tag, ",")
	name = parts[0]
	if len(parts) > 1 {
		opts = parts[1:]
	}
	return name, opts
}

// hasOption checks if json tag options include opt.
func hasOption(opts []string, opt string) bool {
	return slices.Contains(opts, opt)
}

// isFieldRequired determines if a struct field should be marked as required.
// Rules:
//  1. Fields with oas:"required=true" are explicitly required
//  2. Fields with oas:"required=false" are explicitly optional
//  3. Pointer fields are optional
//  4. Fields with omitempty or omitzero are optional
//  5. Everything else is required
func isFieldRequired(field reflect.StructField, jsonOpts []string) bool {
	if oasTag := field.Tag.Get("oas"); oasTag != "" {
		if val, ok := parseOASTag(oasTag)["required"]; ok {
			return val == "true"
		}
	}

	if field.Type.Kind() == reflect.Pointer {
		return false
	}

	return !hasOption(jsonOpts, "omitempty") && !hasOption(jsonOpts, "omitzero")
}

// parseOASTag parses the oas struct tag into a map of key-value pairs.
// Supports formats like: oas:"description=User ID,minLength=1,maxLength=100"
func parseOASTag(tag string) map[string]string {
	result := make(map[string]string)
	if tag == "" {
		return result
	}

	for part := range strings.SplitSeq(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if key, value, ok := strings.Cut(part, "="); ok && key != "" {
			result[strings.TrimSpace(key)] = strings.TrimSpace(value)
		} else {
			// Boolean flags such as "deprecated" without =true
			result[part] = "true"
		}
	}

	return result
}

// applyOASTag applies oas tag options to a schema.
// Returns a new schema with the tag options applied.
func applyOASTag(schema *openapi.Schema, tag string) *openapi.Schema {
	opts := parseOASTag(tag)
	if len(opts) == 0 {
		return schema
	}

	result := schema.Clone()
	if result == nil {
		result = &openapi.Schema{}
	}

	for key, value := range opts {
		switch key {
		case "description":
			result.Description = value

		case "title":
			result.Title = value

		case "format":
			result.Format = value

		case "enum":
			// Pipe-separated enum values
			enumValues := strings.Split(value, "|")
			result.Enum = make([]any, len(enumValues))
			for i, v := range enumValues {
				result.Enum[i] = parseTypedValue(strings.TrimSpace(v), result.Types())
			}

		case "minimum":
			result.Minimum = parseFloat(value)

		case "maximum":
			result.Maximum = parseFloat(value)

		case "exclusiveMinimum":
			result.ExclusiveMinimum = parseFloat(value)

		case "exclusiveMaximum":
			result.ExclusiveMaximum = parseFloat(value)

		case "multipleOf":
			result.MultipleOf = parseFloat(value)

		case "minLength":
			result.MinLength = parseInt(value)

		case "maxLength":
			result.MaxLength = parseInt(value)

		case "pattern":
			result.Pattern = value

		case "minItems":
			result.MinItems = parseInt(value)

		case "maxItems":
			result.MaxItems = parseInt(value)

		case "uniqueItems":
			result.UniqueItems = value == "true"

		case "readOnly":
			result.ReadOnly = value == "true"

		case "writeOnly":
			result.WriteOnly = value == "true"

		case "deprecated":
			result.Deprecated = value == "true"

		case "example":
			result.AddExample(parseExample(value))

		case "default":
			result.Default = parseTypedValue(value, result.Types())
		}
	}

	if opts["nullable"] == "true" {
		result = result.Nullable()
	}

	return result
}

func parseFloat(value string) *float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt(value string) *int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

// parseExample reads an example as JSON, falling back to the raw string.
func parseExample(value string) any {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err == nil {
		return v
	}
	return value
}

// parseTypedValue attempts to parse a tag value string based on the
// schema types.
func parseTypedValue(value string, types []string) any {
	for _, typ := range types {
		switch typ {
		case openapi.TypeInteger:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				return n
			}
		case openapi.TypeNumber:
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				return f
			}
		case openapi.TypeBoolean:
			if b, err := strconv.ParseBool(value); err == nil {
				return b
			}
		}
	}
	return value
}
