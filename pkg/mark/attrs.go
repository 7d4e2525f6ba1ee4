package mark

import (
	"fmt"
	"strconv"
)

// AttributeSpec describes one attribute of a mark type.
type AttributeSpec struct {
	// Default is the value used when a mark is created without this attribute.
	Default any

	// Required marks the attribute as having no default.
	Required bool
}

// computeAttrs fills defaults and checks the given values against the schema.
func computeAttrs(name string, schema map[string]AttributeSpec, given Attrs) (Attrs, error) {
	for key := range given {
		if _, ok := schema[key]; !ok {
			return nil, fmt.Errorf("mark %q: unknown attribute %q", name, key)
		}
	}
	if len(schema) == 0 {
		return nil, nil //nolint:nilnil // marks without a schema carry no attributes
	}

	built := make(Attrs, len(schema))
	for key, spec := range schema {
		value, ok := given[key]
		if !ok {
			if spec.Required {
				return nil, fmt.Errorf("mark %q: no value supplied for attribute %q", name, key)
			}
			value = spec.Default
		}
		built[key] = value
	}
	return built, nil
}

// stringify renders a scalar attribute value the way markup expects it.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Stringify renders an attribute value as markup text.
func Stringify(value any) string {
	return stringify(value)
}

// IsScalar reports whether value can be written as a markup attribute.
func IsScalar(value any) bool {
	switch value.(type) {
	case nil, string, bool, int, int64, float64:
		return true
	default:
		return false
	}
}
