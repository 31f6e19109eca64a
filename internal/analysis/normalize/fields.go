// internal/analysis/normalize/fields.go
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// field is one logical payload field: the canonical wire name followed by the
// aliases accepted for it. The canonical name wins when several are present.
type field struct {
	name    string
	aliases []string
}

func (f field) keys() []string {
	return append([]string{f.name}, f.aliases...)
}

var (
	fieldStoryID  = field{name: "story_id", aliases: []string{"storyId"}}
	fieldSummary  = field{name: "summary"}
	fieldMetadata = field{name: "metadata"}

	fieldTotalQuestions = field{name: "total_questions", aliases: []string{"totalQuestions"}}
	fieldRecognizedIn   = field{name: "ai_provider_recognized_in", aliases: []string{"aiProviderRecognizedIn"}}

	fieldClientName   = field{name: "client_name", aliases: []string{"clientName"}}
	fieldProviderName = field{name: "provider_name", aliases: []string{"providerName"}}
	fieldModelsRun    = field{name: "models_run", aliases: []string{"modelsRun"}}
	fieldMode         = field{name: "mode"}

	fieldPillarName       = field{name: "title", aliases: []string{"pillar"}}
	fieldPillarSummary    = field{name: "summary"}
	fieldProviderInferred = field{name: "ai_provider_inferred", aliases: []string{"aiProviderInferred"}}
	fieldQuestions        = field{name: "questions"}

	fieldPrompt      = field{name: "prompt"}
	fieldCategory    = field{name: "category"}
	fieldKind        = field{name: "kind"}
	fieldAssumptions = field{name: "assumptions"}
	fieldQuestionID  = field{name: "id"}
	fieldResponses   = field{name: "responses"}

	fieldModel    = field{name: "model"}
	fieldAnswer   = field{name: "answer"}
	fieldInferred = field{name: "inferred"}
)

// envelopeKey wraps the whole payload in some service versions.
const envelopeKey = "data"

// pillarCollections lists the keys the pillar list may arrive under, highest
// precedence first.
var pillarCollections = []string{"selling_points", "sellingPoints", "pillars"}

// object is a JSON object together with its location in the payload.
type object struct {
	path   string
	fields map[string]interface{}
}

func asObject(path string, v interface{}) (object, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return object{}, wrongType(displayPath(path), "object", v)
	}
	return object{path: path, fields: m}, nil
}

func (o object) childPath(key string) string {
	if o.path == "" {
		return key
	}
	return o.path + "." + key
}

// lookup returns the first non-null value found under f's spellings.
func (o object) lookup(f field) (string, interface{}, bool) {
	for _, key := range f.keys() {
		if v, ok := o.fields[key]; ok && v != nil {
			return key, v, true
		}
	}
	return "", nil, false
}

func (o object) has(key string) bool {
	v, ok := o.fields[key]
	return ok && v != nil
}

func (o object) object(f field) (object, error) {
	key, v, ok := o.lookup(f)
	if !ok {
		return object{}, missingField(o.childPath(f.name), "object")
	}
	return asObject(o.childPath(key), v)
}

func (o object) string(f field) (string, error) {
	key, v, ok := o.lookup(f)
	if !ok {
		return "", missingField(o.childPath(f.name), "string")
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(o.childPath(key), "string", v)
	}
	return s, nil
}

func (o object) nonEmptyString(f field) (string, error) {
	s, err := o.string(f)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		key, _, _ := o.lookup(f)
		return "", invalidValue(o.childPath(key), "non-empty string", "empty string", "value must not be empty")
	}
	return s, nil
}

func (o object) optionalString(f field) (*string, error) {
	key, v, ok := o.lookup(f)
	if !ok {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, wrongType(o.childPath(key), "string", v)
	}
	return &s, nil
}

func (o object) optionalBool(f field) (*bool, error) {
	key, v, ok := o.lookup(f)
	if !ok {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, wrongType(o.childPath(key), "boolean", v)
	}
	return &b, nil
}

func (o object) boolOrFalse(f field) (bool, error) {
	b, err := o.optionalBool(f)
	if err != nil || b == nil {
		return false, err
	}
	return *b, nil
}

func (o object) count(f field) (int, error) {
	key, v, ok := o.lookup(f)
	if !ok {
		return 0, missingField(o.childPath(f.name), "non-negative integer")
	}
	return coerceCount(o.childPath(key), v)
}

// array returns the list under key. ok is false when the key is absent or null.
func (o object) array(key string) ([]interface{}, bool, error) {
	v, ok := o.fields[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	items, isArray := v.([]interface{})
	if !isArray {
		return nil, false, wrongType(o.childPath(key), "array", v)
	}
	return items, true, nil
}

// list resolves f's spellings to an array, returning the key actually used.
func (o object) list(f field) (string, []interface{}, bool, error) {
	key, v, ok := o.lookup(f)
	if !ok {
		return "", nil, false, nil
	}
	items, isArray := v.([]interface{})
	if !isArray {
		return "", nil, false, wrongType(o.childPath(key), "array", v)
	}
	return key, items, true, nil
}

// strings reads an array of strings. When nonEmpty is set, blank entries fail.
func (o object) strings(f field, required, nonEmpty bool) ([]string, error) {
	key, items, ok, err := o.list(f)
	if err != nil {
		return nil, err
	}
	if !ok {
		if required {
			return nil, missingField(o.childPath(f.name), "array of strings")
		}
		return []string{}, nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		itemPath := indexPath(o.childPath(key), i)
		s, isString := item.(string)
		if !isString {
			return nil, wrongType(itemPath, "string", item)
		}
		if nonEmpty && strings.TrimSpace(s) == "" {
			return nil, invalidValue(itemPath, "non-empty string", "empty string", "value must not be empty")
		}
		out = append(out, s)
	}
	return out, nil
}

// coerceCount accepts a JSON number or a numeric string holding a
// non-negative integer.
func coerceCount(path string, v interface{}) (int, error) {
	const expected = "non-negative integer"

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, invalidValue(path, expected, strconv.Quote(n.String()), "not a number")
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, invalidValue(path, expected, strconv.Quote(n), "not a numeric string")
		}
		f = parsed
	default:
		return 0, wrongType(path, expected, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalidValue(path, expected, fmt.Sprint(f), "not a finite number")
	}
	if f < 0 {
		return 0, invalidValue(path, expected, fmt.Sprint(f), "value must not be negative")
	}
	if f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, invalidValue(path, expected, fmt.Sprint(f), "value must be a whole number")
	}
	return int(f), nil
}

func jsonType(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, int, int64, json.Number:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func displayPath(path string) string {
	if path == "" {
		return "$"
	}
	return path
}
