package codecs

import (
	"strconv"
	"strings"
)

// OptionType declares the expected primitive type of an option value.
type OptionType int

const (
	TypeString OptionType = iota
	TypeInt
	TypeFloat
	TypeBool
)

// OptionSpec maps option keys to their expected types.
type OptionSpec map[string]OptionType

// SafeOptions restricts raw to the keys declared in spec and coerces each
// value to the declared type. Unknown keys and values that cannot be coerced
// are dropped without error: callers assemble option maps across many
// optional layers and partial garbage must not abort compilation.
func SafeOptions(raw map[string]any, spec OptionSpec) map[string]any {
	safe := make(map[string]any, len(spec))
	for key, value := range raw {
		typ, known := spec[key]
		if !known || value == nil {
			continue
		}
		if coerced, ok := coerce(value, typ); ok {
			safe[key] = coerced
		}
	}
	return safe
}

func coerce(value any, typ OptionType) (any, bool) {
	switch typ {
	case TypeString:
		return coerceString(value)
	case TypeInt:
		return coerceInt(value)
	case TypeFloat:
		return coerceFloat(value)
	case TypeBool:
		return coerceBool(value), true
	}
	return nil, false
}

func coerceString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

func coerceInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func coerceFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// coerceBool follows truthiness rather than strict parsing: any non-zero
// number and any non-empty string count as true.
func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	}
	return true
}

func intOption(safe map[string]any, key string) (int, bool) {
	v, ok := safe[key].(int)
	return v, ok
}

func floatOption(safe map[string]any, key string) (float64, bool) {
	v, ok := safe[key].(float64)
	return v, ok
}

func stringOption(safe map[string]any, key string) (string, bool) {
	v, ok := safe[key].(string)
	return v, ok
}
