package metadata

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindBool
	KindList
	KindMap
)

// String renders the kind label.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "null"
	}
}

// Value is a loosely typed metadata value: a string, integer, boolean, list or
// mapping. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  int
	flag bool
	list []Value
	dict map[string]Value
}

func String(s string) Value        { return Value{kind: KindString, str: s} }
func Int(n int) Value              { return Value{kind: KindInt, num: n} }
func Bool(b bool) Value            { return Value{kind: KindBool, flag: b} }
func Null() Value                  { return Value{} }
func List(items ...Value) Value    { return Value{kind: KindList, list: append([]Value{}, items...)} }
func Map(m map[string]Value) Value { return Value{kind: KindMap, dict: cloneValues(m)} }

// Strings builds a list of string values.
func Strings(items ...string) Value {
	out := make([]Value, 0, len(items))
	for _, item := range items {
		out = append(out, String(item))
	}
	return Value{kind: KindList, list: out}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsScalar() bool {
	return v.kind == KindString || v.kind == KindInt || v.kind == KindBool
}

// AsString returns the string payload when the value is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns the integer payload when the value is an integer.
func (v Value) AsInt() (int, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.num, true
}

// AsBool returns the boolean payload when the value is a boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.flag, true
}

// AsList returns a copy of the list payload.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]Value{}, v.list...), true
}

// AsMap returns a copy of the mapping payload.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return cloneValues(v.dict), true
}

// Scalar renders string, integer and boolean values as text. Lists, maps and
// null report false.
func (v Value) Scalar() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindInt:
		return strconv.Itoa(v.num), true
	case KindBool:
		return strconv.FormatBool(v.flag), true
	default:
		return "", false
	}
}

// IsEmpty reports null values, blank strings and empty collections.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.str) == ""
	case KindList:
		return len(v.list) == 0
	case KindMap:
		return len(v.dict) == 0
	default:
		return false
	}
}

// Equal compares two values structurally.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindBool:
		return v.flag == other.flag
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.dict) != len(other.dict) {
			return false
		}
		for key, value := range v.dict {
			candidate, ok := other.dict[key]
			if !ok || !value.Equal(candidate) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts the value into plain Go types (string, int, bool,
// []any, map[string]any or nil).
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindBool:
		return v.flag
	case KindList:
		out := make([]any, 0, len(v.list))
		for _, item := range v.list {
			out = append(out, item.Interface())
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.dict))
		for key, item := range v.dict {
			out[key] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromInterface converts plain Go values into a Value. Unsupported types
// become null; floats are truncated to integers.
func FromInterface(raw any) Value {
	switch typed := raw.(type) {
	case nil:
		return Null()
	case Value:
		return typed
	case string:
		return String(typed)
	case bool:
		return Bool(typed)
	case int:
		return Int(typed)
	case int64:
		return Int(int(typed))
	case int32:
		return Int(int(typed))
	case float64:
		return Int(int(typed))
	case float32:
		return Int(int(typed))
	case []string:
		return Strings(typed...)
	case []any:
		out := make([]Value, 0, len(typed))
		for _, item := range typed {
			out = append(out, FromInterface(item))
		}
		return Value{kind: KindList, list: out}
	case map[string]any:
		out := make(map[string]Value, len(typed))
		for key, item := range typed {
			out[key] = FromInterface(item)
		}
		return Value{kind: KindMap, dict: out}
	case map[string]Value:
		return Map(typed)
	default:
		return Null()
	}
}

// MarshalJSON encodes the value in its natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON document into a Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromInterface(raw)
	return nil
}

// MarshalYAML lets yaml.v3 encode the value as plain data.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// Keys returns the mapping keys in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.dict))
	for key := range v.dict {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func cloneValues(in map[string]Value) map[string]Value {
	out := make(map[string]Value, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
