package document

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Kind identifies which case of a Value is populated.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBool
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Value is a metadata value. Exactly one case is populated, selected by Kind.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	m    Metadata
	list []Value
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }

func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

func MapValue(m Metadata) Value { return Value{kind: KindMap, m: m} }

func ListValue(items ...Value) Value { return Value{kind: KindList, list: items} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsMap() (Metadata, bool) { return v.m, v.kind == KindMap }

func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// Native converts the value into plain Go types suitable for template
// engines. Integral numbers that fit in an int are returned as int.
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1<<53 {
			return int(v.num)
		}
		return v.num
	case KindBool:
		return v.b
	case KindMap:
		return v.m.Native()
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Native()
		}
		return out
	default:
		return nil
	}
}

// ValueOf converts a decoded YAML or JSON value into a Value.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case int:
		return NumberValue(float64(t)), nil
	case int8:
		return NumberValue(float64(t)), nil
	case int16:
		return NumberValue(float64(t)), nil
	case int32:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case uint:
		return NumberValue(float64(t)), nil
	case uint8:
		return NumberValue(float64(t)), nil
	case uint16:
		return NumberValue(float64(t)), nil
	case uint32:
		return NumberValue(float64(t)), nil
	case uint64:
		return NumberValue(float64(t)), nil
	case float32:
		return NumberValue(float64(t)), nil
	case float64:
		return NumberValue(t), nil
	case time.Time:
		return StringValue(t.Format(time.RFC3339)), nil
	case map[string]any:
		m, err := FromMap(t)
		if err != nil {
			return Value{}, err
		}
		return MapValue(m), nil
	case map[any]any:
		conv := make(map[string]any, len(t))
		for k, item := range t {
			conv[fmt.Sprint(k)] = item
		}
		return ValueOf(conv)
	case []any:
		items := make([]Value, 0, len(t))
		for i, item := range t {
			if item == nil {
				continue
			}
			val, err := ValueOf(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items = append(items, val)
		}
		return ListValue(items...), nil
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = StringValue(s)
		}
		return ListValue(items...), nil
	default:
		return Value{}, fmt.Errorf("unsupported metadata value of type %T", x)
	}
}

// Metadata is the key-value store attached to a document.
type Metadata map[string]Value

// FromMap converts a decoded map. Nil values are dropped.
func FromMap(raw map[string]any) (Metadata, error) {
	m := make(Metadata, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if raw[k] == nil {
			continue
		}
		v, err := ValueOf(raw[k])
		if err != nil {
			return nil, fmt.Errorf("metadata key %q: %w", k, err)
		}
		m[k] = v
	}
	return m, nil
}

func (m Metadata) Get(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}

// String returns the value under key only when it holds the String case.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (m Metadata) Set(key string, v Value) {
	m[key] = v
}

// Merge copies every entry of other into m, overwriting existing keys.
func (m Metadata) Merge(other Metadata) {
	for k, v := range other {
		m[k] = v
	}
}

func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		switch v.kind {
		case KindMap:
			out[k] = MapValue(v.m.Clone())
		case KindList:
			out[k] = ListValue(append([]Value(nil), v.list...)...)
		default:
			out[k] = v
		}
	}
	return out
}

// Native returns a fresh map of plain Go values.
func (m Metadata) Native() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Native()
	}
	return out
}
