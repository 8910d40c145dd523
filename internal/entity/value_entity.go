package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind enumerates the closed set of shapes a product detail value can
// take. Catalog schemas are not fixed across products, so details are decoded
// into this variant instead of being passed around as raw interface{}.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueNumber
	ValueString
	ValueList
	ValueObject
)

// Value is one product detail value.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	Str    string
	List   []string
	Object map[string]Value
}

func NullValue() Value            { return Value{Kind: ValueNull} }
func BoolValue(b bool) Value      { return Value{Kind: ValueBool, Bool: b} }
func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Number: n} }
func StringValue(s string) Value  { return Value{Kind: ValueString, Str: s} }
func ListValue(l []string) Value  { return Value{Kind: ValueList, List: l} }
func ObjectValue(m map[string]Value) Value {
	return Value{Kind: ValueObject, Object: m}
}

// UnmarshalJSON decodes arbitrary JSON into the variant. List elements are
// coerced to strings eagerly; nested arrays/objects inside a list are kept as
// compact JSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = fromInterface(raw)
	return nil
}

// MarshalJSON restores the original JSON structure.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNull:
		return []byte("null"), nil
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValueNumber:
		return json.Marshal(v.Number)
	case ValueString:
		return json.Marshal(v.Str)
	case ValueList:
		return json.Marshal(v.List)
	case ValueObject:
		return json.Marshal(v.Object)
	}
	return nil, fmt.Errorf("unknown value kind: %d", v.Kind)
}

func fromInterface(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(t)
	case float64:
		return NumberValue(t)
	case string:
		return StringValue(t)
	case []interface{}:
		list := make([]string, 0, len(t))
		for _, el := range t {
			list = append(list, coerceString(el))
		}
		return ListValue(list)
	case map[string]interface{}:
		obj := make(map[string]Value, len(t))
		for k, el := range t {
			obj[k] = fromInterface(el)
		}
		return ObjectValue(obj)
	}
	return StringValue(fmt.Sprintf("%v", raw))
}

func coerceString(el interface{}) string {
	switch t := el.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	}
	b, err := json.Marshal(el)
	if err != nil {
		return fmt.Sprintf("%v", el)
	}
	return string(b)
}
