package safeen

import (
	"fmt"
	"reflect"
)

var valueType = reflect.TypeOf(Value{})

// ValueOf converts a native Go value into a Value.
//
// Mapping: string → String, rune (int32) → Char, int8 → Int8, int and int64
// → Int64, uint64 → UInt64, bool → Bool, float32 → Float32, float64 →
// Float64, Value → itself, and slices or arrays of any of these → Array.
func ValueOf(v any) (Value, error) {
	switch v := v.(type) {
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case rune:
		return Char(v), nil
	case int8:
		return Int8(v), nil
	case int:
		return Int64(int64(v)), nil
	case int64:
		return Int64(v), nil
	case uint64:
		return UInt64(v), nil
	case bool:
		return Bool(v), nil
	case float32:
		return Float32(v), nil
	case float64:
		return Float64(v), nil
	case []Value:
		return Array(append([]Value(nil), v...)...), nil
	case nil:
		return Value{}, fmt.Errorf("%w: nil has no value representation", ErrTypeMismatch)
	}
	return valueOfReflect(reflect.ValueOf(v))
}

func valueOfReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int32:
		return Char(rune(rv.Int())), nil
	case reflect.Int8:
		return Int8(int8(rv.Int())), nil
	case reflect.Int, reflect.Int64:
		return Int64(rv.Int()), nil
	case reflect.Uint64:
		return UInt64(rv.Uint()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Float32:
		return Float32(float32(rv.Float())), nil
	case reflect.Float64:
		return Float64(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			item, err := valueOfReflect(rv.Index(i))
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			items[i] = item
		}
		return Array(items...), nil
	case reflect.Struct:
		if rv.Type() == valueType {
			return rv.Interface().(Value), nil
		}
	case reflect.Interface:
		if !rv.IsNil() {
			return ValueOf(rv.Elem().Interface())
		}
	}
	if !rv.IsValid() {
		return Value{}, fmt.Errorf("%w: nil has no value representation", ErrTypeMismatch)
	}
	return Value{}, fmt.Errorf("%w: %v has no value representation", ErrTypeMismatch, rv.Type())
}

// MustValueOf is ValueOf that panics on failure. Meant for literals.
func MustValueOf(v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return val
}

// Values converts every argument with ValueOf.
func Values(vs ...any) ([]Value, error) {
	result := make([]Value, len(vs))
	for i, v := range vs {
		val, err := ValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		result[i] = val
	}
	return result, nil
}

// As converts v into the native type T, failing with ErrTypeMismatch when v
// holds a different variant. Slice types convert element-wise.
func As[T any](v Value) (T, error) {
	var result T
	rv := reflect.ValueOf(&result).Elem()
	if err := assignNative(rv, v); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func assignNative(dst reflect.Value, v Value) error {
	if dst.Type() == valueType {
		dst.Set(reflect.ValueOf(v))
		return nil
	}
	switch dst.Kind() {
	case reflect.String:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		dst.SetString(s)
	case reflect.Int32:
		r, err := v.AsChar()
		if err != nil {
			return err
		}
		dst.SetInt(int64(r))
	case reflect.Int8:
		n, err := v.AsInt8()
		if err != nil {
			return err
		}
		dst.SetInt(int64(n))
	case reflect.Int, reflect.Int64:
		n, err := v.AsInt64()
		if err != nil {
			return err
		}
		if dst.OverflowInt(n) {
			return fmt.Errorf("%w: %d does not fit into %v", ErrOverflow, n, dst.Type())
		}
		dst.SetInt(n)
	case reflect.Uint64:
		n, err := v.AsUInt64()
		if err != nil {
			return err
		}
		dst.SetUint(n)
	case reflect.Bool:
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case reflect.Float32:
		f, err := v.AsFloat32()
		if err != nil {
			return err
		}
		dst.SetFloat(float64(f))
	case reflect.Float64:
		f, err := v.AsFloat64()
		if err != nil {
			return err
		}
		dst.SetFloat(f)
	case reflect.Slice:
		if v.kind != KindArray {
			return v.mismatch(KindArray)
		}
		s := reflect.MakeSlice(dst.Type(), len(v.arr), len(v.arr))
		for i, item := range v.arr {
			if err := assignNative(s.Index(i), item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		dst.Set(s)
	case reflect.Interface:
		if dst.NumMethod() != 0 {
			return fmt.Errorf("%w: cannot convert into %v", ErrTypeMismatch, dst.Type())
		}
		dst.Set(reflect.ValueOf(v.Native()))
	default:
		return fmt.Errorf("%w: cannot convert into %v", ErrTypeMismatch, dst.Type())
	}
	return nil
}

// Native returns v as a plain Go value (string, rune, int8, int64, uint64,
// bool, float32, float64 or []any).
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindChar:
		return rune(uint32(v.word))
	case KindInt8:
		return int8(v.word)
	case KindInt64:
		return int64(v.word)
	case KindUInt64:
		return v.word
	case KindBool:
		return v.word != 0
	case KindFloat32:
		f, _ := v.AsFloat32()
		return f
	case KindFloat64:
		f, _ := v.AsFloat64()
		return f
	case KindArray:
		items := make([]any, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Native()
		}
		return items
	default:
		return nil
	}
}
