package op

import (
	"fmt"
	"reflect"

	"opwire/record"
	"opwire/tree"
)

// FieldOf builds a Run field from a plain Go function, deriving the input
// key types from the function's parameter types. names bind record paths
// to parameters in order and must cover every parameter. The function may
// return (T) or (T, error).
//
// This is the optional convenience over the explicit Field contract: the
// declared signature object stays the source of truth, FieldOf merely
// derives one from a live function value.
func FieldOf(fn any, names ...string) (Field, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return Field{}, fmt.Errorf("FieldOf: not a function: %T", fn)
	}

	t := v.Type()

	if t.IsVariadic() {
		return Field{}, fmt.Errorf("FieldOf: variadic functions are not supported")
	}

	if len(names) != t.NumIn() {
		return Field{}, fmt.Errorf("FieldOf: %d names given for %d parameters", len(names), t.NumIn())
	}

	switch t.NumOut() {
	case 1:
		if t.Out(0) == errType {
			return Field{}, fmt.Errorf("FieldOf: function returns only an error")
		}
	case 2:
		if t.Out(1) != errType {
			return Field{}, fmt.Errorf("FieldOf: second result must be error, got %s", t.Out(1))
		}
	default:
		return Field{}, fmt.Errorf("FieldOf: function must return (T) or (T, error)")
	}

	inputs := make([]tree.Key, t.NumIn())
	for i := range inputs {
		inputs[i] = tree.Typed(names[i], tree.FromReflect(t.In(i)))
	}

	call := func(rec record.Record) (any, error) {
		args := make([]reflect.Value, t.NumIn())

		for i, name := range names {
			raw, err := record.Get(rec, name)
			if err != nil {
				return nil, err
			}

			if raw == nil {
				args[i] = reflect.Zero(t.In(i))
				continue
			}

			rv := reflect.ValueOf(raw)
			if !rv.Type().AssignableTo(t.In(i)) {
				return nil, fmt.Errorf("FieldOf: argument %q: %s is not assignable to %s",
					name, rv.Type(), t.In(i))
			}

			args[i] = rv
		}

		res := v.Call(args)

		if len(res) == 2 && !res[1].IsNil() {
			return nil, res[1].Interface().(error)
		}

		return res[0].Interface(), nil
	}

	return Field{Inputs: inputs, Fn: call}, nil
}

var errType = reflect.TypeOf((*error)(nil)).Elem()
