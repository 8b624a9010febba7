package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// bindToStruct fills the struct behind v from values. A field is bound when it
// carries tagName; keys absent from values leave the field untouched. Untagged
// embedded structs are walked so request types can share a common payload.
func bindToStruct(v any, tagName string, values map[string][]string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %w", bindErr, ErrInvalidTarget)
	}
	return bindValue(rv.Elem(), tagName, values, bindErr)
}

func bindValue(rv reflect.Value, tagName string, values map[string][]string, bindErr error) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		tag, tagged := sf.Tag.Lookup(tagName)
		if !tagged {
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				if err := bindValue(field, tagName, values, bindErr); err != nil {
					return err
				}
			}
			continue
		}

		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		in := values[name]
		if len(in) == 0 {
			continue
		}
		if err := setField(field, in); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, in []string) error {
	switch field.Kind() {
	case reflect.Pointer:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return setField(field.Elem(), in)

	case reflect.Slice:
		// Repeated keys and comma-separated values both add elements.
		var parts []string
		for _, v := range in {
			for p := range strings.SplitSeq(v, ",") {
				parts = append(parts, strings.TrimSpace(p))
			}
		}
		out := reflect.MakeSlice(field.Type(), len(parts), len(parts))
		for i, p := range parts {
			if err := setField(out.Index(i), []string{p}); err != nil {
				return err
			}
		}
		field.Set(out)
		return nil
	}

	// Last value wins so a hidden "false" input followed by a checked
	// checkbox binds as true.
	return setScalar(field, in[len(in)-1])
}

func setScalar(v reflect.Value, s string) error {
	var err error
	switch {
	case v.Kind() == reflect.String:
		v.SetString(s)
	case v.Kind() == reflect.Bool:
		var b bool
		if b, err = parseBool(s); err == nil {
			v.SetBool(b)
		}
	case v.CanInt():
		var n int64
		if n, err = strconv.ParseInt(s, 10, v.Type().Bits()); err == nil {
			v.SetInt(n)
		}
	case v.CanUint():
		var n uint64
		if n, err = strconv.ParseUint(s, 10, v.Type().Bits()); err == nil {
			v.SetUint(n)
		}
	case v.CanFloat():
		var n float64
		if n, err = strconv.ParseFloat(s, v.Type().Bits()); err == nil {
			v.SetFloat(n)
		}
	default:
		return fmt.Errorf("unsupported type %s", v.Kind())
	}
	if err != nil {
		return fmt.Errorf("invalid %s value %q", v.Kind(), s)
	}
	return nil
}

// parseBool accepts strconv forms plus the on/off and yes/no values browsers
// and people send. An empty value is false.
func parseBool(s string) (bool, error) {
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool %q", s)
}
