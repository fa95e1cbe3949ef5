package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// applyEnvOverrides replaces every config value whose env tag names a set
// variable. lookup is os.LookupEnv outside of tests.
func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) error {
	return overrideStruct(reflect.ValueOf(cfg).Elem(), "", lookup)
}

func overrideStruct(v reflect.Value, path string, lookup func(string) (string, bool)) error {
	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		fv := v.Field(i)
		name := path + sf.Name

		if fv.Kind() == reflect.Struct && fv.Type() != durationType {
			if err := overrideStruct(fv, name+".", lookup); err != nil {
				return err
			}
			continue
		}

		key, ok := sf.Tag.Lookup("env")
		if !ok || key == "" {
			continue
		}
		raw, set := lookup(key)
		if !set {
			continue
		}
		if err := assignEnv(fv, raw); err != nil {
			return fmt.Errorf("%s (%s): %w", key, name, err)
		}
	}
	return nil
}

func assignEnv(fv reflect.Value, raw string) error {
	if !fv.CanSet() {
		return fmt.Errorf("field is not settable")
	}

	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("not a duration: %w", err)
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("not a boolean: %w", err)
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("not an integer: %w", err)
		}
		fv.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("not a number: %w", err)
		}
		fv.SetFloat(f)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported list type %s", fv.Type())
		}
		fv.Set(reflect.ValueOf(splitList(raw)))
	default:
		return fmt.Errorf("unsupported kind %s", fv.Kind())
	}
	return nil
}

// splitList parses a comma-separated list, dropping blank items.
func splitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}
