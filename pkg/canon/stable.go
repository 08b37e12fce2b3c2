package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// StableSerialize renders v as compact JSON with object keys sorted
// lexicographically at every depth. Arrays keep their order. The output is
// the sole input to content hashing, so key insertion order never affects a
// hash.
//
// Cyclic values are not supported and must not be passed in.
func StableSerialize(v any) (string, error) {
	var sb strings.Builder
	if err := writeStable(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// StableHash is Hash(StableSerialize(v)).
func StableHash(v any) (string, error) {
	s, err := StableSerialize(v)
	if err != nil {
		return "", err
	}
	return HashString(s), nil
}

func writeStable(sb *strings.Builder, v any) error {
	switch val := v.(type) {
	case nil:
		sb.WriteString("null")
		return nil
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return writeLiteral(sb, val)
	case []any:
		return writeArray(sb, len(val), func(i int) any { return val[i] })
	case []string:
		return writeArray(sb, len(val), func(i int) any { return val[i] })
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		return writeObject(sb, keys, func(k string) any { return val[k] })
	case yaml.MapSlice:
		values := make(map[string]any, len(val))
		keys := make([]string, 0, len(val))
		for _, item := range val {
			k := fmt.Sprint(item.Key)
			if _, dup := values[k]; !dup {
				keys = append(keys, k)
			}
			values[k] = item.Value
		}
		return writeObject(sb, keys, func(k string) any { return values[k] })
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			sb.WriteString("null")
			return nil
		}
		return writeStable(sb, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			sb.WriteString("[]")
			return nil
		}
		return writeArray(sb, rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Map:
		values := make(map[string]any, rv.Len())
		keys := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			values[k] = iter.Value().Interface()
		}
		return writeObject(sb, keys, func(k string) any { return values[k] })
	case reflect.String, reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Float32, reflect.Float64:
		return writeLiteral(sb, v)
	}

	// Structs and anything else round-trip through encoding/json so their
	// tags decide the field names.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializing %T: %w", v, err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("decoding %T: %w", v, err)
	}
	return writeStable(sb, generic)
}

func writeLiteral(sb *strings.Builder, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding literal %T: %w", v, err)
	}
	sb.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return nil
}

func writeArray(sb *strings.Builder, n int, at func(int) any) error {
	sb.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		if err := writeStable(sb, at(i)); err != nil {
			return err
		}
	}
	sb.WriteByte(']')
	return nil
}

func writeObject(sb *strings.Builder, keys []string, at func(string) any) error {
	sort.Strings(keys)
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		if err := writeLiteral(sb, k); err != nil {
			return err
		}
		sb.WriteByte(':')
		if err := writeStable(sb, at(k)); err != nil {
			return err
		}
	}
	sb.WriteByte('}')
	return nil
}
