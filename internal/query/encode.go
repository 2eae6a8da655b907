// Package query flattens request parameters into the canonical query string
// that is both signed and sent on the wire.
//
// Top-level keys are sorted. Slices become repeated keys (a=1&a=2), maps and
// structs become bracketed keys (a[b]=1) with sorted children, and nil values
// render as a bare key. Values implementing encoding.TextMarshaler (UUIDs, IP
// addresses, big integers) are emitted as their text form, and structs that
// encode to a JSON scalar use that scalar. Keys and values are percent-encoded
// with everything outside the RFC 3986 unreserved set escaped.
package query

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type pair struct {
	key   string
	value string
	bare  bool
}

// Encode returns the canonical query for params without a leading "?".
// An empty or nil map yields "".
func Encode(params map[string]any) (string, error) {
	var pairs []pair
	for _, k := range sortedKeys(params) {
		var err error
		pairs, err = appendValue(pairs, k, params[k])
		if err != nil {
			return "", err
		}
	}

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Escape(p.key))
		if p.bare {
			continue
		}
		b.WriteByte('=')
		b.WriteString(Escape(p.value))
	}
	return b.String(), nil
}

func appendValue(pairs []pair, key string, v any) ([]pair, error) {
	switch x := v.(type) {
	case nil:
		return append(pairs, pair{key: key, bare: true}), nil
	case string:
		return append(pairs, pair{key: key, value: x}), nil
	case []byte:
		return append(pairs, pair{key: key, value: string(x)}), nil
	case bool:
		return append(pairs, pair{key: key, value: strconv.FormatBool(x)}), nil
	case json.Number:
		return append(pairs, pair{key: key, value: x.String()}), nil
	case decimal.Decimal:
		return append(pairs, pair{key: key, value: x.String()}), nil
	case time.Time:
		return append(pairs, pair{key: key, value: x.Format(time.RFC3339Nano)}), nil
	case map[string]any:
		for _, k := range sortedKeys(x) {
			var err error
			pairs, err = appendValue(pairs, key+"["+k+"]", x[k])
			if err != nil {
				return nil, err
			}
		}
		return pairs, nil
	case []any:
		for _, e := range x {
			var err error
			pairs, err = appendValue(pairs, key, e)
			if err != nil {
				return nil, err
			}
		}
		return pairs, nil
	}

	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return append(pairs, pair{key: key, bare: true}), nil
	}
	if tm, ok := textMarshaler(rv); ok {
		text, err := tm.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("query: %s: %w", key, err)
		}
		return append(pairs, pair{key: key, value: string(text)}), nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return appendValue(pairs, key, rv.Elem().Interface())
	case reflect.String:
		return append(pairs, pair{key: key, value: rv.String()}), nil
	case reflect.Bool:
		return append(pairs, pair{key: key, value: strconv.FormatBool(rv.Bool())}), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return append(pairs, pair{key: key, value: strconv.FormatInt(rv.Int(), 10)}), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return append(pairs, pair{key: key, value: strconv.FormatUint(rv.Uint(), 10)}), nil
	case reflect.Float32:
		return append(pairs, pair{key: key, value: strconv.FormatFloat(rv.Float(), 'f', -1, 32)}), nil
	case reflect.Float64:
		return append(pairs, pair{key: key, value: strconv.FormatFloat(rv.Float(), 'f', -1, 64)}), nil
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			var err error
			pairs, err = appendValue(pairs, key, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
		}
		return pairs, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("query: %s: map keys must be strings, got %s", key, rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return appendValue(pairs, key, m)
	case reflect.Struct:
		jv, err := jsonValue(v)
		if err != nil {
			return nil, fmt.Errorf("query: %s: %w", key, err)
		}
		return appendValue(pairs, key, jv)
	}
	return nil, fmt.Errorf("query: %s: unsupported value type %T", key, v)
}

// textMarshaler returns rv as an encoding.TextMarshaler, also trying its
// address for types whose MarshalText has a pointer receiver.
func textMarshaler(rv reflect.Value) (encoding.TextMarshaler, bool) {
	if tm, ok := rv.Interface().(encoding.TextMarshaler); ok {
		return tm, true
	}
	if rv.Kind() == reflect.Pointer {
		return nil, false
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	tm, ok := p.Interface().(encoding.TextMarshaler)
	return tm, ok
}

// jsonValue flattens a struct through its JSON form so json tags decide the
// field names. Structs with a custom scalar encoding come back as a string,
// json.Number, bool or nil.
func jsonValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Escape percent-encodes s, leaving only A-Z a-z 0-9 - _ . ~ unescaped.
func Escape(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
