package search

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Input is any search-parameter representation that can serialize itself
// into a query string without the leading "?".
type Input interface {
	Encode() string
}

// Raw is a literal, already-escaped query string. It is appended as-is;
// the caller is responsible for escaping.
type Raw string

// Encode returns the raw string without a leading "?".
func (r Raw) Encode() string {
	return strings.TrimPrefix(string(r), "?")
}

// Pairs is an ordered sequence of key/value pairs.
type Pairs [][2]string

// Encode escapes every pair and joins them in sequence order.
func (p Pairs) Encode() string {
	var b strings.Builder
	for _, kv := range p {
		writePair(&b, kv[0], kv[1])
	}
	return b.String()
}

// Values is the canonical parameter set. It serializes through url.Values.Encode,
// which orders keys alphabetically.
type Values url.Values

// Encode returns the url.Values serialization.
func (v Values) Encode() string {
	return url.Values(v).Encode()
}

// Map is an insertion-ordered mapping from key to one or more values.
// The zero value is ready to use.
type Map struct {
	keys   []string
	values map[string][]string
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{}
}

// FromMap builds a Map from an unordered Go map. Keys are sorted so the
// resulting encoding is deterministic.
func FromMap[V any](m map[string]V) *Map {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := NewMap()
	for _, k := range keys {
		out.Set(k, m[k])
	}
	return out
}

// Set assigns value to key. A slice or array value expands to one entry per
// element. Setting an existing key replaces its values and keeps its position.
func (m *Map) Set(key string, value any) *Map {
	if m.values == nil {
		m.values = make(map[string][]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = toStrings(value)
	return m
}

// Add appends value(s) to key, keeping any values already present.
func (m *Map) Add(key string, value any) *Map {
	if m.values == nil {
		m.values = make(map[string][]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], toStrings(value)...)
	return m
}

// Get returns a copy of the values stored for key.
func (m *Map) Get(key string) []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.values[key]...)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of distinct keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Encode serializes keys in insertion order, one key=value pair per value.
func (m *Map) Encode() string {
	if m == nil {
		return ""
	}
	var b strings.Builder
	for _, k := range m.keys {
		for _, v := range m.values[k] {
			writePair(&b, k, v)
		}
	}
	return b.String()
}

// Append adds the encoded search input to rawURL.
//
// An absent or empty input returns rawURL unchanged. When rawURL already has
// a query string the parameters are joined with "&" (no separator is added if
// rawURL already ends in "&" or "?"); otherwise a "?" is inserted. A URL
// fragment is kept at the end. The result never ends in "&".
func Append(rawURL string, in Input) string {
	if isNil(in) {
		return rawURL
	}
	encoded := strings.Trim(in.Encode(), "&")
	if encoded == "" {
		return rawURL
	}

	base, fragment := rawURL, ""
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		base, fragment = rawURL[:i], rawURL[i:]
	}

	switch {
	case !strings.Contains(base, "?"):
		base += "?"
	case strings.HasSuffix(base, "&"), strings.HasSuffix(base, "?"):
	default:
		base += "&"
	}
	return base + encoded + fragment
}

func writePair(b *strings.Builder, key, value string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(url.QueryEscape(key))
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}

// toStrings converts a scalar or a slice of scalars into their string forms.
func toStrings(value any) []string {
	if value == nil {
		return []string{""}
	}
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case []byte:
		return []string{string(v)}
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, scalar(rv.Index(i).Interface()))
		}
		return out
	}
	return []string{scalar(value)}
}

func scalar(v any) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

func isNil(in Input) bool {
	if in == nil {
		return true
	}
	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
