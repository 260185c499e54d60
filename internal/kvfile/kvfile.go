// Package kvfile loads and saves very simple equals-separated dictionary
// text files: one key=value pair per non-blank line, no comments, no quoting
// and no escaping.
package kvfile

import (
	"fmt"
	"io"
	"iter"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// KeyPolicy maps a key to the form used when comparing keys for equality.
type KeyPolicy func(key string) string

var (
	// Exact compares keys byte for byte. It is the default policy.
	Exact KeyPolicy = func(key string) string { return key }

	// IgnoreCase compares keys using Unicode case folding.
	IgnoreCase KeyPolicy = func(key string) string { return cases.Fold().String(key) }
)

// Dictionary is an insertion-ordered string mapping whose key equality is
// decided by a KeyPolicy.
type Dictionary struct {
	policy KeyPolicy
	keys   []string
	values []string
	index  map[string]int
}

// New creates an empty dictionary. A nil policy selects Exact.
func New(policy KeyPolicy) *Dictionary {
	if policy == nil {
		policy = Exact
	}
	return &Dictionary{
		policy: policy,
		index:  make(map[string]int),
	}
}

// FromMap builds a dictionary from m with keys in sorted order, so that Save
// produces deterministic output.
func FromMap(m map[string]string, policy KeyPolicy) *Dictionary {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := New(policy)
	for _, k := range keys {
		d.Set(k, m[k])
	}
	return d
}

// Set stores value under key. An existing equal key keeps its position and
// spelling and takes the new value.
func (d *Dictionary) Set(key, value string) {
	folded := d.policy(key)
	if i, ok := d.index[folded]; ok {
		d.values[i] = value
		return
	}
	d.index[folded] = len(d.keys)
	d.keys = append(d.keys, key)
	d.values = append(d.values, value)
}

// Get returns the value stored under key.
func (d *Dictionary) Get(key string) (string, bool) {
	i, ok := d.index[d.policy(key)]
	if !ok {
		return "", false
	}
	return d.values[i], true
}

// Delete removes key and reports whether it was present.
func (d *Dictionary) Delete(key string) bool {
	folded := d.policy(key)
	i, ok := d.index[folded]
	if !ok {
		return false
	}
	d.keys = append(d.keys[:i], d.keys[i+1:]...)
	d.values = append(d.values[:i], d.values[i+1:]...)
	delete(d.index, folded)
	for k, j := range d.index {
		if j > i {
			d.index[k] = j - 1
		}
	}
	return true
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.keys)
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []string {
	return append([]string(nil), d.keys...)
}

// All iterates over the entries in insertion order.
func (d *Dictionary) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i, k := range d.keys {
			if !yield(k, d.values[i]) {
				return
			}
		}
	}
}

// Map copies the entries into a plain map.
func (d *Dictionary) Map() map[string]string {
	m := make(map[string]string, len(d.keys))
	for k, v := range d.All() {
		m[k] = v
	}
	return m
}

// Load reads the dictionary file at path. A nil policy selects Exact.
// Errors opening or reading the file are returned unmodified.
func Load(path string, policy KeyPolicy) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data), policy), nil
}

// Decode reads a dictionary from r.
func Decode(r io.Reader, policy KeyPolicy) (*Dictionary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data), policy), nil
}

// Parse builds a dictionary from text. Blank lines are skipped, each other
// line is split on its first '=' and both sides are trimmed. A line without
// '=' becomes a key with an empty value. Later lines win over earlier ones
// with an equal key.
func Parse(text string, policy KeyPolicy) *Dictionary {
	d := New(policy)
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		d.Set(splitLine(line))
	}
	return d
}

func splitLine(line string) (string, string) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(key), strings.TrimSpace(value)
}

// Format renders d as key=value lines joined with the platform line
// separator, in insertion order.
func Format(d *Dictionary) string {
	lines := make([]string, 0, d.Len())
	for k, v := range d.All() {
		lines = append(lines, fmt.Sprintf("%s=%s", k, v))
	}
	return strings.Join(lines, newline)
}

// Encode writes Format(d) to w.
func Encode(w io.Writer, d *Dictionary) error {
	_, err := io.WriteString(w, Format(d))
	return err
}

// Save overwrites the file at path with the contents of d.
func Save(path string, d *Dictionary) error {
	return os.WriteFile(path, []byte(Format(d)), 0o644)
}
