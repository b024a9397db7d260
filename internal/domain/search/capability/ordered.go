package capability

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Ordered is a string-keyed map that remembers declaration order.
// It decodes from a YAML mapping and encodes to a JSON object in the same order.
type Ordered[V any] struct {
	keys  []string
	byKey map[string]V
}

// Set adds or replaces a value. New keys go last.
func (o *Ordered[V]) Set(key string, v V) {
	if o.byKey == nil {
		o.byKey = make(map[string]V)
	}
	if _, ok := o.byKey[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.byKey[key] = v
}

// Get returns the value stored under key.
func (o Ordered[V]) Get(key string) (V, bool) {
	v, ok := o.byKey[key]
	return v, ok
}

// Keys returns keys in declaration order.
func (o Ordered[V]) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of entries.
func (o Ordered[V]) Len() int { return len(o.keys) }

// UnmarshalYAML decodes a YAML mapping, keeping key order. Duplicate keys are rejected.
func (o *Ordered[V]) UnmarshalYAML(node *yaml.Node) error {
	*o = Ordered[V]{}
	if node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("line %d: decode key: %w", node.Content[i].Line, err)
		}
		if _, dup := o.byKey[key]; dup {
			return fmt.Errorf("line %d: duplicate key %q", node.Content[i].Line, key)
		}
		var v V
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("line %d: decode %q: %w", node.Content[i+1].Line, key, err)
		}
		o.Set(key, v)
	}
	return nil
}

// MarshalJSON encodes the map as a JSON object in declaration order.
func (o Ordered[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalVerbatim(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key: %w", err)
		}
		vb, err := marshalVerbatim(o.byKey[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalVerbatim encodes v without HTML escaping so labels survive as written.
func marshalVerbatim(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
