package wsv

import "github.com/pkg/errors"

// MetadataLimits bounds the shape of every Metadata map in the system:
// entry count, nesting depth and total serialised byte size. Violating any
// of these maps to MetadataError (spec §4.E "Metadata set").
type MetadataLimits struct {
	MaxEntries  int
	MaxDepth    int
	MaxByteSize int
}

// DefaultMetadataLimits matches the chain_wide defaults used throughout
// tests in this package.
var DefaultMetadataLimits = MetadataLimits{MaxEntries: 256, MaxDepth: 8, MaxByteSize: 64 * 1024}

// MetadataError reports a metadata-limits violation.
type MetadataError struct {
	Reason string
}

func (e *MetadataError) Error() string { return "metadata: " + e.Reason }

// Metadata is a bounded string-keyed JSON-like value store attached to
// domains, accounts, asset definitions, assets and triggers.
type Metadata struct {
	values map[string]interface{}
}

// NewMetadata returns an empty metadata store.
func NewMetadata() *Metadata { return &Metadata{values: make(map[string]interface{})} }

// Clone returns a deep-enough copy for snapshot isolation (values are
// treated as immutable once inserted).
func (m *Metadata) Clone() *Metadata {
	out := NewMetadata()
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// Get looks up a key.
func (m *Metadata) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set validates and inserts key=value, enforcing limits.
func (m *Metadata) Set(key string, value interface{}, limits MetadataLimits) error {
	if _, exists := m.values[key]; !exists && len(m.values) >= limits.MaxEntries {
		return &MetadataError{Reason: "entry count exceeds limit"}
	}
	if depth := valueDepth(value); depth > limits.MaxDepth {
		return &MetadataError{Reason: "nesting depth exceeds limit"}
	}
	if size := valueByteSize(key, value); size > limits.MaxByteSize {
		return &MetadataError{Reason: "byte size exceeds limit"}
	}
	m.values[key] = value
	return nil
}

// Remove deletes key, returning an error wrapping ErrNotFound if absent.
func (m *Metadata) Remove(key string) error {
	if _, ok := m.values[key]; !ok {
		return errors.Wrapf(ErrNotFound, "metadata key %q", key)
	}
	delete(m.values, key)
	return nil
}

func (m *Metadata) Len() int { return len(m.values) }

func valueDepth(v interface{}) int {
	switch t := v.(type) {
	case map[string]interface{}:
		max := 0
		for _, inner := range t {
			if d := valueDepth(inner); d > max {
				max = d
			}
		}
		return 1 + max
	case []interface{}:
		max := 0
		for _, inner := range t {
			if d := valueDepth(inner); d > max {
				max = d
			}
		}
		return 1 + max
	default:
		return 1
	}
}

func valueByteSize(key string, v interface{}) int {
	size := len(key)
	switch t := v.(type) {
	case string:
		size += len(t)
	case map[string]interface{}:
		for k, inner := range t {
			size += valueByteSize(k, inner)
		}
	case []interface{}:
		for _, inner := range t {
			size += valueByteSize("", inner)
		}
	default:
		size += 8
	}
	return size
}
