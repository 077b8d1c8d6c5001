package core

// infoEntry is a single key/value pair inside an Info map.
type infoEntry struct {
	key   string
	value any
}

// Info is a small ordered string-keyed metadata map attached to reset and step
// results. Insertion order is preserved, which keeps batched info output
// deterministic across runs. It is intended for a handful of entries, so
// lookups are linear.
type Info struct {
	entries []infoEntry
}

// NewInfo returns an empty Info map.
func NewInfo() Info { return Info{} }

// Set inserts or replaces the value for key, preserving the position of an
// existing key.
func (i *Info) Set(key string, value any) {
	for idx := range i.entries {
		if i.entries[idx].key == key {
			i.entries[idx].value = value
			return
		}
	}
	i.entries = append(i.entries, infoEntry{key: key, value: value})
}

// Get returns the value stored under key and whether it was present.
func (i Info) Get(key string) (any, bool) {
	for _, e := range i.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// GetFloat returns the value under key as a float64. Integer values are
// widened; other types report absence.
func (i Info) GetFloat(key string) (float64, bool) {
	v, ok := i.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// GetInt returns the value under key as an int64.
func (i Info) GetInt(key string) (int64, bool) {
	v, ok := i.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

// GetBool returns the value under key as a bool.
func (i Info) GetBool(key string) (bool, bool) {
	v, ok := i.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// GetString returns the value under key as a string.
func (i Info) GetString(key string) (string, bool) {
	v, ok := i.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Keys returns the keys in insertion order.
func (i Info) Keys() []string {
	keys := make([]string, len(i.entries))
	for idx, e := range i.entries {
		keys[idx] = e.key
	}
	return keys
}

// Len returns the number of entries.
func (i Info) Len() int { return len(i.entries) }

// IsEmpty reports whether the map holds no entries.
func (i Info) IsEmpty() bool { return len(i.entries) == 0 }

// Clone returns a copy whose entry list is independent of the receiver.
// Values are copied shallowly.
func (i Info) Clone() Info {
	entries := make([]infoEntry, len(i.entries))
	copy(entries, i.entries)
	return Info{entries: entries}
}
