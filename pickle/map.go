package pickle

// Pair is one key/value entry of a Map.
type Pair struct {
	Key   string
	Value any
}

// Map is an ordered string-keyed mapping. It is the pickled form of
// structs and Go maps and serializes as a JSON object in entry order.
type Map []Pair

// Get returns the value of the first entry with the given key.
func (m Map) Get(key string) (any, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in entry order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}
