// Package pickle turns arbitrary Go values into a JSON-safe tree.
//
// The result of Pickle is built only from nil, bool, int64, uint64,
// float64, string, Map and []any, so any JSON writer can serialize it
// without further inspection. Every value is accepted and pickling never
// fails.
//
// # Depth
//
// Every container (struct, slice, array, map) consumes one level of the
// depth budget. When the budget is exhausted the value is summarized
// instead of expanded:
//
//   - bool, numeric and string values become their string form
//   - values implementing fmt.Stringer or error become String() / Error()
//   - everything else becomes its type name
//
// Pointers and interfaces are followed without consuming depth. Chains of
// more than 32 indirections are summarized by type name. Cyclic graphs
// therefore terminate without cycle detection: the result never nests
// deeper than the requested depth.
//
// # Structs
//
// Structs become a Map of all fields in declaration order, unexported
// fields included. Go maps become a Map sorted by the string form of their
// keys. []byte becomes a string and time.Time its RFC 3339 form.
//
// # Custom views
//
// A type can control its representation by implementing Pickler:
//
//	func (u User) PickleValue() any {
//	    return pickle.Map{{Key: "id", Value: u.ID}}
//	}
//
// The returned view is pickled with the remaining depth.
package pickle
