package pickle

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"
	"unsafe"
)

// DefaultMaxDepth is the depth budget used for log arguments.
const DefaultMaxDepth = 10

// maxIndirections bounds pointer and interface chains, which do not consume
// depth.
const maxIndirections = 32

// Pickler is implemented by types that provide their own pickled view.
type Pickler interface {
	PickleValue() any
}

var (
	picklerType  = reflect.TypeFor[Pickler]()
	stringerType = reflect.TypeFor[fmt.Stringer]()
	errorType    = reflect.TypeFor[error]()
	timeType     = reflect.TypeFor[time.Time]()
	mapType      = reflect.TypeFor[Map]()
)

// Pickle converts v into a tree nested no deeper than maxDepth.
// A negative maxDepth is treated as 0.
func Pickle(v any, maxDepth int) any {
	if v == nil {
		return nil
	}
	return pickleRoot(v, max(maxDepth, 0), true)
}

func pickleRoot(v any, depth int, custom bool) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	// An addressable copy lets unexported fields be read through NewAt.
	root := reflect.New(rv.Type()).Elem()
	root.Set(rv)
	return pickleValue(root, depth, custom)
}

func pickleValue(v reflect.Value, depth int, custom bool) any {
	for hops := 0; ; hops++ {
		if !v.IsValid() {
			return nil
		}
		v = expose(v)
		indirect := v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface
		if indirect && v.IsNil() {
			return nil
		}

		if custom {
			if m, ok := method(v, picklerType); ok {
				view, ok := callPickler(m)
				if !ok {
					return typeName(v)
				}
				return pickleRoot(view, depth, false)
			}
		}

		if depth == 0 {
			if s, ok := summary(v); ok {
				return s
			}
		}

		if !indirect {
			break
		}
		if hops >= maxIndirections {
			return typeName(v)
		}
		if v.Kind() == reflect.Interface {
			v = addressable(v.Elem())
		} else {
			v = v.Elem()
		}
	}

	if depth == 0 {
		if s, ok := primitiveString(v); ok {
			return s
		}
		return typeName(v)
	}

	if v.CanInterface() {
		switch v.Type() {
		case timeType:
			return v.Interface().(time.Time).Format(time.RFC3339Nano)
		case mapType:
			return pickleMap(v.Interface().(Map), depth)
		}
	}

	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128)
	case reflect.String:
		return v.String()
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return string(v.Bytes())
		}
		return pickleList(v, depth)
	case reflect.Array:
		return pickleList(v, depth)
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		return pickleGoMap(v, depth)
	case reflect.Struct:
		return pickleStruct(v, depth)
	default:
		// func, chan, unsafe.Pointer
		return typeName(v)
	}
}

func pickleList(v reflect.Value, depth int) []any {
	out := make([]any, v.Len())
	for i := range out {
		out[i] = pickleValue(v.Index(i), depth-1, true)
	}
	return out
}

func pickleStruct(v reflect.Value, depth int) Map {
	t := v.Type()
	out := make(Map, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		out = append(out, Pair{
			Key:   t.Field(i).Name,
			Value: pickleValue(v.Field(i), depth-1, true),
		})
	}
	return out
}

func pickleGoMap(v reflect.Value, depth int) Map {
	out := make(Map, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		out = append(out, Pair{
			Key:   keyString(iter.Key()),
			Value: pickleValue(addressable(iter.Value()), depth-1, true),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func pickleMap(m Map, depth int) Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for i, p := range m {
		out[i] = Pair{Key: p.Key, Value: pickleRoot(p.Value, depth-1, true)}
	}
	return out
}

// expose returns an interface-capable view of v, which is not the case for
// values reached through unexported struct fields.
func expose(v reflect.Value) reflect.Value {
	if v.CanInterface() {
		return v
	}
	if v.CanAddr() {
		return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
	}
	return v
}

// addressable copies v unless it already is addressable.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() || !v.CanInterface() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

// method returns the receiver to call iface's methods on: v itself or,
// for pointer-receiver methods, its address.
func method(v reflect.Value, iface reflect.Type) (reflect.Value, bool) {
	if !v.CanInterface() {
		return reflect.Value{}, false
	}
	if v.Type().Implements(iface) {
		return v, true
	}
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(iface) {
		return v.Addr(), true
	}
	return reflect.Value{}, false
}

// summary renders v at exhausted depth through error or fmt.Stringer.
func summary(v reflect.Value) (string, bool) {
	if m, ok := method(v, errorType); ok {
		return safeString(func() string { return m.Interface().(error).Error() }, v)
	}
	if m, ok := method(v, stringerType); ok {
		return safeString(func() string { return m.Interface().(fmt.Stringer).String() }, v)
	}
	return "", false
}

func primitiveString(v reflect.Value) (string, bool) {
	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), true
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128), true
	case reflect.String:
		return v.String(), true
	}
	return "", false
}

func keyString(k reflect.Value) string {
	k = expose(k)
	if k.Kind() == reflect.String {
		return k.String()
	}
	if s, ok := summary(k); ok {
		return s
	}
	if s, ok := primitiveString(k); ok {
		return s
	}
	if k.CanInterface() {
		s, _ := safeString(func() string { return fmt.Sprint(k.Interface()) }, k)
		return s
	}
	return typeName(k)
}

func callPickler(m reflect.Value) (view any, ok bool) {
	defer func() {
		if recover() != nil {
			view, ok = nil, false
		}
	}()
	return m.Interface().(Pickler).PickleValue(), true
}

// safeString runs a user String/Error method. A panicking method yields
// the type name of v.
func safeString(f func() string, v reflect.Value) (s string, ok bool) {
	defer func() {
		if recover() != nil {
			s, ok = typeName(v), true
		}
	}()
	return f(), true
}

func typeName(v reflect.Value) string {
	return v.Type().String()
}
