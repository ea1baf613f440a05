package dataflow

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Environment carries the execution-environment settings the lowering pass
// needs: the default parallelism for new units and the force-break-chain
// policy applied to unified sources.
type Environment struct {
	DefaultParallelism int
	ForceBreakChain    bool
}

func NewEnvironment(defaultParallelism int, forceBreakChain bool) (*Environment, error) {
	if defaultParallelism < 1 {
		return nil, fmt.Errorf("environment default parallelism must be positive, got %d", defaultParallelism)
	}
	return &Environment{
		DefaultParallelism: defaultParallelism,
		ForceBreakChain:    forceBreakChain,
	}, nil
}

const transientTag = "tributary"

// Clean prepares a callable for capture into a distributed execution unit.
// Fields tagged `tributary:"transient"` are zeroed, they're rebuilt on the
// worker. Any remaining live references that can't cross a process boundary
// (channels, funcs, unsafe pointers) make Clean fail. Legacy source functions
// historically close over outer-scope state, so this runs unconditionally
// before such a function is captured.
func (env *Environment) Clean(callable interface{}) error {
	if callable == nil {
		return fmt.Errorf("can't clean nil callable")
	}
	return clean(reflect.ValueOf(callable), "")
}

func clean(value reflect.Value, path string) error {
	switch value.Kind() {
	case reflect.Ptr, reflect.Interface:
		if value.IsNil() {
			return nil
		}
		return clean(value.Elem(), path)
	case reflect.Struct:
		t := value.Type()
		for i := 0; i < t.NumField(); i++ {
			fieldPath := t.Field(i).Name
			if path != "" {
				fieldPath = path + "." + fieldPath
			}
			field := value.Field(i)
			if t.Field(i).Tag.Get(transientTag) == "transient" {
				if !field.CanSet() {
					// Unexported transient fields are reachable through their
					// address, the struct is always addressable here for
					// pointer receivers.
					if !field.CanAddr() {
						return fmt.Errorf("can't zero transient field %s of non-addressable value", fieldPath)
					}
					field = reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
				}
				field.Set(reflect.Zero(field.Type()))
				continue
			}
			if err := clean(field, fieldPath); err != nil {
				return err
			}
		}
		return nil
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return fmt.Errorf("callable captures non-serializable state at %s (%s), mark it `tributary:\"transient\"` or remove it", path, value.Kind())
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := clean(value.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		iter := value.MapRange()
		for iter.Next() {
			if err := clean(iter.Value(), fmt.Sprintf("%s[%v]", path, iter.Key())); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
