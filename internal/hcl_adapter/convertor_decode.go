package hcl_adapter

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var ctyValueType = reflect.TypeOf(cty.Value{})

// decode recursively populates the Go value pointed to by goVal from val,
// guided by the Go type alone. Null values leave the target untouched so
// option structs keep their defaults.
func (c *Converter) decode(ctx context.Context, val cty.Value, goVal any) error {
	goPtr := reflect.ValueOf(goVal).Elem()
	goType := goPtr.Type()
	logger := ctxlog.FromContext(ctx).With("go_kind", goType.Kind().String())

	// cty.Value fields receive the raw value.
	if goType == ctyValueType {
		if val.IsKnown() {
			goPtr.Set(reflect.ValueOf(val))
		}
		return nil
	}

	if !val.IsKnown() || val.IsNull() {
		logger.Debug("Skipping decode for null or unknown value.")
		return nil
	}

	switch goType.Kind() {
	case reflect.Struct:
		if !val.Type().IsObjectType() && !val.Type().IsMapType() {
			return fmt.Errorf("type mismatch: cannot decode %s into %s", val.Type().FriendlyName(), goType.String())
		}
		return c.decodeFields(ctx, val.AsValueMap(), goPtr)

	case reflect.Pointer:
		elem := reflect.New(goType.Elem())
		if err := c.decode(ctx, val, elem.Interface()); err != nil {
			return err
		}
		goPtr.Set(elem)
		return nil

	case reflect.Interface:
		nativeVal, err := ctyToNative(val)
		if err != nil {
			return err
		}
		if nativeVal != nil {
			goPtr.Set(reflect.ValueOf(nativeVal))
		}
		return nil

	case reflect.Map:
		return c.decodeMap(ctx, val, goPtr)

	case reflect.Slice:
		ty := val.Type()
		if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
			return fmt.Errorf("type mismatch: cannot decode %s into %s", ty.FriendlyName(), goType.String())
		}
		newSlice := reflect.MakeSlice(goType, val.LengthInt(), val.LengthInt())
		it := val.ElementIterator()
		for i := 0; it.Next(); i++ {
			_, elemVal := it.Element()
			if err := c.decode(ctx, elemVal, newSlice.Index(i).Addr().Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		goPtr.Set(newSlice)
		return nil

	default: // string, bool, numbers
		want, err := gocty.ImpliedType(reflect.Zero(goType).Interface())
		if err != nil {
			return fmt.Errorf("unsupported target type %s: %w", goType.String(), err)
		}
		converted, err := convert.Convert(val, want)
		if err != nil {
			return fmt.Errorf("cannot use %s as %s: %w", val.Type().FriendlyName(), want.FriendlyName(), err)
		}
		return gocty.FromCtyValue(converted, goVal)
	}
}
