package hcl_adapter

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// decodeMap decodes an object or map into a Go map with string keys.
func (c *Converter) decodeMap(ctx context.Context, val cty.Value, goPtr reflect.Value) error {
	logger := ctxlog.FromContext(ctx).With("go_type", goPtr.Type().String(), "cty_type", val.Type().FriendlyName())

	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return fmt.Errorf("type mismatch: cannot decode %s into %s", val.Type().FriendlyName(), goPtr.Type().String())
	}
	if goPtr.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("unsupported map key type %s", goPtr.Type().Key().String())
	}

	if goPtr.Type() == reflect.TypeOf((map[string]any)(nil)) {
		logger.Debug("Using fast path for map[string]any.")
		nativeVal, err := ctyToNative(val)
		if err != nil {
			return err
		}
		goPtr.Set(reflect.ValueOf(nativeVal))
		return nil
	}

	newMap := reflect.MakeMap(goPtr.Type())
	it := val.ElementIterator()
	for it.Next() {
		key, elemVal := it.Element()
		keyStr := key.AsString()
		newElemPtr := reflect.New(goPtr.Type().Elem())
		if err := c.decode(ctx, elemVal, newElemPtr.Interface()); err != nil {
			return fmt.Errorf("map key %q: %w", keyStr, err)
		}
		newMap.SetMapIndex(reflect.ValueOf(keyStr).Convert(goPtr.Type().Key()), newElemPtr.Elem())
	}
	goPtr.Set(newMap)
	return nil
}
