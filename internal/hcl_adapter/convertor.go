package hcl_adapter

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter is the cty-backed implementation of config.Converter.
type Converter struct {
	validate *validator.Validate
}

// NewConverter creates a converter. Validation errors name fields by their
// `cty` tag so messages match the keys a user wrote in the document.
func NewConverter() *Converter {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := tagName(field)
		if name == "" {
			return field.Name
		}
		return name
	})
	return &Converter{validate: v}
}

// DecodeArgs decodes args into the struct pointed to by target and validates it.
func (c *Converter) DecodeArgs(ctx context.Context, args map[string]cty.Value, target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a non-nil pointer to a struct, got %T", target)
	}
	logger := ctxlog.FromContext(ctx).With("target", ptr.Elem().Type().String())
	logger.Debug("Decoding keyword arguments.", "keys", sortedKeys(args))

	if err := c.decodeFields(ctx, args, ptr.Elem()); err != nil {
		return err
	}

	if err := c.validate.Struct(target); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validationError(verrs)
		}
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}

// decodeFields assigns each attribute to the struct field carrying the same
// `cty` tag. Unknown attributes are rejected.
func (c *Converter) decodeFields(ctx context.Context, attrs map[string]cty.Value, structVal reflect.Value) error {
	fields := make(map[string]reflect.Value)
	structType := structVal.Type()
	for i := 0; i < structType.NumField(); i++ {
		def := structType.Field(i)
		if !def.IsExported() {
			continue
		}
		if name := tagName(def); name != "" {
			fields[name] = structVal.Field(i)
		}
	}

	for _, key := range sortedKeys(attrs) {
		field, ok := fields[key]
		if !ok {
			return fmt.Errorf("unexpected argument %q (accepted: %s)", key, strings.Join(sortedKeys(fields), ", "))
		}
		if err := c.decode(ctx, attrs[key], field.Addr().Interface()); err != nil {
			return fmt.Errorf("argument %q: %w", key, err)
		}
	}
	return nil
}

func tagName(field reflect.StructField) string {
	name := strings.Split(field.Tag.Get("cty"), ",")[0]
	if name == "-" {
		return ""
	}
	return name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validationError(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%q fails %s (got %v)", fe.Field(), rule, fe.Value()))
	}
	return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
}
