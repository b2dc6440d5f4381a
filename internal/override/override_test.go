package override

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/gantrain/internal/config"
	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

var testSpecs = []Spec{
	{Flags: []string{"lr", "learning_rate"}, Type: Float, Target: config.MustParsePath("optimizer;args;lr")},
	{Flags: []string{"bs", "batch_size"}, Type: Int, Target: config.MustParsePath("data_loader;args;batch_size")},
	{Flags: []string{"mom"}, Type: Float, Target: config.MustParsePath("optimizer;args;momentum")},
}

func newDoc(t *testing.T) *config.Document {
	t.Helper()
	doc, err := config.NewDocument("config.json", cty.ObjectVal(map[string]cty.Value{
		"optimizer": cty.ObjectVal(map[string]cty.Value{
			"type": cty.StringVal("SGD"),
			"args": cty.ObjectVal(map[string]cty.Value{"lr": cty.NumberFloatVal(0.01)}),
		}),
		"data_loader": cty.ObjectVal(map[string]cty.Value{
			"type": cty.StringVal("GaussianDataLoader"),
			"args": cty.ObjectVal(map[string]cty.Value{"batch_size": cty.NumberIntVal(32)}),
		}),
	}))
	require.NoError(t, err)
	return doc
}

func get(t *testing.T, doc *config.Document, path string) cty.Value {
	t.Helper()
	v, err := doc.Get(config.MustParsePath(path))
	require.NoError(t, err)
	return v
}

func TestApply_OverrideWins(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		values []Value
		path   string
		want   cty.Value
	}{
		{name: "float", values: []Value{{Flag: "lr", Raw: "0.05"}}, path: "optimizer;args;lr", want: cty.NumberFloatVal(0.05)},
		{name: "alias", values: []Value{{Flag: "learning_rate", Raw: "1e-3"}}, path: "optimizer;args;lr", want: cty.NumberFloatVal(0.001)},
		{name: "int", values: []Value{{Flag: "bs", Raw: "128"}}, path: "data_loader;args;batch_size", want: cty.NumberIntVal(128)},
		{
			name:   "last alias wins",
			values: []Value{{Flag: "lr", Raw: "0.2"}, {Flag: "learning_rate", Raw: "0.3"}},
			path:   "optimizer;args;lr",
			want:   cty.NumberFloatVal(0.3),
		},
		{name: "no values", values: nil, path: "optimizer;args;lr", want: cty.NumberFloatVal(0.01)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			doc := newDoc(t)

			// --- Act ---
			out, err := Apply(ctxlog.Discard(context.Background()), doc, testSpecs, tc.values)

			// --- Assert ---
			require.NoError(t, err)
			got := get(t, out, tc.path)
			require.True(t, got.RawEquals(tc.want), "got %#v want %#v", got, tc.want)
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	doc := newDoc(t)

	_, err := Apply(ctxlog.Discard(context.Background()), doc, testSpecs, []Value{{Flag: "lr", Raw: "0.9"}})

	require.NoError(t, err)
	require.True(t, get(t, doc, "optimizer;args;lr").RawEquals(cty.NumberFloatVal(0.01)))
}

func TestApply_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		value      Value
		wantTarget string
		wantIs     error
	}{
		{name: "coercion failure", value: Value{Flag: "lr", Raw: "fast"}, wantTarget: "optimizer;args;lr"},
		{name: "int rejects fraction", value: Value{Flag: "bs", Raw: "3.5"}, wantTarget: "data_loader;args;batch_size"},
		{name: "path absent", value: Value{Flag: "mom", Raw: "0.9"}, wantTarget: "optimizer;args;momentum", wantIs: config.ErrPathNotFound},
		{name: "unknown flag", value: Value{Flag: "epochs", Raw: "3"}, wantIs: errUnknownFlag},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Apply(ctxlog.Discard(context.Background()), newDoc(t), testSpecs, []Value{tc.value})

			var invalid *InvalidOverrideError
			require.True(t, errors.As(err, &invalid), "expected InvalidOverrideError, got %v", err)
			require.Equal(t, tc.value.Flag, invalid.Flag)
			require.Equal(t, tc.value.Raw, invalid.Raw)
			require.Equal(t, tc.wantTarget, invalid.Target)
			if tc.wantIs != nil {
				require.ErrorIs(t, err, tc.wantIs)
			}
		})
	}
}

func TestIndex_RejectsDuplicateAliases(t *testing.T) {
	t.Parallel()

	_, err := Index([]Spec{
		{Flags: []string{"lr"}, Type: Float, Target: config.MustParsePath("a;b")},
		{Flags: []string{"lr"}, Type: Float, Target: config.MustParsePath("c;d")},
	})
	require.ErrorContains(t, err, "--lr")

	_, err = Index([]Spec{{Type: Float, Target: config.MustParsePath("a")}})
	require.Error(t, err)

	_, err = Index([]Spec{{Flags: []string{"x"}, Target: config.MustParsePath("a")}})
	require.Error(t, err)
}

func TestCoercions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		fn      Coercion
		raw     string
		want    cty.Value
		wantErr bool
	}{
		{name: "float", fn: Float, raw: "0.5", want: cty.NumberFloatVal(0.5)},
		{name: "float from int text", fn: Float, raw: "2", want: cty.NumberFloatVal(2)},
		{name: "float invalid", fn: Float, raw: "x", wantErr: true},
		{name: "int", fn: Int, raw: " 64 ", want: cty.NumberIntVal(64)},
		{name: "int invalid", fn: Int, raw: "6.4", wantErr: true},
		{name: "bool", fn: Bool, raw: "true", want: cty.True},
		{name: "bool invalid", fn: Bool, raw: "yes please", wantErr: true},
		{name: "string", fn: String, raw: "Adam", want: cty.StringVal("Adam")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.fn(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, got.RawEquals(tc.want))
		})
	}
}
