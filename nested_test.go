package clauso_test

import (
	"testing"

	"github.com/soundprediction/clauso"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNestedWhere(t *testing.T) {
	t.Run("scalar value yields one clause and one scoring function", func(t *testing.T) {
		b := clauso.New(&mockGateway{}, nil)
		b.NestedWhere("tags", "name", "x")

		snap := b.Snapshot()
		require.Len(t, snap.Bool.Should, 1)
		require.Len(t, snap.Functions, 1)
		assert.InDelta(t, clauso.DefaultFunctionWeight, snap.Functions[0].Weight, 1e-9)

		want := map[string]any{"nested": map[string]any{
			"path":  "tags",
			"query": map[string]any{"term": map[string]any{"name": "x"}},
		}}
		assert.Equal(t, want, snap.Bool.Should[0].Body())
	})

	t.Run("slice value unrolls into independent clauses", func(t *testing.T) {
		b := clauso.New(&mockGateway{}, nil)
		b.NestedWhere("tags", "name", []string{"x", "y", "z"})

		snap := b.Snapshot()
		require.Len(t, snap.Bool.Should, 3)
		require.Len(t, snap.Functions, 3)
		for i, want := range []string{"x", "y", "z"} {
			nested := snap.Bool.Should[i].Body()["nested"].(map[string]any)
			term := nested["query"].(map[string]any)["term"].(map[string]any)
			assert.Equal(t, want, term["name"])
		}
	})

	t.Run("logic table", func(t *testing.T) {
		cases := []struct {
			logic clauso.Logic
			group func(clauso.QueryDocument) []clauso.Clause
		}{
			{clauso.LogicAnd, func(d clauso.QueryDocument) []clauso.Clause { return d.Bool.Must }},
			{clauso.LogicOr, func(d clauso.QueryDocument) []clauso.Clause { return d.Bool.Should }},
			{clauso.LogicNotEquals, func(d clauso.QueryDocument) []clauso.Clause { return d.Bool.MustNot }},
		}
		for _, tc := range cases {
			b := clauso.New(&mockGateway{}, nil)
			b.NestedWhereOpt("tags", "name", "x", clauso.NestedOpt{Logic: tc.logic})
			assert.Len(t, tc.group(b.Snapshot()), 1, "logic %q", tc.logic)
		}
	})

	t.Run("unknown logic records the error", func(t *testing.T) {
		b := clauso.New(&mockGateway{}, nil)
		b.NestedWhereOpt("tags", "name", "x", clauso.NestedOpt{Logic: clauso.Logic("xor")})

		snap := b.Snapshot()
		assert.Empty(t, snap.Bool.Should)
		assert.ErrorIs(t, b.Err(), clauso.ErrUnsupportedLogic)
	})

	t.Run("scoring can be disabled", func(t *testing.T) {
		b := clauso.New(&mockGateway{}, nil)
		b.NestedWhereOpt("tags", "name", "x", clauso.NestedOpt{NoScore: true})

		snap := b.Snapshot()
		assert.Len(t, snap.Bool.Should, 1)
		assert.Empty(t, snap.Functions)
	})

	t.Run("caller-specified weight", func(t *testing.T) {
		b := clauso.New(&mockGateway{}, nil)
		b.NestedWhereOpt("tags", "name", "x", clauso.NestedOpt{Weight: 7.5})

		snap := b.Snapshot()
		require.Len(t, snap.Functions, 1)
		assert.InDelta(t, 7.5, snap.Functions[0].Weight, 1e-9)
	})
}

func TestNestedWhereRaw(t *testing.T) {
	t.Run("inner body passes through verbatim", func(t *testing.T) {
		raw := map[string]any{"range": map[string]any{"tags.count": map[string]any{"gte": 3}}}
		b := clauso.New(&mockGateway{}, nil)
		b.NestedWhereRaw("tags", raw, clauso.NestedOpt{Logic: clauso.LogicAnd})

		snap := b.Snapshot()
		require.Len(t, snap.Bool.Must, 1)
		nested := snap.Bool.Must[0].Body()["nested"].(map[string]any)
		assert.Equal(t, raw, nested["query"])
		require.Len(t, snap.Functions, 1)
	})
}

func TestApplyFunctionScore(t *testing.T) {
	t.Run("wraps the bool query with registered functions", func(t *testing.T) {
		b := clauso.New(&mockGateway{}, nil)
		b.Index("products").
			Where("status", 1, clauso.OpEquals).
			NestedWhere("tags", "name", []string{"x", "y"}).
			ApplyFunctionScore("", "")

		envelope, err := b.Compile()
		require.NoError(t, err)
		query := envelope["body"].(map[string]any)["query"].(map[string]any)

		fs, ok := query["function_score"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "sum", fs["score_mode"])
		assert.Equal(t, "replace", fs["boost_mode"])

		functions := fs["functions"].([]any)
		require.Len(t, functions, 2)
		for _, fn := range functions {
			entry := fn.(map[string]any)
			assert.Contains(t, entry, "filter")
			assert.InDelta(t, clauso.DefaultFunctionWeight, entry["weight"].(float64), 1e-9)
		}

		// The prior bool query is carried unchanged inside the envelope.
		inner := fs["query"].(map[string]any)["bool"].(map[string]any)
		assert.Len(t, inner["filter"].([]any), 1)
		assert.Len(t, inner["should"].([]any), 2)
	})

	t.Run("clause calls after the wrap fail fast", func(t *testing.T) {
		b := clauso.New(&mockGateway{}, nil)
		b.Index("products").ApplyFunctionScore("sum", "multiply")
		b.Where("status", 1, clauso.OpEquals)

		assert.ErrorIs(t, b.Err(), clauso.ErrQueryWrapped)
		assert.Empty(t, b.Snapshot().Bool.Filter)
	})
}
