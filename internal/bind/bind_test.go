package bind

import (
	"math"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gogeom "github.com/twpayne/go-geom"

	"propmap/internal/geom"
)

func point(id string, x, y float64, props map[string]any) geom.Feature {
	return geom.Feature{ID: id, Geometry: gogeom.NewPointFlat(gogeom.XY, []float64{x, y}), Props: props}
}

func collection(fs ...geom.Feature) geom.Collection {
	c := geom.Collection{Features: fs, Fields: []string{"pop", "rate"}}
	return c
}

func TestBind_SortsBySizeAndKeepsNoData(t *testing.T) {
	c := collection(
		point("a", 0, 0, map[string]any{"pop": 10.0, "rate": 1.5}),
		point("b", 1, 1, map[string]any{"pop": 90.0, "rate": nil}),
		point("c", 2, 2, map[string]any{"pop": "40", "rate": "2"}),
		point("d", 3, 3, map[string]any{"pop": "", "rate": 3.0}),
	)
	recs, err := Bind(c, Spec{SizeField: "pop", ColorField: "rate"})
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{recs[0].ID, recs[1].ID, recs[2].ID})
	assert.False(t, recs[0].HasColor())
	assert.InDelta(t, 2.0, recs[1].Color, 1e-12)
	assert.Equal(t, [2]float64{2, 2}, recs[1].Position)
}

func TestBind_KeepOrder(t *testing.T) {
	c := collection(
		point("a", 0, 0, map[string]any{"pop": 10.0, "rate": 1.0}),
		point("b", 1, 1, map[string]any{"pop": 90.0, "rate": 1.0}),
	)
	recs, err := Bind(c, Spec{SizeField: "pop", ColorField: "rate", KeepOrder: true})
	require.NoError(t, err)
	assert.Equal(t, "a", recs[0].ID)
}

func TestBind_UnknownField(t *testing.T) {
	c := collection(point("a", 0, 0, map[string]any{"pop": 1.0}))
	_, err := Bind(c, Spec{SizeField: "pop", ColorField: "nope"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrAlignment))
}

func TestBind_TableJoinAndPositionalFallback(t *testing.T) {
	table, err := ReadTable(strings.NewReader("code,pop,rate\nb,50,7\nzz,20,NA\n"))
	require.NoError(t, err)

	c := collection(
		point("a", 0, 0, nil),
		point("b", 1, 1, nil),
	)
	recs, err := Bind(c, Spec{SizeField: "pop", ColorField: "rate", IDField: "code", Table: table, KeepOrder: true})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// "a" is not in the table: the row at its position is used
	assert.InDelta(t, 50.0, recs[0].Size, 1e-12)
	assert.InDelta(t, 50.0, recs[1].Size, 1e-12)
	assert.InDelta(t, 7.0, recs[1].Color, 1e-12)
}

func TestBind_LengthMismatch(t *testing.T) {
	table, err := ReadTable(strings.NewReader("code,pop,rate\nb,50,7\n"))
	require.NoError(t, err)

	c := collection(point("a", 0, 0, nil), point("b", 1, 1, nil))
	_, err = Bind(c, Spec{SizeField: "pop", ColorField: "rate", IDField: "code", Table: table})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrAlignment))
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{3.5, 3.5, true},
		{" 12 ", 12, true},
		{"NA", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{"abc", 0, false},
		{math.NaN(), 0, false},
		{7, 7, true},
		{"Inf", 0, false},
		{"+Inf", 0, false},
		{"-infinity", 0, false},
		{math.Inf(1), 0, false},
		{float32(math.NaN()), 0, false},
		{float32(math.Inf(-1)), 0, false},
		{float32(2.5), 2.5, true},
	}
	for _, tt := range tests {
		got, ok := Number(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-12)
		}
	}
}

func TestBind_InfiniteSizeDropped(t *testing.T) {
	c := geom.Collection{
		Fields: []string{"pop", "rate"},
		Features: []geom.Feature{
			point("a", 0, 0, map[string]any{"pop": "Inf", "rate": 1.0}),
			point("b", 1, 1, map[string]any{"pop": 20.0, "rate": "+Inf"}),
		},
	}
	recs, err := Bind(c, Spec{SizeField: "pop", ColorField: "rate"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].ID)
	assert.False(t, recs[0].HasColor())
}

func TestFields(t *testing.T) {
	c := geom.Collection{
		Fields: []string{"name", "pop", "rate"},
		Features: []geom.Feature{
			point("a", 0, 0, map[string]any{"name": "x", "pop": "12", "rate": ""}),
		},
	}
	assert.Equal(t, []string{"pop"}, Fields(c))
}
