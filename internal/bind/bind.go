// Package bind aligns feature geometry with the two numeric fields a
// proportional-symbol layer encodes.
package bind

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"propmap/internal/geom"
)

// ErrAlignment reports attributes that cannot be lined up with the geometry.
var ErrAlignment = eris.New("bind: attributes do not align with geometry")

// Record is one feature ready for symbolisation.
type Record struct {
	ID       string
	Position [2]float64
	Size     float64
	// Color is NaN when the feature has no value for the colour field.
	Color float64
}

// HasColor reports whether the record carries a colour value.
func (r Record) HasColor() bool { return !math.IsNaN(r.Color) }

// Table is an external attribute table joined onto the features.
type Table struct {
	Fields []string
	Rows   []map[string]string
}

// Spec names the fields to bind.
type Spec struct {
	SizeField  string
	ColorField string
	// IDField names the join key in Table. Features are matched by their ID.
	IDField string
	// Table, when set, supplies the attributes instead of feature properties.
	Table *Table
	// KeepOrder keeps input order; otherwise records are sorted by
	// decreasing size so small symbols are drawn last.
	KeepOrder bool
}

// Bind produces the ordered record set for coll. Features without a usable
// size value are dropped; a missing colour value becomes NaN.
func Bind(coll geom.Collection, spec Spec) ([]Record, error) {
	if spec.SizeField == "" || spec.ColorField == "" {
		return nil, eris.Wrap(ErrAlignment, "bind: size and color fields are required")
	}
	rows, err := attributeRows(coll, spec)
	if err != nil {
		return nil, err
	}
	if err := checkFields(coll, spec); err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(coll.Features))
	dropped := 0
	for i, f := range coll.Features {
		row := rows[i]
		size, ok := Number(row[spec.SizeField])
		if !ok {
			dropped++
			continue
		}
		pos, err := f.Anchor()
		if err != nil {
			return nil, eris.Wrapf(err, "bind: feature %d", i)
		}
		col, ok := Number(row[spec.ColorField])
		if !ok {
			col = math.NaN()
		}
		out = append(out, Record{ID: f.ID, Position: pos, Size: size, Color: col})
	}
	if dropped > 0 {
		zap.L().Debug("bind: dropped features without a size value",
			zap.String("field", spec.SizeField),
			zap.Int("dropped", dropped),
		)
	}
	if !spec.KeepOrder {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Size > out[j].Size })
	}
	return out, nil
}

// attributeRows returns one attribute row per feature, in feature order.
func attributeRows(coll geom.Collection, spec Spec) ([]map[string]any, error) {
	rows := make([]map[string]any, len(coll.Features))
	if spec.Table == nil {
		for i, f := range coll.Features {
			rows[i] = f.Props
		}
		return rows, nil
	}

	t := spec.Table
	byID := make(map[string]map[string]string, len(t.Rows))
	if spec.IDField != "" {
		for _, r := range t.Rows {
			if id := r[spec.IDField]; id != "" {
				byID[id] = r
			}
		}
	}
	for i, f := range coll.Features {
		if r, ok := byID[f.ID]; ok && f.ID != "" {
			rows[i] = toAny(r)
			continue
		}
		// positional fallback
		if len(t.Rows) != len(coll.Features) {
			return nil, eris.Wrapf(ErrAlignment, "bind: feature %d (id %q) unmatched and table has %d rows for %d features",
				i, f.ID, len(t.Rows), len(coll.Features))
		}
		rows[i] = toAny(t.Rows[i])
	}
	return rows, nil
}

func checkFields(coll geom.Collection, spec Spec) error {
	known := map[string]bool{}
	if spec.Table != nil {
		for _, f := range spec.Table.Fields {
			known[f] = true
		}
	} else {
		for _, f := range coll.Fields {
			known[f] = true
		}
	}
	for _, f := range []string{spec.SizeField, spec.ColorField} {
		if !known[f] {
			return eris.Wrapf(ErrAlignment, "bind: unknown field %q", f)
		}
	}
	return nil
}

func toAny(r map[string]string) map[string]any {
	m := make(map[string]any, len(r))
	for k, v := range r {
		m[k] = v
	}
	return m
}

// Number converts an attribute value to a float. Empty strings, nil,
// non-numeric text and non-finite values are not numbers; "NA" style
// markers are treated as empty.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, finite(t)
	case float32:
		return float64(t), finite(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		switch strings.ToUpper(s) {
		case "", "NA", "NAN", "NULL", "-":
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Fields lists the attributes that hold a number for at least one feature,
// in collection order.
func Fields(coll geom.Collection) []string {
	var out []string
	for _, name := range coll.Fields {
		for _, f := range coll.Features {
			if _, ok := Number(f.Props[name]); ok {
				out = append(out, name)
				break
			}
		}
	}
	return out
}
