package columns

import (
	"cmp"
	"context"
	"slices"

	"github.com/projecteru2/bollard/types"
)

// Row is one display row. An empty string marks a missing value.
type Row map[Column]string

// Resolver returns the records for ids, skipping unresolvable ones.
type Resolver interface {
	Resolve(ctx context.Context, ids []string) ([]*types.Image, []string)
}

// Collect projects every resolvable image onto cols and explodes each image
// into its rows, keeping image order.
func Collect(ctx context.Context, r Resolver, ids []string, cols []Column, f Formats) []Row {
	imgs, _ := r.Resolve(ctx, ids)
	var rows []Row
	for _, img := range imgs {
		values := make(map[Column][]string, len(cols))
		for _, c := range cols {
			values[c] = Project(ctx, img, c, f)
		}
		rows = append(rows, Explode(values)...)
	}
	return rows
}

// Explode turns per-column value lists into rows. Columns with a single value
// repeat on every row, columns without values are empty, and columns with
// several values are zipped to the longest one, padding with empty values.
func Explode(values map[Column][]string) []Row {
	unique := Row{}
	var (
		fanout []Column
		n      int
	)
	for c, vs := range values {
		switch len(vs) {
		case 0:
			unique[c] = ""
		case 1:
			unique[c] = vs[0]
		default:
			fanout = append(fanout, c)
			n = max(n, len(vs))
		}
	}
	if len(fanout) == 0 {
		return []Row{unique}
	}

	rows := make([]Row, n)
	for i := range rows {
		row := make(Row, len(values))
		for c, v := range unique {
			row[c] = v
		}
		for _, c := range fanout {
			if vs := values[c]; i < len(vs) {
				row[c] = vs[i]
			} else {
				row[c] = ""
			}
		}
		rows[i] = row
	}
	return rows
}

// Order stably sorts rows by column c. Rows with an empty value sink to the
// end in both directions.
func Order(rows []Row, c Column, desc bool) []Row {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		va, vb := a[c], b[c]
		switch {
		case va == "" && vb == "":
			return 0
		case va == "":
			return 1
		case vb == "":
			return -1
		}
		if desc {
			return cmp.Compare(vb, va)
		}
		return cmp.Compare(va, vb)
	})
	return out
}

// Truncate keeps the first n rows. A negative n keeps everything.
func Truncate(rows []Row, n int) []Row {
	if n < 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}
