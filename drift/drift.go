// Package drift classifies the tables of two stores as present on one
// side only, in sync, or diverged in row count.
package drift

import (
	"context"

	"github.com/supatools/supamove/dbtable"
	"github.com/supatools/supamove/store"
)

type Status int

const (
	StatusSourceOnly Status = iota
	StatusTargetOnly
	StatusInSync
	StatusDiverged
)

func (s Status) String() string {
	switch s {
	case StatusSourceOnly:
		return "source only"
	case StatusTargetOnly:
		return "target only"
	case StatusInSync:
		return "in sync"
	case StatusDiverged:
		return "diverged"
	}
	return "unknown status"
}

// TableRow is the comparison outcome for one table. Counts are only
// meaningful for sides on which the table exists.
type TableRow struct {
	Name        dbtable.Name
	InSource    bool
	InTarget    bool
	SourceCount Count
	TargetCount Count
	Status      Status
}

// Delta returns source count minus target count. It is only known for
// tables present on both sides with both counts determined.
func (r TableRow) Delta() (int64, bool) {
	src, srcOK := r.SourceCount.Value()
	tgt, tgtOK := r.TargetCount.Value()
	if !r.InSource || !r.InTarget || !srcOK || !tgtOK {
		return 0, false
	}
	return src - tgt, true
}

// Compare walks the union of both table lists in sorted order and
// classifies each table. Inputs are expected sorted ascending by
// qualified name, as produced by discover.Tables. Counts are fetched
// only for sides that contain the table. Compare never mutates either
// store.
func Compare(
	ctx context.Context,
	source store.Store,
	target store.Store,
	sourceTables []dbtable.Name,
	targetTables []dbtable.Name,
) []TableRow {
	var rows []TableRow
	i, j := 0, 0
	for i < len(sourceTables) || j < len(targetTables) {
		// When one list is exhausted the other side is strictly ahead.
		cmp := 0
		switch {
		case i >= len(sourceTables):
			cmp = 1
		case j >= len(targetTables):
			cmp = -1
		default:
			cmp = sourceTables[i].Compare(targetTables[j])
		}
		switch {
		case cmp < 0:
			rows = append(rows, TableRow{
				Name:        sourceTables[i],
				InSource:    true,
				SourceCount: CountRows(ctx, source, sourceTables[i]),
				Status:      StatusSourceOnly,
			})
			i++
		case cmp > 0:
			rows = append(rows, TableRow{
				Name:        targetTables[j],
				InTarget:    true,
				TargetCount: CountRows(ctx, target, targetTables[j]),
				Status:      StatusTargetOnly,
			})
			j++
		default:
			row := TableRow{
				Name:        sourceTables[i],
				InSource:    true,
				InTarget:    true,
				SourceCount: CountRows(ctx, source, sourceTables[i]),
				TargetCount: CountRows(ctx, target, targetTables[j]),
			}
			src, srcOK := row.SourceCount.Value()
			tgt, tgtOK := row.TargetCount.Value()
			// An unknown count on either side cannot confirm sync.
			if srcOK && tgtOK && src == tgt {
				row.Status = StatusInSync
			} else {
				row.Status = StatusDiverged
			}
			rows = append(rows, row)
			i++
			j++
		}
	}
	return rows
}
