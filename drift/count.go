package drift

import (
	"context"
	"strconv"

	"github.com/supatools/supamove/dbtable"
	"github.com/supatools/supamove/store"
)

// Count is an exact row count or Unknown. Unknown is not an error: it
// means the count could not be determined and must render distinctly
// from a true zero.
type Count struct {
	known bool
	value int64
}

func Exact(n int64) Count {
	return Count{known: true, value: n}
}

func Unknown() Count {
	return Count{}
}

func (c Count) Value() (int64, bool) {
	return c.value, c.known
}

func (c Count) String() string {
	if !c.known {
		return "unknown"
	}
	return strconv.FormatInt(c.value, 10)
}

// CountRows returns the exact row count of the table, or Unknown when
// the store cannot determine it (the table disappeared, a transient
// fetch error). It never returns an error.
func CountRows(ctx context.Context, st store.Store, table dbtable.Name) Count {
	n, err := st.Count(ctx, table)
	if err != nil {
		return Unknown()
	}
	return Exact(n)
}
