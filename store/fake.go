package store

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/supatools/supamove/dbtable"
)

// FakeStore is an in-memory Store for tests.
type FakeStore struct {
	id     ID
	tables map[string][]Row

	// SelectCalls counts SelectRange invocations per qualified name.
	SelectCalls map[string]int

	// Hooks, when set, inject failures.
	SelectErr func(table dbtable.Name, start int) error
	InsertErr func(table dbtable.Name, row Row) error
	CountErr  func(table dbtable.Name) error
	ListErr   error
}

var _ Store = (*FakeStore)(nil)

func MakeFakeStore(id ID) *FakeStore {
	return &FakeStore{
		id:          id,
		tables:      map[string][]Row{},
		SelectCalls: map[string]int{},
	}
}

// SetTable installs table contents, creating the table if needed.
func (f *FakeStore) SetTable(table dbtable.Name, rows ...Row) {
	f.tables[table.Qualified()] = rows
}

func (f *FakeStore) Rows(table dbtable.Name) []Row {
	return f.tables[table.Qualified()]
}

func (f *FakeStore) ID() ID {
	return f.id
}

func (f *FakeStore) URL() string {
	return "fake://" + string(f.id)
}

func (f *FakeStore) Close(ctx context.Context) error {
	return nil
}

func (f *FakeStore) SelectRange(
	ctx context.Context, table dbtable.Name, start int, end int,
) ([]Row, error) {
	f.SelectCalls[table.Qualified()]++
	if f.SelectErr != nil {
		if err := f.SelectErr(table, start); err != nil {
			return nil, err
		}
	}
	rows, ok := f.tables[table.Qualified()]
	if !ok {
		return nil, errors.Newf("table %s does not exist", table)
	}
	if start >= len(rows) {
		return nil, nil
	}
	if end >= len(rows)-1 {
		end = len(rows) - 1
	}
	return rows[start : end+1], nil
}

func (f *FakeStore) Insert(ctx context.Context, table dbtable.Name, rows ...Row) error {
	for _, row := range rows {
		if f.InsertErr != nil {
			if err := f.InsertErr(table, row); err != nil {
				return err
			}
		}
		f.tables[table.Qualified()] = append(f.tables[table.Qualified()], row)
	}
	return nil
}

func (f *FakeStore) Count(ctx context.Context, table dbtable.Name) (int64, error) {
	if f.CountErr != nil {
		if err := f.CountErr(table); err != nil {
			return 0, err
		}
	}
	rows, ok := f.tables[table.Qualified()]
	if !ok {
		return 0, errors.Newf("table %s does not exist", table)
	}
	return int64(len(rows)), nil
}

func (f *FakeStore) ListTables(ctx context.Context, schemas []string) ([]dbtable.Name, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	include := map[string]bool{}
	for _, s := range schemas {
		include[s] = true
	}
	var names []dbtable.Name
	for qualified := range f.tables {
		n := dbtable.ParseName(qualified)
		if include[n.Schema] {
			names = append(names, n)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Less(names[j]) })
	return names, nil
}

func (f *FakeStore) DropTable(ctx context.Context, table dbtable.Name) error {
	if _, ok := f.tables[table.Qualified()]; !ok {
		return errors.Newf("table %s does not exist", table)
	}
	delete(f.tables, table.Qualified())
	return nil
}
