package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/lexbase"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/supatools/supamove/dbtable"
)

// PGStore reaches a project over its Postgres port directly, which local
// Supabase instances expose alongside the REST endpoint.
type PGStore struct {
	id      ID
	connStr string
	conn    *pgx.Conn
}

var _ Store = (*PGStore)(nil)

func ConnectPG(ctx context.Context, id ID, connStr string) (*PGStore, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: cannot connect to database", id)
	}
	return &PGStore{id: id, connStr: connStr, conn: conn}, nil
}

func (s *PGStore) ID() ID {
	return s.id
}

func (s *PGStore) URL() string {
	return s.connStr
}

func (s *PGStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

func escapeTable(table dbtable.Name) string {
	return lexbase.EscapeSQLIdent(table.Schema) + "." + lexbase.EscapeSQLIdent(table.Table)
}

// selectRangeSQL pages with an explicit order so successive OFFSET
// scans observe a stable row sequence: without ORDER BY, Postgres may
// rotate the scan start point between queries (synchronize_seqscans)
// and pages would skip or repeat rows. ctid orders by physical
// location, which holds while the source is quiescent and needs no
// knowledge of the table's keys.
func selectRangeSQL(table dbtable.Name, start int, end int) string {
	return fmt.Sprintf(
		"SELECT * FROM %s ORDER BY ctid OFFSET %d LIMIT %d",
		escapeTable(table), start, end-start+1,
	)
}

func (s *PGStore) SelectRange(
	ctx context.Context, table dbtable.Name, start int, end int,
) ([]Row, error) {
	rows, err := s.conn.Query(ctx, selectRangeSQL(table, start, end))
	if err != nil {
		return nil, errors.Wrapf(err, "error fetching rows [%d,%d] of %s", start, end, table)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = string(fd.Name)
	}
	var ret []Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, errors.Wrapf(err, "error decoding rows of %s", table)
		}
		var r Row
		for i, v := range vals {
			r.Set(cols[i], valueFromNative(v))
		}
		ret = append(ret, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "error fetching rows of %s", table)
	}
	return ret, nil
}

func (s *PGStore) Insert(ctx context.Context, table dbtable.Name, rows ...Row) error {
	for _, row := range rows {
		cols := row.Columns()
		if len(cols) == 0 {
			continue
		}
		var sb strings.Builder
		sb.WriteString("INSERT INTO ")
		sb.WriteString(escapeTable(table))
		sb.WriteString(" (")
		args := make([]interface{}, 0, len(cols))
		for i, c := range cols {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(lexbase.EscapeSQLIdent(c))
		}
		sb.WriteString(") VALUES (")
		for i, v := range row.Values() {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i+1)
			args = append(args, v.nativeArg())
		}
		sb.WriteString(")")
		if _, err := s.conn.Exec(ctx, sb.String(), args...); err != nil {
			return errors.Wrapf(err, "error inserting into %s", table)
		}
	}
	return nil
}

func (s *PGStore) Count(ctx context.Context, table dbtable.Name) (int64, error) {
	var n int64
	if err := s.conn.QueryRow(
		ctx, "SELECT count(*) FROM "+escapeTable(table),
	).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "error counting rows of %s", table)
	}
	return n, nil
}

func (s *PGStore) ListTables(ctx context.Context, schemas []string) ([]dbtable.Name, error) {
	rows, err := s.conn.Query(
		ctx,
		`SELECT table_schema, table_name FROM information_schema.tables
WHERE table_type = 'BASE TABLE' AND table_schema = ANY($1)
ORDER BY 1, 2`,
		schemas,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []dbtable.Name
	for rows.Next() {
		var schema, table string
		if err := rows.Scan(&schema, &table); err != nil {
			return nil, errors.Wrap(err, "error decoding table catalog")
		}
		names = append(names, dbtable.MakeName(schema, table))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error collecting table catalog")
	}
	return names, nil
}

func (s *PGStore) DropTable(ctx context.Context, table dbtable.Name) error {
	_, err := s.conn.Exec(ctx, "DROP TABLE "+escapeTable(table)+" CASCADE")
	return errors.Wrapf(err, "error dropping %s", table)
}
