package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// QueryParams selects and orders the rows of a table. Where and OrderBy are
// SQL fragments without their keywords, for example "Cycle > ? AND Kind = ?"
// and "Cycle DESC". A Limit of zero returns every row.
type QueryParams struct {
	Where   string
	Args    []any
	Limit   int
	Offset  int
	OrderBy string
}

func (p QueryParams) selectSQL(table string) string {
	var b strings.Builder

	b.WriteString("SELECT * FROM ")
	b.WriteString(table)

	if p.Where != "" {
		b.WriteString(" WHERE " + p.Where)
	}

	if p.OrderBy != "" {
		b.WriteString(" ORDER BY " + p.OrderBy)
	}

	if p.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", p.Limit)

		if p.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", p.Offset)
		}
	}

	return b.String()
}

func (p QueryParams) countSQL(table string) string {
	if p.Where == "" {
		return "SELECT COUNT(*) FROM " + table
	}

	return "SELECT COUNT(*) FROM " + table + " WHERE " + p.Where
}

// DataReader reads a recording back into the entry types it was written
// with.
type DataReader interface {
	// MapTable tells the reader which struct a table holds. A table must be
	// mapped before it is queried.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the mapped tables.
	ListTables() []string

	// StoredTables returns the tables that the recording holds, mapped or
	// not.
	StoredTables(ctx context.Context) ([]string, error)

	// Count returns the number of rows that match the params, ignoring the
	// limit and the offset.
	Count(ctx context.Context, tableName string, params QueryParams) (int, error)

	// Query returns pointers to the selected entries and the number of rows
	// that match, ignoring the limit and the offset.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	Close() error
}

type sqliteReader struct {
	db      *sql.DB
	typeMap map[string]reflect.Type
}

// NewReader opens a SQLite recording.
func NewReader(dbFilename string) DataReader {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		panic(err)
	}

	return NewReaderWithDB(db)
}

// NewReaderWithDB reads from an open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		db:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	r.typeMap[tableName] = reflect.TypeOf(sampleEntry)
}

func (r *sqliteReader) ListTables() []string {
	tables := make([]string, 0, len(r.typeMap))
	for table := range r.typeMap {
		tables = append(tables, table)
	}

	sort.Strings(tables)

	return tables
}

func (r *sqliteReader) StoredTables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		tables = append(tables, name)
	}

	return tables, rows.Err()
}

func (r *sqliteReader) Count(
	ctx context.Context,
	tableName string,
	params QueryParams,
) (int, error) {
	var n int

	err := r.db.QueryRowContext(ctx, params.countSQL(tableName),
		params.Args...).Scan(&n)

	return n, err
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	structType, ok := r.typeMap[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("table %s is not mapped", tableName)
	}

	total, err := r.Count(ctx, tableName, params)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, params.selectSQL(tableName),
		params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := scanEntries(rows, structType)
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// scanEntries fills one struct per row. Columns without a field of the same
// name are read and dropped.
func scanEntries(rows *sql.Rows, structType reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fieldOf := make([]int, len(columns))
	for i, col := range columns {
		fieldOf[i] = -1

		if f, ok := structType.FieldByName(col); ok && len(f.Index) == 1 {
			fieldOf[i] = f.Index[0]
		}
	}

	var results []any

	for rows.Next() {
		entry := reflect.New(structType)
		targets := make([]any, len(columns))

		for i, field := range fieldOf {
			if field < 0 {
				targets[i] = new(any)
				continue
			}

			targets[i] = entry.Elem().Field(field).Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.db.Close()
}
