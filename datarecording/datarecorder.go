// Package datarecording stores the records of a simulation in SQLite or
// ClickHouse and reads SQLite recordings back.
//
// An entry is a flat struct. Each struct field becomes a column with the
// same name.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a table whose columns are the fields of the sample
	// entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers an entry of the type the table was created with.
	InsertData(tableName string, entry any)

	// ListTables returns the names of the created tables.
	ListTables() []string

	// Flush writes the buffered entries.
	Flush()

	// Close flushes the buffered entries and closes the database
	Close() error
}

// ExecInfoRecorder is implemented by the recorders that keep an exec_info
// table.
type ExecInfoRecorder interface {
	RecordExecInfo(property, value string)
}

// New creates a DataRecorder that writes into path.sqlite3. If path is
// empty, a unique name is generated. The file must not exist. The execution
// information of the process is recorded in the exec_info table.
func New(path string) DataRecorder {
	if path == "" {
		path = "vcnoc_recording_" + xid.New().String()
	}

	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	w := newSQLiteWriter(db)
	w.exec = newExecRecorder(w)
	w.exec.Start()

	atexit.Register(func() { _ = w.Close() })

	return w
}

// NewWithDB creates a DataRecorder that writes into an open database. The
// caller keeps the ownership of the database until Close.
func NewWithDB(db *sql.DB) DataRecorder {
	w := newSQLiteWriter(db)

	atexit.Register(func() { w.Flush() })

	return w
}

func newSQLiteWriter(db *sql.DB) *sqliteWriter {
	return &sqliteWriter{
		db:       db,
		tableSet: newTableSet(defaultBatchSize),
	}
}

type sqliteWriter struct {
	tableSet

	db     *sql.DB
	exec   *execRecorder
	closed bool
}

func sqliteType(kind reflect.Kind) string {
	switch kind {
	case reflect.Float32, reflect.Float64:
		return "REAL"
	case reflect.String:
		return "TEXT"
	default:
		return "INTEGER"
	}
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	structType := w.add(tableName, sampleEntry)

	columns := make([]string, 0, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		f := structType.Field(i)
		columns = append(columns, f.Name+" "+sqliteType(f.Type.Kind()))
	}

	w.mustExecute(fmt.Sprintf("CREATE TABLE %s (\n\t%s\n);",
		tableName, strings.Join(columns, ",\n\t")))
}

func (w *sqliteWriter) InsertData(tableName string, entry any) {
	if w.append(tableName, entry) {
		w.Flush()
	}
}

func (w *sqliteWriter) ListTables() []string {
	return w.names()
}

func (w *sqliteWriter) RecordExecInfo(property, value string) {
	if w.exec == nil {
		w.exec = newExecRecorder(w)
	}

	w.exec.Set(property, value)
}

func (w *sqliteWriter) Flush() {
	if w.entryCount == 0 {
		return
	}

	w.mustExecute("BEGIN TRANSACTION")
	defer w.mustExecute("COMMIT TRANSACTION")

	w.drain(w.insert)
}

func (w *sqliteWriter) insert(tableName string, entries []any) {
	marks := strings.TrimSuffix(
		strings.Repeat("?, ", len(structs.Names(entries[0]))), ", ")

	stmt, err := w.db.Prepare(
		"INSERT INTO " + tableName + " VALUES (" + marks + ")")
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		_, err := stmt.Exec(structs.Values(entry)...)
		if err != nil {
			panic(err)
		}
	}
}

func (w *sqliteWriter) Close() error {
	if w.closed {
		return nil
	}

	if w.exec != nil {
		w.exec.End()
	}

	w.Flush()
	w.closed = true

	return w.db.Close()
}

func (w *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := w.db.Exec(query)
	if err != nil {
		panic(fmt.Errorf("failed to execute %q: %w", query, err))
	}

	return res
}
