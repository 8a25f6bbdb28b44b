// Package datarecording persists simulation outputs into SQLite. Tables
// are declared from sample structs; rows are buffered and flushed in
// batches so a season-long run does not pay one transaction per record.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store tabular data.
type DataRecorder interface {
	// CreateTable declares a table whose columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all declared tables.
	ListTables() []string

	// Flush writes all buffered entries to the database.
	Flush()

	// Close flushes and closes the database.
	Close()
}

// New creates a DataRecorder writing to path + ".sqlite3". An empty path
// gets a generated run name. The file must not already exist.
func New(path string) DataRecorder {
	if path == "" {
		path = "epileaf_run_" + xid.New().String()
	}

	filename := path + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("datarecording: file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "Recording simulation outputs to %s\n", filename)

	return NewWithDB(db)
}

// NewWithDB creates a DataRecorder over an already open database.
func NewWithDB(db *sql.DB) DataRecorder {
	w := &sqliteWriter{
		db:        db,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

type table struct {
	structType reflect.Type
	entries    []any
}

type sqliteWriter struct {
	db *sql.DB

	tables     map[string]*table
	tableOrder []string
	batchSize  int
	pending    int
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	if _, dup := w.tables[tableName]; dup {
		panic(fmt.Sprintf("datarecording: table %s already exists",
			tableName))
	}

	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	fields := strings.Join(structs.Names(sampleEntry), ",\n\t")
	w.mustExecute(
		"CREATE TABLE " + tableName + " (\n\t" + fields + "\n);")

	w.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
	}
	w.tableOrder = append(w.tableOrder, tableName)
}

func (w *sqliteWriter) InsertData(tableName string, entry any) {
	t, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("datarecording: table %s does not exist",
			tableName))
	}

	if reflect.TypeOf(entry) != t.structType {
		panic(fmt.Sprintf(
			"datarecording: table %s expects entries of type %s",
			tableName, t.structType))
	}

	t.entries = append(t.entries, entry)

	w.pending++
	if w.pending >= w.batchSize {
		w.Flush()
	}
}

func (w *sqliteWriter) ListTables() []string {
	out := make([]string, len(w.tableOrder))
	copy(out, w.tableOrder)

	return out
}

func (w *sqliteWriter) Flush() {
	if w.pending == 0 {
		return
	}

	w.mustExecute("BEGIN TRANSACTION")
	defer w.mustExecute("COMMIT TRANSACTION")

	for _, name := range w.tableOrder {
		t := w.tables[name]
		if len(t.entries) == 0 {
			continue
		}

		stmt := w.prepareInsert(name, t.entries[0])

		for _, entry := range t.entries {
			v := reflect.ValueOf(entry)

			args := make([]any, 0, v.NumField())
			for i := 0; i < v.NumField(); i++ {
				args = append(args, v.Field(i).Interface())
			}

			if _, err := stmt.Exec(args...); err != nil {
				panic(err)
			}
		}

		t.entries = nil
		stmt.Close()
	}

	w.pending = 0
}

func (w *sqliteWriter) Close() {
	w.Flush()

	if err := w.db.Close(); err != nil {
		panic(err)
	}
}

func (w *sqliteWriter) prepareInsert(tableName string, sample any) *sql.Stmt {
	n := structs.Names(sample)
	for i := range n {
		n[i] = "?"
	}

	stmt, err := w.db.Prepare(
		"INSERT INTO " + tableName + " VALUES (" + strings.Join(n, ", ") + ")")
	if err != nil {
		panic(err)
	}

	return stmt
}

func (w *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := w.db.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func checkStructFields(entry any) error {
	t := reflect.TypeOf(entry)
	if t == nil || t.Kind() != reflect.Struct {
		return errors.New("datarecording: entry must be a struct")
	}

	for i := 0; i < t.NumField(); i++ {
		switch t.Field(i).Type.Kind() {
		case reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16,
			reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16,
			reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64,
			reflect.String:
			// storable
		default:
			return fmt.Errorf(
				"datarecording: field %s has unsupported type %s",
				t.Field(i).Name, t.Field(i).Type)
		}
	}

	return nil
}
