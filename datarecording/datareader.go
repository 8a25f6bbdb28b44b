package datarecording

import (
	"database/sql"
	"fmt"
	"reflect"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
)

// DataReader reads previously recorded tables back into structs.
type DataReader interface {
	// MapTable binds a database table to a struct type. Required before
	// querying the table.
	MapTable(tableName string, sampleEntry any)

	// Query returns all rows of a mapped table, in insertion order.
	Query(tableName string) ([]any, error)

	// Close closes the reader.
	Close() error
}

// NewReader opens a recorded database file for reading.
func NewReader(filename string) DataReader {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	return &sqliteReader{
		db:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

// NewReaderWithDB creates a DataReader over an already open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		db:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

type sqliteReader struct {
	db *sql.DB

	typeMap map[string]reflect.Type
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	t := reflect.TypeOf(sampleEntry)
	if t == nil || t.Kind() != reflect.Struct {
		panic("datarecording: sample entry must be a struct")
	}

	r.typeMap[tableName] = t
}

func (r *sqliteReader) Query(tableName string) ([]any, error) {
	structType, ok := r.typeMap[tableName]
	if !ok {
		return nil, fmt.Errorf("datarecording: table %s is not mapped",
			tableName)
	}

	rows, err := r.db.Query("SELECT * FROM " + tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		entry := reflect.New(structType).Elem()

		fields := make([]any, structType.NumField())
		for i := range fields {
			fields[i] = entry.Field(i).Addr().Interface()
		}

		if err := rows.Scan(fields...); err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.db.Close()
}
