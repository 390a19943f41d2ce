package datarecording

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

const defaultBatchSize = 100000

type table struct {
	structType reflect.Type
	entries    []any
}

// tableSet buffers the entries of every table until the backend writes
// them. It is shared by the SQLite and the ClickHouse writers.
type tableSet struct {
	tables     map[string]*table
	batchSize  int
	entryCount int
}

func newTableSet(batchSize int) tableSet {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return tableSet{
		tables:    make(map[string]*table),
		batchSize: batchSize,
	}
}

func isAllowedType(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// checkStructFields accepts flat structs of numbers, booleans and strings.
func checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)
	if types == nil || types.Kind() != reflect.Struct {
		return errors.New("entry must be a struct")
	}

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)

		if !isAllowedType(field.Type.Kind()) {
			return fmt.Errorf("field %s of type %s cannot be recorded",
				field.Name, field.Type)
		}
	}

	return nil
}

// add registers a table and returns the type of its entries.
func (s *tableSet) add(name string, sampleEntry any) reflect.Type {
	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	if _, exists := s.tables[name]; exists {
		panic(fmt.Sprintf("table %s already exists", name))
	}

	structType := reflect.TypeOf(sampleEntry)
	s.tables[name] = &table{structType: structType}

	return structType
}

// append buffers an entry and reports whether the batch is full.
func (s *tableSet) append(name string, entry any) bool {
	t, exists := s.tables[name]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", name))
	}

	if reflect.TypeOf(entry) != t.structType {
		panic(fmt.Sprintf("table %s expects %s, got %T",
			name, t.structType, entry))
	}

	t.entries = append(t.entries, entry)
	s.entryCount++

	return s.entryCount >= s.batchSize
}

func (s *tableSet) names() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// drain hands the buffered entries of each table to write, in table name
// order, and empties the buffers.
func (s *tableSet) drain(write func(name string, entries []any)) {
	if s.entryCount == 0 {
		return
	}

	for _, name := range s.names() {
		t := s.tables[name]
		if len(t.entries) == 0 {
			continue
		}

		write(name, t.entries)
		t.entries = nil
	}

	s.entryCount = 0
}
