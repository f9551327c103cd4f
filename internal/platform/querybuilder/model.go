package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// columnCache maps a struct type to the indexes and names of its db-tagged fields.
var columnCache sync.Map

type modelColumn struct {
	index int
	name  string
}

// InsertModel builds an INSERT for the exported db-tagged fields of model.
// Fields tagged `db:"col,readonly"` are read back but never inserted.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	columns := modelColumns(value.Type())
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("model %s has no db columns", value.Type().Name())
	}

	cols := make([]string, len(columns))
	vals := make([]any, len(columns))
	for i, col := range columns {
		cols[i] = col.name
		vals[i] = value.Field(col.index).Interface()
	}
	return cols, vals, nil
}

func modelColumns(typ reflect.Type) []modelColumn {
	if cached, ok := columnCache.Load(typ); ok {
		return cached.([]modelColumn)
	}

	columns := make([]modelColumn, 0, typ.NumField())
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" || hasTagOption(opts, "readonly") {
			continue
		}
		columns = append(columns, modelColumn{index: i, name: name})
	}

	cached, _ := columnCache.LoadOrStore(typ, columns)
	return cached.([]modelColumn)
}

func hasTagOption(opts, want string) bool {
	for _, opt := range strings.Split(opts, ",") {
		if strings.TrimSpace(opt) == want {
			return true
		}
	}
	return false
}
