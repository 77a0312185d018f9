package querybuilder

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// UpsertModel inserts the db-tagged fields of model and, on a conflict over conflictColumns,
// overwrites every other column with the incoming row.
func UpsertModel(table string, model any, conflictColumns ...string) (string, []any, error) {
	if len(conflictColumns) == 0 {
		return "", nil, fmt.Errorf("upsert into %s needs at least one conflict column", table)
	}
	cols, vals, err := dbColumns(model)
	if err != nil {
		return "", nil, err
	}

	updates := make([]string, 0, len(cols))
	for _, col := range cols {
		if slices.Contains(conflictColumns, col) {
			continue
		}
		updates = append(updates, col+" = EXCLUDED."+col)
	}

	suffix := "ON CONFLICT (" + strings.Join(conflictColumns, ", ") + ") DO NOTHING"
	if len(updates) > 0 {
		suffix = "ON CONFLICT (" + strings.Join(conflictColumns, ", ") + ") DO UPDATE SET " + strings.Join(updates, ", ")
	}

	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// dbColumns reads exported `db` tags in field order. "-" and untagged fields are skipped.
func dbColumns(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be a struct, got %s", value.Kind())
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
