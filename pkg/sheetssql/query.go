package sheetssql

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// TableName returns the table a model type is stored in
func TableName[T any]() string {
	var model T
	return toSnakeCase(reflect.TypeOf(model).Name())
}

// GetTableAs retrieves all rows from a table and maps them to structs of type T
// Skips the first two rows (headers and types)
func GetTableAs[T any](db *DB) ([]T, error) {
	return GetTableWhere(db, func(T) bool { return true })
}

// GetTableWhere retrieves the rows of T's table for which keep returns true
func GetTableWhere[T any](db *DB, keep func(T) bool) ([]T, error) {
	tableName := TableName[T]()

	values, err := db.client.GetValues(db.spreadsheetID, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", tableName, err)
	}

	if len(values) < 3 {
		return []T{}, nil
	}

	var model T
	t := reflect.TypeOf(model)

	// Column name -> index
	columnIndexes := make(map[string]int)
	for i, header := range values[0] {
		if headerStr, ok := header.(string); ok {
			columnIndexes[headerStr] = i
		}
	}

	results := make([]T, 0, len(values)-2)
	for rowIdx, row := range values[2:] {
		result := reflect.New(t).Elem()

		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			colIdx, ok := columnIndexes[field.Tag.Get("ssql_header")]
			if !ok || colIdx >= len(row) || row[colIdx] == nil {
				continue
			}

			if err := setFieldValue(result.Field(i), row[colIdx]); err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", rowIdx+3, field.Tag.Get("ssql_header"), err)
			}
		}

		item := result.Interface().(T)
		if keep(item) {
			results = append(results, item)
		}
	}

	return results, nil
}

// setFieldValue converts a sheet cell value to the appropriate Go type and sets it on the field
func setFieldValue(field reflect.Value, cellValue interface{}) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	// Formatted values arrive as strings; unformatted numbers as float64
	var cellStr string
	switch v := cellValue.(type) {
	case string:
		cellStr = v
	case float64:
		cellStr = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		cellStr = strconv.FormatBool(v)
	default:
		return fmt.Errorf("unsupported cell value type %T", cellValue)
	}

	if field.Type() == timeType {
		if cellStr == "" {
			field.Set(reflect.ValueOf(time.Time{}))
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, cellStr)
		if err != nil {
			return fmt.Errorf("failed to parse timestamp: %w", err)
		}
		field.Set(reflect.ValueOf(parsed))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(cellStr)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if cellStr == "" {
			field.SetInt(0)
			return nil
		}
		intVal, err := strconv.ParseInt(cellStr, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse int: %w", err)
		}
		field.SetInt(intVal)

	case reflect.Float32, reflect.Float64:
		if cellStr == "" {
			field.SetFloat(0)
			return nil
		}
		floatVal, err := strconv.ParseFloat(cellStr, 64)
		if err != nil {
			return fmt.Errorf("failed to parse float: %w", err)
		}
		field.SetFloat(floatVal)

	case reflect.Bool:
		if cellStr == "" {
			field.SetBool(false)
			return nil
		}
		boolVal, err := strconv.ParseBool(cellStr)
		if err != nil {
			return fmt.Errorf("failed to parse bool: %w", err)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// rowFromModel renders the tagged fields of a struct as a sheet row
func rowFromModel(v reflect.Value) []interface{} {
	t := v.Type()
	row := make([]interface{}, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("ssql_header") == "" {
			continue
		}

		value := v.Field(i).Interface()
		if ts, ok := value.(time.Time); ok {
			value = ts.UTC().Format(time.RFC3339)
		}
		row = append(row, value)
	}

	return row
}

// InsertModel appends a struct as a row to its corresponding table
func InsertModel[T any](db *DB, model T) error {
	return InsertModels(db, []T{model})
}

// InsertModels appends multiple structs as rows to their corresponding table
func InsertModels[T any](db *DB, models []T) error {
	if len(models) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(models))
	for _, model := range models {
		rows = append(rows, rowFromModel(reflect.ValueOf(model)))
	}

	return db.InsertRows(TableName[T](), rows)
}
