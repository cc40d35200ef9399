package utils

import (
	"reflect"
)

const columnTag = "db"

// Columns lists the db tag of every exported field of a struct, in field
// order. Untagged fields and fields tagged "-" are skipped.
func Columns(input any) []string {
	var result []string
	eachColumn(input, func(column string, _ reflect.Value) {
		result = append(result, column)
	})
	return result
}

// ColumnMap maps each db column of a struct to the field's value.
func ColumnMap(input any) map[string]any {
	result := make(map[string]any)
	eachColumn(input, func(column string, value reflect.Value) {
		result[column] = value.Interface()
	})
	return result
}

func eachColumn(input any, fn func(column string, value reflect.Value)) {
	value := reflect.ValueOf(input)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}

	if value.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	valueType := value.Type()
	for i := 0; i < value.NumField(); i++ {
		field := valueType.Field(i)
		if field.PkgPath != "" {
			continue
		}

		column := field.Tag.Get(columnTag)
		if column == "" || column == "-" {
			continue
		}

		fn(column, value.Field(i))
	}
}
