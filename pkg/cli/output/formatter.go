// Package output formats API resources for terminal display.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	Format(data any) string
}

// NewFormatter returns a Formatter for the given format string.
// Supported formats: "table" (default), "json", "yaml".
func NewFormatter(format string) Formatter {
	switch strings.ToLower(format) {
	case "json":
		return &JSONFormatter{}
	case "yaml":
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// TableFormatter renders resources as aligned text tables. Column names
// come from json struct tags so the table matches the wire field names.
// Nested reference fields render their display value, nil references
// render as "-".
type TableFormatter struct{}

func (f *TableFormatter) Format(data any) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "No resources found.\n"
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice:
		if v.Len() == 0 {
			return "No resources found.\n"
		}
		elem := v.Index(0)
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			fmt.Fprintln(w, strings.Join(columnNames(elem.Type()), "\t"))
			for i := 0; i < v.Len(); i++ {
				row := v.Index(i)
				if row.Kind() == reflect.Ptr {
					row = row.Elem()
				}
				fmt.Fprintln(w, strings.Join(cellValues(row), "\t"))
			}
		} else {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			fmt.Fprintf(w, "%s:\t%s\n", columnName(t.Field(i)), cellValue(v.Field(i)))
		}
	default:
		fmt.Fprintln(w, data)
	}

	w.Flush()
	return buf.String()
}

// columnNames returns the upper-cased json tag names of a struct type.
func columnNames(t reflect.Type) []string {
	names := make([]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		names[i] = columnName(t.Field(i))
	}
	return names
}

func columnName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return strings.ToUpper(name)
		}
	}
	return strings.ToUpper(f.Name)
}

func cellValues(row reflect.Value) []string {
	vals := make([]string, row.NumField())
	for i := 0; i < row.NumField(); i++ {
		vals[i] = cellValue(row.Field(i))
	}
	return vals
}

// cellValue renders a single field. Pointer fields to structs with a
// Display member show that member; nil pointers show "-".
func cellValue(f reflect.Value) string {
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return "-"
		}
		f = f.Elem()
	}
	if f.Kind() == reflect.Struct {
		if d := f.FieldByName("Display"); d.IsValid() && d.Kind() == reflect.String {
			return d.String()
		}
	}
	return fmt.Sprintf("%v", f.Interface())
}

// JSONFormatter formats data as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("error formatting JSON: %v\n", err)
	}
	return string(b) + "\n"
}

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(data any) string {
	b, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Sprintf("error formatting YAML: %v\n", err)
	}
	return string(b)
}
