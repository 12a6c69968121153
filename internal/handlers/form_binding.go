package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// formToJSON собирает JSON-объект из именованных полей формы по json-тегам obj.
// Массивы принимаются JSON-строкой ("[\"go\",\"sql\"]") или повтором поля (skills[]=go).
// Отсутствующие поля в результат не попадают
func formToJSON(values map[string][]string, obj interface{}) ([]byte, error) {
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("form binding target must be a struct, got %s", t.Kind())
	}

	out := map[string]json.RawMessage{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := jsonName(field)
		if name == "" {
			continue
		}
		raw, ok := formValues(values, name)
		if !ok {
			continue
		}
		encoded, err := encodeFormValue(field.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if encoded != nil {
			out[name] = encoded
		}
	}
	return json.Marshal(out)
}

func jsonName(field reflect.StructField) string {
	if !field.IsExported() {
		return ""
	}
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

// formValues - значения поля name или name[]
func formValues(values map[string][]string, name string) ([]string, bool) {
	if v, ok := values[name]; ok && len(v) > 0 {
		return v, true
	}
	if v, ok := values[name+"[]"]; ok && len(v) > 0 {
		return v, true
	}
	return nil, false
}

func encodeFormValue(t reflect.Type, raw []string) (json.RawMessage, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	first := strings.TrimSpace(raw[0])

	if t == timeType {
		if first == "" {
			return nil, nil
		}
		ts, err := parseFormTime(first)
		if err != nil {
			return nil, err
		}
		return json.Marshal(ts)
	}

	switch t.Kind() {
	case reflect.Slice:
		if len(raw) == 1 && strings.HasPrefix(first, "[") {
			if !json.Valid([]byte(first)) {
				return nil, errors.New("invalid JSON array")
			}
			return json.RawMessage(first), nil
		}
		items := make([]string, 0, len(raw))
		for _, v := range raw {
			if v = strings.TrimSpace(v); v != "" {
				items = append(items, v)
			}
		}
		return json.Marshal(items)

	case reflect.Bool:
		if first == "" {
			return nil, nil
		}
		b, err := strconv.ParseBool(first)
		if err != nil {
			return nil, errors.New("invalid boolean")
		}
		return json.Marshal(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if first == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(first, 10, 64)
		if err != nil {
			return nil, errors.New("invalid integer")
		}
		return json.Marshal(n)

	case reflect.Float32, reflect.Float64:
		if first == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(first, 64)
		if err != nil {
			return nil, errors.New("invalid number")
		}
		return json.Marshal(f)

	case reflect.String:
		return json.Marshal(raw[0])
	}

	return nil, fmt.Errorf("unsupported form field type %s", t)
}

// parseFormTime принимает RFC3339 и дату без времени
func parseFormTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("invalid date")
	}
	return ts, nil
}
