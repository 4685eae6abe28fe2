package apiclient

import (
	"fmt"
	"net/url"
	"reflect"
)

// BuildQueryParams encodes params as a query string. nil and empty-string values are
// skipped, slices become repeated keys, and keys come out sorted.
func BuildQueryParams(params map[string]any) string {
	values := url.Values{}
	for key, value := range params {
		addQueryValue(values, key, value)
	}
	return values.Encode()
}

func addQueryValue(values url.Values, key string, value any) {
	if value == nil {
		return
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return
		}
		addQueryValue(values, key, rv.Elem().Interface())
		return
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		for i := 0; i < rv.Len(); i++ {
			values.Add(key, fmt.Sprint(rv.Index(i).Interface()))
		}
		return
	case reflect.String:
		if rv.String() == "" {
			return
		}
	}
	values.Add(key, fmt.Sprint(value))
}
