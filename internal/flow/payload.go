package flow

import "fmt"

// Carrier payloads are decoded as generic maps; these helpers keep the
// nil-safe navigation in one place. A missing or mistyped key yields the
// zero value, never a panic.

func subMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	sub, _ := m[key].(map[string]any)
	return sub
}

func subList(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	list, _ := m[key].([]any)
	return list
}

// flag reads a boolean-ish field. The carrier encodes these variously as
// bools, 0/1 numbers and strings depending on the endpoint.
func flag(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	switch v := m[key].(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case int:
		return v == 1
	case string:
		return v == "1" || v == "true"
	}
	return false
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}
