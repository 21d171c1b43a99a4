package reconcile

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"campusctl/core/controller"
)

// PruneUnset removes keys whose value is nil, recursively. Nil values in a
// desired body are omission markers ("no constraint on this field"), not
// deletion instructions; explicitly present empty lists and maps are kept.
func PruneUnset(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = PruneUnset(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// StripReadonly returns a copy of the object without controller-owned keys
// (id, timestamps). The result is safe to diff against a desired body.
func StripReadonly(obj controller.Object) controller.Object {
	out := make(controller.Object, len(obj))
	for k, v := range obj {
		if _, readonly := readonlyKeys[k]; readonly {
			continue
		}
		out[k] = v
	}
	return out
}

// valueEqual compares two values by deep structural equality: maps by key,
// collections order-insensitively, scalars exactly (with numeric widths
// normalized, since JSON decoding and YAML decoding disagree on them).
func valueEqual(a, b any) bool {
	return canonical(a) == canonical(b)
}

// canonical renders a value into a deterministic string form. Map keys are
// sorted; list elements are sorted by their own canonical form, which makes
// the comparison order-insensitive for the controller's set-valued fields
// (tag, type).
func canonical(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case string:
		return strconv.Quote(t)
	case int:
		return formatNumber(float64(t))
	case int8:
		return formatNumber(float64(t))
	case int16:
		return formatNumber(float64(t))
	case int32:
		return formatNumber(float64(t))
	case int64:
		return formatNumber(float64(t))
	case uint:
		return formatNumber(float64(t))
	case uint8:
		return formatNumber(float64(t))
	case uint16:
		return formatNumber(float64(t))
	case uint32:
		return formatNumber(float64(t))
	case uint64:
		return formatNumber(float64(t))
	case float32:
		return formatNumber(float64(t))
	case float64:
		return formatNumber(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elems = append(elems, canonical(rv.Index(i).Interface()))
		}
		sort.Strings(elems)
		return "[" + strings.Join(elems, ",") + "]"
	case reflect.Map:
		entries := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%v", iter.Key().Interface())
			entries = append(entries, strconv.Quote(key)+":"+canonical(iter.Value().Interface()))
		}
		sort.Strings(entries)
		return "{" + strings.Join(entries, ",") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
