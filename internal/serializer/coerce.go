package serializer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CoerceKey converts a relationship value to integer form. Absent values
// (nil or an empty string) stay nil, has-many lists are converted element by
// element, and anything that is not a whole number yields ErrKeyCoercion.
func CoerceKey(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []string:
		out := make([]int64, 0, len(x))
		for _, item := range x {
			n, err := coerceScalar(item)
			if err != nil {
				return nil, err
			}
			if n == nil {
				return nil, fmt.Errorf("%w: empty id in list", ErrKeyCoercion)
			}
			out = append(out, *n)
		}
		return out, nil
	case []any:
		out := make([]int64, 0, len(x))
		for _, item := range x {
			n, err := coerceScalar(item)
			if err != nil {
				return nil, err
			}
			if n == nil {
				return nil, fmt.Errorf("%w: empty id in list", ErrKeyCoercion)
			}
			out = append(out, *n)
		}
		return out, nil
	case []int64:
		return x, nil
	default:
		n, err := coerceScalar(v)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, nil
		}
		return *n, nil
	}
}

func coerceScalar(v any) (*int64, error) {
	var n int64
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrKeyCoercion, x)
		}
		n = parsed
	case json.Number:
		parsed, err := x.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrKeyCoercion, x.String())
		}
		n = parsed
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return nil, fmt.Errorf("%w: %v", ErrKeyCoercion, x)
		}
		n = int64(x)
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrKeyCoercion, v)
	}
	return &n, nil
}

func textualID(v any) (string, error) {
	n, err := coerceScalar(v)
	if err != nil {
		return "", err
	}
	if n == nil {
		return "", nil
	}
	return strconv.FormatInt(*n, 10), nil
}
