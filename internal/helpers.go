package internal

import "strconv"

// ContextValue returns the value stored under key, or the zero T.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

type scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// Query returns a typed query parameter, or the zero T when missing or
// unparsable.
func Query[T scalar](c Context, name string) T {
	v, _ := convertParam[T](c.Query(name))
	return v
}

// QueryDefault is Query with a fallback.
func QueryDefault[T scalar](c Context, name string, defaultValue T) T {
	return orDefault(c.Query(name), defaultValue)
}

// FormDefault returns a typed form field with a fallback. The passenger
// stepper reads its delta this way.
func FormDefault[T scalar](c Context, name string, defaultValue T) T {
	return orDefault(c.Form(name), defaultValue)
}

func orDefault[T scalar](raw string, defaultValue T) T {
	if raw == "" {
		return defaultValue
	}
	v, ok := convertParam[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

func convertParam[T scalar](raw string) (T, bool) {
	var zero T
	var (
		v   any
		err error
	)
	switch any(zero).(type) {
	case string:
		v = raw
	case int:
		v, err = strconv.Atoi(raw)
	case int64:
		v, err = strconv.ParseInt(raw, 10, 64)
	case float64:
		v, err = strconv.ParseFloat(raw, 64)
	case bool:
		v, err = strconv.ParseBool(raw)
	default:
		return zero, false
	}
	if err != nil {
		return zero, false
	}
	return v.(T), true
}
