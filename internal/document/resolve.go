package document

import "time"

// The Resolve helpers combine alias precedence with coercion. The first
// alias present with a non-null value is chosen; if that value then
// fails coercion the field resolves to nothing. There is no fallthrough
// to later aliases on coercion failure: a mangled preferred key means
// the field is unusable, not that a stale legacy key should win.

// ResolveDecimal resolves an ordered alias list to a decimal value and
// the path that produced it.
func ResolveDecimal(d Document, paths ...string) (*float64, string) {
	v, path, ok := d.First(paths...)
	if !ok {
		return nil, ""
	}
	f, ok := ParseDecimal(v)
	if !ok {
		return nil, ""
	}
	return &f, path
}

// ResolveDate resolves an ordered alias list to a date.
func ResolveDate(d Document, paths ...string) (*time.Time, string) {
	v, path, ok := d.First(paths...)
	if !ok {
		return nil, ""
	}
	t, ok := ParseDate(v)
	if !ok {
		return nil, ""
	}
	return &t, path
}

// ResolveInt resolves an ordered alias list to an int.
func ResolveInt(d Document, paths ...string) (*int, string) {
	v, path, ok := d.First(paths...)
	if !ok {
		return nil, ""
	}
	i, ok := ParseInt(v)
	if !ok {
		return nil, ""
	}
	return &i, path
}

// ResolveText resolves an ordered alias list to a trimmed string.
func ResolveText(d Document, paths ...string) (*string, string) {
	v, path, ok := d.First(paths...)
	if !ok {
		return nil, ""
	}
	s, ok := ParseText(v)
	if !ok {
		return nil, ""
	}
	return &s, path
}

// ResolveBool resolves an ordered alias list to a bool.
func ResolveBool(d Document, paths ...string) (*bool, string) {
	v, path, ok := d.First(paths...)
	if !ok {
		return nil, ""
	}
	b, ok := ParseBool(v)
	if !ok {
		return nil, ""
	}
	return &b, path
}
