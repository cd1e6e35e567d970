// Package search validates the route form, runs fare searches in the
// visitor's effective currency and repeats the displayed search when
// preferences change. It also debounces place autocomplete per field.
package search
