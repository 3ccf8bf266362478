// Package env provides the mutable environment mapping handed to the
// replaced process.
package env

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Environ is a process environment as a key/value mapping.
// The zero value is not usable; construct one with System, FromSlice
// or make.
type Environ map[string]string

// System returns the current process environment.
func System() Environ {
	return FromSlice(os.Environ())
}

// FromSlice parses an environment in "KEY=value" form.
// Entries without '=' are ignored. Later entries win.
func FromSlice(entries []string) Environ {
	e := make(Environ, len(entries))
	for _, entry := range entries {
		if idx := strings.IndexByte(entry, '='); idx > 0 {
			e[entry[:idx]] = entry[idx+1:]
		}
	}
	return e
}

// Clone returns an independent copy.
func (e Environ) Clone() Environ {
	clone := make(Environ, len(e))
	for k, v := range e {
		clone[k] = v
	}
	return clone
}

// Get returns the value for key, or "" if absent.
func (e Environ) Get(key string) string {
	return e[key]
}

// Has reports whether key is present.
func (e Environ) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Set sets key to value, overriding any prior value.
func (e Environ) Set(key, value string) error {
	if err := validate(key, value); err != nil {
		return err
	}
	e[key] = value
	return nil
}

// SetDefault sets key to value only if key is absent.
// It reports whether the value was set.
func (e Environ) SetDefault(key, value string) (bool, error) {
	if e.Has(key) {
		return false, nil
	}
	if err := validate(key, value); err != nil {
		return false, err
	}
	e[key] = value
	return true, nil
}

// Unset removes the given keys and returns the keys that were present.
func (e Environ) Unset(keys ...string) []string {
	removed := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := e[key]; ok {
			delete(e, key)
			removed = append(removed, key)
		}
	}
	return removed
}

// Slice serializes the environment to "KEY=value" form, sorted by key
// so output is deterministic.
func (e Environ) Slice() []string {
	result := make([]string, 0, len(e))
	for k, v := range e {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

func validate(key, value string) error {
	if !IsValidKey(key) {
		return fmt.Errorf("invalid environment key %q", key)
	}
	if strings.ContainsRune(value, 0) {
		return fmt.Errorf("environment value for %q contains null byte", key)
	}
	return nil
}

// IsValidKey checks if a key is a valid environment variable name.
func IsValidKey(key string) bool {
	if len(key) == 0 {
		return false
	}

	// Must start with letter or underscore
	first := key[0]
	if !((first >= 'a' && first <= 'z') ||
		(first >= 'A' && first <= 'Z') ||
		first == '_') {
		return false
	}

	// Rest must be alphanumeric or underscore
	for i := 1; i < len(key); i++ {
		c := key[i]
		if !((c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') ||
			c == '_') {
			return false
		}
	}

	return true
}
