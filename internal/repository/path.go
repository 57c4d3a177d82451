package repository

import (
	"fmt"
	"strings"
)

const maxPathDepth = 8

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidFieldPath)
	}

	keys := strings.Split(path, ".")
	if len(keys) > maxPathDepth {
		return nil, fmt.Errorf("%w: %q is deeper than %d levels", ErrInvalidFieldPath, path, maxPathDepth)
	}
	for _, key := range keys {
		if !validKey(key) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFieldPath, path)
		}
	}
	return keys, nil
}

func validKey(key string) bool {
	if key == "" || len(key) > 64 {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func lookup(fields map[string]interface{}, keys []string) (interface{}, bool) {
	var cur interface{} = fields
	for _, key := range keys {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func assign(fields map[string]interface{}, keys []string, value interface{}) error {
	m := fields
	for i, key := range keys[:len(keys)-1] {
		next, ok := m[key]
		if !ok {
			child := map[string]interface{}{}
			m[key] = child
			m = child
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%s is not an object", strings.Join(keys[:i+1], "."))
		}
		m = child
	}
	m[keys[len(keys)-1]] = value
	return nil
}

func remove(fields map[string]interface{}, keys []string) (interface{}, bool) {
	parent, ok := lookup(fields, keys[:len(keys)-1])
	if !ok {
		return nil, false
	}
	m, ok := parent.(map[string]interface{})
	if !ok {
		return nil, false
	}
	last := keys[len(keys)-1]
	value, ok := m[last]
	if ok {
		delete(m, last)
	}
	return value, ok
}
