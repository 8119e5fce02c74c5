// Package context propagates request scoped log fields so that every log
// line emitted while handling a request carries the same identifiers.
package context

import (
	"context"
)

// Field names attached by middleware and handlers.
const (
	RequestIDKey = "request_id"
	ErrKey       = "err"
)

type fieldsKey struct{}

// WithFields returns a ctx carrying the given fields merged over any fields
// already present. The original maps are never mutated.
func WithFields(ctx context.Context, fields map[string]interface{}) context.Context {
	existing := ExtractFields(ctx)
	merged := make(map[string]interface{}, len(existing)+len(fields))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// ExtractFields returns the fields attached to ctx, or an empty map.
func ExtractFields(ctx context.Context) map[string]interface{} {
	fields, ok := ctx.Value(fieldsKey{}).(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return fields
}

// ExtractFieldsAsList flattens the attached fields into alternating key/value
// pairs for loggers that take variadic kvs.
func ExtractFieldsAsList(ctx context.Context) []interface{} {
	fields := ExtractFields(ctx)
	kvs := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kvs = append(kvs, k, v)
	}
	return kvs
}
