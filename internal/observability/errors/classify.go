// Package errors derives low-cardinality error class tags for metrics.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"
)

// Classify maps an error to a stable tag value for the error_class metric
// tag. The label comes from the root cause's Go type, not its message, so
// cardinality stays bounded no matter what the worker sends back.
func Classify(err error) string {
	if err == nil {
		return "none"
	}
	return typeLabel(rootCause(err))
}

// rootCause follows the Unwrap chain to the innermost error.
func rootCause(err error) error {
	for {
		inner := goerrors.Unwrap(err)
		if inner == nil {
			return err
		}
		err = inner
	}
}

func typeLabel(err error) string {
	t := reflect.TypeOf(err)
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	name := strings.ToLower(t.String())
	name = strings.ReplaceAll(name, "*", "")
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
