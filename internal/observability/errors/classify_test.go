package errors

import (
	goerrors "errors"
	"fmt"
	"testing"
)

type workerTimeoutError struct{}

func (workerTimeoutError) Error() string { return "worker status check timed out" }

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != "none" {
		t.Errorf("Classify(nil) = %q, want none", got)
	}
}

func TestClassifyUnwrapsToRootCause(t *testing.T) {
	root := workerTimeoutError{}
	wrapped := fmt.Errorf("poll session: %w", fmt.Errorf("status check: %w", root))

	if got := Classify(wrapped); got != "errors_workertimeouterror" {
		t.Errorf("Classify(wrapped) = %q, want errors_workertimeouterror", got)
	}
}

func TestClassifyPlainError(t *testing.T) {
	if got := Classify(goerrors.New("merge failed")); got != "errors_errorstring" {
		t.Errorf("Classify = %q, want errors_errorstring", got)
	}
}

func TestClassifyPointerReceiver(t *testing.T) {
	err := &workerTimeoutError{}
	if got := Classify(fmt.Errorf("dispatch: %w", err)); got != "errors_workertimeouterror" {
		t.Errorf("Classify(pointer cause) = %q, want errors_workertimeouterror", got)
	}
}
