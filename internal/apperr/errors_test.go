package apperr

import (
	"errors"
	"testing"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	all := []error{ErrNotFound, ErrForbidden, ErrAlreadyExists, ErrBadRequest, ErrInternal}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			if errors.Is(a, b) {
				t.Fatalf("expected %v and %v to be distinct sentinels", a, b)
			}
		}
	}
}
