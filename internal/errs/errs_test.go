package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "plain", err: errors.New("boom"), want: nil},
		{name: "direct", err: ErrNotFound, want: ErrNotFound},
		{name: "wrapped", err: fmt.Errorf("%w: title cannot be empty", ErrValidation), want: ErrValidation},
		{name: "double wrapped", err: fmt.Errorf("save: %w", fmt.Errorf("%w: disk full", ErrStorage)), want: ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Fatalf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}
