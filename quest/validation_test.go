package quest

import (
	"errors"
	"strings"
	"testing"

	"github.com/amonks/sidequest/internal/errs"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		title string
		err   error
	}{
		{title: "Read", err: nil},
		{title: "", err: ErrEmptyTitle},
		{title: strings.Repeat("x", MaxTitleLength), err: nil},
		{title: strings.Repeat("x", MaxTitleLength+1), err: ErrTitleTooLong},
	}
	for _, tt := range tests {
		if err := ValidateTitle(tt.title); !errors.Is(err, tt.err) {
			t.Errorf("ValidateTitle(len %d) = %v, want %v", len(tt.title), err, tt.err)
		}
	}
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		target int
		err    error
	}{
		{name: "progressive ok", kind: KindProgressive, target: 8},
		{name: "progressive zero", kind: KindProgressive, target: 0, err: ErrInvalidTarget},
		{name: "progressive negative", kind: KindProgressive, target: -1, err: ErrInvalidTarget},
		{name: "binary none", kind: KindBinary},
		{name: "binary with target", kind: KindBinary, target: 3, err: ErrTargetOnBinary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.kind, tt.target)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrEmptyTitle, errs.ErrValidation},
		{ErrInvalidPeriod, errs.ErrValidation},
		{ErrAmbiguousQuestIDPrefix, errs.ErrValidation},
		{ErrQuestNotFound, errs.ErrNotFound},
		{ErrNotProgressive, errs.ErrInvalidState},
		{ErrPeriodClosed, errs.ErrInvalidState},
	}
	for _, tt := range tests {
		if got := errs.Kind(tt.err); got != tt.kind {
			t.Errorf("Kind(%v) = %v, want %v", tt.err, got, tt.kind)
		}
	}
}
