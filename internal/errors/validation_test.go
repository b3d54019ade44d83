package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type submitPayload struct {
	StudentID    string `validate:"required"`
	AssessmentID uint   `validate:"required,min=1"`
	Tier         string `validate:"omitempty,oneof=foundation higher"`
}

func TestValidationErrorsError(t *testing.T) {
	var empty ValidationErrors
	if empty.Error() != "validation failed" {
		t.Errorf("expected generic message for empty errors, got %q", empty.Error())
	}

	single := ValidationErrors{{Field: "student_id", Message: "is required"}}
	if single.Error() != "validation failed: student_id is required" {
		t.Errorf("unexpected single-error message: %q", single.Error())
	}

	multi := ValidationErrors{
		{Field: "student_id", Message: "is required"},
		{Field: "assessment_id", Message: "is required"},
	}
	if multi.Error() != "validation failed: 2 field errors" {
		t.Errorf("unexpected multi-error message: %q", multi.Error())
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("tier", "must be foundation or higher", "advanced")
	if err.Field != "tier" {
		t.Errorf("expected field 'tier', got %q", err.Field)
	}
	if err.Value != "advanced" {
		t.Errorf("expected value to be preserved, got %v", err.Value)
	}
	if err.Error() != "validation error on field 'tier': must be foundation or higher" {
		t.Errorf("unexpected error string: %q", err.Error())
	}
}

func TestToValidationErrors(t *testing.T) {
	validate := validator.New()

	err := validate.Struct(submitPayload{Tier: "advanced"})
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	converted := ToValidationErrors(err)
	if len(converted) != 3 {
		t.Fatalf("expected 3 field errors, got %d", len(converted))
	}

	byField := make(map[string]ValidationError)
	for _, ve := range converted {
		byField[ve.Field] = ve
	}

	if byField["StudentID"].Message != "is required" {
		t.Errorf("unexpected message for StudentID: %q", byField["StudentID"].Message)
	}
	if byField["Tier"].Rule != "oneof" {
		t.Errorf("expected oneof rule for Tier, got %q", byField["Tier"].Rule)
	}
}

func TestToValidationErrorsNonValidatorError(t *testing.T) {
	converted := ToValidationErrors(NewValidationError("x", "y", nil))
	if converted != nil {
		t.Errorf("expected nil for non-validator error, got %v", converted)
	}
}
