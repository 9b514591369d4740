package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		LoanID string `json:"loan_id" validate:"hex32"`
	}
	cv := NewValidator()

	// valid: 32-char lowercase hex
	ok := P{LoanID: strings.Repeat("a", 32)}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	// invalid samples
	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		err := cv.Validate(P{LoanID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "loan_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestMoneyValidation(t *testing.T) {
	type P struct {
		Amount string `json:"amount" validate:"money"`
	}
	cv := NewValidator()

	for _, v := range []string{"0", "1000", "1000.00", "0.01", "-5.50", "999999999999.99"} {
		if err := cv.Validate(P{Amount: v}); err != nil {
			t.Fatalf("expected money OK for %q, got %v", v, err)
		}
	}
	for _, v := range []string{"", "abc", "1.005", "1,000.00", "1000000000000.00", "1e3x"} {
		err := cv.Validate(P{Amount: v})
		if err == nil {
			t.Fatalf("expected money error for %q", v)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "amount", "at most 2 decimal places") {
			t.Fatalf("expected money message for %q, got %+v", v, fe)
		}
	}
}

func TestISODateValidation(t *testing.T) {
	type P struct {
		StartDate string `json:"start_date" validate:"isodate"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{StartDate: "2024-02-29"}); err != nil {
		t.Fatalf("expected date OK, got %v", err)
	}
	for _, v := range []string{"2023-02-29", "2024/01/01", "01-01-2024", "2024-01-01T00:00:00Z"} {
		err := cv.Validate(P{StartDate: v})
		if err == nil {
			t.Fatalf("expected date error for %q", v)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "start_date", "YYYY-MM-DD") {
			t.Fatalf("expected isodate message for %q, got %+v", v, fe)
		}
	}
}

func TestFrequencyLetterValidation(t *testing.T) {
	type P struct {
		Letter string `json:"frequency_letter" validate:"freqletter"`
	}
	cv := NewValidator()

	for _, v := range []string{"A", "B", "C", "D", "E"} {
		if err := cv.Validate(P{Letter: v}); err != nil {
			t.Fatalf("expected letter OK for %q, got %v", v, err)
		}
	}
	for _, v := range []string{"", "F", "a", "AB"} {
		err := cv.Validate(P{Letter: v})
		if err == nil {
			t.Fatalf("expected letter error for %q", v)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "frequency_letter", "one of A, B, C, D, E") {
			t.Fatalf("expected freqletter message for %q, got %+v", v, fe)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name   string `json:"name"   validate:"required"`
		Offset int    `query:"offset" validate:"gte=10"`
		Limit  int    `query:"limit"  validate:"lte=5"`
		Kind   string `json:"kind"   validate:"oneof=individual group"`
		ID     string `param:"loan_id" validate:"required"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{Offset: 9, Limit: 6, Kind: "joint"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "name", "is required") {
		t.Fatalf("missing 'is required' for name: %+v", fe)
	}
	if !containsFieldMsg(fe, "offset", "greater than or equal to 10") {
		t.Fatalf("missing gte message for offset: %+v", fe)
	}
	if !containsFieldMsg(fe, "limit", "less than or equal to 5") {
		t.Fatalf("missing lte message for limit: %+v", fe)
	}
	if !containsFieldMsg(fe, "kind", "one of individual group") {
		t.Fatalf("missing oneof message for kind: %+v", fe)
	}
	if !containsFieldMsg(fe, "loan_id", "is required") {
		t.Fatalf("path params should report their param name: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
