package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestStringValidation(t *testing.T) {
	type testcase struct {
		validation *StringValidation
		want       bool
	}
	for name, testcase := range map[string]testcase{
		"required empty":   {validation: NewStringValidation(""), want: false},
		"optional empty":   {validation: NewStringValidation("").WithRequired(false).WithMinLength(3), want: true},
		"too short":        {validation: NewStringValidation("ab").WithMinLength(3), want: false},
		"too long":         {validation: NewStringValidation("abcd").WithMaxLength(3), want: false},
		"pattern mismatch": {validation: NewStringValidation("JDoe@pca").WithPattern(CompiledPatterns.Email), want: false},
		"pattern match":    {validation: NewStringValidation("jdoe@pca.org").WithPattern(CompiledPatterns.Email), want: true},
	} {
		t.Run(name, func(t *testing.T) {
			if got := testcase.validation.Validate(); got != testcase.want {
				t.Errorf("got %v, want %v", got, testcase.want)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	if ValidPassword("short") || !ValidPassword("longenough") {
		t.Error("ValidPassword")
	}
	if ValidEmail("not-an-email") || !ValidEmail("jdoe@pca.org") {
		t.Error("ValidEmail")
	}
	if ValidName("") || !ValidName("Jo") {
		t.Error("ValidName")
	}
}

func TestRegisterValidators(t *testing.T) {
	v := validator.New()
	if err := RegisterValidators(v); err != nil {
		t.Fatalf("RegisterValidators: %v", err)
	}

	type payload struct {
		Date  string `validate:"date"`
		Clock string `validate:"clock"`
	}
	for name, testcase := range map[string]struct {
		in    payload
		valid bool
	}{
		"valid":      {in: payload{Date: "2024-03-04", Clock: "07:30"}, valid: true},
		"bad date":   {in: payload{Date: "03/04/2024", Clock: "07:30"}},
		"bad clock":  {in: payload{Date: "2024-03-04", Clock: "7:30am"}},
		"hour range": {in: payload{Date: "2024-03-04", Clock: "24:00"}},
	} {
		t.Run(name, func(t *testing.T) {
			err := v.Struct(testcase.in)
			if (err == nil) != testcase.valid {
				t.Errorf("got %v, valid=%v", err, testcase.valid)
			}
		})
	}
}
