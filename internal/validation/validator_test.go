package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/joestump/studyshelf/internal/validation"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=10"`
	Link  string `json:"link" validate:"required,http_url"`
	Image string `json:"image,omitempty" validate:"omitempty,http_url"`
}

func TestValidate_OK(t *testing.T) {
	v := validation.New()
	if err := v.Validate(sample{Name: "graphs", Link: "https://example.com"}); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	v := validation.New()

	err := v.Validate(sample{Name: "", Link: "not a url", Image: "ftp//nope"})
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *validation.Error", err)
	}

	want := map[string]string{
		"name":  "is required",
		"link":  "must be a valid URL",
		"image": "must be a valid URL",
	}
	for field, msg := range want {
		if got := verr.Fields[field]; got != msg {
			t.Errorf("Fields[%q] = %q, want %q", field, got, msg)
		}
	}
	if !strings.Contains(err.Error(), "name is required") {
		t.Errorf("Error() = %q, want it to mention name", err.Error())
	}
}

func TestValidate_Max(t *testing.T) {
	v := validation.New()

	err := v.Validate(sample{Name: "much-too-long-name", Link: "https://example.com"})
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *validation.Error", err)
	}
	if got := verr.Fields["name"]; got != "must not exceed 10 characters" {
		t.Errorf("Fields[name] = %q", got)
	}
}

func TestFieldError(t *testing.T) {
	err := validation.FieldError("tags", "tags must be strings")
	if got, want := err.Error(), "validation failed: tags tags must be strings"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
