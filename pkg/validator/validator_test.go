package validator_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgvalidator "github.com/ghuser/itemsapi/pkg/validator"
)

type sampleStruct struct {
	Name  string `validate:"required,min=1,max=10"`
	Title string `validate:"omitempty,notblank"`
}

func TestValidate_valid(t *testing.T) {
	if err := pkgvalidator.Validate(&sampleStruct{Name: "hello"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestValidate_missingRequired(t *testing.T) {
	if err := pkgvalidator.Validate(&sampleStruct{}); err == nil {
		t.Fatal("expected validation error for empty struct")
	}
}

func TestFormatValidationErrors_required(t *testing.T) {
	m := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&sampleStruct{}))
	if m["Name"] != "This field is required" {
		t.Errorf("unexpected Name message: %q", m["Name"])
	}
}

func TestFormatValidationErrors_max(t *testing.T) {
	m := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&sampleStruct{Name: "12345678901"}))
	if m["Name"] != "Maximum length is 10" {
		t.Errorf("unexpected Name message: %q", m["Name"])
	}
}

func TestFormatValidationErrors_notblank(t *testing.T) {
	m := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&sampleStruct{Name: "ok", Title: "   "}))
	if m["Title"] != "Must not be blank" {
		t.Errorf("unexpected Title message: %q", m["Title"])
	}
}

func TestFormatValidationErrors_nonValidationError(t *testing.T) {
	m := pkgvalidator.FormatValidationErrors(http.ErrNoCookie)
	if len(m) != 0 {
		t.Errorf("expected empty map for non-validation error, got %v", m)
	}
}

func TestFieldErrors_ErrorIsSorted(t *testing.T) {
	err := pkgvalidator.FieldErrors{"name": "required", "age": "too low"}
	if got := err.Error(); got != "validation failed: age: too low; name: required" {
		t.Errorf("unexpected message: %q", got)
	}
}

// --- DecodeAndValidate ---

type itemReq struct {
	Name *string `json:"name" validate:"required,notblank"`
}

func decode(body string) (*itemReq, error) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return pkgvalidator.DecodeAndValidate[itemReq](r)
}

func TestDecodeAndValidate_valid(t *testing.T) {
	req, err := decode(`{"name":"widget"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Name == nil || *req.Name != "widget" {
		t.Errorf("unexpected Name: %v", req.Name)
	}
}

func TestDecodeAndValidate_fieldErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing field", `{}`},
		{"null field", `{"name":null}`},
		{"blank field", `{"name":"   "}`},
		{"empty string", `{"name":""}`},
		{"number instead of string", `{"name":42}`},
		{"array body", `[]`},
		{"empty body", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(tt.body)
			var fe pkgvalidator.FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldErrors, got %v", err)
			}
		})
	}
}

func TestDecodeAndValidate_typeErrorNamesField(t *testing.T) {
	_, err := decode(`{"name":42}`)
	var fe pkgvalidator.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if _, ok := fe["name"]; !ok {
		t.Errorf("expected name in field errors, got %v", fe)
	}
}

func TestDecodeAndValidate_malformedJSON(t *testing.T) {
	_, err := decode("{bad json")
	if !errors.Is(err, pkgvalidator.ErrMalformedBody) {
		t.Fatalf("expected ErrMalformedBody, got %v", err)
	}
}

func TestDecodeAndValidate_bodyTooLarge(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 64)+`"}`))
	r.Body = http.MaxBytesReader(w, r.Body, 16)

	_, err := pkgvalidator.DecodeAndValidate[itemReq](r)
	if !errors.Is(err, pkgvalidator.ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
}

func TestDecodeAndValidate_trailingData(t *testing.T) {
	for _, body := range []string{
		`{"name":"a"} trailing`,
		`{"name":"ok"}{"name":42}`,
		`{"name":"ok"} 1`,
	} {
		t.Run(body, func(t *testing.T) {
			_, err := decode(body)
			if !errors.Is(err, pkgvalidator.ErrMalformedBody) {
				t.Fatalf("expected ErrMalformedBody, got %v", err)
			}
		})
	}
}

func TestDecodeAndValidate_trailingWhitespace(t *testing.T) {
	req, err := decode("{\"name\":\"widget\"}\n\t ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *req.Name != "widget" {
		t.Errorf("unexpected Name: %q", *req.Name)
	}
}
