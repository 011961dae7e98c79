package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
)

type loginBody struct {
	Telephone  string `json:"telephone" validate:"required,cifphone"`
	MotDePasse string `json:"motDePasse" validate:"required,min=4"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"telephone":"0707070707","motDePasse":"secret"}`))
	var body loginBody
	if err := DecodeJSONBody(r, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Telephone != "0707070707" {
		t.Fatalf("unexpected telephone %q", body.Telephone)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"telephone":"0707070707","motDePasse":"secret","extra":1}`))
	var body loginBody
	err := DecodeJSONBody(r, &body)
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyValidationDetailsUseJSONNames(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"telephone":"12345","motDePasse":"secret"}`))
	var body loginBody
	err := DecodeJSONBody(r, &body)
	if err == nil {
		t.Fatalf("expected phone validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected map details, got %T", typed.Details())
	}
	if _, ok := details["telephone"]; !ok {
		t.Fatalf("expected details keyed by json name, got %v", details)
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"0707070707", "0102030405", "0999999999"}
	for _, v := range valid {
		if !ValidPhone(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}
	invalid := []string{"", "070707070", "07070707070", "0007070707", "1707070707", "07070a0707"}
	for _, v := range invalid {
		if ValidPhone(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}
