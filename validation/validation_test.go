package validation

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/kbukum/apiclient/errors"
)

type sample struct {
	Method   string `json:"method" validate:"required,oneof=GET POST"`
	Endpoint string `json:"endpoint" validate:"required,endpoint"`
	Retries  int    `validate:"gte=0"`
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(sample{Method: "GET", Endpoint: "/users"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Struct(sample{Method: "POST", Endpoint: "https://api.example.com/x"}); err != nil {
		t.Fatalf("absolute URL should be accepted: %v", err)
	}
}

func TestStruct_ReportsEveryField(t *testing.T) {
	err := Struct(sample{Method: "TRACE", Endpoint: "users", Retries: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.IsSetup(err) {
		t.Errorf("validation failures should be Setup errors, got %v", err)
	}

	var verr *Error
	if !stderrors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %T", err)
	}
	want := map[string]string{
		"method":   "must be one of: GET POST",
		"endpoint": "must start with / or be an absolute http(s) URL",
		"retries":  "must be at least 0",
	}
	if len(verr.Fields) != len(want) {
		t.Fatalf("got %d field errors, want %d: %+v", len(verr.Fields), len(want), verr.Fields)
	}
	for _, fe := range verr.Fields {
		if want[fe.Field] != fe.Message {
			t.Errorf("field %s: got %q, want %q", fe.Field, fe.Message, want[fe.Field])
		}
	}
	if !strings.Contains(err.Error(), "method must be one of") {
		t.Errorf("message should name the field, got %q", err.Error())
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"RefreshPath": "refresh_path",
		"URL":         "u_r_l",
		"name":        "name",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
