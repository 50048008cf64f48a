package errs_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/jrazmi/tasktracker/bridge/scaffolding/errs"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code errs.ErrCode
		want int
	}{
		{errs.InvalidArgument, http.StatusBadRequest},
		{errs.Unauthenticated, http.StatusUnauthorized},
		{errs.NotFound, http.StatusNotFound},
		{errs.Aborted, http.StatusConflict},
		{errs.ResourceExhausted, http.StatusTooManyRequests},
		{errs.Internal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := errs.Newf(tt.code, "x").HTTPStatus(); got != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestEncodeFieldErrors(t *testing.T) {
	e := errs.NewFieldErrors(map[string]string{"title": "title is required"})

	data, contentType, err := e.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %q", contentType)
	}

	var body struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Code != "invalid_argument" || body.Fields["title"] != "title is required" {
		t.Fatalf("unexpected body %s", data)
	}
	if strings.Contains(string(data), "errs_test.go") {
		t.Fatalf("source location leaked into body: %s", data)
	}
}

func TestGetErrorThroughWrapping(t *testing.T) {
	inner := errs.Newf(errs.NotFound, "task %s not found", "t1")
	wrapped := fmt.Errorf("handler: %w", inner)

	if !errs.IsError(wrapped) {
		t.Fatal("expected wrapped error to be detected")
	}
	got := errs.GetError(wrapped)
	if got == nil || !got.Equal(inner) {
		t.Fatalf("GetError = %v", got)
	}
	if !strings.HasSuffix(strings.Split(got.FileName, ":")[0], "errs_test.go") {
		t.Errorf("file name = %q", got.FileName)
	}
}
