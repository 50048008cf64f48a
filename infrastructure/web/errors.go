package web

import (
	"context"
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body written for requests the framework itself rejects.
type ErrorResponse struct {
	Error  string `json:"error"`
	status int
}

func NewError(status int, msg string) ErrorResponse {
	return ErrorResponse{Error: msg, status: status}
}

func (e ErrorResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json", err
}

func (e ErrorResponse) HTTPStatus() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}

func notFound(_ context.Context, r *http.Request) Encoder {
	return NewError(http.StatusNotFound, "no route for "+r.URL.Path)
}
