package fopbridge

import "encoding/json"

// CodeResponse provides a standard response with code and message
type CodeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewCodeResponse(code, message string) CodeResponse {
	return CodeResponse{Code: code, Message: message}
}

func (c CodeResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(c)
	return data, "application/json", err
}
