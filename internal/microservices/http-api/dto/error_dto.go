package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}
