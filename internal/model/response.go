package model

// ErrorResponse is the body of every gateway error other than validation.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse is the 422 body, keyed by the failing field.
type ValidationErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}
