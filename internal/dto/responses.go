package dto

// ErrorResponse is the standard error body. Code carries the machine-readable
// error code so the UI can branch on it.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse is the standard success body.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
