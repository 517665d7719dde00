package models

// ErrorResponse represents an API error response.
// Row and Field are set when a single holding row was rejected.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Row     int    `json:"row,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
	Field   string `json:"field,omitempty"`
}
