package models

// ImportValidationError describes one rejected cell of an imported sheet.
// Row is 1-based and counts the header row.
type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code,omitempty"`
}
