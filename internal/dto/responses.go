package dto

// ErrorResponse represents a standardized error payload
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse represents a standardized success payload
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MovementResponse represents the outcome of a money command
type MovementResponse struct {
	Account   interface{} `json:"account"`
	Movement  interface{} `json:"movement"`
	Duplicate bool        `json:"duplicate"`
}

// EvidenceUploadResponse represents an uploaded evidence document
type EvidenceUploadResponse struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version,omitempty"`
}
