package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes returned to the dashboard, grouped by concern.
const (
	// Authentication (AUTH)
	ErrInvalidCredentials = "AUTH_001" // wrong email or password
	ErrInvalidToken       = "AUTH_002" // missing, malformed or expired token

	// Validation (VAL)
	ErrInvalidRequest      = "VAL_001" // malformed body or parameters
	ErrMissingRequiredData = "VAL_002" // required fields absent
	ErrInvalidFormat       = "VAL_003" // unparsable values

	// Data ingestion and series (DATA)
	ErrMissingColumns   = "DATA_001" // CSV lacks the required columns
	ErrEmptySeries      = "DATA_002" // product has no usable rows
	ErrUploadNotFound   = "DATA_003" // unknown or expired upload id
	ErrUnparsableUpload = "DATA_004" // CSV could not be read at all

	// Modeling (MODEL)
	ErrOrderSearch   = "MODEL_001" // automatic order search failed
	ErrModelFit      = "MODEL_002" // estimation failed for the order
	ErrForecast      = "MODEL_003" // bad horizon or unusable artifact
	ErrModelNotFound = "MODEL_004" // product has no trained model

	// Persistence (STORE)
	ErrModelPersistence = "STORE_001" // model artifact I/O failure

	// Server (SRV)
	ErrInternalServer    = "SRV_001"
	ErrDatabaseOperation = "SRV_002"
)

var httpStatusMap = map[string]int{
	ErrInvalidCredentials:  http.StatusUnauthorized,
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrMissingColumns:      http.StatusUnprocessableEntity,
	ErrEmptySeries:         http.StatusNotFound,
	ErrUploadNotFound:      http.StatusNotFound,
	ErrUnparsableUpload:    http.StatusBadRequest,
	ErrOrderSearch:         http.StatusUnprocessableEntity,
	ErrModelFit:            http.StatusUnprocessableEntity,
	ErrForecast:            http.StatusBadRequest,
	ErrModelNotFound:       http.StatusConflict,
	ErrModelPersistence:    http.StatusInternalServerError,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrDatabaseOperation:   http.StatusInternalServerError,
}

// APIError is the standardized error body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standardized error to the HTTP response.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps a Go error in an API error with the given code.
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
