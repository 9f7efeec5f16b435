package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bitfsorg/libmint-go/mint"
)

var (
	// ErrMissingToken indicates a request without a bearer token.
	ErrMissingToken = errors.New("httpapi: missing bearer token")

	// ErrInvalidToken indicates a bearer token that fails verification.
	ErrInvalidToken = errors.New("httpapi: invalid token")

	// ErrBadRequest indicates a malformed request body.
	ErrBadRequest = errors.New("httpapi: bad request")
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

var statusByCode = map[string]int{
	mint.CodeTooEarly:         http.StatusForbidden,
	mint.CodeNotEligibleTier1: http.StatusForbidden,
	mint.CodeNotEligibleTier2: http.StatusForbidden,
	mint.CodeNotEligibleTier3: http.StatusForbidden,
	mint.CodeQuotaExceeded:    http.StatusForbidden,
	mint.CodeUnauthorized:     http.StatusForbidden,
	mint.CodeInvalidPayment:   http.StatusPaymentRequired,
	mint.CodeMintingClosed:    http.StatusGone,
	mint.CodeNotFound:         http.StatusNotFound,
	mint.CodeInvalidAccount:   http.StatusBadRequest,
	mint.CodeInvalidTier:      http.StatusBadRequest,
	mint.CodePayoutTooLong:    http.StatusBadRequest,
	mint.CodeDuplicateToken:   http.StatusInternalServerError,
	mint.CodeInternal:         http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	}
	return statusByCode[mint.Code(err)]
}

// writeError writes err as JSON. Internal failures carry no description.
func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	body := errorBody{Error: mint.Code(err), Description: err.Error()}
	switch {
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken):
		body.Error = "unauthorized"
	case errors.Is(err, ErrBadRequest):
		body.Error = "bad_request"
	case status == http.StatusInternalServerError:
		body.Description = ""
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
