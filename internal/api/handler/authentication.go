package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/awidars/stock-forecast-api/internal/usecases/authenticating"
	"github.com/awidars/stock-forecast-api/pkg/apiErrors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}

		token, err := service.Login(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, authenticating.ErrInvalidCredentials) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidCredentials, "invalid email or password", nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "login failed", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"token": token,
		})
	}
}
