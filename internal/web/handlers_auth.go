package web

import (
	"net/http"

	"github.com/JonMunkholm/textflow/internal/core"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	User    string `json:"user"`
	Name    string `json:"name,omitempty"`
}

// handleSignup creates an account.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	err := s.service.Signup(r.Context(), core.SignupRequest{
		Name:     req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Account created"})
}

// handleLogin verifies credentials.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	u, err := s.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    u.Email,
		Name:    u.Name,
	})
}
