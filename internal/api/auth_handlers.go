package api

import (
	"encoding/json"
	"net/http"

	"user-api/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"password123"`
}

type TokenResponse struct {
	Message string `json:"message" example:"Login successful"`
	Token   string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type ProtectedResponse struct {
	Message string `json:"message" example:"Protected Route Authorized"`
	User    string `json:"user" example:"alice@example.com"`
}

// @Summary      Check credentials
// @Description  Diagnostic login. Always answers 200 and lists which checks passed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body      LoginRequest  true  "Login Credentials"
// @Success      200           {object}  service.LoginCheck
// @Failure      400           {object}  ErrorResponse
// @Router       /login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	check, err := s.users.CheckLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// @Summary      Log in
// @Description  Verifies the credentials and returns a signed bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body      LoginRequest  true  "Login Credentials"
// @Success      200           {object}  TokenResponse
// @Failure      400           {object}  ErrorResponse
// @Failure      401           {object}  ErrorResponse
// @Router       /loginuser [post]
func (s *Server) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := s.users.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Message: "Login successful", Token: token})
}

// @Summary      Protected route
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProtectedResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /protected [get]
func (s *Server) ProtectedHandler(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r.Context())
	if identity == "" {
		writeError(w, r, models.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, ProtectedResponse{Message: "Protected Route Authorized", User: identity})
}
