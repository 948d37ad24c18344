package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/yaseenp24/workoutbuddy/internal/auth"
	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/storage"
	"github.com/yaseenp24/workoutbuddy/internal/tips"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Email, password, and name are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, "hashing password", err)
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Email, req.Name, hash)
	if errors.Is(err, storage.ErrEmailTaken) {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		s.internalError(w, "creating user", err)
		return
	}

	s.writeAuth(w, http.StatusCreated, "User registered successfully", user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, hash, err := s.store.UserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.internalError(w, "loading user", err)
		return
	}
	if user == nil || !auth.CheckPassword(hash, req.Password) {
		s.log.Warn("login rejected", "ip", clientIP(r))
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	s.writeAuth(w, http.StatusOK, "Login successful", user)
}

func (s *Server) writeAuth(w http.ResponseWriter, status int, message string, user *models.User) {
	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.internalError(w, "issuing token", err)
		return
	}
	writeJSON(w, status, models.AuthResponse{
		Message:     message,
		AccessToken: token,
		User:        *user,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.UserByID(r.Context(), userIDFromContext(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.internalError(w, "loading profile", err)
		return
	}
	writeJSON(w, http.StatusOK, models.UserResponse{User: *user})
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req models.Onboarding
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := s.store.UpdateOnboarding(r.Context(), userIDFromContext(r), req)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.internalError(w, "updating onboarding", err)
		return
	}
	writeJSON(w, http.StatusOK, models.UserResponse{
		Message: "Onboarding completed successfully",
		User:    *user,
	})
}

// handleProfileTips answers with rule-based tips for the posted profile, or
// for the caller's stored profile when none is posted.
func (s *Server) handleProfileTips(w http.ResponseWriter, r *http.Request) {
	var req models.TipsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var profile models.Onboarding
	switch {
	case req.Profile != nil:
		profile = *req.Profile
	case userIDFromContext(r) != 0:
		user, err := s.store.UserByID(r.Context(), userIDFromContext(r))
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("tips: loading profile", "error", err)
		}
		if user != nil {
			profile = tips.FromUser(user)
		}
	}
	writeJSON(w, http.StatusOK, models.TipsResponse{Tips: tips.For(profile)})
}

func (s *Server) internalError(w http.ResponseWriter, what string, err error) {
	s.log.Error(what, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
