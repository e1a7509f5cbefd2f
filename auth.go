package main

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// fetchAdmin returns the singleton credential row. An absent row yields an
// empty placeholder rather than an error; callers treat an empty username as
// "login impossible".
func fetchAdmin() Admin {
	var admin Admin
	if err := db.First(&admin).Error; err != nil {
		return Admin{}
	}
	return admin
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateCredentialsRequest struct {
	OldUsername string `json:"old_username" validate:"required,email"`
	OldPassword string `json:"old_password" validate:"required"`
	NewUsername string `json:"new_username" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required"`
}

// Login is a stateless credential check: no token or session is issued.
// Both fields are trimmed before comparison.
func Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	admin := fetchAdmin()
	if admin.Username == "" || username != admin.Username {
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	respondStatus(w, http.StatusOK, "Login successful")
}

// UpdateAdminCredential replaces both credential fields after the old pair
// checks out. Unlike Login, the old values are compared without trimming.
func UpdateAdminCredential(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req updateCredentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admin := fetchAdmin()
	if admin.Username == "" || req.OldUsername != admin.Username {
		respondError(w, http.StatusUnauthorized, "Old credentials incorrect")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.OldPassword)); err != nil {
		respondError(w, http.StatusUnauthorized, "Old credentials incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("Password hashing failed")
		respondError(w, http.StatusInternalServerError, "Failed to update credentials")
		return
	}

	admin.Username = req.NewUsername
	admin.Password = string(hash)
	if err := db.Save(&admin).Error; err != nil {
		log.WithError(err).Error("Credential update failed")
		respondError(w, http.StatusInternalServerError, "Failed to update credentials")
		return
	}

	respondStatus(w, http.StatusOK, "Admin credentials updated")
}
