package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpTTL = 5 * time.Minute

type otpEntry struct {
	code     string
	issuedAt time.Time
}

// otpStore holds at most one live passcode per email. All access goes through
// the mutex so Consume is an atomic check-and-delete: two concurrent resets
// cannot both succeed on one code. The clock is injected for expiry tests.
type otpStore struct {
	mu    sync.Mutex
	codes map[string]otpEntry
	ttl   time.Duration
	now   func() time.Time
}

func newOTPStore(ttl time.Duration) *otpStore {
	return &otpStore{
		codes: make(map[string]otpEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

var otps = newOTPStore(otpTTL)

// Put stores a code for email, overwriting any prior live code.
func (s *otpStore) Put(email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = otpEntry{code: code, issuedAt: s.now()}
}

// Delete drops the code for email regardless of its value.
func (s *otpStore) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
}

// Match reports whether a live, unexpired code for email equals code.
// It never consumes the entry; expired entries are dropped on sight.
func (s *otpStore) Match(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matchLocked(email, code)
}

// Consume deletes the entry iff it matches and is unexpired. The deletion's
// success is the single-use consumption gate.
func (s *otpStore) Consume(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.matchLocked(email, code) {
		return false
	}
	delete(s.codes, email)
	return true
}

func (s *otpStore) matchLocked(email, code string) bool {
	e, ok := s.codes[email]
	if !ok {
		return false
	}
	if s.now().Sub(e.issuedAt) > s.ttl {
		delete(s.codes, email)
		return false
	}
	return e.code == code
}

// generateOTP draws a uniform 6-digit code from [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[@$!%*?&]`)
)

func validateNewPassword(pw string) error {
	if !upperRe.MatchString(pw) {
		return errors.New("Password must contain at least 1 uppercase letter")
	}
	if !digitRe.MatchString(pw) {
		return errors.New("Password must contain at least 1 number")
	}
	if !specialRe.MatchString(pw) {
		return errors.New("Password must contain at least 1 special character")
	}
	return nil
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type resetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	OTP             string `json:"otp" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req forgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Exact match against the stored username, no trimming.
	admin := fetchAdmin()
	if admin.Username == "" || req.Email != admin.Username {
		respondError(w, http.StatusNotFound, "Email not registered")
		return
	}

	code, err := generateOTP()
	if err != nil {
		log.WithError(err).Error("OTP generation failed")
		respondError(w, http.StatusInternalServerError, "Failed to send OTP")
		return
	}

	otps.Put(req.Email, code)

	body := fmt.Sprintf("Your OTP is %s. It will expire in 5 minutes.", code)
	if err := mailer.Send(req.Email, "Your OTP for Password Reset", body); err != nil {
		// Roll back so an undeliverable code never stays live.
		otps.Delete(req.Email)
		log.WithError(err).Error("OTP email delivery failed")
		respondError(w, http.StatusInternalServerError, "Failed to send OTP")
		return
	}

	respondStatus(w, http.StatusOK, "OTP sent to email")
}

func VerifyOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req verifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !otps.Match(req.Email, req.OTP) {
		respondError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}

	respondStatus(w, http.StatusOK, "OTP verified")
}

func ResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req resetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !otps.Match(req.Email, req.OTP) {
		respondError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		respondError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	if err := validateNewPassword(req.NewPassword); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var admin Admin
	if err := db.Where("username = ?", req.Email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Admin not found")
		} else {
			log.WithError(err).Error("Admin lookup failed")
			respondError(w, http.StatusInternalServerError, "Failed to reset password")
		}
		return
	}

	// All checks passed; consuming the code is the last gate before the
	// password changes hands.
	if !otps.Consume(req.Email, req.OTP) {
		respondError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("Password hashing failed")
		respondError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	if err := db.Model(&admin).Update("password", string(hash)).Error; err != nil {
		log.WithError(err).Error("Password update failed")
		respondError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	respondStatus(w, http.StatusOK, "Password reset successful")
}
