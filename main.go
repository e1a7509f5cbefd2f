// backend/main.go
package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
}

func main() {
	cfg := loadConfig()
	initLogger(cfg.LogLevel)

	if err := initDB(cfg.DBPath); err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := ensureAdmin(cfg); err != nil {
		log.Fatalf("failed to bootstrap admin user: %v", err)
	}

	mailer = newSMTPMailer(cfg)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", Health)

	mux.HandleFunc("/projects", ProjectsHandler)
	mux.HandleFunc("/projects/", ProjectHandler)
	mux.HandleFunc("/skills", SkillsHandler)
	mux.HandleFunc("/skills/", SkillHandler)
	mux.HandleFunc("/experience", ExperienceHandler)
	mux.HandleFunc("/experience/", ExperienceItemHandler)
	mux.HandleFunc("/research", ResearchHandler)
	mux.HandleFunc("/research/", ResearchItemHandler)

	mux.HandleFunc("/login", Login)
	mux.HandleFunc("/update-admin-credential", UpdateAdminCredential)
	mux.HandleFunc("/forgot-password", ForgotPassword)
	mux.HandleFunc("/verify-otp", VerifyOTP)
	mux.HandleFunc("/reset-password", ResetPassword)

	// CORS: only the configured frontend origin may call us.
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(mux)

	log.Infof("Portfolio backend running on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, handler))
}
