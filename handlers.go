package main

// handlers.go this is our CRUD operations for the database

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondStatus(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"status": "success", "message": message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"status": "error", "message": message})
}

// decodeAndValidate parses the request body into dst and checks its validate
// tags. On failure it writes the 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, formatValidationErrors(err))
		return false
	}
	return true
}

func formatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// pathKey extracts the business key from /resource/{key} style URLs.
func pathKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) != 3 || parts[2] == "" {
		respondError(w, http.StatusBadRequest, "Invalid URL")
		return "", false
	}
	key, err := url.PathUnescape(parts[2])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid URL")
		return "", false
	}
	return key, true
}

// ---------- Projects ----------

func ProjectsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listProjects(w, r)
	case http.MethodPost:
		createProject(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func ProjectHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		getProject(w, key)
	case http.MethodPut:
		updateProject(w, r, key)
	case http.MethodDelete:
		deleteProject(w, key)
	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func listProjects(w http.ResponseWriter, r *http.Request) {
	data, err := getCachedList("projects", func() (interface{}, error) {
		projects := []Project{}
		if err := db.Find(&projects).Error; err != nil {
			return nil, err
		}
		return projects, nil
	})
	if err != nil {
		log.WithError(err).Error("Error fetching projects")
		respondError(w, http.StatusInternalServerError, "Could not fetch projects")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func getProject(w http.ResponseWriter, id string) {
	var project Project
	if err := db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Project not found")
		} else {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func createProject(w http.ResponseWriter, r *http.Request) {
	var project Project
	if !decodeAndValidate(w, r, &project) {
		return
	}

	var existing Project
	err := db.First(&existing, "id = ?", project.ID).Error
	if err == nil {
		respondError(w, http.StatusConflict, "Project already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := db.Create(&project).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("projects")
	respondJSON(w, http.StatusOK, project)
}

func updateProject(w http.ResponseWriter, r *http.Request, id string) {
	var existing Project
	if err := db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Project not found")
		} else {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	var updated Project
	if !decodeAndValidate(w, r, &updated) {
		return
	}
	updated.ID = existing.ID

	if err := db.Save(&updated).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("projects")
	respondJSON(w, http.StatusOK, updated)
}

func deleteProject(w http.ResponseWriter, id string) {
	// Deleting an absent id still succeeds.
	if err := db.Delete(&Project{}, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("projects")
	respondStatus(w, http.StatusOK, "Project deleted")
}

// ---------- Skills ----------

func SkillsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listSkills(w, r)
	case http.MethodPost:
		createSkillCategory(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func SkillHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPut:
		updateSkillCategory(w, r, key)
	case http.MethodDelete:
		deleteSkillCategory(w, key)
	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func listSkills(w http.ResponseWriter, r *http.Request) {
	data, err := getCachedList("skills", func() (interface{}, error) {
		categories := []SkillCategory{}
		if err := db.Find(&categories).Error; err != nil {
			return nil, err
		}
		return categories, nil
	})
	if err != nil {
		log.WithError(err).Error("Error fetching skills")
		respondError(w, http.StatusInternalServerError, "Could not fetch skills")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func createSkillCategory(w http.ResponseWriter, r *http.Request) {
	var category SkillCategory
	if !decodeAndValidate(w, r, &category) {
		return
	}

	var existing SkillCategory
	err := db.First(&existing, "name = ?", category.Name).Error
	if err == nil {
		respondError(w, http.StatusConflict, "Skill category already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := db.Create(&category).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("skills")
	respondJSON(w, http.StatusOK, category)
}

func updateSkillCategory(w http.ResponseWriter, r *http.Request, name string) {
	var existing SkillCategory
	if err := db.First(&existing, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Skill category not found")
		} else {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	var updated SkillCategory
	if !decodeAndValidate(w, r, &updated) {
		return
	}
	updated.Name = existing.Name

	if err := db.Save(&updated).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("skills")
	respondJSON(w, http.StatusOK, updated)
}

func deleteSkillCategory(w http.ResponseWriter, name string) {
	if err := db.Delete(&SkillCategory{}, "name = ?", name).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("skills")
	respondStatus(w, http.StatusOK, "Skill category deleted")
}

// ---------- Experience ----------

func ExperienceHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listExperience(w, r)
	case http.MethodPost:
		createExperience(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func ExperienceItemHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPut:
		updateExperience(w, r, key)
	case http.MethodDelete:
		deleteExperience(w, key)
	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func listExperience(w http.ResponseWriter, r *http.Request) {
	data, err := getCachedList("experience", func() (interface{}, error) {
		experience := []Experience{}
		if err := db.Find(&experience).Error; err != nil {
			return nil, err
		}
		return experience, nil
	})
	if err != nil {
		log.WithError(err).Error("Error fetching experience")
		respondError(w, http.StatusInternalServerError, "Could not fetch experience")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func createExperience(w http.ResponseWriter, r *http.Request) {
	var exp Experience
	if !decodeAndValidate(w, r, &exp) {
		return
	}

	var existing Experience
	err := db.First(&existing, "role = ?", exp.Role).Error
	if err == nil {
		respondError(w, http.StatusConflict, "Experience already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := db.Create(&exp).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("experience")
	respondJSON(w, http.StatusOK, exp)
}

func updateExperience(w http.ResponseWriter, r *http.Request, role string) {
	// role is the business key; the first matching row wins.
	var existing Experience
	if err := db.First(&existing, "role = ?", role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Experience not found")
		} else {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	var updated Experience
	if !decodeAndValidate(w, r, &updated) {
		return
	}
	existing.Company = updated.Company
	existing.Type = updated.Type
	existing.Duration = updated.Duration

	if err := db.Save(&existing).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("experience")
	respondJSON(w, http.StatusOK, existing)
}

func deleteExperience(w http.ResponseWriter, role string) {
	if err := db.Delete(&Experience{}, "role = ?", role).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("experience")
	respondStatus(w, http.StatusOK, "Experience deleted")
}

// ---------- Research ----------

func ResearchHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listResearch(w, r)
	case http.MethodPost:
		createResearch(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func ResearchItemHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPut:
		updateResearch(w, r, key)
	case http.MethodDelete:
		deleteResearch(w, key)
	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func listResearch(w http.ResponseWriter, r *http.Request) {
	data, err := getCachedList("research", func() (interface{}, error) {
		research := []Research{}
		if err := db.Find(&research).Error; err != nil {
			return nil, err
		}
		return research, nil
	})
	if err != nil {
		log.WithError(err).Error("Error fetching research")
		respondError(w, http.StatusInternalServerError, "Could not fetch research")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func createResearch(w http.ResponseWriter, r *http.Request) {
	var res Research
	if !decodeAndValidate(w, r, &res) {
		return
	}

	var existing Research
	err := db.First(&existing, "title = ?", res.Title).Error
	if err == nil {
		respondError(w, http.StatusConflict, "Research already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := db.Create(&res).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("research")
	respondJSON(w, http.StatusOK, res)
}

func updateResearch(w http.ResponseWriter, r *http.Request, title string) {
	var existing Research
	if err := db.First(&existing, "title = ?", title).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Research not found")
		} else {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	var updated Research
	if !decodeAndValidate(w, r, &updated) {
		return
	}
	existing.ShortDescription = updated.ShortDescription
	existing.Author = updated.Author
	existing.Link = updated.Link

	if err := db.Save(&existing).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("research")
	respondJSON(w, http.StatusOK, existing)
}

func deleteResearch(w http.ResponseWriter, title string) {
	if err := db.Delete(&Research{}, "title = ?", title).Error; err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateList("research")
	respondStatus(w, http.StatusOK, "Research deleted")
}

// ---------- Health ----------

func Health(w http.ResponseWriter, r *http.Request) {
	respondStatus(w, http.StatusOK, "Portfolio backend is healthy")
}
