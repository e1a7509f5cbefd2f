// models.go this is our database models
package main

// Project is a portfolio project addressed by its string id.
// Stack is an ordered list of technology tags, stored as a JSON column.
type Project struct {
	ID          string   `json:"id" gorm:"primaryKey" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Stack       []string `json:"stack" gorm:"serializer:json"`
	Code        string   `json:"code"`
	Image       string   `json:"image"`
	Snippet     string   `json:"snippet"`
}

type SkillItem struct {
	Name    string `json:"name" validate:"required"`
	Percent int    `json:"percent" validate:"min=0,max=100"`
}

// SkillCategory is the aggregate root: the category name keys the row and the
// skill items live in an ordered JSON column instead of flattened per-skill rows.
type SkillCategory struct {
	Name   string      `json:"name" gorm:"primaryKey" validate:"required"`
	Icon   string      `json:"icon"`
	Skills []SkillItem `json:"skills" gorm:"serializer:json" validate:"dive"`
}

// Experience uses role as its business key for update/delete. The role is not
// unique by construction; the first matching row wins.
type Experience struct {
	ID       uint   `json:"-" gorm:"primaryKey"`
	Role     string `json:"role" validate:"required"`
	Company  string `json:"company"`
	Type     string `json:"type"`
	Duration string `json:"duration"`
}

// Research uses title as its business key, with the same first-match caveat
// as Experience.
type Research struct {
	ID               uint   `json:"-" gorm:"primaryKey"`
	Title            string `json:"title" validate:"required"`
	ShortDescription string `json:"short_description"`
	Author           string `json:"author"`
	Link             string `json:"link"`
}

// Admin is the single credential record the whole backend authenticates
// against. Password holds a bcrypt hash, never plaintext.
type Admin struct {
	ID       uint   `json:"-" gorm:"primaryKey"`
	Username string `json:"username"`
	Password string `json:"-"`
}
