package domain

import "time"

const DefaultTemplate = "classic"

// Resume is a user's structured CV.
type Resume struct {
	ID           int64        `json:"id" bson:"_id"`
	UserID       int64        `json:"userId" bson:"user_id"`
	Title        string       `json:"title" bson:"title"`
	PersonalInfo string       `json:"personalInfo" bson:"personal_info"`
	Summary      string       `json:"summary" bson:"summary"`
	Educations   []Education  `json:"educations" bson:"educations"`
	Experiences  []Experience `json:"experiences" bson:"experiences"`
	Skills       []Skill      `json:"skills" bson:"skills"`
	TemplateName string       `json:"templateName" bson:"template_name"`
	Public       bool         `json:"isPublic" bson:"is_public"`
	PublicURL    string       `json:"publicUrl,omitempty" bson:"public_url,omitempty"`
	CreatedAt    time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" bson:"updated_at"`
}

type Education struct {
	Institution  string `json:"institution" bson:"institution"`
	Degree       string `json:"degree" bson:"degree"`
	FieldOfStudy string `json:"fieldOfStudy" bson:"field_of_study"`
	StartDate    string `json:"startDate" bson:"start_date"`
	EndDate      string `json:"endDate" bson:"end_date"`
	Description  string `json:"description" bson:"description"`
}

type Experience struct {
	Company     string `json:"company" bson:"company"`
	Position    string `json:"position" bson:"position"`
	StartDate   string `json:"startDate" bson:"start_date"`
	EndDate     string `json:"endDate" bson:"end_date"`
	IsCurrent   bool   `json:"isCurrent" bson:"is_current"`
	Description string `json:"description" bson:"description"`
	Location    string `json:"location" bson:"location"`
}

type Skill struct {
	Name             string `json:"name" bson:"name"`
	ProficiencyLevel string `json:"proficiencyLevel" bson:"proficiency_level"`
}
