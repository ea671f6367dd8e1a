package model

import (
	"sort"
	"strings"
	"time"
)

// PriorEducation is the applicant's highest completed level.
type PriorEducation string

const (
	PriorEducationNone         PriorEducation = "NO EDUCATION"
	PriorEducationMiddleSchool PriorEducation = "MIDDLE SCHOOL"
	PriorEducationHighSchool   PriorEducation = "HIGH SCHOOL"
	PriorEducationBachelor     PriorEducation = "BACHELOR"
	PriorEducationMaster       PriorEducation = "MASTER"
	PriorEducationPhD          PriorEducation = "PHD"
)

// TargetProgram is the degree the applicant applies for.
type TargetProgram string

const (
	TargetProgramBachelor TargetProgram = "BACHELOR"
	TargetProgramMaster   TargetProgram = "MASTER"
	TargetProgramPhD      TargetProgram = "PHD"
)

// ApplicationStatus represents the review state of an application.
// Intended flow: SUBMITTED -> UNDER REVIEW -> ACCEPTED | WAITLISTED | REJECTED.
type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationStatusUnderReview ApplicationStatus = "UNDER REVIEW"
	ApplicationStatusAccepted    ApplicationStatus = "ACCEPTED"
	ApplicationStatusWaitlisted  ApplicationStatus = "WAITLISTED"
	ApplicationStatusRejected    ApplicationStatus = "REJECTED"
)

var (
	PriorEducations = []string{
		string(PriorEducationNone),
		string(PriorEducationMiddleSchool),
		string(PriorEducationHighSchool),
		string(PriorEducationBachelor),
		string(PriorEducationMaster),
		string(PriorEducationPhD),
	}
	TargetPrograms = []string{
		string(TargetProgramBachelor),
		string(TargetProgramMaster),
		string(TargetProgramPhD),
	}
	ApplicationStatuses = []string{
		string(ApplicationStatusSubmitted),
		string(ApplicationStatusUnderReview),
		string(ApplicationStatusAccepted),
		string(ApplicationStatusWaitlisted),
		string(ApplicationStatusRejected),
	}
)

// Application is a student's submission to one university.
type Application struct {
	ID                    uint              `json:"id" gorm:"primaryKey"`
	UserID                uint              `json:"user" gorm:"not null;index"`
	UniversityID          uint              `json:"university" gorm:"not null;index"`
	Essay                 string            `json:"essay" gorm:"type:text"`
	PriorHighestEducation PriorEducation    `json:"prior_highest_education" gorm:"type:varchar(32);not null;default:'NO EDUCATION'"`
	TargetProgram         TargetProgram     `json:"target_program" gorm:"type:varchar(16);not null;default:'BACHELOR'"`
	EducationDocument     string            `json:"education_document" gorm:"size:512"`
	RecommendationLetter  string            `json:"recommendation_letter" gorm:"size:512"`
	Status                ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;default:'SUBMITTED';index"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`

	// Relations
	User       *User       `json:"-" gorm:"foreignKey:UserID"`
	University *University `json:"-" gorm:"foreignKey:UniversityID"`
}

// NormalizeChoice maps free text onto one of choices. Matching is
// case-insensitive: the first choice contained in the input wins, longest
// choices tried first. Unmatched input is returned unchanged.
func NormalizeChoice(input string, choices []string) string {
	lowered := strings.ToLower(strings.TrimSpace(input))
	if lowered == "" {
		return input
	}

	ordered := append([]string(nil), choices...)
	sort.SliceStable(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })

	for _, choice := range ordered {
		if strings.Contains(lowered, strings.ToLower(choice)) {
			return choice
		}
	}
	return input
}

// IsChoice reports whether value is exactly one of choices.
func IsChoice(value string, choices []string) bool {
	for _, c := range choices {
		if value == c {
			return true
		}
	}
	return false
}
