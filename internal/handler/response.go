package handler

import (
	"time"

	"uniapply/internal/model"
	"uniapply/internal/service"
)

// ProfileResponse is the nested profile of a user projection.
type ProfileResponse struct {
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

// UserResponse is the public projection of a user. It never carries the password.
type UserResponse struct {
	ID        uint            `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	IsStaff   bool            `json:"is_staff"`
	Profile   ProfileResponse `json:"profile"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
		Profile: ProfileResponse{
			Bio:    u.Profile.Bio,
			Avatar: u.Profile.Avatar,
		},
	}
}

type FacultyResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type DivisionResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type GalleryResponse struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

// UniversityResponse is a university with its nested collections.
type UniversityResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Thumbnail   string             `json:"thumbnail"`
	Location    string             `json:"location"`
	Established int                `json:"established"`
	Students    int                `json:"students"`
	Ranking     int                `json:"ranking"`
	Faculties   []FacultyResponse  `json:"faculties"`
	Divisions   []DivisionResponse `json:"divisions"`
	Gallery     []GalleryResponse  `json:"gallery"`
}

func newUniversityResponse(u *model.University) UniversityResponse {
	resp := UniversityResponse{
		ID:          u.ID,
		Name:        u.Name,
		Thumbnail:   u.Thumbnail,
		Location:    u.Location,
		Established: u.Established,
		Students:    u.Students,
		Ranking:     u.Ranking,
		Faculties:   make([]FacultyResponse, 0, len(u.Faculties)),
		Divisions:   make([]DivisionResponse, 0, len(u.Divisions)),
		Gallery:     make([]GalleryResponse, 0, len(u.Gallery)),
	}
	for _, f := range u.Faculties {
		resp.Faculties = append(resp.Faculties, FacultyResponse{ID: f.ID, Name: f.Name})
	}
	for _, d := range u.Divisions {
		resp.Divisions = append(resp.Divisions, DivisionResponse{ID: d.ID, Name: d.Name})
	}
	for _, g := range u.Gallery {
		resp.Gallery = append(resp.Gallery, GalleryResponse{ID: g.ID, Image: g.Image})
	}
	return resp
}

// ApplicationResponse is an application with the university name resolved.
type ApplicationResponse struct {
	ID                    uint      `json:"id"`
	User                  uint      `json:"user"`
	University            uint      `json:"university"`
	UniversityName        string    `json:"university_name"`
	Essay                 string    `json:"essay"`
	PriorHighestEducation string    `json:"prior_highest_education"`
	TargetProgram         string    `json:"target_program"`
	EducationDocument     string    `json:"education_document"`
	RecommendationLetter  string    `json:"recommendation_letter"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func newApplicationResponse(a *model.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:                    a.ID,
		User:                  a.UserID,
		University:            a.UniversityID,
		Essay:                 a.Essay,
		PriorHighestEducation: string(a.PriorHighestEducation),
		TargetProgram:         string(a.TargetProgram),
		EducationDocument:     a.EducationDocument,
		RecommendationLetter:  a.RecommendationLetter,
		Status:                string(a.Status),
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
	if a.University != nil {
		resp.UniversityName = a.University.Name
	}
	return resp
}

// ApplicationListResponse is one page of applications.
type ApplicationListResponse struct {
	Count    int64                 `json:"count"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Results  []ApplicationResponse `json:"results"`
}

func newApplicationListResponse(p *service.ApplicationPage) ApplicationListResponse {
	resp := ApplicationListResponse{
		Count:    p.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Results:  make([]ApplicationResponse, 0, len(p.Items)),
	}
	for i := range p.Items {
		resp.Results = append(resp.Results, newApplicationResponse(&p.Items[i]))
	}
	return resp
}
