package model

// Placeholder values applied when a university is created without them.
const (
	DefaultEstablished = 1625
	DefaultStudents    = 4892
	DefaultRanking     = 3
)

// University is the root of the institution catalog.
type University struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:255;not null;index"`
	Thumbnail   string `json:"thumbnail" gorm:"size:512"`
	Location    string `json:"location" gorm:"size:255;not null;default:''"`
	Established int    `json:"established" gorm:"not null;default:1625"`
	Students    int    `json:"students" gorm:"not null;default:4892"`
	Ranking     int    `json:"ranking" gorm:"not null;default:3"`

	// Relations
	Faculties    []Faculty     `json:"faculties" gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE"`
	Divisions    []Division    `json:"divisions" gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE"`
	Gallery      []Gallery     `json:"gallery" gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE"`
	Applications []Application `json:"-" gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE"`
}

type Faculty struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"size:255;not null"`
	UniversityID uint   `json:"-" gorm:"not null;index"`

	University *University `json:"-" gorm:"foreignKey:UniversityID"`
}

type Division struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"size:255;not null"`
	UniversityID uint   `json:"-" gorm:"not null;index"`
}

// Gallery is a single image attached to a university.
type Gallery struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Image        string `json:"image" gorm:"size:512"`
	UniversityID uint   `json:"-" gorm:"not null;index"`
}

