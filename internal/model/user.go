package model

import "time"

// User represents a registered account. Email is the login key.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName    string    `json:"first_name" gorm:"size:150;not null"`
	LastName     string    `json:"last_name" gorm:"size:150;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsStaff      bool      `json:"is_staff" gorm:"default:false;index"`
	IsActive     bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Profile      Profile       `json:"profile" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Applications []Application `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Profile holds the self-service part of a user. One per user.
type Profile struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"uniqueIndex;not null"`
	Bio       string    `json:"bio" gorm:"type:text"`
	Avatar    string    `json:"avatar" gorm:"size:512"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
