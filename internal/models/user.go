package models

import "time"

type User struct {
	Base
	Email     string        `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password  string        `gorm:"not null" json:"-"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Role      UserRole      `gorm:"not null;default:'AGENTE'" json:"role" validate:"required,user_role"`
	Keys      []ResourceKey `gorm:"foreignKey:UserID" json:"keys,omitempty"`
}

type AuthTransaction struct {
	Base
	UserID    string    `gorm:"type:uuid;not null" json:"userId"`
	User      *User     `json:"user,omitempty"`
	Token     string    `gorm:"not null" json:"token"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
}
