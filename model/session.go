package model

import (
	"time"

	"gorm.io/gorm"
)

// Session records an authenticated actor. The database row is authoritative;
// Redis only mirrors it for fast middleware lookups.
type Session struct {
	gorm.Model
	ActorID      uint      `json:"actor_id" gorm:"column:actor_id;not null;index"`
	Role         string    `json:"role" gorm:"column:role;type:varchar(16);not null"`
	SessionToken string    `json:"session_token" gorm:"column:session_token;uniqueIndex;size:512"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"column:expires_at"`
	ClientIP     string    `json:"client_ip" gorm:"column:client_ip;type:varchar(45)"`
	Browser      string    `json:"browser" gorm:"column:browser;type:varchar(512)"`
}
