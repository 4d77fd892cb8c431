package model

import (
	"time"

	"gorm.io/gorm"
)

// ApprovalStatus is a patient's admission state. It starts at pending and is
// moved exactly once, by a doctor, to approved or rejected.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Patient represents a care recipient entity
// @Description Patient information
type Patient struct {
	gorm.Model
	Code              string         `json:"code" gorm:"column:code;uniqueIndex;size:32" example:"PAT1"`
	FullName          string         `json:"full_name" gorm:"column:full_name" example:"John Doe"`
	Age               int            `json:"age" gorm:"column:age" example:"30"`
	DateOfBirth       string         `json:"date_of_birth" gorm:"column:date_of_birth" example:"1995-04-12"`
	Gender            string         `json:"gender" gorm:"column:gender" example:"Male"`
	PhoneNumber       string         `json:"phone_number" gorm:"column:phone_number" example:"081234567890"`
	Password          string         `json:"-" gorm:"column:password"`
	PasswordSalt      string         `json:"-" gorm:"column:password_salt"`
	MedicalConditions string         `json:"medical_conditions" gorm:"column:medical_conditions;type:text" example:"Hypertension, on amlodipine"`
	Status            ApprovalStatus `json:"status" gorm:"column:status;type:varchar(16);default:'pending';index" example:"pending"`
	SubmittedAt       *time.Time     `json:"submitted_at" gorm:"column:submitted_at"`
}
