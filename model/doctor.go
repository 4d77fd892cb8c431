package model

import "gorm.io/gorm"

// Doctor represents a care provider entity
// @Description Doctor information
type Doctor struct {
	gorm.Model
	Code           string `json:"code" gorm:"column:code;uniqueIndex;size:32" example:"DOC1"`
	FullName       string `json:"full_name" gorm:"column:full_name" example:"Dr. Sarah Johnson"`
	Age            int    `json:"age" gorm:"column:age" example:"45"`
	DateOfBirth    string `json:"date_of_birth" gorm:"column:date_of_birth" example:"1980-01-01"`
	Gender         string `json:"gender" gorm:"column:gender" example:"Female"`
	PhoneNumber    string `json:"phone_number" gorm:"column:phone_number" example:"081234567890"`
	Password       string `json:"-" gorm:"column:password"`
	PasswordSalt   string `json:"-" gorm:"column:password_salt"`
	LicenseNumber  string `json:"license_number" gorm:"column:license_number;index" example:"MD-12345"`
	Specialization string `json:"specialization" gorm:"column:specialization" example:"Cardiology"`
}
