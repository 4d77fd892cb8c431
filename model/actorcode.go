package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Identifier prefixes for system-assigned actor codes.
const (
	DoctorCodePrefix  = "DOC"
	PatientCodePrefix = "PAT"
)

// ActorCode is a per-prefix monotonic counter backing system-assigned
// identifiers such as DOC3 or PAT17.
type ActorCode struct {
	gorm.Model
	Prefix string `json:"prefix" gorm:"column:prefix;uniqueIndex;size:8"`
	Number int    `json:"number"`
	Code   string `json:"code" gorm:"uniqueIndex;size:32"`
}

// SeedActorCodes ensures a counter row exists for every known prefix.
func SeedActorCodes(db *gorm.DB) error {
	for _, prefix := range []string{DoctorCodePrefix, PatientCodePrefix} {
		var existing ActorCode
		err := db.Where("prefix = ?", prefix).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&ActorCode{Prefix: prefix, Number: 0, Code: prefix + "0"}).Error; err != nil {
			return fmt.Errorf("failed to seed actor code %s: %w", prefix, err)
		}
	}
	return nil
}

// NextActorCode increments the counter for prefix inside tx and returns the
// newly reserved code.
func NextActorCode(tx *gorm.DB, prefix string) (string, error) {
	var counter ActorCode
	if err := tx.Where("prefix = ?", prefix).First(&counter).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", fmt.Errorf("actor code prefix %s not seeded", prefix)
		}
		return "", err
	}

	newNumber := counter.Number + 1
	code := fmt.Sprintf("%s%d", prefix, newNumber)
	if err := tx.Model(&counter).Updates(ActorCode{Number: newNumber, Code: code}).Error; err != nil {
		return "", err
	}
	return code, nil
}
