package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestSecurityLogModel_Create(t *testing.T) {
	db := setupTestDB(t, "securitylog_create", &SecurityLog{})

	entry := SecurityLog{
		EventType: "LOGIN_SUCCESS",
		ActorID:   "1",
		Role:      RoleDoctor,
		IP:        "127.0.0.1",
		UserAgent: "test-agent",
		Message:   "Doctor 1 logged in",
		Details:   datatypes.JSON([]byte(`{"endpoint":"/login"}`)),
	}

	err := db.Create(&entry).Error
	assert.NoError(t, err)
	assert.NotZero(t, entry.ID)
}

func TestSecurityLogModel_FilterByEventType(t *testing.T) {
	db := setupTestDB(t, "securitylog_filter", &SecurityLog{})

	db.Create(&SecurityLog{EventType: "LOGIN_SUCCESS", ActorID: "1"})
	db.Create(&SecurityLog{EventType: "LOGIN_FAILURE", ActorID: "1"})
	db.Create(&SecurityLog{EventType: "LOGIN_FAILURE", ActorID: "2"})

	var failures []SecurityLog
	err := db.Where("event_type = ?", "LOGIN_FAILURE").Find(&failures).Error
	assert.NoError(t, err)
	assert.Len(t, failures, 2)
}
