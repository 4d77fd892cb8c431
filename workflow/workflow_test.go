package workflow

import (
	"fmt"
	"testing"
	"time"

	"github.com/healinghands/smart-health-api/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a fresh in-memory SQLite database with the full schema and
// seeded code counters. The DSN is uniquified so parallel tests in the same
// process never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:workflow_test_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Doctor{},
		&model.Patient{},
		&model.ActorCode{},
		&model.Report{},
	)
	require.NoError(t, err)
	require.NoError(t, model.SeedActorCodes(db))

	return db
}

func registerTestDoctor(t *testing.T, db *gorm.DB, name string) (*model.Doctor, Actor) {
	t.Helper()
	doctor, err := RegisterDoctor(db, DoctorInput{
		FullName:       name,
		Age:            45,
		DateOfBirth:    "1981-03-15",
		Gender:         "Female",
		LicenseNumber:  "MD-0001",
		Specialization: "General Medicine",
	})
	require.NoError(t, err)
	return doctor, Actor{ID: doctor.ID, Role: model.RoleDoctor, Name: doctor.FullName}
}

func registerTestPatient(t *testing.T, db *gorm.DB, name string) (*model.Patient, Actor) {
	t.Helper()
	patient, err := RegisterPatient(db, PatientInput{
		FullName:    name,
		Age:         30,
		DateOfBirth: "1996-07-01",
		Gender:      "Male",
		PhoneNumber: "081234567890",
	})
	require.NoError(t, err)
	return patient, Actor{ID: patient.ID, Role: model.RolePatient, Name: patient.FullName}
}

// registerApprovedPatient registers a patient and approves them through the
// normal decision path so downstream tests start from a usable account.
func registerApprovedPatient(t *testing.T, db *gorm.DB, name string) (*model.Patient, Actor) {
	t.Helper()
	patient, actor := registerTestPatient(t, db, name)
	_, doctorActor := registerTestDoctor(t, db, "Dr. Approver "+name)
	approved, err := ApprovePatient(db, doctorActor, patient.ID)
	require.NoError(t, err)
	return approved, actor
}

func createDraftReport(t *testing.T, db *gorm.DB, actor Actor) *model.Report {
	t.Helper()
	report, err := CreateReport(db, actor, CreateReportInput{
		ReportDate:      "2026-08-30",
		Symptoms:        []string{"Headache", "Fatigue"},
		TestsConducted:  []string{"Blood panel"},
		TreatmentPlan:   []string{"Rest"},
		AdditionalNotes: "Symptoms started three days ago",
	})
	require.NoError(t, err)
	return report
}
