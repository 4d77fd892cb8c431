package model

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportStatus is a medical report's lifecycle stage.
type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportSubmitted ReportStatus = "submitted"
	ReportConfirmed ReportStatus = "confirmed"
	ReportRejected  ReportStatus = "rejected"
)

// EntryField names one of the ordered free-text sequences on a report.
type EntryField string

const (
	FieldSymptoms       EntryField = "symptoms"
	FieldDiagnosis      EntryField = "diagnosis"
	FieldTestsConducted EntryField = "tests_conducted"
	FieldTreatmentPlan  EntryField = "treatment_plan"
)

// ValidEntryField reports whether f names a known report sequence.
func ValidEntryField(f EntryField) bool {
	switch f {
	case FieldSymptoms, FieldDiagnosis, FieldTestsConducted, FieldTreatmentPlan:
		return true
	}
	return false
}

// Report represents one clinical document authored by a patient and reviewed
// by a doctor. The four entry sequences are stored as JSON string arrays and
// never contain blank entries.
// @Description Medical report information
type Report struct {
	gorm.Model
	PatientID       uint           `json:"patient_id" gorm:"column:patient_id;not null;index" example:"1"`
	PatientName     string         `json:"patient_name" gorm:"column:patient_name" example:"John Doe"`
	DoctorID        *uint          `json:"doctor_id" gorm:"column:doctor_id;index" example:"1"`
	DoctorName      string         `json:"doctor_name" gorm:"column:doctor_name" example:"Dr. Sarah Johnson"`
	ReportDate      string         `json:"report_date" gorm:"column:report_date" example:"2025-01-15"`
	Symptoms        datatypes.JSON `json:"symptoms" gorm:"column:symptoms"`
	Diagnosis       datatypes.JSON `json:"diagnosis" gorm:"column:diagnosis"`
	TestsConducted  datatypes.JSON `json:"tests_conducted" gorm:"column:tests_conducted"`
	TreatmentPlan   datatypes.JSON `json:"treatment_plan" gorm:"column:treatment_plan"`
	AdditionalNotes string         `json:"additional_notes" gorm:"column:additional_notes;type:text"`
	RejectionReason string         `json:"rejection_reason" gorm:"column:rejection_reason;type:text"`
	Status          ReportStatus   `json:"status" gorm:"column:status;type:varchar(16);default:'draft';index" example:"draft"`
	IsEditable      bool           `json:"is_editable" gorm:"column:is_editable;default:true" example:"true"`
}

// Entries decodes one of the report's ordered sequences. A nil or empty
// column decodes to an empty slice.
func (r *Report) Entries(field EntryField) []string {
	raw := r.column(field)
	if len(*raw) == 0 {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal(*raw, &items); err != nil {
		return []string{}
	}
	return items
}

// SetEntries encodes items into the named sequence column.
func (r *Report) SetEntries(field EntryField, items []string) error {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	*r.column(field) = datatypes.JSON(b)
	return nil
}

func (r *Report) column(field EntryField) *datatypes.JSON {
	switch field {
	case FieldDiagnosis:
		return &r.Diagnosis
	case FieldTestsConducted:
		return &r.TestsConducted
	case FieldTreatmentPlan:
		return &r.TreatmentPlan
	default:
		return &r.Symptoms
	}
}
