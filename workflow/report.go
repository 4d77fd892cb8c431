package workflow

import (
	"errors"
	"strings"

	"github.com/healinghands/smart-health-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rejection note attached when a doctor turns a report down without giving
// an explicit reason, mirroring the product's stock message.
const DefaultRejectionReason = "Report needs additional information"

// CreateReportInput carries the fields a patient may set when opening a new
// report. Diagnosis is deliberately absent: patients never author one.
type CreateReportInput struct {
	ReportDate      string
	Symptoms        []string
	Diagnosis       []string
	TestsConducted  []string
	TreatmentPlan   []string
	AdditionalNotes string
}

// ReportDetailsInput carries the scalar report fields editable in place.
// Nil pointers leave the stored value untouched.
type ReportDetailsInput struct {
	ReportDate      *string
	AdditionalNotes *string
	PatientName     *string
}

// filterBlank drops empty and whitespace-only entries, preserving order.
// The engine never persists blank strings.
func filterBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// CreateReport opens a new draft report authored by an approved patient for
// themselves. Patient-supplied diagnosis entries fail with ErrForbidden.
func CreateReport(db *gorm.DB, actor Actor, input CreateReportInput) (*model.Report, error) {
	patient, err := FindPatient(db, actor.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if !Can(actor, ActionCreateReport, patient) {
		return nil, ErrForbidden
	}
	if len(filterBlank(input.Diagnosis)) > 0 {
		return nil, ErrForbidden
	}

	report := &model.Report{
		PatientID:       patient.ID,
		PatientName:     patient.FullName,
		ReportDate:      input.ReportDate,
		AdditionalNotes: input.AdditionalNotes,
		Status:          model.ReportDraft,
		IsEditable:      true,
	}
	for field, items := range map[model.EntryField][]string{
		model.FieldSymptoms:       input.Symptoms,
		model.FieldDiagnosis:      nil,
		model.FieldTestsConducted: input.TestsConducted,
		model.FieldTreatmentPlan:  input.TreatmentPlan,
	} {
		if err := report.SetEntries(field, filterBlank(items)); err != nil {
			return nil, err
		}
	}

	if err := db.Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// FindReport loads a report the actor is allowed to see.
func FindReport(db *gorm.DB, actor Actor, reportID uint) (*model.Report, error) {
	var report model.Report
	if err := db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !Can(actor, ActionViewReport, &report) {
		return nil, ErrForbidden
	}
	return &report, nil
}

// loadEditable fetches the report and checks the actor may write the given
// sequence on it right now.
func loadEditable(db *gorm.DB, actor Actor, reportID uint, field model.EntryField) (*model.Report, error) {
	var report model.Report
	if err := db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !Can(actor, EntryAction(field), &report) {
		return nil, ErrForbidden
	}
	return &report, nil
}

// saveEntries writes one sequence column back, guarded on the editable flag
// so a report finalized between load and save rejects the write instead of
// mutating a locked record.
func saveEntries(db *gorm.DB, report *model.Report, field model.EntryField, items []string) error {
	if err := report.SetEntries(field, items); err != nil {
		return err
	}
	res := db.Model(&model.Report{}).
		Where("id = ? AND is_editable = ?", report.ID, true).
		Update(string(field), reportColumn(report, field))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidStateTransition
	}
	return nil
}

func reportColumn(r *model.Report, field model.EntryField) datatypes.JSON {
	switch field {
	case model.FieldDiagnosis:
		return r.Diagnosis
	case model.FieldTestsConducted:
		return r.TestsConducted
	case model.FieldTreatmentPlan:
		return r.TreatmentPlan
	default:
		return r.Symptoms
	}
}

// AddEntry appends one free-text entry to a report sequence. A blank value
// is a no-op, not an error: the engine simply never admits blank strings.
func AddEntry(db *gorm.DB, actor Actor, reportID uint, field model.EntryField, value string) (*model.Report, error) {
	report, err := loadEditable(db, actor, reportID, field)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return report, nil
	}

	items := append(report.Entries(field), trimmed)
	if err := saveEntries(db, report, field, items); err != nil {
		return nil, err
	}
	return report, nil
}

// RemoveEntry deletes the entry at index from a report sequence. A stale
// index (e.g. after a concurrent removal) fails with ErrIndexOutOfRange.
func RemoveEntry(db *gorm.DB, actor Actor, reportID uint, field model.EntryField, index int) (*model.Report, error) {
	report, err := loadEditable(db, actor, reportID, field)
	if err != nil {
		return nil, err
	}

	items := report.Entries(field)
	if index < 0 || index >= len(items) {
		return nil, ErrIndexOutOfRange
	}
	items = append(items[:index], items[index+1:]...)

	if err := saveEntries(db, report, field, items); err != nil {
		return nil, err
	}
	return report, nil
}

// UpdateReportDetails patches the report's scalar fields. The patient name
// is writable only by a doctor; the owning patient's copy stays denormalized
// from registration.
func UpdateReportDetails(db *gorm.DB, actor Actor, reportID uint, input ReportDetailsInput) (*model.Report, error) {
	var report model.Report
	if err := db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !Can(actor, ActionEditDetails, &report) {
		return nil, ErrForbidden
	}
	if input.PatientName != nil && !actor.IsDoctor() {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if input.ReportDate != nil {
		updates["report_date"] = *input.ReportDate
		report.ReportDate = *input.ReportDate
	}
	if input.AdditionalNotes != nil {
		updates["additional_notes"] = *input.AdditionalNotes
		report.AdditionalNotes = *input.AdditionalNotes
	}
	if input.PatientName != nil {
		updates["patient_name"] = *input.PatientName
		report.PatientName = *input.PatientName
	}
	if len(updates) == 0 {
		return &report, nil
	}

	res := db.Model(&model.Report{}).
		Where("id = ? AND is_editable = ?", report.ID, true).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidStateTransition
	}
	return &report, nil
}

// SubmitReport moves a draft to the doctor review queue. The owning patient
// may resubmit while the report is still editable.
func SubmitReport(db *gorm.DB, actor Actor, reportID uint) (*model.Report, error) {
	var report model.Report
	if err := db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !Can(actor, ActionSubmitReport, &report) {
		return nil, ErrForbidden
	}

	res := db.Model(&model.Report{}).
		Where("id = ? AND status IN ?", report.ID, []model.ReportStatus{model.ReportDraft, model.ReportSubmitted}).
		Update("status", model.ReportSubmitted)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidStateTransition
	}

	report.Status = model.ReportSubmitted
	return &report, nil
}

// decideReport finalizes a submitted report. The UPDATE is guarded on
// status=submitted, so of two racing doctors exactly one decision lands and
// the loser gets ErrInvalidStateTransition. Finalized reports are locked:
// the editable flag drops to false and no path raises it again.
func decideReport(db *gorm.DB, actor Actor, reportID uint, action Action, status model.ReportStatus, reason string) (*model.Report, error) {
	var report model.Report
	if err := db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !Can(actor, action, &report) {
		return nil, ErrForbidden
	}
	if report.Status != model.ReportSubmitted {
		return nil, ErrInvalidStateTransition
	}

	updates := map[string]interface{}{
		"status":      status,
		"doctor_id":   actor.ID,
		"doctor_name": actor.Name,
		"is_editable": false,
	}
	if status == model.ReportRejected {
		if strings.TrimSpace(reason) == "" {
			reason = DefaultRejectionReason
		}
		updates["rejection_reason"] = reason
	}

	res := db.Model(&model.Report{}).
		Where("id = ? AND status = ?", report.ID, model.ReportSubmitted).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidStateTransition
	}

	doctorID := actor.ID
	report.Status = status
	report.DoctorID = &doctorID
	report.DoctorName = actor.Name
	report.IsEditable = false
	if status == model.ReportRejected {
		report.RejectionReason = reason
	}
	return &report, nil
}

// ConfirmReport accepts a submitted report and assigns the deciding doctor.
func ConfirmReport(db *gorm.DB, actor Actor, reportID uint) (*model.Report, error) {
	return decideReport(db, actor, reportID, ActionConfirmReport, model.ReportConfirmed, "")
}

// RejectReport turns a submitted report down with a reason note.
func RejectReport(db *gorm.DB, actor Actor, reportID uint, reason string) (*model.Report, error) {
	return decideReport(db, actor, reportID, ActionRejectReport, model.ReportRejected, reason)
}

// ReportsForPatient returns a patient's reports, newest first. Patients may
// only list their own; doctors may list anyone's.
func ReportsForPatient(db *gorm.DB, actor Actor, patientID uint) ([]model.Report, error) {
	if actor.IsPatient() && actor.ID != patientID {
		return nil, ErrForbidden
	}
	var reports []model.Report
	err := db.Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

// ReportsForDoctor returns every report, newest first. Visibility is
// deliberately not narrowed to the assigned doctor: the review queue shows
// all reports to any doctor.
func ReportsForDoctor(db *gorm.DB, actor Actor) ([]model.Report, error) {
	if !actor.IsDoctor() {
		return nil, ErrForbidden
	}
	var reports []model.Report
	err := db.Order("created_at DESC").Find(&reports).Error
	return reports, err
}

// PendingReports returns submitted reports awaiting review, oldest first,
// independent of assignment.
func PendingReports(db *gorm.DB) ([]model.Report, error) {
	var reports []model.Report
	err := db.Where("status = ?", model.ReportSubmitted).
		Order("created_at ASC").
		Find(&reports).Error
	return reports, err
}
