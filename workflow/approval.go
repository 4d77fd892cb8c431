package workflow

import (
	"github.com/healinghands/smart-health-api/model"
	"gorm.io/gorm"
)

// decidePatient moves a pending application to its terminal status. The
// UPDATE is guarded on the current status so a second decision, or the loser
// of two racing decisions, fails with ErrInvalidStateTransition instead of
// overwriting the first.
func decidePatient(db *gorm.DB, actor Actor, patientID uint, action Action, status model.ApprovalStatus) (*model.Patient, error) {
	patient, err := FindPatient(db, patientID)
	if err != nil {
		return nil, err
	}
	if !Can(actor, action, patient) {
		return nil, ErrForbidden
	}

	res := db.Model(&model.Patient{}).
		Where("id = ? AND status = ?", patient.ID, model.ApprovalPending).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidStateTransition
	}

	patient.Status = status
	return patient, nil
}

// ApprovePatient admits a pending patient. Approval is what gates the
// patient's future ability to authenticate.
func ApprovePatient(db *gorm.DB, actor Actor, patientID uint) (*model.Patient, error) {
	return decidePatient(db, actor, patientID, ActionApprovePatient, model.ApprovalApproved)
}

// RejectPatient turns a pending application down. Terminal; there is no
// re-review after a decision.
func RejectPatient(db *gorm.DB, actor Actor, patientID uint) (*model.Patient, error) {
	return decidePatient(db, actor, patientID, ActionRejectPatient, model.ApprovalRejected)
}

// PendingPatients returns the doctor review queue of undecided applications,
// oldest application first.
func PendingPatients(db *gorm.DB) ([]model.Patient, error) {
	var patients []model.Patient
	err := db.Where("status = ?", model.ApprovalPending).
		Order("submitted_at ASC").
		Find(&patients).Error
	return patients, err
}
