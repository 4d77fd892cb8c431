package workflow

import "github.com/healinghands/smart-health-api/model"

// Action enumerates every permission-gated operation in the system.
type Action string

const (
	ActionApprovePatient Action = "approve_patient"
	ActionRejectPatient  Action = "reject_patient"
	ActionCreateReport   Action = "create_report"
	ActionViewReport     Action = "view_report"
	ActionEditEntries    Action = "edit_entries"
	ActionEditDiagnosis  Action = "edit_diagnosis"
	ActionEditDetails    Action = "edit_details"
	ActionSubmitReport   Action = "submit_report"
	ActionConfirmReport  Action = "confirm_report"
	ActionRejectReport   Action = "reject_report"
)

// Can is the single permission decision for the whole system: may actor
// perform action on target? Target is a *model.Report for report actions and
// a *model.Patient for onboarding actions. Every mutating engine call
// consults it; views must consult it too instead of re-deriving permissions.
//
// State preconditions (e.g. "only from submitted") are the engine's job, not
// the policy's: Can answers who may act, the engine answers when.
func Can(actor Actor, action Action, target interface{}) bool {
	switch action {
	case ActionApprovePatient, ActionRejectPatient:
		_, ok := target.(*model.Patient)
		return ok && actor.IsDoctor()

	case ActionCreateReport:
		patient, ok := target.(*model.Patient)
		return ok && actor.IsPatient() && actor.ID == patient.ID &&
			patient.Status == model.ApprovalApproved

	case ActionViewReport:
		report, ok := target.(*model.Report)
		if !ok {
			return false
		}
		// Review-queue semantics: any doctor may read any report.
		return actor.IsDoctor() || (actor.IsPatient() && actor.ID == report.PatientID)

	case ActionEditEntries, ActionEditDetails:
		report, ok := target.(*model.Report)
		if !ok || !report.IsEditable {
			return false
		}
		return actor.IsDoctor() || (actor.IsPatient() && actor.ID == report.PatientID)

	case ActionEditDiagnosis:
		// The one asymmetric rule: patients never author a diagnosis,
		// not even on their own report.
		report, ok := target.(*model.Report)
		return ok && report.IsEditable && actor.IsDoctor()

	case ActionSubmitReport:
		report, ok := target.(*model.Report)
		return ok && report.IsEditable && actor.IsPatient() && actor.ID == report.PatientID

	case ActionConfirmReport, ActionRejectReport:
		_, ok := target.(*model.Report)
		return ok && actor.IsDoctor()
	}

	return false
}

// EntryAction maps a report sequence to the action gating writes to it.
func EntryAction(field model.EntryField) Action {
	if field == model.FieldDiagnosis {
		return ActionEditDiagnosis
	}
	return ActionEditEntries
}
