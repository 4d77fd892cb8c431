package endpoint

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/healinghands/smart-health-api/model"
	"github.com/healinghands/smart-health-api/util"
	"github.com/healinghands/smart-health-api/workflow"
)

// ReportExport is a self-contained snapshot of a finalized report, suitable
// for handing to an external system. The export id identifies the snapshot,
// not the report.
type ReportExport struct {
	ExportID        string    `json:"export_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	ReportID        uint      `json:"report_id"`
	Status          string    `json:"status"`
	ReportDate      string    `json:"report_date"`
	PatientName     string    `json:"patient_name"`
	DoctorName      string    `json:"doctor_name"`
	Symptoms        []string  `json:"symptoms"`
	Diagnosis       []string  `json:"diagnosis"`
	TestsConducted  []string  `json:"tests_conducted"`
	TreatmentPlan   []string  `json:"treatment_plan"`
	AdditionalNotes string    `json:"additional_notes"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
}

// ExportReport godoc
// @Summary      Export a finalized report
// @Description  Produce a snapshot of a confirmed or rejected report
// @Tags         Reports
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Success      200 {object} util.APIResponse{data=ReportExport} "Export snapshot"
// @Failure      400 {object} util.APIResponse "Report not finalized"
// @Failure      403 {object} util.APIResponse "Not your report"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Router       /reports/{id}/export [get]
func ExportReport(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := getActorOrRespond(c)
	if !ok {
		return
	}
	reportID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	report, err := workflow.FindReport(db, actor, reportID)
	if err != nil {
		respondWorkflowError(c, "Failed to export report", err)
		return
	}

	if report.Status != model.ReportConfirmed && report.Status != model.ReportRejected {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Only finalized reports can be exported",
			Err: fmt.Errorf("report %d is %s", report.ID, report.Status),
		})
		return
	}

	export := ReportExport{
		ExportID:        uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		ReportID:        report.ID,
		Status:          string(report.Status),
		ReportDate:      report.ReportDate,
		PatientName:     report.PatientName,
		DoctorName:      report.DoctorName,
		Symptoms:        report.Entries(model.FieldSymptoms),
		Diagnosis:       report.Entries(model.FieldDiagnosis),
		TestsConducted:  report.Entries(model.FieldTestsConducted),
		TreatmentPlan:   report.Entries(model.FieldTreatmentPlan),
		AdditionalNotes: report.AdditionalNotes,
		RejectionReason: report.RejectionReason,
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Export snapshot",
		Data: export,
	})
}
