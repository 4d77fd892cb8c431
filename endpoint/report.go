package endpoint

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/healinghands/smart-health-api/model"
	"github.com/healinghands/smart-health-api/util"
	"github.com/healinghands/smart-health-api/workflow"
)

type CreateReportRequest struct {
	ReportDate      string   `json:"report_date" binding:"required" example:"2026-08-31"`
	Symptoms        []string `json:"symptoms"`
	Diagnosis       []string `json:"diagnosis"`
	TestsConducted  []string `json:"tests_conducted"`
	TreatmentPlan   []string `json:"treatment_plan"`
	AdditionalNotes string   `json:"additional_notes"`
}

// CreateReport godoc
// @Summary      Open a medical report
// @Description  Patient opens a new draft report for themselves
// @Tags         Reports
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body CreateReportRequest true "Report fields"
// @Success      200 {object} util.APIResponse{data=model.Report} "Report created"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      403 {object} util.APIResponse "Not allowed"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /reports [post]
func CreateReport(c *gin.Context) {
	var req CreateReportRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := getActorOrRespond(c)
	if !ok {
		return
	}

	report, err := workflow.CreateReport(db, actor, workflow.CreateReportInput{
		ReportDate:      req.ReportDate,
		Symptoms:        req.Symptoms,
		Diagnosis:       req.Diagnosis,
		TestsConducted:  req.TestsConducted,
		TreatmentPlan:   req.TreatmentPlan,
		AdditionalNotes: req.AdditionalNotes,
	})
	if err != nil {
		respondWorkflowError(c, "Failed to create report", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Report created",
		Data: report,
	})
}

// ListReports godoc
// @Summary      List reports
// @Description  Doctors see every report; patients see their own
// @Tags         Reports
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=[]model.Report} "Reports"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /reports [get]
func ListReports(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := getActorOrRespond(c)
	if !ok {
		return
	}

	var (
		reports []model.Report
		err     error
	)
	if actor.IsDoctor() {
		reports, err = workflow.ReportsForDoctor(db, actor)
	} else {
		reports, err = workflow.ReportsForPatient(db, actor, actor.ID)
	}
	if err != nil {
		respondWorkflowError(c, "Failed to fetch reports", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Reports",
		Data: reports,
	})
}

// ListPendingReports godoc
// @Summary      Report review queue
// @Description  List submitted reports awaiting a doctor's decision, oldest first
// @Tags         Reports
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=[]model.Report} "Pending reports"
// @Failure      403 {object} util.APIResponse "Doctor role required"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /reports/pending [get]
func ListPendingReports(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	reports, err := workflow.PendingReports(db)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch pending reports", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Pending reports",
		Data: reports,
	})
}

// GetReport godoc
// @Summary      Report detail
// @Description  Fetch one report the actor is allowed to see
// @Tags         Reports
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Success      200 {object} util.APIResponse{data=model.Report} "Report"
// @Failure      403 {object} util.APIResponse "Not your report"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Router       /reports/{id} [get]
func GetReport(c *gin.Context) {
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
		respondWorkflowError(c, "Failed to fetch report", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Report",
		Data: report,
	})
}

type EntryRequest struct {
	Field string `json:"field" binding:"required" example:"symptoms"`
	Value string `json:"value" example:"Persistent headache"`
	Index *int   `json:"index,omitempty" example:"0"`
}

// AddReportEntry godoc
// @Summary      Append a report entry
// @Description  Append one free-text entry to a report sequence; blank values are ignored
// @Tags         Reports
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Param        request body EntryRequest true "Field and value"
// @Success      200 {object} util.APIResponse{data=model.Report} "Entry added"
// @Failure      400 {object} util.APIResponse "Unknown field or locked report"
// @Failure      403 {object} util.APIResponse "Field not writable by this role"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Router       /reports/{id}/entries [post]
func AddReportEntry(c *gin.Context) {
	var req EntryRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

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

	field := model.EntryField(req.Field)
	if !model.ValidEntryField(field) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Unknown entry field",
			Err: fmt.Errorf("unknown field %q", req.Field),
		})
		return
	}

	report, err := workflow.AddEntry(db, actor, reportID, field, req.Value)
	if err != nil {
		respondWorkflowError(c, "Failed to add entry", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Entry added",
		Data: report,
	})
}

// RemoveReportEntry godoc
// @Summary      Remove a report entry
// @Description  Delete the entry at the given index from a report sequence
// @Tags         Reports
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Param        request body EntryRequest true "Field and index"
// @Success      200 {object} util.APIResponse{data=model.Report} "Entry removed"
// @Failure      400 {object} util.APIResponse "Index out of range or locked report"
// @Failure      403 {object} util.APIResponse "Field not writable by this role"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Router       /reports/{id}/entries [delete]
func RemoveReportEntry(c *gin.Context) {
	var req EntryRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

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

	field := model.EntryField(req.Field)
	if !model.ValidEntryField(field) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Unknown entry field",
			Err: fmt.Errorf("unknown field %q", req.Field),
		})
		return
	}
	if req.Index == nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Index is required",
			Err: fmt.Errorf("index not provided"),
		})
		return
	}

	report, err := workflow.RemoveEntry(db, actor, reportID, field, *req.Index)
	if err != nil {
		respondWorkflowError(c, "Failed to remove entry", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Entry removed",
		Data: report,
	})
}

type UpdateReportDetailsRequest struct {
	ReportDate      *string `json:"report_date,omitempty" example:"2026-09-01"`
	AdditionalNotes *string `json:"additional_notes,omitempty" example:"Follow up in two weeks"`
	PatientName     *string `json:"patient_name,omitempty" example:"John A. Doe"`
}

// UpdateReportDetails godoc
// @Summary      Update report details
// @Description  Patch the report's scalar fields; patient name is doctor-only
// @Tags         Reports
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Param        request body UpdateReportDetailsRequest true "Fields to update"
// @Success      200 {object} util.APIResponse{data=model.Report} "Report updated"
// @Failure      400 {object} util.APIResponse "Report locked"
// @Failure      403 {object} util.APIResponse "Not allowed"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Router       /reports/{id} [put]
func UpdateReportDetails(c *gin.Context) {
	var req UpdateReportDetailsRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

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

	report, err := workflow.UpdateReportDetails(db, actor, reportID, workflow.ReportDetailsInput{
		ReportDate:      req.ReportDate,
		AdditionalNotes: req.AdditionalNotes,
		PatientName:     req.PatientName,
	})
	if err != nil {
		respondWorkflowError(c, "Failed to update report", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Report updated",
		Data: report,
	})
}

// SubmitReport godoc
// @Summary      Submit a report
// @Description  Move a draft report into the doctor review queue
// @Tags         Reports
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Success      200 {object} util.APIResponse{data=model.Report} "Report submitted"
// @Failure      400 {object} util.APIResponse "Report already finalized"
// @Failure      403 {object} util.APIResponse "Not your report"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Router       /reports/{id}/submit [put]
func SubmitReport(c *gin.Context) {
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

	report, err := workflow.SubmitReport(db, actor, reportID)
	if err != nil {
		respondWorkflowError(c, "Failed to submit report", err)
		return
	}

	util.LogReportTransition(actor.ID, actor.Role, report.ID, "submit", c.ClientIP())
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Report submitted",
		Data: report,
	})
}

type RejectReportRequest struct {
	Reason string `json:"reason" example:"Report needs additional information"`
}

// ConfirmReport godoc
// @Summary      Confirm a report
// @Description  Accept a submitted report; assigns the deciding doctor and locks the record
// @Tags         Reports
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Success      200 {object} util.APIResponse{data=model.Report} "Report confirmed"
// @Failure      400 {object} util.APIResponse "Report not in submitted state"
// @Failure      403 {object} util.APIResponse "Doctor role required"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Router       /reports/{id}/confirm [put]
func ConfirmReport(c *gin.Context) {
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

	report, err := workflow.ConfirmReport(db, actor, reportID)
	if err != nil {
		respondWorkflowError(c, "Failed to confirm report", err)
		return
	}

	util.LogReportTransition(actor.ID, actor.Role, report.ID, "confirm", c.ClientIP())
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Report confirmed",
		Data: report,
	})
}

// RejectReport godoc
// @Summary      Reject a report
// @Description  Turn a submitted report down with a reason note and lock the record
// @Tags         Reports
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Param        request body RejectReportRequest false "Rejection reason"
// @Success      200 {object} util.APIResponse{data=model.Report} "Report rejected"
// @Failure      400 {object} util.APIResponse "Report not in submitted state"
// @Failure      403 {object} util.APIResponse "Doctor role required"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Router       /reports/{id}/reject [put]
func RejectReport(c *gin.Context) {
	var req RejectReportRequest
	// The reason body is optional; a missing or empty body falls back to the
	// stock rejection note.
	_ = c.ShouldBindJSON(&req)

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

	report, err := workflow.RejectReport(db, actor, reportID, req.Reason)
	if err != nil {
		respondWorkflowError(c, "Failed to reject report", err)
		return
	}

	util.LogReportTransition(actor.ID, actor.Role, report.ID, "reject", c.ClientIP())
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Report rejected",
		Data: report,
	})
}
