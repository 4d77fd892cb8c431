package endpoint

import (
	"github.com/gin-gonic/gin"
	"github.com/healinghands/smart-health-api/model"
	"github.com/healinghands/smart-health-api/util"
	"github.com/healinghands/smart-health-api/workflow"
)

// ListPendingPatients godoc
// @Summary      Pending patient applications
// @Description  List undecided patient applications, oldest first
// @Tags         Patients
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=[]model.Patient} "Pending applications"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Doctor role required"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patients/pending [get]
func ListPendingPatients(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patients, err := workflow.PendingPatients(db)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch pending applications", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Pending applications",
		Data: patients,
	})
}

// ApprovePatient godoc
// @Summary      Approve patient application
// @Description  Admit a pending patient so they can log in
// @Tags         Patients
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient approved"
// @Failure      400 {object} util.APIResponse "Application already decided"
// @Failure      403 {object} util.APIResponse "Doctor role required"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /patients/{id}/approve [put]
func ApprovePatient(c *gin.Context) {
	decidePatientApplication(c, true)
}

// RejectPatient godoc
// @Summary      Reject patient application
// @Description  Turn a pending patient application down
// @Tags         Patients
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient rejected"
// @Failure      400 {object} util.APIResponse "Application already decided"
// @Failure      403 {object} util.APIResponse "Doctor role required"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /patients/{id}/reject [put]
func RejectPatient(c *gin.Context) {
	decidePatientApplication(c, false)
}

func decidePatientApplication(c *gin.Context, approve bool) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := getActorOrRespond(c)
	if !ok {
		return
	}
	patientID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	var (
		patient  *model.Patient
		err      error
		decision = "approve"
		msg      = "Patient approved"
	)
	if approve {
		patient, err = workflow.ApprovePatient(db, actor, patientID)
	} else {
		patient, err = workflow.RejectPatient(db, actor, patientID)
		decision = "reject"
		msg = "Patient rejected"
	}
	if err != nil {
		respondWorkflowError(c, "Failed to decide application", err)
		return
	}

	util.LogApprovalDecision(actor.ID, patient.ID, decision, c.ClientIP())
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  msg,
		Data: patient,
	})
}

// ListPatients godoc
// @Summary      List patients
// @Description  List every registered patient regardless of approval status
// @Tags         Patients
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=[]model.Patient} "Patients"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Doctor role required"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patients [get]
func ListPatients(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var patients []model.Patient
	if err := db.Order("created_at DESC").Find(&patients).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch patients", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patients",
		Data: patients,
	})
}

// GetPatientInfo godoc
// @Summary      Patient detail
// @Description  Fetch one patient; patients may only see themselves
// @Tags         Patients
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient"
// @Failure      403 {object} util.APIResponse "Not your record"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /patients/{id} [get]
func GetPatientInfo(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := getActorOrRespond(c)
	if !ok {
		return
	}
	patientID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	if actor.IsPatient() && actor.ID != patientID {
		respondWorkflowError(c, "Failed to fetch patient", workflow.ErrForbidden)
		return
	}

	patient, err := workflow.FindPatient(db, patientID)
	if err != nil {
		respondWorkflowError(c, "Failed to fetch patient", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient",
		Data: patient,
	})
}

// GetProfile godoc
// @Summary      Own profile
// @Description  Fetch the authenticated actor's own record
// @Tags         Patients
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Profile"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Record not found"
// @Router       /profile [get]
func GetProfile(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := getActorOrRespond(c)
	if !ok {
		return
	}

	var (
		data interface{}
		err  error
	)
	switch {
	case actor.IsDoctor():
		data, err = workflow.FindDoctor(db, actor.ID)
	default:
		data, err = workflow.FindPatient(db, actor.ID)
	}
	if err != nil {
		respondWorkflowError(c, "Failed to fetch profile", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Profile",
		Data: data,
	})
}
