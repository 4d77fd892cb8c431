package endpoint_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/healinghands/smart-health-api/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createReportOverHTTP(t *testing.T, r http.Handler, patientToken string) uint {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{
		"report_date":      "2026-08-30",
		"symptoms":         []string{"Headache", "Fatigue"},
		"tests_conducted":  []string{"Blood panel"},
		"treatment_plan":   []string{"Rest"},
		"additional_notes": "Symptoms started three days ago",
	})
	rr, err := doRequest(r, requestParams{
		method:  "POST",
		path:    "/reports",
		body:    body,
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	data := ParseDataToMap(t, ParseAPIResp(t, rr).Data)
	return uint(data["ID"].(float64))
}

func submitReportOverHTTP(t *testing.T, r http.Handler, patientToken string, reportID uint) {
	t.Helper()
	rr, err := doRequest(r, requestParams{
		method:  "PUT",
		path:    pathWithID("/reports/%d/submit", reportID),
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func reportData(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	return ParseDataToMap(t, ParseAPIResp(t, rr).Data)
}

func TestCreateReportOverHTTP(t *testing.T) {
	r, _, _, patientToken, patientID := SetupServerWithApprovedPatient(t)

	reportID := createReportOverHTTP(t, r, patientToken)

	rr, err := doRequest(r, requestParams{
		method:  "GET",
		path:    pathWithID("/reports/%d", reportID),
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code)

	data := reportData(t, rr)
	assert.Equal(t, "draft", data["status"])
	assert.Equal(t, true, data["is_editable"])
	assert.Equal(t, float64(patientID), data["patient_id"])
	assert.Equal(t, "John Doe", data["patient_name"])
}

func TestCreateReportWithDiagnosisForbidden(t *testing.T) {
	r, _, _, patientToken, _ := SetupServerWithApprovedPatient(t)

	body, _ := json.Marshal(map[string]interface{}{
		"report_date": "2026-08-30",
		"diagnosis":   []string{"Migraine"},
	})
	rr, err := doRequest(r, requestParams{
		method:  "POST",
		path:    "/reports",
		body:    body,
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDoctorCannotCreateReport(t *testing.T) {
	r, _, doctorToken := SetupServerWithDoctor(t)

	body, _ := json.Marshal(map[string]interface{}{"report_date": "2026-08-30"})
	rr, err := doRequest(r, requestParams{
		method:  "POST",
		path:    "/reports",
		body:    body,
		headers: map[string]string{"session-token": doctorToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestEntryEndpoints(t *testing.T) {
	r, _, doctorToken, patientToken, _ := SetupServerWithApprovedPatient(t)
	reportID := createReportOverHTTP(t, r, patientToken)

	// Patient appends a symptom.
	body, _ := json.Marshal(map[string]interface{}{"field": "symptoms", "value": "Dizziness"})
	rr, err := doRequest(r, requestParams{
		method:  "POST",
		path:    pathWithID("/reports/%d/entries", reportID),
		body:    body,
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	data := reportData(t, rr)
	assert.Len(t, data["symptoms"], 3)

	// Patient may not touch the diagnosis.
	body, _ = json.Marshal(map[string]interface{}{"field": "diagnosis", "value": "Migraine"})
	rr, err = doRequest(r, requestParams{
		method:  "POST",
		path:    pathWithID("/reports/%d/entries", reportID),
		body:    body,
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// The doctor may.
	rr, err = doRequest(r, requestParams{
		method:  "POST",
		path:    pathWithID("/reports/%d/entries", reportID),
		body:    body,
		headers: map[string]string{"session-token": doctorToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Unknown field name.
	body, _ = json.Marshal(map[string]interface{}{"field": "vitals", "value": "bogus"})
	rr, err = doRequest(r, requestParams{
		method:  "POST",
		path:    pathWithID("/reports/%d/entries", reportID),
		body:    body,
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRemoveEntryEndpoint(t *testing.T) {
	r, _, _, patientToken, _ := SetupServerWithApprovedPatient(t)
	reportID := createReportOverHTTP(t, r, patientToken)

	index := 1
	body, _ := json.Marshal(map[string]interface{}{"field": "symptoms", "index": index})
	rr, err := doRequest(r, requestParams{
		method:  "DELETE",
		path:    pathWithID("/reports/%d/entries", reportID),
		body:    body,
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	data := reportData(t, rr)
	assert.Len(t, data["symptoms"], 1)

	// Same index again is now out of range.
	rr, err = doRequest(r, requestParams{
		method:  "DELETE",
		path:    pathWithID("/reports/%d/entries", reportID),
		body:    body,
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReportLifecycleOverHTTP(t *testing.T) {
	r, _, doctorToken, patientToken, _ := SetupServerWithApprovedPatient(t)
	reportID := createReportOverHTTP(t, r, patientToken)

	submitReportOverHTTP(t, r, patientToken, reportID)

	// The report sits in the doctor queue.
	rr, err := doRequest(r, requestParams{
		method:  "GET",
		path:    "/reports/pending",
		headers: map[string]string{"session-token": doctorToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code)

	// Confirm it.
	rr, err = doRequest(r, requestParams{
		method:  "PUT",
		path:    pathWithID("/reports/%d/confirm", reportID),
		headers: map[string]string{"session-token": doctorToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	data := reportData(t, rr)
	assert.Equal(t, "confirmed", data["status"])
	assert.Equal(t, false, data["is_editable"])
	assert.Equal(t, "Dr. Sarah Johnson", data["doctor_name"])

	// A second decision bounces off the guard.
	rr, err = doRequest(r, requestParams{
		method:  "PUT",
		path:    pathWithID("/reports/%d/reject", reportID),
		headers: map[string]string{"session-token": doctorToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Finalized report takes no further edits.
	body, _ := json.Marshal(map[string]interface{}{"field": "symptoms", "value": "Late addition"})
	rr, err = doRequest(r, requestParams{
		method:  "POST",
		path:    pathWithID("/reports/%d/entries", reportID),
		body:    body,
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRejectReportOverHTTP(t *testing.T) {
	r, _, doctorToken, patientToken, _ := SetupServerWithApprovedPatient(t)
	reportID := createReportOverHTTP(t, r, patientToken)
	submitReportOverHTTP(t, r, patientToken, reportID)

	// Reject without a body falls back to the stock reason.
	rr, err := doRequest(r, requestParams{
		method:  "PUT",
		path:    pathWithID("/reports/%d/reject", reportID),
		headers: map[string]string{"session-token": doctorToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	data := reportData(t, rr)
	assert.Equal(t, "rejected", data["status"])
	assert.Equal(t, workflow.DefaultRejectionReason, data["rejection_reason"])
}

func TestPatientCannotConfirmReport(t *testing.T) {
	r, _, _, patientToken, _ := SetupServerWithApprovedPatient(t)
	reportID := createReportOverHTTP(t, r, patientToken)
	submitReportOverHTTP(t, r, patientToken, reportID)

	rr, err := doRequest(r, requestParams{
		method:  "PUT",
		path:    pathWithID("/reports/%d/confirm", reportID),
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestReportVisibilityOverHTTP(t *testing.T) {
	r, _, _, ownerToken, _ := SetupServerWithApprovedPatient(t)
	reportID := createReportOverHTTP(t, r, ownerToken)

	// A second approved patient cannot read someone else's report.
	otherCode, otherID := RegisterTestPatient(t, r, "Jane Roe")
	var doctorToken string
	{
		code, _ := RegisterTestDoctor(t, r, "Dr. Second Opinion")
		doctorToken = LoginAs(t, r, "doctor", code, workflow.DefaultDoctorPassword)
	}
	approvePatientByID(t, r, doctorToken, otherID)
	otherToken := LoginAs(t, r, "patient", otherCode, workflow.DefaultPatientPassword)

	rr, err := doRequest(r, requestParams{
		method:  "GET",
		path:    pathWithID("/reports/%d", reportID),
		headers: map[string]string{"session-token": otherToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Any doctor can, assigned or not.
	rr, err = doRequest(r, requestParams{
		method:  "GET",
		path:    pathWithID("/reports/%d", reportID),
		headers: map[string]string{"session-token": doctorToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUpdateReportDetailsOverHTTP(t *testing.T) {
	r, _, doctorToken, patientToken, _ := SetupServerWithApprovedPatient(t)
	reportID := createReportOverHTTP(t, r, patientToken)

	// Patient may update the date and notes.
	body, _ := json.Marshal(map[string]string{
		"report_date":      "2026-09-01",
		"additional_notes": "Follow up in two weeks",
	})
	rr, err := doRequest(r, requestParams{
		method:  "PUT",
		path:    pathWithID("/reports/%d", reportID),
		body:    body,
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// But not the patient name.
	body, _ = json.Marshal(map[string]string{"patient_name": "Someone Else"})
	rr, err = doRequest(r, requestParams{
		method:  "PUT",
		path:    pathWithID("/reports/%d", reportID),
		body:    body,
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// The doctor can.
	rr, err = doRequest(r, requestParams{
		method:  "PUT",
		path:    pathWithID("/reports/%d", reportID),
		body:    body,
		headers: map[string]string{"session-token": doctorToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	data := reportData(t, rr)
	assert.Equal(t, "Someone Else", data["patient_name"])
}

func TestExportFinalizedReport(t *testing.T) {
	r, _, doctorToken, patientToken, _ := SetupServerWithApprovedPatient(t)
	reportID := createReportOverHTTP(t, r, patientToken)

	// Draft reports cannot be exported.
	rr, err := doRequest(r, requestParams{
		method:  "GET",
		path:    pathWithID("/reports/%d/export", reportID),
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	submitReportOverHTTP(t, r, patientToken, reportID)
	rr, err = doRequest(r, requestParams{
		method:  "PUT",
		path:    pathWithID("/reports/%d/confirm", reportID),
		headers: map[string]string{"session-token": doctorToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, err = doRequest(r, requestParams{
		method:  "GET",
		path:    pathWithID("/reports/%d/export", reportID),
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	data := reportData(t, rr)
	assert.NotEmpty(t, data["export_id"])
	assert.Equal(t, "confirmed", data["status"])
	assert.Equal(t, float64(reportID), data["report_id"])
}

func TestListReportsScoping(t *testing.T) {
	r, _, doctorToken, patientToken, patientID := SetupServerWithApprovedPatient(t)
	createReportOverHTTP(t, r, patientToken)

	// Patient list contains only their own reports.
	rr, err := doRequest(r, requestParams{
		method:  "GET",
		path:    "/reports",
		headers: map[string]string{"session-token": patientToken},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp apiResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	var mine []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, float64(patientID), mine[0]["patient_id"])

	// The doctor list sees it too.
	rr, err = doRequest(r, requestParams{
		method:  "GET",
		path:    "/reports",
		headers: map[string]string{"session-token": doctorToken},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
}
