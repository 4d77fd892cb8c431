package endpoint_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/healinghands/smart-health-api/config"
	"github.com/healinghands/smart-health-api/endpoint"
	"github.com/healinghands/smart-health-api/middleware"
	"github.com/healinghands/smart-health-api/model"
	"github.com/healinghands/smart-health-api/util"
	"github.com/healinghands/smart-health-api/workflow"
	"gorm.io/gorm"
)

type apiResp struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// requestParams groups HTTP request parameters to reduce function arguments
type requestParams struct {
	method  string
	path    string
	body    []byte
	headers map[string]string
}

func doRequest(r http.Handler, params requestParams) (*httptest.ResponseRecorder, error) {
	req, err := http.NewRequest(params.method, params.path, bytes.NewBuffer(params.body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range params.headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr, nil
}

// SetupTestServer opens a fresh in-memory database, migrates the schema and
// returns a router wired exactly like the production one. Each call gets its
// own database, so tests never see each other's rows.
func SetupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := config.ConnectDatabase()
	if err != nil {
		t.Fatalf("failed to connect test DB: %v", err)
	}

	err = db.AutoMigrate(
		&model.Doctor{},
		&model.Patient{},
		&model.ActorCode{},
		&model.Report{},
		&model.Session{},
		&model.SecurityLog{},
	)
	if err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	if err := model.SeedActorCodes(db); err != nil {
		t.Fatalf("seeding actor codes failed: %v", err)
	}
	util.SetSecurityLoggerDB(db)

	r := gin.New()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.DatabaseMiddleware(db))

	r.POST("/login", endpoint.Login)
	r.POST("/register/doctor", endpoint.RegisterDoctor)
	r.POST("/register/patient", endpoint.RegisterPatient)
	r.GET("/token/validate", endpoint.ValidateToken)

	authed := r.Group("/")
	authed.Use(middleware.ValidateLoginToken())
	{
		authed.DELETE("/logout", endpoint.Logout)
		authed.GET("/profile", endpoint.GetProfile)

		authed.GET("/patients/:id", endpoint.GetPatientInfo)
		authed.GET("/patients/:id/vitals", endpoint.GetVitals)

		authed.POST("/reports", endpoint.CreateReport)
		authed.GET("/reports", endpoint.ListReports)
		authed.GET("/reports/:id", endpoint.GetReport)
		authed.PUT("/reports/:id", endpoint.UpdateReportDetails)
		authed.POST("/reports/:id/entries", endpoint.AddReportEntry)
		authed.DELETE("/reports/:id/entries", endpoint.RemoveReportEntry)
		authed.PUT("/reports/:id/submit", endpoint.SubmitReport)
		authed.GET("/reports/:id/export", endpoint.ExportReport)
	}

	doctorOnly := r.Group("/")
	doctorOnly.Use(middleware.ValidateLoginToken(), middleware.RequireRole(model.RoleDoctor))
	{
		doctorOnly.GET("/patients", endpoint.ListPatients)
		doctorOnly.GET("/patients/pending", endpoint.ListPendingPatients)
		doctorOnly.PUT("/patients/:id/approve", endpoint.ApprovePatient)
		doctorOnly.PUT("/patients/:id/reject", endpoint.RejectPatient)

		doctorOnly.GET("/reports/pending", endpoint.ListPendingReports)
		doctorOnly.PUT("/reports/:id/confirm", endpoint.ConfirmReport)
		doctorOnly.PUT("/reports/:id/reject", endpoint.RejectReport)
	}

	return r, db
}

// ParseAPIResp decodes a standard API response from a ResponseRecorder.
// It fails the test on decoding error.
func ParseAPIResp(t *testing.T, rr *httptest.ResponseRecorder) apiResp {
	t.Helper()
	var resp apiResp
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v; body: %s", err, rr.Body.String())
	}
	return resp
}

// ParseDataToMap unmarshals an API response Data field into a map.
func ParseDataToMap(t *testing.T, raw json.RawMessage) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("parse data failed: %v", err)
	}
	return data
}

// RegisterTestDoctor registers a doctor over HTTP and returns the assigned
// code and database id.
func RegisterTestDoctor(t *testing.T, r http.Handler, name string) (string, uint) {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{
		"full_name":      name,
		"age":            45,
		"date_of_birth":  "1981-03-15",
		"gender":         "Female",
		"license_number": "MD-0001",
		"specialization": "General Medicine",
	})
	rr, err := doRequest(r, requestParams{method: "POST", path: "/register/doctor", body: body})
	if err != nil {
		t.Fatalf("register doctor failed: %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("register doctor returned non-200: %d %s", rr.Code, rr.Body.String())
	}
	data := ParseDataToMap(t, ParseAPIResp(t, rr).Data)
	return data["code"].(string), uint(data["ID"].(float64))
}

// RegisterTestPatient submits a patient application over HTTP and returns the
// assigned code and database id. The application is left pending.
func RegisterTestPatient(t *testing.T, r http.Handler, name string) (string, uint) {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{
		"full_name":     name,
		"age":           30,
		"date_of_birth": "1996-07-01",
		"gender":        "Male",
		"phone_number":  "081234567890",
	})
	rr, err := doRequest(r, requestParams{method: "POST", path: "/register/patient", body: body})
	if err != nil {
		t.Fatalf("register patient failed: %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("register patient returned non-200: %d %s", rr.Code, rr.Body.String())
	}
	data := ParseDataToMap(t, ParseAPIResp(t, rr).Data)
	return data["code"].(string), uint(data["ID"].(float64))
}

// LoginAs performs a login and returns the session token. Fails the test on
// any non-200 response.
func LoginAs(t *testing.T, r http.Handler, role, code, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"role": role, "id": code, "password": password})
	rr, err := doRequest(r, requestParams{method: "POST", path: "/login", body: body})
	if err != nil {
		t.Fatalf("login %s failed: %v", code, err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s returned non-200: %d %s", code, rr.Code, rr.Body.String())
	}
	data := ParseDataToMap(t, ParseAPIResp(t, rr).Data)
	return data["token"].(string)
}

// SetupServerWithDoctor starts a server and returns a logged-in doctor.
func SetupServerWithDoctor(t *testing.T) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	r, db := SetupTestServer(t)
	code, _ := RegisterTestDoctor(t, r, "Dr. Sarah Johnson")
	token := LoginAs(t, r, model.RoleDoctor, code, workflow.DefaultDoctorPassword)
	return r, db, token
}

// SetupServerWithApprovedPatient starts a server with a doctor session and an
// approved, logged-in patient session.
func SetupServerWithApprovedPatient(t *testing.T) (*gin.Engine, *gorm.DB, string, string, uint) {
	t.Helper()
	r, db, doctorToken := SetupServerWithDoctor(t)

	patientCode, patientID := RegisterTestPatient(t, r, "John Doe")
	approvePatientByID(t, r, doctorToken, patientID)
	patientToken := LoginAs(t, r, model.RolePatient, patientCode, workflow.DefaultPatientPassword)
	return r, db, doctorToken, patientToken, patientID
}

func pathWithID(format string, id uint) string {
	return fmt.Sprintf(format, id)
}

func approvePatientByID(t *testing.T, r http.Handler, doctorToken string, patientID uint) {
	t.Helper()
	rr, err := doRequest(r, requestParams{
		method:  "PUT",
		path:    pathWithID("/patients/%d/approve", patientID),
		headers: map[string]string{"session-token": doctorToken},
	})
	if err != nil {
		t.Fatalf("approve patient failed: %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("approve patient returned non-200: %d %s", rr.Code, rr.Body.String())
	}
}
