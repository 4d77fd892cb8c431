package endpoint

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/healinghands/smart-health-api/config"
	"github.com/healinghands/smart-health-api/model"
	"github.com/healinghands/smart-health-api/util"
	"github.com/healinghands/smart-health-api/workflow"
	"gorm.io/gorm"
)

const sessionTTL = time.Hour

type LoginRequest struct {
	Role     string `json:"role" binding:"required" example:"doctor"`
	ID       string `json:"id" binding:"required" example:"DOC1"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Role  string `json:"role" example:"doctor"`
	Code  string `json:"code" example:"DOC1"`
	Name  string `json:"name" example:"Dr. Sarah Johnson"`
}

// Login godoc
// @Summary      Actor login
// @Description  Authenticate a doctor or patient by system-assigned code and password
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Invalid credentials or approval gate"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /login [post]
func Login(c *gin.Context) {
	var req LoginRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	if !model.ValidRole(req.Role) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Unknown role",
			Err: fmt.Errorf("role must be %q or %q", model.RoleDoctor, model.RolePatient),
		})
		return
	}

	ci := clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}

	actor, err := workflow.Authenticate(db, req.Role, req.ID, req.Password)
	if err != nil {
		util.LogLoginFailure(req.ID, req.Role, ci.IP, ci.Agent, err.Error())
		// Do not disclose whether the id or the password was wrong.
		if err == workflow.ErrNotFound || err == workflow.ErrInvalidCredential {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid id or password",
				Err: workflow.ErrInvalidCredential,
			})
			return
		}
		respondWorkflowError(c, "Login denied", err)
		return
	}

	tokenString, err := createJWTToken(actor)
	if err != nil {
		util.LogLoginFailure(req.ID, req.Role, ci.IP, ci.Agent, "token generation failed")
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	session, err := recordSession(db, SessionInfo{
		Actor:   actor,
		Token:   tokenString,
		Client:  ci,
		Expires: time.Now().Add(sessionTTL),
	})
	if err != nil {
		util.LogLoginFailure(req.ID, req.Role, ci.IP, ci.Agent, "session creation failed")
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return
	}

	// Mirror the session in Redis (best-effort)
	if rdb := config.GetRedisClient(); rdb != nil {
		exp := time.Until(session.ExpiresAt)
		val := fmt.Sprintf("%s:%d", actor.Role, actor.ID)
		_ = rdb.Set(context.Background(), fmt.Sprintf("session:%s", tokenString), val, exp).Err()
		_ = util.AddSessionToActorSet(actor.Role, actor.ID, tokenString)
	}

	util.ActorNameCacheSet(actor.Role, actor.ID, actor.Name)
	util.LogLoginSuccess(actor.ID, actor.Role, ci.IP, ci.Agent)
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Login successful",
		Data: LoginResponse{Token: tokenString, Role: actor.Role, Code: req.ID, Name: actor.Name},
	})
}

// helper types for the login flow
type clientInfo struct {
	IP    string
	Agent string
}

// SessionInfo groups parameters for creating a session to avoid long argument lists.
type SessionInfo struct {
	Actor   workflow.Actor
	Token   string
	Client  clientInfo
	Expires time.Time
}

func recordSession(db *gorm.DB, info SessionInfo) (model.Session, error) {
	session := model.Session{
		ActorID:      info.Actor.ID,
		Role:         info.Actor.Role,
		SessionToken: info.Token,
		ExpiresAt:    info.Expires,
		ClientIP:     info.Client.IP,
		Browser:      info.Client.Agent,
	}
	err := db.Create(&session).Error
	return session, err
}

func createJWTToken(actor workflow.Actor) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  actor.ID,
		"role": actor.Role,
		"exp":  time.Now().Add(sessionTTL).Unix(),
		"jti":  uuid.NewString(),
	})
	return token.SignedString(util.GetJWTSecretByte())
}

// Logout godoc
// @Summary      Actor logout
// @Description  Invalidate the session token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Logout successful"
// @Failure      400 {object} util.APIResponse "Session not found"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /logout [delete]
func Logout(c *gin.Context) {
	sessionToken := c.GetHeader("session-token")
	if sessionToken == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Session token not provided",
			Err: fmt.Errorf("session token not provided"),
		})
		c.Abort()
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var session model.Session
	if err := db.Where("session_token = ?", sessionToken).First(&session).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Session not found",
			Err: err,
		})
		return
	}

	if err := db.Where("session_token = ?", sessionToken).Delete(&session).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to delete session",
			Err: err,
		})
		return
	}

	// Also drop the Redis mirror if available
	if rdb := config.GetRedisClient(); rdb != nil {
		_ = rdb.Del(context.Background(), fmt.Sprintf("session:%s", sessionToken)).Err()
		_ = util.RemoveSessionTokenFromActorSet(session.Role, session.ActorID, sessionToken)
	}

	util.LogLogout(session.ActorID, session.Role, c.ClientIP(), c.Request.UserAgent())
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Logout successful",
	})
}

// ValidateToken godoc
// @Summary      Validate session token
// @Description  Validate if the session token is valid and not expired
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Valid session token"
// @Failure      401 {object} util.APIResponse "Invalid or expired session token"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /token/validate [get]
func ValidateToken(c *gin.Context) {
	sessionToken := c.GetHeader("session-token")
	if sessionToken == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Invalid session token",
			Err: fmt.Errorf("session token not provided"),
		})
		c.Abort()
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var session model.Session
	err := db.Where("session_token = ? AND expires_at > ?", sessionToken, time.Now()).
		First(&session).Error
	if err != nil {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Session not found",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Valid session token",
		Data: session,
	})
}

type RegisterDoctorRequest struct {
	FullName       string `json:"full_name" binding:"required" example:"Dr. Sarah Johnson"`
	Age            int    `json:"age" binding:"required" example:"45"`
	DateOfBirth    string `json:"date_of_birth" binding:"required" example:"1980-01-01"`
	Gender         string `json:"gender" binding:"required,oneof=Male Female Other" example:"Female"`
	PhoneNumber    string `json:"phone_number" example:"081234567890"`
	LicenseNumber  string `json:"license_number" binding:"required" example:"MD-12345"`
	Specialization string `json:"specialization" binding:"required" example:"Cardiology"`
	Password       string `json:"password,omitempty" example:"password123"`
}

// RegisterDoctor godoc
// @Summary      Doctor registration
// @Description  Register a new doctor; doctors are usable immediately
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body RegisterDoctorRequest true "Doctor details"
// @Success      200 {object} util.APIResponse{data=model.Doctor} "Doctor registered"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /register/doctor [post]
func RegisterDoctor(c *gin.Context) {
	var req RegisterDoctorRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	doctor, err := workflow.RegisterDoctor(db, workflow.DoctorInput{
		FullName:       req.FullName,
		Age:            req.Age,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		PhoneNumber:    req.PhoneNumber,
		Password:       req.Password,
		LicenseNumber:  req.LicenseNumber,
		Specialization: req.Specialization,
	})
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to register doctor", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventRegistration,
		ActorID:   fmt.Sprintf("%d", doctor.ID),
		Role:      model.RoleDoctor,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   fmt.Sprintf("Doctor %s registered", doctor.Code),
	})

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Doctor registered",
		Data: doctor,
	})
}

type RegisterPatientRequest struct {
	FullName          string `json:"full_name" binding:"required" example:"John Doe"`
	Age               int    `json:"age" binding:"required" example:"30"`
	DateOfBirth       string `json:"date_of_birth" binding:"required" example:"1995-04-12"`
	Gender            string `json:"gender" binding:"required,oneof=Male Female Other" example:"Male"`
	PhoneNumber       string `json:"phone_number" binding:"required" example:"081234567890"`
	MedicalConditions string `json:"medical_conditions" example:"Hypertension, on amlodipine"`
	Password          string `json:"password,omitempty" example:"patient123"`
}

// RegisterPatient godoc
// @Summary      Patient application
// @Description  Register a new patient application; the account stays pending until a doctor decides
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body RegisterPatientRequest true "Patient details"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Application submitted"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /register/patient [post]
func RegisterPatient(c *gin.Context) {
	var req RegisterPatientRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, err := workflow.RegisterPatient(db, workflow.PatientInput{
		FullName:          req.FullName,
		Age:               req.Age,
		DateOfBirth:       req.DateOfBirth,
		Gender:            req.Gender,
		PhoneNumber:       req.PhoneNumber,
		Password:          req.Password,
		MedicalConditions: req.MedicalConditions,
	})
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to register patient", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventRegistration,
		ActorID:   fmt.Sprintf("%d", patient.ID),
		Role:      model.RolePatient,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   fmt.Sprintf("Patient %s applied", patient.Code),
	})

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Application submitted, awaiting approval",
		Data: patient,
	})
}
