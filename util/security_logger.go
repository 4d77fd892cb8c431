package util

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/healinghands/smart-health-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityEventType represents different types of security events
type SecurityEventType string

const (
	EventLoginSuccess       SecurityEventType = "LOGIN_SUCCESS"
	EventLoginFailure       SecurityEventType = "LOGIN_FAILURE"
	EventRegistration       SecurityEventType = "REGISTRATION"
	EventLogout             SecurityEventType = "LOGOUT"
	EventApprovalDecision   SecurityEventType = "APPROVAL_DECISION"
	EventReportTransition   SecurityEventType = "REPORT_TRANSITION"
	EventUnauthorizedAccess SecurityEventType = "UNAUTHORIZED_ACCESS"
	EventRateLimitExceeded  SecurityEventType = "RATE_LIMIT_EXCEEDED"
	EventSuspiciousActivity SecurityEventType = "SUSPICIOUS_ACTIVITY"
	EventEndpointCall       SecurityEventType = "ENDPOINT_CALL"
)

// SecurityEvent represents a security event to be logged
type SecurityEvent struct {
	EventType SecurityEventType
	ActorID   string
	Role      string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var securityLogger *log.Logger
var securityDB *gorm.DB

// SetSecurityLoggerDB sets a gorm DB instance used by the security logger.
// Call this during application startup (e.g. in main) after DB initialization.
func SetSecurityLoggerDB(db *gorm.DB) {
	securityDB = db
}

func init() {
	securityLogger = log.New(os.Stdout, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix)
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	// Truncate very long values to prevent log flooding
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogSecurityEvent logs a security event
func LogSecurityEvent(event SecurityEvent) {
	// Sanitize all string fields to prevent log injection
	msg := fmt.Sprintf("Event=%s ActorID=%s Role=%s IP=%s UserAgent=%s Message=%s",
		sanitizeLogValue(string(event.EventType)),
		sanitizeLogValue(event.ActorID),
		sanitizeLogValue(event.Role),
		sanitizeLogValue(event.IP),
		sanitizeLogValue(event.UserAgent),
		sanitizeLogValue(event.Message),
	)

	if len(event.Details) > 0 {
		// Don't log the Details map directly to avoid injection; log the count
		msg = fmt.Sprintf("%s DetailsCount=%d", msg, len(event.Details))
	}

	securityLogger.Println(msg)

	// Persist to DB if available (best-effort, do not fail operation)
	if securityDB != nil {
		var details datatypes.JSON
		if event.Details != nil {
			if b, err := json.Marshal(event.Details); err == nil {
				details = datatypes.JSON(b)
			}
		}

		// Attempt to resolve city/country for the IP (best-effort, local DB then cache)
		city, country := GetIPLocation(event.IP)
		var location string
		if city != "" && country != "" {
			location = fmt.Sprintf("%s/%s", city, country)
		} else if country != "" {
			location = country
		} else if city != "" {
			location = city
		}

		entry := model.SecurityLog{
			EventType: string(event.EventType),
			ActorID:   event.ActorID,
			Role:      sanitizeLogValue(event.Role),
			IP:        sanitizeLogValue(event.IP),
			Location:  sanitizeLogValue(location),
			UserAgent: sanitizeLogValue(event.UserAgent),
			Message:   sanitizeLogValue(event.Message),
			Details:   details,
		}

		if err := securityDB.Create(&entry).Error; err != nil {
			securityLogger.Printf("failed to persist security log: %v", err)
		}
	}
}

// LogLoginSuccess logs a successful authentication.
func LogLoginSuccess(actorID uint, role, ip, userAgent string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginSuccess,
		ActorID:   fmt.Sprintf("%d", actorID),
		Role:      role,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "Login successful",
	})
}

// LogLoginFailure logs a failed authentication attempt with the denial reason.
func LogLoginFailure(code, role, ip, userAgent, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		ActorID:   code,
		Role:      role,
		IP:        ip,
		UserAgent: userAgent,
		Message:   fmt.Sprintf("Login failed: %s", reason),
	})
}

// LogLogout logs a session teardown.
func LogLogout(actorID uint, role, ip, userAgent string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLogout,
		ActorID:   fmt.Sprintf("%d", actorID),
		Role:      role,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "Logout",
	})
}

// LogApprovalDecision logs a doctor's decision on a patient application.
func LogApprovalDecision(doctorID, patientID uint, decision, ip string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventApprovalDecision,
		ActorID:   fmt.Sprintf("%d", doctorID),
		Role:      model.RoleDoctor,
		IP:        ip,
		Message:   fmt.Sprintf("Patient %d %s", patientID, decision),
		Details:   map[string]interface{}{"patient_id": patientID, "decision": decision},
	})
}

// LogReportTransition logs a report lifecycle transition.
func LogReportTransition(actorID uint, role string, reportID uint, transition, ip string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventReportTransition,
		ActorID:   fmt.Sprintf("%d", actorID),
		Role:      role,
		IP:        ip,
		Message:   fmt.Sprintf("Report %d %s", reportID, transition),
		Details:   map[string]interface{}{"report_id": reportID, "transition": transition},
	})
}

// LogRateLimitExceeded logs a rejected request from the rate limiter.
func LogRateLimitExceeded(actorID, ip, endpoint string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventRateLimitExceeded,
		ActorID:   actorID,
		IP:        ip,
		Message:   fmt.Sprintf("Rate limit exceeded on %s", endpoint),
	})
}
