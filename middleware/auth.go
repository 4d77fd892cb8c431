package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/healinghands/smart-health-api/config"
	"github.com/healinghands/smart-health-api/model"
	"github.com/healinghands/smart-health-api/util"
	"github.com/healinghands/smart-health-api/workflow"
	"gorm.io/gorm"
)

// ValidateLoginToken authenticates the request from the session-token header.
// It resolves the session to a workflow.Actor (Redis fast path first, DB
// session table as the authority) and stores it in the request context. Any
// failure aborts with 401.
func ValidateLoginToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := c.GetHeader("session-token")
		if sessionToken == "" {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session token not provided",
				Err: fmt.Errorf("session token not provided"),
			})
			c.Abort()
			return
		}

		db := GetDB(c)
		if db == nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Database connection not available",
				Err: fmt.Errorf("db is nil"),
			})
			c.Abort()
			return
		}

		actorID, role, ok := sessionFromRedis(sessionToken)
		if !ok {
			var session model.Session
			err := db.Where("session_token = ? AND expires_at > ?", sessionToken, time.Now()).
				First(&session).Error
			if err != nil {
				util.LogSecurityEvent(util.SecurityEvent{
					EventType: util.EventUnauthorizedAccess,
					IP:        c.ClientIP(),
					UserAgent: c.Request.UserAgent(),
					Message:   "Invalid or expired session token",
				})
				util.CallUserNotAuthorized(c, util.APIErrorParams{
					Msg: "Invalid or expired session token",
					Err: fmt.Errorf("session not found"),
				})
				c.Abort()
				return
			}
			actorID, role = session.ActorID, session.Role
		}

		name, err := resolveActorName(db, role, actorID)
		if err != nil {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session actor no longer exists",
				Err: err,
			})
			c.Abort()
			return
		}

		c.Set(ContextKeyActor, workflow.Actor{ID: actorID, Role: role, Name: name})
		c.Next()
	}
}

// sessionFromRedis resolves "session:<token>" mirror keys of the form
// "role:id". Best-effort: any miss or malformed value falls through to the DB.
func sessionFromRedis(token string) (uint, string, bool) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return 0, "", false
	}
	val, err := rdb.Get(context.Background(), fmt.Sprintf("session:%s", token)).Result()
	if err != nil {
		return 0, "", false
	}
	parts := strings.SplitN(val, ":", 2)
	if len(parts) != 2 || !model.ValidRole(parts[0]) {
		return 0, "", false
	}
	var actorID uint
	if _, err := fmt.Sscanf(parts[1], "%d", &actorID); err != nil || actorID == 0 {
		return 0, "", false
	}
	return actorID, parts[0], true
}

// resolveActorName returns the actor's display name, preferring the LRU
// cache over a DB read.
func resolveActorName(db *gorm.DB, role string, actorID uint) (string, error) {
	if name, ok := util.ActorNameCacheGet(role, actorID); ok {
		return name, nil
	}

	var name string
	switch role {
	case model.RoleDoctor:
		doctor, err := workflow.FindDoctor(db, actorID)
		if err != nil {
			return "", err
		}
		name = doctor.FullName
	case model.RolePatient:
		patient, err := workflow.FindPatient(db, actorID)
		if err != nil {
			return "", err
		}
		name = patient.FullName
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}

	util.ActorNameCacheSet(role, actorID, name)
	return name, nil
}

// GetActor returns the authenticated actor set by ValidateLoginToken.
func GetActor(c *gin.Context) (workflow.Actor, bool) {
	v, ok := c.Get(ContextKeyActor)
	if !ok {
		return workflow.Actor{}, false
	}
	actor, ok := v.(workflow.Actor)
	return actor, ok
}

// RequireRole guards a route group so only the given role may pass.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Not authenticated",
				Err: fmt.Errorf("no actor in context"),
			})
			c.Abort()
			return
		}
		if actor.Role != role {
			util.LogSecurityEvent(util.SecurityEvent{
				EventType: util.EventUnauthorizedAccess,
				ActorID:   fmt.Sprintf("%d", actor.ID),
				Role:      actor.Role,
				IP:        c.ClientIP(),
				Message:   fmt.Sprintf("Role %s attempted %s-only route %s", actor.Role, role, c.Request.URL.Path),
			})
			util.CallUserForbidden(c, util.APIErrorParams{
				Msg: "Insufficient role for this operation",
				Err: fmt.Errorf("%s role required", role),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
