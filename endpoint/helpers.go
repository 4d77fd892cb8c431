package endpoint

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/healinghands/smart-health-api/middleware"
	"github.com/healinghands/smart-health-api/util"
	"github.com/healinghands/smart-health-api/workflow"
	"gorm.io/gorm"
)

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

func getActorOrRespond(c *gin.Context) (workflow.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Not authenticated", Err: fmt.Errorf("no actor in context")})
		return workflow.Actor{}, false
	}
	return actor, true
}

func parseIDParamOrRespond(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		util.CallUserError(c, util.APIErrorParams{Msg: fmt.Sprintf("Invalid %s", name), Err: fmt.Errorf("%s must be a positive integer", name)})
		return 0, false
	}
	return uint(id), true
}

// respondWorkflowError translates the engine's sentinel errors into the API
// response vocabulary. msg describes the operation that failed.
func respondWorkflowError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: msg, Err: err})
	case errors.Is(err, workflow.ErrForbidden):
		util.CallUserForbidden(c, util.APIErrorParams{Msg: msg, Err: err})
	case errors.Is(err, workflow.ErrInvalidCredential),
		errors.Is(err, workflow.ErrApprovalPending),
		errors.Is(err, workflow.ErrApprovalRejected):
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: msg, Err: err})
	case errors.Is(err, workflow.ErrInvalidStateTransition),
		errors.Is(err, workflow.ErrIndexOutOfRange):
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
	default:
		util.CallServerError(c, util.APIErrorParams{Msg: msg, Err: err})
	}
}
