package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"pickstock/internal/core/reqctx"
)

const (
	HeaderActor              = "X-Actor"
	HeaderCanConfirm         = "X-Can-Confirm"
	HeaderCanCancel          = "X-Can-Cancel"
	HeaderCanDeleteCompleted = "X-Can-Delete-Completed"
)

// Actor middleware extracts the acting user and their capability flags
// from request headers. Identity and role resolution happen upstream;
// the engine takes the headers at face value and only records the name
// and consults the flags.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := &reqctx.ActorContext{
			Name:               c.GetHeader(HeaderActor),
			CompanyID:          c.Param("companyId"),
			CanConfirm:         boolHeader(c, HeaderCanConfirm),
			CanCancel:          boolHeader(c, HeaderCanCancel),
			CanDeleteCompleted: boolHeader(c, HeaderCanDeleteCompleted),
		}

		ctx := reqctx.WithActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func boolHeader(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.GetHeader(name))
	return err == nil && v
}
