package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/campus-activities-api/pkg/errors"
	"github.com/noah-isme/campus-activities-api/pkg/response"
)

// Recovery converts panics into the internal error envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		response.Abort(c, appErrors.Internal(fmt.Errorf("panic: %v", recovered), appErrors.ErrInternal.Message))
	})
}
