package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-activities-api/internal/middleware"
	"github.com/noah-isme/campus-activities-api/internal/models"
	appErrors "github.com/noah-isme/campus-activities-api/pkg/errors"
)

func principalFromContext(c *gin.Context) *models.Principal {
	return middleware.PrincipalFrom(c)
}

// idParam parses a positive integer path parameter. Malformed ids are
// reported as not found.
func idParam(c *gin.Context, name string) (int64, error) {
	id := pathID(c, name)
	if id == 0 {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "resource not found")
	}
	return id, nil
}

// pathID returns the positive integer path parameter, or 0 when it is
// malformed. Services that validate a payload report 0 as not found after
// validation.
func pathID(c *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func bindError(err error) error {
	return appErrors.Validation(err, "invalid request payload")
}
