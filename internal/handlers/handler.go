package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huayhub/huay-engine-backend/internal/engine"
	"github.com/huayhub/huay-engine-backend/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// respondError maps an engine error to an HTTP status by taxonomy kind.
// Validation problems are the caller's fault, configuration defects are the
// operator's, lifecycle conflicts and business rejections are 409, and
// contention is 503 so callers know a retry may succeed.
func respondError(c *gin.Context, err error) {
	kind := engine.Classify(err)
	status := http.StatusInternalServerError
	switch kind {
	case engine.KindValidation:
		status = http.StatusBadRequest
	case engine.KindConfigDefect:
		status = http.StatusUnprocessableEntity
	case engine.KindBusinessOutcome, engine.KindLifecycle:
		status = http.StatusConflict
	case engine.KindTransient:
		status = http.StatusServiceUnavailable
	default:
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": services.ErrorKindName(kind)})
}
