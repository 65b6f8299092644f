// internal/interfaces/http/handlers/response.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/pagination"
)

// respond writes {success:true, data}
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondList writes {success:true, count, data}
func respondList(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   count,
		"data":    data,
	})
}

// respondPage writes {success:true, count, total, pagination, data}
func respondPage(c *gin.Context, count int, total int64, links pagination.Links, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      count,
		"total":      total,
		"pagination": links,
		"data":       data,
	})
}

// respondError maps err onto a status code. Internal causes are logged and
// replaced with a generic message.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.ContextRequestID),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}).Error("request failed")
		_ = c.Error(err)
	}

	c.JSON(status, gin.H{
		"success": false,
		"message": apperror.PublicMessage(err),
	})
}

// bindJSON decodes the body into req, answering 400 on failure. The
// decoder error goes to the request log, not to the client.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return false
	}
	return true
}

// uuidParam parses a path parameter, answering 404 when it is not a UUID
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Resource not found with id of " + c.Param(name),
		})
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user id and admin flag
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, _ := middleware.GetUserIDFromContext(c)
	return id, middleware.IsAdminFromContext(c)
}
