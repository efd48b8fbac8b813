package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventmanagement/models"
)

// badRequest answers a body that could not be decoded.
func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": "Could not parse request data."})
}

// validationFailed answers 400 with the offending fields when err is a
// ValidationErrors and reports whether it did.
func validationFailed(c *gin.Context, err error) bool {
	var verrs models.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"msg": "Validation failed", "errors": verrs})
	return true
}

// serverError records the cause for the request log and answers 500.
func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server Error: " + err.Error()})
}
