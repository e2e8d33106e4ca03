package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"suraksha.com/preparedness/internal/model"
	"suraksha.com/preparedness/pkg/apperror"
)

// CurrentUser retrieves the authenticated user set by the auth middleware.
func CurrentUser(c *gin.Context) (*model.User, error) {
	value, exists := c.Get("user")
	if !exists {
		return nil, apperror.ErrUnauthorized
	}

	user, ok := value.(*model.User)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	return user, nil
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
