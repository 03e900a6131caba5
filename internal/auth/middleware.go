package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/studentlearn/internal/entities"
)

// contextUserKey is where middleware stores the resolved account.
const contextUserKey = "currentUser"

// RequireUser validates the Authorization bearer token and stores the
// resolved user on the request context. Requests without a valid token are
// rejected with 401.
func RequireUser(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Not authenticated")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Invalid authorization header")
			return
		}

		user, err := service.ResolveToken(parts[1])
		if err != nil {
			switch err {
			case ErrTokenExpired:
				abortUnauthorized(c, "Token expired")
			case ErrAccountDeactivated:
				abortUnauthorized(c, "Account is deactivated")
			default:
				abortUnauthorized(c, "Could not validate credentials")
			}
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireAdmin rejects requests whose resolved user is not an admin. Must
// run after RequireUser.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c, "Not authenticated")
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Admin privileges required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user for the request, or nil when
// no auth middleware ran.
func CurrentUser(c *gin.Context) *entities.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*entities.User)
	if !ok {
		return nil
	}
	return user
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
