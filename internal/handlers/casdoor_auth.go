package handlers

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/quizlab/quiz-service/internal/config"
	"github.com/quizlab/quiz-service/internal/models"
)

const principalContextKey = "principal"

// CasdoorAuthMiddleware validates bearer tokens against Casdoor and
// turns the claims into the explicit principal the services consume.
type CasdoorAuthMiddleware struct {
	client *casdoorsdk.Client
	config config.CasdoorConfig
}

func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Application,
		cfg.Organization,
	)

	return &CasdoorAuthMiddleware{client: client, config: cfg}
}

// AuthMiddleware requires a valid bearer token on every request.
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header missing or malformed"})
			c.Abort()
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid token"})
			c.Abort()
			return
		}

		principal := principalFromClaims(claims)
		if !principal.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Token carries no usable identity"})
			c.Abort()
			return
		}

		c.Set(principalContextKey, principal)
		c.Next()
	}
}

// RequireRoleMiddleware gates a route on the principal's role. Admins
// pass wherever teachers do.
func (cam *CasdoorAuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipalFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
			if role == models.RoleTeacher && principal.IsTeacher() {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient role"})
		c.Abort()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func principalFromClaims(claims *casdoorsdk.Claims) models.Principal {
	return models.Principal{
		UserID:   claims.Id,
		Username: claims.Name,
		Role:     models.ParseRole(claims.User.Type),
	}
}

// GetPrincipalFromContext extracts the authenticated principal set by
// the auth middleware.
func GetPrincipalFromContext(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(principalContextKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := value.(models.Principal)
	return principal, ok
}
