package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identify the caller. Tokens are issued by the external auth
// provider; this service only verifies them.
type Claims struct {
	UserID         uuid.UUID `json:"userId"`
	Email          string    `json:"email"`
	OrganisationID uuid.UUID `json:"organisationId"`
	jwt.RegisteredClaims
}

var errInvalidClaims = errors.New("invalid token claims")

// GenerateToken mints a token for local development and tests.
func GenerateToken(secret string, userID, organisationID uuid.UUID, email string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:         userID,
		Email:          email,
		OrganisationID: organisationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, errInvalidClaims
	}
	return claims, nil
}

// BearerToken returns the token of a "Bearer <token>" header, or "".
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}
	return tokenString
}

func Protected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		tokenString := BearerToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization format",
			})
		}

		claims, err := ParseToken(secret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		SetIdentity(c, claims)
		return c.Next()
	}
}

// SetIdentity stores the caller in the request locals.
func SetIdentity(c *fiber.Ctx, claims *Claims) {
	c.Locals("userId", claims.UserID)
	c.Locals("organisationId", claims.OrganisationID)
	c.Locals("email", claims.Email)
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) uuid.UUID {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

func GetOrganisationID(c *fiber.Ctx) uuid.UUID {
	orgID, ok := c.Locals("organisationId").(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return orgID
}
