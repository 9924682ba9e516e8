package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"artists/config"
	"artists/models"
)

type Claims struct {
	Papel string `json:"papel"`
	jwt.RegisteredClaims
}

// Init validates the JWT configuration. HMAC-SHA256 with a short secret is
// brute-forceable, so anything under 32 bytes is refused outright.
func Init() {
	if len(config.JWT_SECRET) < 32 {
		panic("JWT_SECRET must be at least 32 bytes")
	}
}

// NewAccessToken mints a short-lived signed token carrying the user id as
// subject and the role as the "papel" claim.
func NewAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Papel: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.JWT_ISSUER,
			Subject:   strconv.FormatUint(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(config.JWT_ACCESS_MINUTES) * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWT_SECRET))
}

func ParseAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.JWT_SECRET), nil
	}, jwt.WithIssuer(config.JWT_ISSUER))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (c *Claims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}
