package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// AccessClaims describes the caller an access token is minted for.
type AccessClaims struct {
	UserID    string
	Email     string
	CompanyID *string
	IsAdmin   bool
}

type Service interface {
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error) {
	if claims.UserID == "" {
		return "", 0, fmt.Errorf("user_id claim is required")
	}

	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	payload := map[string]interface{}{
		"user_id":    claims.UserID,
		"email":      claims.Email,
		"company_id": returnValueOrNil(claims.CompanyID),
		"is_admin":   claims.IsAdmin,
		"type":       "access",
		"exp":        expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(payload)
	return tokenString, expiresAt, err
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
