package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const accessTokenType = "access"

var ErrInvalidToken = errors.New("invalid or expired token")

type Service interface {
	GenerateAccessToken(subject string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken issues an HS256 access token for an operator or a
// dashboard client identified by subject.
func (j *JWTService) GenerateAccessToken(subject string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		jwt.SubjectKey: subject,
		"type":         accessTokenType,
		"exp":          expiresAt,
	})
	return tokenString, expiresAt, err
}

// IsAccessToken reports whether the verified token carries the access type claim.
func IsAccessToken(token jwt.Token) bool {
	if token == nil {
		return false
	}
	v, ok := token.Get("type")
	if !ok {
		return false
	}
	tokenType, ok := v.(string)
	return ok && tokenType == accessTokenType
}

// Subject returns the sub claim of the token verified for this request.
func Subject(ctx context.Context) string {
	token, _, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return ""
	}
	return token.Subject()
}
