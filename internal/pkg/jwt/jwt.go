package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess = "access"
	TokenTypeStream = "stream"
)

// ClaimViewerID identifies who is looking at the page.
const ClaimViewerID = "viewer_id"

const (
	acceptableSkew       = 30 * time.Second
	streamTokenExpiresIn = 5 * time.Minute
)

type Service interface {
	GenerateAccessToken(viewerID string) (token string, expiresAt int64, err error)
	GenerateStreamToken(viewerID string) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (viewerID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(acceptableSkew)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(viewerID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		ClaimViewerID: viewerID,
		"type":        TokenTypeAccess,
		"iat":         j.now().Unix(),
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateStreamToken generates a short-lived token for the page stream, which is
// opened with the token in the query string.
func (j *JWTService) GenerateStreamToken(viewerID string) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(streamTokenExpiresIn).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		ClaimViewerID: viewerID,
		"type":        TokenTypeStream,
		"exp":         expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(streamTokenExpiresIn.Seconds()), nil
}

// ValidateStreamToken validates a stream token and returns the viewer id
func (j *JWTService) ValidateStreamToken(tokenString string) (viewerID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}
	if err := jwt.Validate(token, jwt.WithClock(jwt.ClockFunc(j.now)), jwt.WithAcceptableSkew(acceptableSkew)); err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeStream {
		return "", jwt.ErrInvalidJWT()
	}

	viewerIDVal, ok := token.Get(ClaimViewerID)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	viewerID, ok = viewerIDVal.(string)
	if !ok || viewerID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return viewerID, nil
}
