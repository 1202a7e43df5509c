package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"golang.org/x/xerrors"
)

const SubjectKey = "subject"

var ErrInvalidToken = errors.New("invalid token")

// Verifier checks a bearer token and returns the caller's subject.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// StaticVerifier accepts exactly one shared token.
type StaticVerifier struct {
	Token string
}

func (v StaticVerifier) Verify(_ context.Context, token string) (string, error) {
	if v.Token == "" || subtle.ConstantTimeCompare([]byte(v.Token), []byte(token)) != 1 {
		return "", ErrInvalidToken
	}
	return "static", nil
}

// FirebaseVerifier accepts Firebase ID tokens.
type FirebaseVerifier struct {
	client *firebaseauth.Client
}

func NewFirebaseVerifier(ctx context.Context, app *firebase.App) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to initialize Firebase Auth: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	idToken, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", xerrors.Errorf("verify id token: %v: %w", err, ErrInvalidToken)
	}
	return idToken.UID, nil
}

func AuthMiddleware(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a bearer token"})
			return
		}

		subject, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(SubjectKey, subject)
		c.Next()
	}
}
