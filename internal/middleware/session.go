package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
)

const (
	// ClientContextKey is the gin context key holding the *SessionClient.
	ClientContextKey = "client"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
	// LoginPath is where unauthenticated requests are redirected.
	LoginPath = "/login"

	sessionIssuer = "expensetracker"
)

// SessionClient is the authenticated client carried by a session.
type SessionClient struct {
	ID       uint
	Email    string
	UserName string
}

// SessionClaims represents the claims in the session JWT
type SessionClaims struct {
	ClientID uint   `json:"client_id"`
	Email    string `json:"email"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates session cookies holding signed JWTs.
type SessionManager struct {
	secret   []byte
	duration time.Duration
	secure   bool
	now      func() time.Time
}

// NewSessionManager creates a SessionManager signing with secret.
func NewSessionManager(secret string, duration time.Duration, secureCookie bool) *SessionManager {
	return &SessionManager{
		secret:   []byte(secret),
		duration: duration,
		secure:   secureCookie,
		now:      time.Now,
	}
}

// IssueToken signs a session token for client.
func (m *SessionManager) IssueToken(client *models.Client) (string, error) {
	now := m.now()
	claims := &SessionClaims{
		ClientID: client.ID,
		Email:    client.Email,
		UserName: client.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
			Subject:   strconv.FormatUint(uint64(client.ID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken validates a session token and returns its claims.
func (m *SessionManager) ParseToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if claims.ClientID == 0 {
		return nil, fmt.Errorf("session token has no client")
	}
	return claims, nil
}

// Start issues a token for client and stores it in the session cookie.
func (m *SessionManager) Start(c *gin.Context, client *models.Client) error {
	token, err := m.IssueToken(client)
	if err != nil {
		return err
	}
	m.setCookie(c, token, int(m.duration.Seconds()))
	return nil
}

// Clear removes the session cookie.
func (m *SessionManager) Clear(c *gin.Context) {
	m.setCookie(c, "", -1)
}

func (m *SessionManager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", m.secure, true)
}

// ClientLookup loads the stored client behind a session.
type ClientLookup func(id uint) (*models.Client, error)

// Load puts the session client into the context when the request carries a
// valid session cookie. Requests without one pass through untouched.
//
// The client is re-read through lookup on every request; a client that no
// longer exists or is inactive has its cookie cleared and is treated as
// anonymous. Sessions past half their lifetime are reissued so active clients
// stay logged in while idle ones expire.
func (m *SessionManager) Load(lookup ClientLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		claims, err := m.ParseToken(cookie)
		if err != nil {
			m.Clear(c)
			c.Next()
			return
		}

		account, err := lookup(claims.ClientID)
		switch {
		case err == nil && account != nil && account.IsActive:
		case err == nil || apperrors.Is(err, apperrors.ErrClientNotFound):
			m.Clear(c)
			c.Next()
			return
		default:
			logger.Get().Errorw("session client lookup failed",
				"error", err,
				"client_id", claims.ClientID,
			)
			c.Next()
			return
		}

		if claims.ExpiresAt != nil && claims.ExpiresAt.Sub(m.now()) < m.duration/2 {
			_ = m.Start(c, account)
		}

		c.Set(ClientContextKey, &SessionClient{ID: account.ID, Email: account.Email, UserName: account.UserName})
		c.Next()
	}
}

// Require redirects to the login page unless Load found a session client.
func (m *SessionManager) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ClientFromContext(c); !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ClientFromContext returns the authenticated client set by Load.
func ClientFromContext(c *gin.Context) (*SessionClient, bool) {
	value, exists := c.Get(ClientContextKey)
	if !exists {
		return nil, false
	}
	client, ok := value.(*SessionClient)
	return client, ok && client != nil
}
