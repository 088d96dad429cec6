package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFCookieName is the cookie holding the CSRF double-submit token.
	CSRFCookieName = "csrf_token"
	// CSRFHeaderName is the request header that must echo the CSRF cookie.
	CSRFHeaderName = "X-CSRF-Token"
	// RefreshCookieName is the httpOnly cookie carrying the refresh token.
	RefreshCookieName = "refresh_token"
)

// CSRFConfig holds configuration for the CSRF middleware.
type CSRFConfig struct {
	// CookieName is the name of the CSRF token cookie.
	CookieName string
	// HeaderName is the header that must match the cookie on mutating requests.
	HeaderName string
	// AuthCookieName is the cookie whose presence marks a request as
	// cookie-authenticated. Requests authenticated with a Bearer header
	// instead are not CSRF targets and skip the check.
	AuthCookieName string
	// TokenLength is the number of random bytes in a generated token.
	TokenLength int
	// CookieMaxAge is the lifetime of the CSRF cookie in seconds.
	CookieMaxAge int
	// CookiePath restricts where the CSRF cookie is sent.
	CookiePath string
	// Secure marks the CSRF cookie as HTTPS-only.
	Secure bool
	// SkipPaths are exact request paths exempt from the check.
	SkipPaths []string
}

// DefaultCSRFConfig returns the default CSRF configuration.
func DefaultCSRFConfig() CSRFConfig {
	return CSRFConfig{
		CookieName:     CSRFCookieName,
		HeaderName:     CSRFHeaderName,
		AuthCookieName: RefreshCookieName,
		TokenLength:    32,
		CookieMaxAge:   12 * 3600,
		CookiePath:     "/",
	}
}

// CSRF returns a double-submit CSRF middleware with default configuration.
//
// Mutating requests authenticated by cookie must echo the csrf_token cookie
// in the X-CSRF-Token header. A cross-site page can make the browser attach
// cookies but cannot set custom headers or read the token, so a matching
// pair proves the request originated from the application itself. Requests
// carrying a Bearer Authorization header do not ride on ambient cookies and
// are exempt.
func CSRF() gin.HandlerFunc {
	return CSRFWithConfig(DefaultCSRFConfig())
}

// CSRFWithConfig returns a double-submit CSRF middleware with custom
// configuration.
func CSRFWithConfig(cfg CSRFConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = CSRFCookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = CSRFHeaderName
	}
	if cfg.AuthCookieName == "" {
		cfg.AuthCookieName = RefreshCookieName
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		if hasBearerToken(c) {
			c.Next()
			return
		}

		// Only requests authenticated by cookie are CSRF targets.
		if _, err := c.Cookie(cfg.AuthCookieName); err != nil {
			c.Next()
			return
		}

		cookie, err := c.Cookie(cfg.CookieName)
		if err != nil || cookie == "" {
			handleCSRFError(c, "Missing CSRF cookie")
			return
		}

		header := c.GetHeader(cfg.HeaderName)
		if header == "" {
			handleCSRFError(c, "Missing CSRF token header")
			return
		}

		if subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			handleCSRFError(c, "CSRF token mismatch")
			return
		}

		c.Next()
	}
}

// IssueCSRFToken generates a fresh CSRF token and sets it as a cookie on the
// response. The cookie is deliberately not httpOnly: double-submit requires
// the client to read the token and echo it back in a header. The token is
// also returned so the csrf endpoint can include it in the response body.
func IssueCSRFToken(c *gin.Context, cfg CSRFConfig) (string, error) {
	length := cfg.TokenLength
	if length <= 0 {
		length = 32
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	token := hex.EncodeToString(buf)

	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = CSRFCookieName
	}
	cookiePath := cfg.CookiePath
	if cookiePath == "" {
		cookiePath = "/"
	}
	maxAge := cfg.CookieMaxAge
	if maxAge <= 0 {
		maxAge = 12 * 3600
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, token, maxAge, cookiePath, "", cfg.Secure, false)

	return token, nil
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func hasBearerToken(c *gin.Context) bool {
	auth := c.GetHeader("Authorization")
	return len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ")
}

func handleCSRFError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_CSRF_INVALID",
			"message": message,
		},
	})
}
