package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"registration/internal/payment"
	"registration/internal/registration"
	"registration/internal/user"
)

// Error kinds carried in the response envelope. Business failures and
// transport failures share one shape; the kind names the failure, the HTTP
// status stays conventional.
const (
	kindInvalid  = "invalid"
	kindConflict = "conflict"
	kindNotFound = "not_found"
	kindUpstream = "upstream"
	kindInternal = "internal"
)

func fail(c *gin.Context, status int, kind, message string, extra gin.H) {
	body := gin.H{"success": false, "kind": kind, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// writeError maps domain errors onto the envelope once, so handlers stay
// uniform.
func writeError(c *gin.Context, err error) {
	var dup *registration.DuplicatePhoneError
	var provErr *payment.ProviderError

	switch {
	case errors.As(err, &dup):
		fail(c, http.StatusConflict, kindConflict, "phone number already registered", gin.H{
			"existing": "/participant/" + dup.Existing.ID,
		})
	case errors.Is(err, registration.ErrNotFound):
		fail(c, http.StatusNotFound, kindNotFound, "participant not found", nil)
	case errors.Is(err, user.ErrNotFound):
		fail(c, http.StatusNotFound, kindNotFound, "user not found", nil)
	case errors.Is(err, payment.ErrAlreadyPaid):
		fail(c, http.StatusConflict, kindConflict, "participant already paid", nil)
	case errors.Is(err, registration.ErrIDSpaceExhausted):
		fail(c, http.StatusInternalServerError, kindInternal, err.Error(), nil)
	case errors.As(err, &provErr):
		fail(c, http.StatusBadGateway, kindUpstream, provErr.Message, nil)
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		fail(c, http.StatusInternalServerError, kindInternal, "internal error", nil)
	}
}

// requestScheme resolves the request's own scheme, honoring the proxy
// header when present.
func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
