package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cwiesse/horarios-api/internal/models"
)

func performWithClaims(t *testing.T, claims *models.JWTClaims, mw gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	r := gin.New()
	r.GET("/protected", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	}, mw, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	return rec
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	rec := performWithClaims(t, &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}, RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	rec := performWithClaims(t, &models.JWTClaims{UserID: "u1", Role: models.RoleTeacher}, RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	rec := performWithClaims(t, nil, RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
