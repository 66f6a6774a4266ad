package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk-backend/models"
	"roomdesk-backend/utils"
)

var testSecret = []byte("test-secret")

func siteRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/sites/:siteID", RequireAuth(testSecret), RequireSiteAccess())
	grp.GET("/resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"site": SiteID(c), "actor": ActorName(c)})
	})
	return r
}

func getAuthed(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func staffToken(t *testing.T, role string, siteID uint) string {
	t.Helper()
	token, err := utils.GenerateToken(testSecret, time.Hour, time.Now(), 7, "demo_ad", role, &siteID)
	require.NoError(t, err)
	return token
}

func ownerToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateToken(testSecret, time.Hour, time.Now(), 1, "owner", models.RoleOwner, nil)
	require.NoError(t, err)
	return token
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	w := getAuthed(siteRouter(), "/sites/3/resource", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_token")
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	w := getAuthed(siteRouter(), "/sites/3/resource", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_token")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	siteID := uint(3)
	token, err := utils.GenerateToken(testSecret, time.Hour, time.Now().Add(-2*time.Hour), 7, "demo_ad", models.RoleAdmin, &siteID)
	require.NoError(t, err)

	w := getAuthed(siteRouter(), "/sites/3/resource", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_StaffTokenWithoutSite(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, time.Hour, time.Now(), 7, "demo_ad", models.RoleAdmin, nil)
	require.NoError(t, err)

	w := getAuthed(siteRouter(), "/sites/3/resource", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no site")
}

func TestRequireSiteAccess_MatchingTenant(t *testing.T) {
	w := getAuthed(siteRouter(), "/sites/3/resource", staffToken(t, models.RoleAdmin, 3))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"site":3`)
	assert.Contains(t, w.Body.String(), `"actor":"demo_ad"`)
}

func TestRequireSiteAccess_CrossTenantForbidden(t *testing.T) {
	w := getAuthed(siteRouter(), "/sites/4/resource", staffToken(t, models.RoleAdmin, 3))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "forbidden")
}

func TestRequireSiteAccess_OwnerPassesAnySite(t *testing.T) {
	w := getAuthed(siteRouter(), "/sites/9/resource", ownerToken(t))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"site":9`)
}

func TestRequireSiteAccess_BadSiteParam(t *testing.T) {
	w := getAuthed(siteRouter(), "/sites/abc/resource", staffToken(t, models.RoleAdmin, 3))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_site_id")
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireAuth(testSecret), RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := getAuthed(r, "/admin", staffToken(t, models.RoleStaff, 3))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = getAuthed(r, "/admin", staffToken(t, models.RoleAdmin, 3))
	assert.Equal(t, http.StatusOK, w.Code)

	w = getAuthed(r, "/admin", ownerToken(t))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/owner", RequireAuth(testSecret), RequireOwner(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := getAuthed(r, "/owner", staffToken(t, models.RoleAdmin, 3))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = getAuthed(r, "/owner", ownerToken(t))
	assert.Equal(t, http.StatusOK, w.Code)
}
