package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/auth/application"
	"github.com/wyfcoding/storefront/internal/auth/infrastructure/persistence/mysql"
	"github.com/wyfcoding/storefront/internal/auth/infrastructure/persistence/redis"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/db/dbtest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSession = config.SessionConfig{
	CookieName:     "sessionid",
	CartCookieName: "cart_session",
	TTL:            24 * time.Hour,
	RememberTTL:    14 * 24 * time.Hour,
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	conn := dbtest.New(t, mysql.Models()...)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	app := application.NewAuthService(
		mysql.NewUserRepository(conn),
		redis.NewSessionRedisRepository(client),
		nil,
		nil,
		application.SessionPolicy{TTL: testSession.TTL, RememberTTL: testSession.RememberTTL},
	)
	ctx := context.Background()
	_, err := app.CreateUser(ctx, application.CreateUserCommand{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, app.EnsureStaff(ctx, "admin", "admin@example.com", "admin-pw"))

	r := gin.New()
	r.Use(LoadIdentity(app, testSession.CookieName))
	h := NewHandler(app, testSession)
	h.RegisterRoutes(r)
	h.RegisterPanelRoutes(r)
	r.GET("/me", RequireLogin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c)})
	})
	r.GET("/panel", RequireStaff(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).Username})
	})
	return r
}

func do(r *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginFlow(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/login", `{"username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	session := cookie(w, "sessionid")
	require.NotNil(t, session)
	assert.Zero(t, session.MaxAge)
	assert.True(t, session.HttpOnly)

	w = do(r, http.MethodGet, "/me", "", session)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/logout", "", session, &http.Cookie{Name: "cart_session", Value: "abc"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -1, cookie(w, "sessionid").MaxAge)
	assert.Equal(t, -1, cookie(w, "cart_session").MaxAge)

	w = do(r, http.MethodGet, "/me", "", session)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRememberMe(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/login", `{"username":"alice@example.com","password":"pw","remember":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int((14 * 24 * time.Hour).Seconds()), cookie(w, "sessionid").MaxAge)
}

func TestLoginFailures(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid username or password")
	assert.Nil(t, cookie(w, "sessionid"))

	w = do(r, http.MethodPost, "/login", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPanelAccess(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/panel", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/panel/login", `{"username":"alice","password":"pw"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/login", `{"username":"alice","password":"pw"}`)
	customer := cookie(w, "sessionid")
	w = do(r, http.MethodGet, "/panel", "", customer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPost, "/panel/login", `{"username":"admin","password":"admin-pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, "/panel", "", cookie(w, "sessionid"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"admin"`)
}

func TestUnknownSessionIsAnonymous(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/me", "", &http.Cookie{Name: "sessionid", Value: "stale"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
