package http

import (
	"encoding/json"
	"fmt"
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
	authapp "github.com/wyfcoding/storefront/internal/auth/application"
	authmysql "github.com/wyfcoding/storefront/internal/auth/infrastructure/persistence/mysql"
	authredis "github.com/wyfcoding/storefront/internal/auth/infrastructure/persistence/redis"
	authhttp "github.com/wyfcoding/storefront/internal/auth/interfaces/http"
	"github.com/wyfcoding/storefront/internal/customer/application"
	"github.com/wyfcoding/storefront/internal/customer/infrastructure/persistence/mysql"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/db/dbtest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	conn := dbtest.New(t, append(authmysql.Models(), mysql.Models()...)...)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	session := config.SessionConfig{CookieName: "sessionid", CartCookieName: "cart_session", TTL: time.Hour, RememberTTL: 24 * time.Hour}
	auth := authapp.NewAuthService(
		authmysql.NewUserRepository(conn),
		authredis.NewSessionRedisRepository(client),
		nil,
		nil,
		authapp.SessionPolicy{TTL: session.TTL, RememberTTL: session.RememberTTL},
	)
	app := application.NewCustomerService(application.Repositories{
		Groups:    mysql.NewGroupRepository(conn),
		Customers: mysql.NewCustomerRepository(conn),
		Addresses: mysql.NewAddressRepository(conn),
	}, auth, nil, nil)

	r := gin.New()
	r.Use(authhttp.LoadIdentity(auth, session.CookieName))
	NewHandler(app, authhttp.NewHandler(auth, session).SignIn).RegisterRoutes(r)
	return r
}

func do(r *gin.Engine, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	method := http.MethodPost
	if body == "" && !strings.Contains(path, "delete") && !strings.Contains(path, "default") {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const registerBody = `{"username":"ada","email":"ada@example.com","password1":"correct-horse","password2":"correct-horse","title":"SRA","first_name":"Ada","last_name":"Lovelace"}`

func register(t *testing.T, r *gin.Engine) *http.Cookie {
	t.Helper()
	w := do(r, "/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == "sessionid" {
			return c
		}
	}
	t.Fatal("no session cookie after registration")
	return nil
}

func TestRegisterAndProfile(t *testing.T) {
	r := newTestRouter(t)
	session := register(t, r)

	w := do(r, "/profile", "", session)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Profile struct {
			Customer struct {
				Email string `json:"email"`
				Title string `json:"title"`
			} `json:"customer"`
		} `json:"profile"`
		Titles []map[string]string `json:"titles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ada@example.com", body.Profile.Customer.Email)
	assert.Equal(t, "SRA", body.Profile.Customer.Title)
	assert.Len(t, body.Titles, 5)

	w = do(r, "/profile", `{"title":"DRA","name":"Augusta","surname":"King"}`, session)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Augusta"`)

	w = do(r, "/register", registerBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, "/register", `{"username":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileRequiresLogin(t *testing.T) {
	r := newTestRouter(t)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/profile", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/profile/addresses/1/default", "").Code)
}

func TestAddressRoutes(t *testing.T) {
	r := newTestRouter(t)
	session := register(t, r)

	addr := `{"name":"Ada","surname":"Lovelace","street":"%s","postal_code":"08001","city":"Barcelona","country":"Spain"}`
	ids := make([]uint, 0, 2)
	for _, street := range []string{"Carrer 1", "Carrer 2"} {
		w := do(r, "/profile/addresses", fmt.Sprintf(addr, street), session)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var resp struct {
			Address struct {
				ID uint `json:"id"`
			} `json:"address"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		ids = append(ids, resp.Address.ID)
	}

	w := do(r, fmt.Sprintf("/profile/addresses/%d/default", ids[1]), "", session)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, fmt.Sprintf("/profile/addresses/%d", ids[0]), fmt.Sprintf(addr, "Carrer Nou"), session)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Carrer Nou")

	w = do(r, "/profile/addresses", `{"name":"Ada"}`, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, fmt.Sprintf("/profile/addresses/%d/delete", ids[0]), "", session)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, fmt.Sprintf("/profile/addresses/%d/delete", ids[0]), "", session)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(r, "/profile/addresses/abc/default", "", session)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
