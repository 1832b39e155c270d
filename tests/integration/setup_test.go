package integration

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"expensetracker/internal/logger"
	"expensetracker/internal/middleware"
	"expensetracker/internal/models"
	"expensetracker/internal/router"
	"expensetracker/internal/services"
	"expensetracker/internal/testutil"
	"expensetracker/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Sessions *middleware.SessionManager
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	if err := services.NewCategoryService(db).EnsureDefaultCategories(); err != nil {
		t.Fatalf("failed to seed categories: %v", err)
	}

	sessions := middleware.NewSessionManager("integration-secret", time.Hour, false)
	r, err := router.New(db, router.Options{Sessions: sessions})
	if err != nil {
		t.Fatalf("failed to build router: %v", err)
	}

	return &testApp{DB: db, Router: r, Sessions: sessions}
}

// get makes a GET request carrying the given session token.
func (app *testApp) get(path, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	return app.serve(req, session)
}

// post submits a url-encoded form carrying the given session token.
func (app *testApp) post(path string, form url.Values, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return app.serve(req, session)
}

func (app *testApp) serve(req *http.Request, session string) *httptest.ResponseRecorder {
	if session != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session})
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// sessionCookie returns the session cookie set by a response, if any.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

// registerClient registers a client and returns its session token and record.
func (app *testApp) registerClient(t *testing.T, userName, email, password string) (string, *models.Client) {
	t.Helper()
	rec := app.post("/register", url.Values{
		"userName": {userName},
		"email":    {email},
		"password": {password},
	}, "")
	if rec.Code != http.StatusFound {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie after registration")
	}

	var client models.Client
	if err := app.DB.Where("email = ?", email).First(&client).Error; err != nil {
		t.Fatalf("registered client not found: %v", err)
	}
	return cookie.Value, &client
}

// login logs in and returns the session token.
func (app *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := app.post("/login", url.Values{"email": {email}, "password": {password}}, "")
	if rec.Code != http.StatusFound {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie after login")
	}
	return cookie.Value
}

// clientExpenses loads the stored expenses of a client.
func (app *testApp) clientExpenses(t *testing.T, clientID uint) []models.Expense {
	t.Helper()
	var expenses []models.Expense
	if err := app.DB.Where("client_id = ?", clientID).Order("id").Find(&expenses).Error; err != nil {
		t.Fatalf("failed to load expenses: %v", err)
	}
	return expenses
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Errorf("expected redirect to %q, got %q", location, got)
	}
}

func assertContains(t *testing.T, rec *httptest.ResponseRecorder, parts ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, p := range parts {
		if !strings.Contains(body, p) {
			t.Errorf("expected body to contain %q\nbody: %s", p, body)
		}
	}
}

func assertNotContains(t *testing.T, rec *httptest.ResponseRecorder, parts ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, p := range parts {
		if strings.Contains(body, p) {
			t.Errorf("expected body not to contain %q", p)
		}
	}
}
