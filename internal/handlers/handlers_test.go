package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/middleware"
	"expensetracker/internal/models"
	"expensetracker/internal/services"
	"expensetracker/internal/validator"
	"expensetracker/web"
)

// --- mock services ---

type mockExpenseService struct {
	saveFn                      func(input services.ExpenseInput) (*models.Expense, error)
	findAllExpensesByClientIDFn func(clientID uint) ([]models.Expense, error)
	findExpenseByIDFn           func(clientID, expenseID uint) (*models.Expense, error)
	updateFn                    func(input services.ExpenseInput) (*models.Expense, error)
	deleteExpenseByIDFn         func(clientID, expenseID uint) error
	findFilterResultFn          func(clientID uint, filter services.ExpenseFilter) ([]models.Expense, error)
}

func (m *mockExpenseService) Save(input services.ExpenseInput) (*models.Expense, error) {
	if m.saveFn != nil {
		return m.saveFn(input)
	}
	return &models.Expense{Base: models.Base{ID: 1}}, nil
}

func (m *mockExpenseService) FindAllExpensesByClientID(clientID uint) ([]models.Expense, error) {
	if m.findAllExpensesByClientIDFn != nil {
		return m.findAllExpensesByClientIDFn(clientID)
	}
	return []models.Expense{}, nil
}

func (m *mockExpenseService) FindExpenseByID(clientID, expenseID uint) (*models.Expense, error) {
	if m.findExpenseByIDFn != nil {
		return m.findExpenseByIDFn(clientID, expenseID)
	}
	return &models.Expense{Base: models.Base{ID: expenseID}, ClientID: clientID}, nil
}

func (m *mockExpenseService) Update(input services.ExpenseInput) (*models.Expense, error) {
	if m.updateFn != nil {
		return m.updateFn(input)
	}
	return &models.Expense{Base: models.Base{ID: input.ExpenseID}}, nil
}

func (m *mockExpenseService) DeleteExpenseByID(clientID, expenseID uint) error {
	if m.deleteExpenseByIDFn != nil {
		return m.deleteExpenseByIDFn(clientID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) FindFilterResult(clientID uint, filter services.ExpenseFilter) ([]models.Expense, error) {
	if m.findFilterResultFn != nil {
		return m.findFilterResultFn(clientID, filter)
	}
	return []models.Expense{}, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

type mockCategoryService struct {
	findCategoryByIDFn   func(id uint) (*models.Category, error)
	findCategoryByNameFn func(name string) (*models.Category, error)
	findAllCategoriesFn  func() ([]models.Category, error)
}

func (m *mockCategoryService) FindCategoryByID(id uint) (*models.Category, error) {
	if m.findCategoryByIDFn != nil {
		return m.findCategoryByIDFn(id)
	}
	return &models.Category{Base: models.Base{ID: id}, Name: "Food"}, nil
}

func (m *mockCategoryService) FindCategoryByName(name string) (*models.Category, error) {
	if m.findCategoryByNameFn != nil {
		return m.findCategoryByNameFn(name)
	}
	return &models.Category{Base: models.Base{ID: 1}, Name: name}, nil
}

func (m *mockCategoryService) FindAllCategories() ([]models.Category, error) {
	if m.findAllCategoriesFn != nil {
		return m.findAllCategoriesFn()
	}
	return []models.Category{
		{Base: models.Base{ID: 1}, Name: "Food"},
		{Base: models.Base{ID: 2}, Name: "Transport"},
	}, nil
}

func (m *mockCategoryService) EnsureDefaultCategories() error { return nil }

var _ services.CategoryServicer = (*mockCategoryService)(nil)

type mockClientService struct {
	registerClientFn func(userName, email, password string) (*models.Client, error)
	attemptLoginFn   func(email, password string) (*models.Client, error)
	findClientByIDFn func(id uint) (*models.Client, error)
}

func (m *mockClientService) RegisterClient(userName, email, password string) (*models.Client, error) {
	if m.registerClientFn != nil {
		return m.registerClientFn(userName, email, password)
	}
	return &models.Client{Base: models.Base{ID: 1}, UserName: userName, Email: email}, nil
}

func (m *mockClientService) AttemptLogin(email, password string) (*models.Client, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.Client{Base: models.Base{ID: 1}, Email: email}, nil
}

func (m *mockClientService) FindClientByID(id uint) (*models.Client, error) {
	if m.findClientByIDFn != nil {
		return m.findClientByIDFn(id)
	}
	return &models.Client{Base: models.Base{ID: id}}, nil
}

var _ services.ClientServicer = (*mockClientService)(nil)

type auditEntry struct {
	clientID   uint
	action     string
	resourceID uint
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(clientID uint, action, _ string, resourceID uint, _ string, _ map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{clientID: clientID, action: action, resourceID: resourceID})
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.ErrorHandler())
	return r
}

func injectClient(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClientContextKey, &middleware.SessionClient{ID: id, Email: "alice@example.com", UserName: "alice"})
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
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

func assertBodyContains(t *testing.T, rec *httptest.ResponseRecorder, parts ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, p := range parts {
		if !strings.Contains(body, p) {
			t.Errorf("expected body to contain %q\nbody: %s", p, body)
		}
	}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
