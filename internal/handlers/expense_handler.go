package handlers

import (
	"net/http"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/money"
	"expensetracker/internal/presenter"
	"expensetracker/internal/services"
)

// Page templates rendered by ExpenseHandler.
const (
	landingPage      = "landing-page.html"
	addExpensePage   = "add-expense.html"
	listPage         = "list-page.html"
	updatePage       = "update-page.html"
	filterResultPage = "filter-result.html"
)

const listPath = "/list"

// ExpenseHandler handles the expense pages of a logged-in client.
type ExpenseHandler struct {
	expenseService  services.ExpenseServicer
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, categoryService services.CategoryServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService:  expenseService,
		categoryService: categoryService,
		auditService:    auditService,
	}
}

// ExpenseForm is the add/update expense form. Amount is the decimal text
// as entered ("12.50"). ClientID is bound so a posted value can be observed,
// but it is always replaced by the session client.
type ExpenseForm struct {
	Amount      string `form:"amount" binding:"required,money_amount"`
	Description string `form:"description" binding:"max=255"`
	DateTime    string `form:"dateTime" binding:"required,iso_datetime"`
	Category    string `form:"category" binding:"category_name"`
	ClientID    uint   `form:"clientId"`
}

func (f ExpenseForm) toInput(expenseID uint) (services.ExpenseInput, error) {
	cents, err := money.ParseCents(f.Amount)
	if err != nil {
		return services.ExpenseInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid amount: "+err.Error())
	}
	return services.ExpenseInput{
		ExpenseID:   expenseID,
		ClientID:    f.ClientID,
		Amount:      cents,
		Description: f.Description,
		DateTime:    strings.TrimSpace(f.DateTime),
		Category:    strings.TrimSpace(f.Category),
	}, nil
}

// FilterForm is the expense filter form. Fields are kept as strings so an
// empty input means "not set" rather than zero.
type FilterForm struct {
	Category  string `form:"category"`
	MinAmount string `form:"minAmount"`
	MaxAmount string `form:"maxAmount"`
	FromDate  string `form:"fromDate"`
	ToDate    string `form:"toDate"`
	Year      string `form:"year"`
	Month     string `form:"month"`
}

func (f FilterForm) toFilter() (services.ExpenseFilter, error) {
	filter := services.ExpenseFilter{
		Category: strings.TrimSpace(f.Category),
		FromDate: strings.TrimSpace(f.FromDate),
		ToDate:   strings.TrimSpace(f.ToDate),
	}

	var err error
	if filter.MinAmount, err = parseOptionalAmount(f.MinAmount, "minAmount"); err != nil {
		return filter, err
	}
	if filter.MaxAmount, err = parseOptionalAmount(f.MaxAmount, "maxAmount"); err != nil {
		return filter, err
	}
	if filter.Year, err = parseOptionalInt(f.Year, "year"); err != nil {
		return filter, err
	}
	if filter.Year < 0 {
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year")
	}
	if filter.Month, err = parseOptionalInt(f.Month, "month"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseOptionalAmount(raw, field string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	cents, err := money.ParseCents(raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Invalid %s: %v", field, err))
	}
	return &cents, nil
}

func parseOptionalInt(raw, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+field)
	}
	return v, nil
}

// Landing renders the start page of the logged-in client.
func (h *ExpenseHandler) Landing(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, landingPage, "Home", gin.H{"sessionClient": client})
}

// ShowAdd renders an empty add-expense form.
func (h *ExpenseHandler) ShowAdd(c *gin.Context) {
	if _, ok := requireClient(c); !ok {
		return
	}
	h.renderExpenseForm(c, http.StatusOK, addExpensePage, ExpenseForm{}, 0, "")
}

// SubmitAdd saves a new expense for the session client and redirects to the list.
func (h *ExpenseHandler) SubmitAdd(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}

	var form ExpenseForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderExpenseForm(c, http.StatusBadRequest, addExpensePage, form, 0, bindingMessage(err))
		return
	}
	form.ClientID = client.ID

	input, err := form.toInput(0)
	if err != nil {
		h.renderExpenseForm(c, http.StatusBadRequest, addExpensePage, form, 0, errorMessage(err))
		return
	}

	expense, err := h.expenseService.Save(input)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidInput) {
			h.renderExpenseForm(c, http.StatusBadRequest, addExpensePage, form, 0, errorMessage(err))
			return
		}
		respondWithError(c, err)
		return
	}

	h.auditService.Log(client.ID, services.AuditCreateExpense, services.ResourceExpense, expense.ID, c.ClientIP(),
		map[string]interface{}{"amount_cents": expense.Amount, "category": form.Category})

	redirect(c, listPath)
}

// List renders every expense of the session client.
func (h *ExpenseHandler) List(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}

	expenses, err := h.expenseService.FindAllExpensesByClientID(client.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.FindAllCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows := presenter.BuildExpenseRows(expenses, h.categoryService.FindCategoryByID)
	render(c, http.StatusOK, listPage, "Expenses", gin.H{
		"expenseList": rows,
		"filter":      FilterForm{},
		"categories":  categories,
		"total":       money.Format(presenter.Total(rows)),
		"editable":    true,
	})
}

// ShowUpdate renders the update form pre-filled with an existing expense.
// Unknown expenses redirect to the list.
func (h *ExpenseHandler) ShowUpdate(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}

	expenseID, err := parseExpenseID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.FindExpenseByID(client.ID, expenseID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrExpenseNotFound) {
			redirect(c, listPath)
			return
		}
		respondWithError(c, err)
		return
	}

	form := ExpenseForm{
		Amount:      money.Format(expense.Amount),
		Description: expense.Description,
		DateTime:    expense.DateTime,
	}
	if expense.CategoryID != nil {
		if category, err := h.categoryService.FindCategoryByID(*expense.CategoryID); err == nil {
			form.Category = category.Name
		}
	}

	h.renderExpenseForm(c, http.StatusOK, updatePage, form, expense.ID, "")
}

// SubmitUpdate updates an expense of the session client and redirects to the list.
func (h *ExpenseHandler) SubmitUpdate(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}

	expenseID, err := parseExpenseID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var form ExpenseForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderExpenseForm(c, http.StatusBadRequest, updatePage, form, expenseID, bindingMessage(err))
		return
	}
	form.ClientID = client.ID

	input, err := form.toInput(expenseID)
	if err != nil {
		h.renderExpenseForm(c, http.StatusBadRequest, updatePage, form, expenseID, errorMessage(err))
		return
	}

	expense, err := h.expenseService.Update(input)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrExpenseNotFound):
			redirect(c, listPath)
		case apperrors.Is(err, apperrors.ErrInvalidInput):
			h.renderExpenseForm(c, http.StatusBadRequest, updatePage, form, expenseID, errorMessage(err))
		default:
			respondWithError(c, err)
		}
		return
	}

	h.auditService.Log(client.ID, services.AuditUpdateExpense, services.ResourceExpense, expense.ID, c.ClientIP(),
		map[string]interface{}{"amount_cents": expense.Amount, "category": form.Category, "date_time": expense.DateTime})

	redirect(c, listPath)
}

// Delete removes an expense of the session client and redirects to the list.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}

	expenseID, err := parseExpenseID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpenseByID(client.ID, expenseID); err != nil {
		if apperrors.Is(err, apperrors.ErrExpenseNotFound) {
			redirect(c, listPath)
			return
		}
		respondWithError(c, err)
		return
	}

	h.auditService.Log(client.ID, services.AuditDeleteExpense, services.ResourceExpense, expenseID, c.ClientIP(), nil)

	redirect(c, listPath)
}

// ProcessFilter renders the session client's expenses matching the filter form.
func (h *ExpenseHandler) ProcessFilter(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}

	var form FilterForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderFilterResult(c, http.StatusBadRequest, form, nil, bindingMessage(err))
		return
	}

	filter, err := form.toFilter()
	if err != nil {
		h.renderFilterResult(c, http.StatusBadRequest, form, nil, errorMessage(err))
		return
	}

	expenses, err := h.expenseService.FindFilterResult(client.ID, filter)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidInput) {
			h.renderFilterResult(c, http.StatusBadRequest, form, nil, errorMessage(err))
			return
		}
		respondWithError(c, err)
		return
	}

	rows := presenter.BuildExpenseRows(expenses, h.categoryService.FindCategoryByID)
	h.renderFilterResult(c, http.StatusOK, form, rows, "")
}

func (h *ExpenseHandler) renderExpenseForm(c *gin.Context, status int, page string, form ExpenseForm, expenseID uint, errMsg string) {
	categories, err := h.categoryService.FindAllCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	title := "Add expense"
	if page == updatePage {
		title = "Update expense"
	}

	data := gin.H{
		"expense":    form,
		"categories": categories,
	}
	if expenseID != 0 {
		data["expenseId"] = expenseID
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	render(c, status, page, title, data)
}

func (h *ExpenseHandler) renderFilterResult(c *gin.Context, status int, form FilterForm, rows []presenter.ExpenseRow, errMsg string) {
	if rows == nil {
		rows = []presenter.ExpenseRow{}
	}
	data := gin.H{
		"expenseList": rows,
		"filter":      form,
		"total":       money.Format(presenter.Total(rows)),
		"editable":    true,
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	render(c, status, filterResultPage, "Filtered expenses", data)
}
