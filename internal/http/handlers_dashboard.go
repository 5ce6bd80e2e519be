package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"walletbook/internal/core"
	"walletbook/internal/log"
	"walletbook/internal/report"
)

const recentExpensesLimit = 5

// Summary is the wallet card plus the month's overall figures.
type Summary struct {
	Wallet        report.WalletSummary `json:"wallet"`
	Categories    int                  `json:"categories"`
	Expenses      int                  `json:"expenses"`
	Uncategorized core.Money           `json:"uncategorized"`
}

// Dashboard is everything the landing view shows.
type Dashboard struct {
	Wallet   report.WalletSummary   `json:"wallet"`
	Overview []report.CategoryUsage `json:"overview"`
	Recent   []report.ExpenseView   `json:"recent"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	wallet := report.Wallet(s.store)

	categorized := core.Money{}
	for _, c := range s.store.Categories() {
		categorized = categorized.Add(s.store.CategorySpent(c.ID))
	}

	OK(Summary{
		Wallet:        wallet,
		Categories:    len(s.store.Categories()),
		Expenses:      len(s.store.Expenses()),
		Uncategorized: wallet.Spent.Sub(categorized),
	}).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	limit := report.DefaultOverviewLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			BadRequestError(fmt.Sprintf("invalid limit %q", v)).Write(w)
			return
		}
		limit = n
	}

	OK(Dashboard{
		Wallet:   report.Wallet(s.store),
		Overview: report.BudgetOverview(s.store, limit),
		Recent:   report.RecentExpenses(s.store, recentExpensesLimit),
	}).Write(w)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	rng, err := report.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	OK(report.Analytics(s.store, rng, s.store.Now())).Write(w)
}

func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	OK(report.UpcomingRecurring(s.store, s.store.Now())).Write(w)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, s.store); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "CSV export failed", log.FieldError, err)
		InternalServerError("export failed").Write(w)
		return
	}

	filename := fmt.Sprintf("walletbook-%s.csv", s.store.CurrentMonth())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
