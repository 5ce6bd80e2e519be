package http

import (
	"net/http"

	"walletbook/internal/log"
	"walletbook/internal/report"
)

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	OK(s.store.Budget()).Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req budgetSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	updated := s.store.UpdateBudget(ctx, patch)
	log.FromContext(ctx).InfoContext(ctx, "Budget updated", log.FieldMonth, updated.Month)
	OK(updated).Write(w)
}

func (s *Server) handleUpdateCategoryBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req allocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	amount, err := req.amount()
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	if !s.store.UpdateCategoryBudget(ctx, id, amount) {
		NotFoundError("category not found").Write(w)
		return
	}
	log.FromContext(ctx).InfoContext(ctx, "Category allocation updated",
		log.FieldCategoryID, id,
		log.FieldAmountCents, amount.Cents)
	OK(s.store.Budget()).Write(w)
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	OK(report.BudgetStatus(s.store)).Write(w)
}
