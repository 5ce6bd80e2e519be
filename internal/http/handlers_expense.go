package http

import (
	"net/http"

	"walletbook/internal/log"
	"walletbook/internal/report"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseListFilter(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	OK(report.ListExpenses(s.store, filter)).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.ExpenseByID(r.PathValue("id"))
	if !ok {
		NotFoundError("expense not found").Write(w)
		return
	}
	OK(e).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	e, err := req.toExpense(s.store.Now())
	if err != nil {
		logger.WarnContext(ctx, "Rejected expense", log.FieldOperation, log.OpValidate, log.FieldError, err)
		BadRequestError(err.Error()).Write(w)
		return
	}
	if _, ok := s.store.CategoryByID(e.Category); !ok {
		BadRequestError("unknown category").Write(w)
		return
	}

	created := s.store.AddExpense(ctx, e)
	logger.InfoContext(ctx, "Expense created",
		log.FieldID, created.ID,
		log.FieldCategoryID, created.Category,
		log.FieldAmountCents, created.Amount.Cents)
	Created(created).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	current, ok := s.store.ExpenseByID(id)
	if !ok {
		NotFoundError("expense not found").Write(w)
		return
	}

	var req expensePatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	patch, err := req.toPatch(s.store.Now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if patch.Category != nil {
		if _, ok := s.store.CategoryByID(*patch.Category); !ok {
			BadRequestError("unknown category").Write(w)
			return
		}
	}
	if err := patch.Apply(current).Validate(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	updated, ok := s.store.UpdateExpense(ctx, id, patch)
	if !ok {
		NotFoundError("expense not found").Write(w)
		return
	}
	log.FromContext(ctx).InfoContext(ctx, "Expense updated", log.FieldID, id)
	OK(updated).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if !s.store.DeleteExpense(ctx, id) {
		NotFoundError("expense not found").Write(w)
		return
	}
	log.FromContext(ctx).InfoContext(ctx, "Expense deleted", log.FieldID, id)
	NoContent().Write(w)
}
