package http

import (
	"net/http"

	"walletbook/internal/core"
	"walletbook/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	OK(s.store.Categories()).Write(w)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := s.store.CategoryByID(r.PathValue("id"))
	if !ok {
		NotFoundError("category not found").Write(w)
		return
	}
	OK(c).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	c, err := req.toCategory(len(s.store.Categories()))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	created := s.store.AddCategory(ctx, c)
	log.FromContext(ctx).InfoContext(ctx, "Category created",
		log.FieldID, created.ID,
		log.FieldAmountCents, created.Budget.Cents)
	Created(created).Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if _, ok := s.store.CategoryByID(id); !ok {
		NotFoundError("category not found").Write(w)
		return
	}

	var patch core.CategoryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	patch = sanitizeCategoryPatch(patch)
	if err := patch.Validate(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	updated, ok := s.store.UpdateCategory(ctx, id, patch)
	if !ok {
		NotFoundError("category not found").Write(w)
		return
	}
	log.FromContext(ctx).InfoContext(ctx, "Category updated", log.FieldID, id)
	OK(updated).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if !s.store.DeleteCategory(ctx, id) {
		NotFoundError("category not found").Write(w)
		return
	}
	log.FromContext(ctx).InfoContext(ctx, "Category deleted with its expenses", log.FieldID, id)
	NoContent().Write(w)
}

func (s *Server) handleReorderCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	ordered, err := req.reorder(s.store.Categories())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	s.store.ReorderCategories(ctx, ordered)
	log.FromContext(ctx).InfoContext(ctx, "Categories reordered", log.FieldOperation, log.OpReorder)
	OK(s.store.Categories()).Write(w)
}
