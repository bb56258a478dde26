// Package browse serves the read-only discovery endpoints: aggregate
// statistics, the semester/subject/category tree, and the distinct
// subject and category listings.
package browse

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/eduhub/internal/app/system/apiutil"
	"github.com/dalemusser/eduhub/internal/app/system/timeouts"
	"github.com/dalemusser/eduhub/internal/domain/models"
)

// Catalog is the slice of the storage facade the browse handlers use.
type Catalog interface {
	Stats(ctx context.Context) (models.Stats, string, error)
	Structure(ctx context.Context) (models.Structure, string, error)
	Subjects(ctx context.Context, semester int) ([]string, string, error)
	Categories(ctx context.Context, semester int, subject string) ([]string, string, error)
}

type Handler struct {
	Catalog Catalog
	Log     *zap.Logger
}

func NewHandler(cat Catalog, logger *zap.Logger) *Handler {
	return &Handler{Catalog: cat, Log: logger}
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	stats, source, err := h.Catalog.Stats(ctx)
	if err != nil {
		h.Log.Error("stats failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error fetching statistics")
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, apiutil.Envelope{Success: true, Data: stats, Source: source})
}

// Structure handles GET /api/structure.
func (h *Handler) Structure(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tree, source, err := h.Catalog.Structure(ctx)
	if err != nil {
		h.Log.Error("structure failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error fetching hierarchical structure")
		return
	}
	if tree == nil {
		tree = models.Structure{}
	}
	apiutil.WriteJSON(w, http.StatusOK, apiutil.Envelope{Success: true, Data: tree, Source: source})
}

// Subjects handles GET /api/semesters/{semester}/subjects.
func (h *Handler) Subjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	semester, err := strconv.Atoi(chi.URLParam(r, "semester"))
	if err != nil {
		apiutil.Fail(w, http.StatusBadRequest, "Semester must be a number")
		return
	}

	subjects, source, err := h.Catalog.Subjects(ctx, semester)
	if err != nil {
		h.Log.Error("subjects failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error fetching subjects")
		return
	}
	if subjects == nil {
		subjects = []string{}
	}
	apiutil.WriteJSON(w, http.StatusOK, apiutil.Envelope{Success: true, Data: subjects, Source: source})
}

// Categories handles GET /api/semesters/{semester}/subjects/{subject}/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	semester, err := strconv.Atoi(chi.URLParam(r, "semester"))
	if err != nil {
		apiutil.Fail(w, http.StatusBadRequest, "Semester must be a number")
		return
	}
	subject := chi.URLParam(r, "subject")

	categories, source, err := h.Catalog.Categories(ctx, semester, subject)
	if err != nil {
		h.Log.Error("categories failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error fetching categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	apiutil.WriteJSON(w, http.StatusOK, apiutil.Envelope{Success: true, Data: categories, Source: source})
}
