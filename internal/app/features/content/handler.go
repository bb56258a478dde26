// Package content serves the content CRUD endpoints, including the
// multipart upload path.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/eduhub/internal/app/store/catalog"
	"github.com/dalemusser/eduhub/internal/app/store/content"
	"github.com/dalemusser/eduhub/internal/app/system/apiutil"
	"github.com/dalemusser/eduhub/internal/app/system/sanitize"
	"github.com/dalemusser/eduhub/internal/app/system/timeouts"
	"github.com/dalemusser/eduhub/internal/app/system/uploads"
	"github.com/dalemusser/eduhub/internal/domain/models"
)

// maxFormMemory bounds how much of a multipart body is held in memory
// before spooling to disk.
const maxFormMemory = 32 << 20

// Catalog is the slice of the storage facade the handlers use.
type Catalog interface {
	List(ctx context.Context, f models.ContentFilter) ([]models.ContentRecord, string, error)
	Create(ctx context.Context, c models.ContentRecord) (models.ContentRecord, string, error)
	Update(ctx context.Context, id string, mut contentstore.UpdateFields) (models.ContentRecord, error)
	Delete(ctx context.Context, id string) (models.ContentRecord, string, error)
}

type Handler struct {
	Catalog Catalog
	Uploads *uploads.Saver
	Log     *zap.Logger
}

func NewHandler(cat Catalog, saver *uploads.Saver, logger *zap.Logger) *Handler {
	return &Handler{Catalog: cat, Uploads: saver, Log: logger}
}

// List handles GET /api/content with optional semester, subject, and
// category query filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var filter models.ContentFilter
	if raw := r.URL.Query().Get("semester"); raw != "" {
		sem, err := strconv.Atoi(raw)
		if err != nil {
			apiutil.Fail(w, http.StatusBadRequest, "Semester must be a number")
			return
		}
		filter.Semester = &sem
	}
	filter.Subject = r.URL.Query().Get("subject")
	filter.Category = r.URL.Query().Get("category")

	records, source, err := h.Catalog.List(ctx, filter)
	if err != nil {
		h.Log.Error("content list failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error fetching content")
		return
	}
	if records == nil {
		records = []models.ContentRecord{}
	}
	apiutil.List(w, records, len(records), source)
}

// contentRequest is the JSON body for POST /api/content.
type contentRequest struct {
	Semester    int    `json:"semester"`
	Subject     string `json:"subject"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Size        string `json:"size"`
	Tags        string `json:"tags"`
	Priority    string `json:"priority"`
}

// Create handles POST /api/content, adding a record without a file.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiutil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Semester == 0 || req.Subject == "" || req.Category == "" || req.Title == "" ||
		req.Description == "" || req.Type == "" || req.Size == "" {
		apiutil.Fail(w, http.StatusBadRequest,
			"Semester, subject, category, title, description, type, and size are required")
		return
	}

	created, source, err := h.Catalog.Create(ctx, h.recordFromRequest(req))
	if err != nil {
		if errors.Is(err, contentstore.ErrValidation) {
			apiutil.Error(w, http.StatusBadRequest, "Validation failed", err.Error())
			return
		}
		h.Log.Error("content create failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error adding content")
		return
	}

	msg := "Content added successfully"
	if source == catalog.SourceFallback {
		msg += " (offline mode)"
	}
	apiutil.Created(w, msg, created)
}

// Upload handles POST /api/content/upload: a multipart form carrying the
// content fields plus an optional file.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		apiutil.Fail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	form := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }

	semRaw := form("semester")
	subject := form("subject")
	category := form("category")
	title := form("title")
	description := form("description")
	if semRaw == "" || subject == "" || category == "" || title == "" || description == "" {
		apiutil.Fail(w, http.StatusBadRequest,
			"Semester, subject, category, title, and description are required")
		return
	}
	semester, err := strconv.Atoi(semRaw)
	if err != nil {
		apiutil.Fail(w, http.StatusBadRequest, "Semester must be a number")
		return
	}

	rec := h.recordFromRequest(contentRequest{
		Semester:    semester,
		Subject:     subject,
		Category:    category,
		Title:       title,
		Description: description,
		Type:        form("type"),
		Size:        form("size"),
		Tags:        form("tags"),
		Priority:    form("priority"),
	})

	var stored *uploads.Result
	if files := r.MultipartForm.File[uploads.FieldName]; len(files) > 0 {
		res, err := h.Uploads.Save(ctx, files[0], requestBaseURL(r))
		if err != nil {
			switch {
			case errors.Is(err, uploads.ErrTooLarge):
				apiutil.Fail(w, http.StatusRequestEntityTooLarge, err.Error())
			case errors.Is(err, uploads.ErrUnsupportedType):
				apiutil.Fail(w, http.StatusUnsupportedMediaType, "File type not allowed")
			default:
				h.Log.Error("upload store failed", zap.Error(err))
				apiutil.Fail(w, http.StatusInternalServerError, "Error uploading content")
			}
			return
		}
		stored = &res

		rec.FilePath = res.Path
		rec.OriginalFileName = res.OriginalFileName
		rec.FileURL = res.FileURL
		rec.Size = res.SizeLabel
		if rec.Type == "" {
			rec.Type = res.Type
		}
	}

	created, source, err := h.Catalog.Create(ctx, rec)
	if err != nil {
		if stored != nil {
			h.Uploads.Discard(ctx, stored.Path)
		}
		if errors.Is(err, contentstore.ErrValidation) {
			apiutil.Error(w, http.StatusBadRequest, "Validation failed", err.Error())
			return
		}
		h.Log.Error("content upload failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error uploading content")
		return
	}

	msg := "Content uploaded successfully"
	if source == catalog.SourceFallback {
		msg += " (offline mode)"
	}
	apiutil.Created(w, msg, created)
}

// updateRequest is the JSON body for PUT /api/content/{id}. Absent fields
// leave the stored values untouched.
type updateRequest struct {
	Semester    *int      `json:"semester"`
	Subject     *string   `json:"subject"`
	Category    *string   `json:"category"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Type        *string   `json:"type"`
	Size        *string   `json:"size"`
	Priority    *string   `json:"priority"`
	Tags        *[]string `json:"tags"`
}

// Update handles PUT /api/content/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiutil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mut := contentstore.UpdateFields{
		Semester: req.Semester,
		Type:     req.Type,
		Size:     req.Size,
		Priority: req.Priority,
	}
	mut.Subject = cleanPtr(req.Subject)
	mut.Category = req.Category
	mut.Title = cleanPtr(req.Title)
	mut.Description = cleanPtr(req.Description)
	if req.Tags != nil {
		tags := cleanTags(*req.Tags)
		mut.Tags = &tags
	}

	updated, err := h.Catalog.Update(ctx, chi.URLParam(r, "id"), mut)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			apiutil.Fail(w, http.StatusNotFound, "Content not found")
		case errors.Is(err, contentstore.ErrValidation):
			apiutil.Error(w, http.StatusBadRequest, "Validation failed", err.Error())
		default:
			h.Log.Error("content update failed", zap.Error(err))
			apiutil.Fail(w, http.StatusInternalServerError, "Error updating content")
		}
		return
	}
	apiutil.OK(w, "Content updated successfully", updated)
}

// Delete handles DELETE /api/content/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, source, err := h.Catalog.Delete(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			apiutil.Fail(w, http.StatusNotFound, "Content not found in storage")
			return
		}
		h.Log.Error("content delete failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error deleting content")
		return
	}

	msg := "Content deleted successfully"
	if source == catalog.SourceFallback {
		msg += " (offline mode)"
	}
	apiutil.OK(w, msg, deleted)
}

// recordFromRequest maps a request body onto a record, sanitizing the
// free-text fields.
func (h *Handler) recordFromRequest(req contentRequest) models.ContentRecord {
	return models.ContentRecord{
		Semester:    req.Semester,
		Subject:     sanitize.Text(req.Subject),
		Category:    strings.TrimSpace(req.Category),
		Title:       sanitize.Text(req.Title),
		Description: sanitize.Text(req.Description),
		Type:        strings.TrimSpace(req.Type),
		Size:        strings.TrimSpace(req.Size),
		Tags:        splitTags(req.Tags),
		Priority:    strings.TrimSpace(req.Priority),
	}
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return cleanTags(strings.Split(raw, ","))
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = sanitize.Text(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// requestBaseURL reconstructs the scheme and host the client used, so
// stored file links come back absolute.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func cleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitize.Text(*s)
	return &v
}
