// Package adminauth serves the admin account endpoints: one-time setup,
// login, and token verification.
package adminauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/eduhub/internal/app/store/admins"
	"github.com/dalemusser/eduhub/internal/app/system/apiutil"
	"github.com/dalemusser/eduhub/internal/app/system/auth"
	"github.com/dalemusser/eduhub/internal/app/system/timeouts"
	"github.com/dalemusser/eduhub/internal/domain/models"
)

// Accounts is the slice of the admin store the handlers need. It is an
// interface so tests can run without a database.
type Accounts interface {
	First(ctx context.Context) (*models.Admin, error)
	CreateIfNone(ctx context.Context, username, email, password string) (models.Admin, error)
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
}

type Handler struct {
	Accounts Accounts
	Tokens   *auth.Manager
	Log      *zap.Logger
}

func NewHandler(accounts Accounts, tokens *auth.Manager, logger *zap.Logger) *Handler {
	return &Handler{Accounts: accounts, Tokens: tokens, Log: logger}
}

// adminPayload is the public view of an admin account.
type adminPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// authResponse mirrors the envelope but carries the token and admin at the
// top level, where clients have always looked for them.
type authResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Token   string        `json:"token,omitempty"`
	Admin   *adminPayload `json:"admin,omitempty"`
}

func writeAuth(w http.ResponseWriter, status int, resp authResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// Setup handles POST /api/admin/setup. Registration is a one-time step:
// once an account exists the endpoint reports it instead of creating
// another.
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	existing, err := h.Accounts.First(ctx)
	if err == nil {
		writeAuth(w, http.StatusOK, authResponse{
			Success: true,
			Message: "Admin account already exists",
			Admin:   &adminPayload{ID: existing.ID.Hex(), Username: existing.Username, Email: existing.Email},
		})
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Error("admin setup: lookup failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error creating admin account")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" || req.Email == "" {
		apiutil.Fail(w, http.StatusBadRequest, "Username, password, and email are required")
		return
	}

	admin, err := h.Accounts.CreateIfNone(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, adminstore.ErrAlreadyExists) {
			// Lost a race with another setup request.
			apiutil.Fail(w, http.StatusConflict, "Admin account already exists")
			return
		}
		h.Log.Error("admin setup: create failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error creating admin account")
		return
	}

	h.Log.Info("admin account created", zap.String("username", admin.Username))
	writeAuth(w, http.StatusCreated, authResponse{
		Success: true,
		Message: "Admin account created successfully",
		Admin:   &adminPayload{ID: admin.ID.Hex(), Username: admin.Username, Email: admin.Email},
	})
}

// Login handles POST /api/admin/login, exchanging credentials for a JWT.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		apiutil.Fail(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.Accounts.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apiutil.Fail(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.Log.Error("admin login: lookup failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error during login")
		return
	}

	if !adminstore.VerifyPassword(admin, req.Password) {
		apiutil.Fail(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.Tokens.IssueToken(admin.ID.Hex(), admin.Username)
	if err != nil {
		h.Log.Error("admin login: token issue failed", zap.Error(err))
		apiutil.Fail(w, http.StatusInternalServerError, "Error during login")
		return
	}

	h.Log.Info("admin logged in", zap.String("username", admin.Username))
	writeAuth(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		Admin:   &adminPayload{ID: admin.ID.Hex(), Username: admin.Username, Email: admin.Email},
	})
}

// Verify handles GET /api/admin/verify. The auth middleware has already
// checked the token and loaded the account.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.CurrentAdmin(r)
	if !ok {
		apiutil.Fail(w, http.StatusUnauthorized, "Access denied. Admin authentication required.")
		return
	}
	writeAuth(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Token is valid",
		Admin:   &adminPayload{ID: ident.ID, Username: ident.Username, Email: ident.Email},
	})
}
