package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/dalemusser/eduhub/internal/app/system/timeouts"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client  *mongo.Client
	Started time.Time
	Log     *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Client:  client,
		Started: time.Now(),
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	Database  string  `json:"database"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// Serve handles GET /api/health.
//
// The server reports success even when the database is down: content
// reads degrade to the fallback file, so a dead Mongo connection is a
// warning, not an outage. The database field tells monitors which mode
// the server is in.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Success:   true,
		Message:   "Server is running successfully",
		Database:  "connected",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.Started).Seconds(),
	}

	if h.Client == nil {
		resp.Database = "disconnected"
	} else if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health-check: mongo ping failed", zap.Error(err))
		resp.Database = "disconnected"
	}

	_ = json.NewEncoder(w).Encode(resp)
}
