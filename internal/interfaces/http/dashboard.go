package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"finpulse/internal/domain/dashboard"
	"finpulse/internal/domain/savings"
	"finpulse/internal/shared/middleware"
	"finpulse/internal/shared/stream"
)

// keepAliveInterval keeps idle event streams open through proxies.
const keepAliveInterval = 25 * time.Second

// DashboardService reads and watches the derived dashboard. *dashboard.Service satisfies it.
type DashboardService interface {
	Current(ctx context.Context, userID string) (dashboard.Snapshot, error)
	Watch(ctx context.Context, userID string) stream.Subscription[dashboard.Snapshot]
}

// SavingsService reads the savings view. *savings.Service satisfies it.
type SavingsService interface {
	Current(ctx context.Context, userID string) (savings.Snapshot, error)
}

type DashboardHandler struct {
	dashboard DashboardService
	savings   SavingsService
	logger    *zap.Logger

	closing   chan struct{}
	closeOnce sync.Once
}

func NewDashboardHandler(dashboard DashboardService, savings SavingsService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		savings:   savings,
		logger:    logger.Named("dashboard"),
		closing:   make(chan struct{}),
	}
}

// Close ends every open dashboard stream. Register it with
// http.Server.RegisterOnShutdown so streams do not hold up shutdown.
func (h *DashboardHandler) Close() {
	h.closeOnce.Do(func() { close(h.closing) })
}

// HandleDashboard returns the current snapshot. Anonymous callers get the
// empty snapshot.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	snap, err := h.dashboard.Current(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to compute dashboard", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// HandleDashboardStream pushes a "snapshot" event for every recomputation
// until the client disconnects or the feed ends.
func (h *DashboardHandler) HandleDashboardStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	userID := middleware.UserID(ctx)
	log := h.logger.With(zap.String("user_id", userID))

	// The stream outlives the server's write timeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("cannot clear write deadline", zap.Error(err))
	}

	feed := h.dashboard.Watch(ctx, userID)
	defer feed.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("dashboard stream closed by client")
			return
		case <-h.closing:
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case snap, ok := <-feed.Updates():
			if !ok {
				if err := feed.Err(); err != nil {
					log.Error("dashboard feed ended", zap.Error(err))
					writeEvent(w, "error", map[string]string{"error": "dashboard feed ended"})
					flusher.Flush()
				}
				return
			}
			if err := writeEvent(w, "snapshot", snap); err != nil {
				log.Warn("failed to write dashboard event", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

// HandleSavings returns goal progress and budget alerts.
func (h *DashboardHandler) HandleSavings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	snap, err := h.savings.Current(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to compute savings", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "Failed to load savings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
