package handler

import (
	"context"
	"net/http"
)

// Scanner runs one notification pass on demand.
type Scanner interface {
	Scan(ctx context.Context) error
}

// NotificationHandler exposes the manual scan trigger.
type NotificationHandler struct {
	scanner Scanner
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(scanner Scanner) *NotificationHandler {
	return &NotificationHandler{scanner: scanner}
}

// TriggerScan runs a notification scan immediately instead of waiting for
// the next tick. Dedup keys make this safe to call at any time.
func (h *NotificationHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	if err := h.scanner.Scan(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "scan failed", err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scan completed"})
}
