package user

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/voucher-management/internal/auth"
	"github.com/frahmantamala/voucher-management/internal/transport"
	"github.com/frahmantamala/voucher-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
}

func NewHandler() *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
	}
}

// Me returns the authenticated user with their capability names.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}
