package voucher

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/voucher-management/internal/auth"
	"github.com/frahmantamala/voucher-management/internal/transport"
	"github.com/frahmantamala/voucher-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetVoucherByID(id int64) (*Voucher, error)
	GetVoucherDetail(id int64) (*VoucherDetailDTO, error)
	ListVouchers(params VoucherQueryParams) (*VoucherListResponseDTO, error)
	Redeem(ctx context.Context, voucherID, userID int64, userPermissions []string, dto RedeemDTO) (*RedeemResponseDTO, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) GetVoucher(w http.ResponseWriter, r *http.Request) {
	id, err := h.voucherIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid voucher id")
		return
	}

	v, err := h.Service.GetVoucherDetail(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	params := VoucherQueryParams{
		Status: r.URL.Query().Get("status"),
	}
	if requestID, err := strconv.ParseInt(r.URL.Query().Get("request_id"), 10, 64); err == nil {
		params.RequestID = requestID
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = page
	}
	if perPage, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil {
		params.PerPage = perPage
	}

	resp, err := h.Service.ListVouchers(params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) RedeemVoucher(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.voucherIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid voucher id")
		return
	}

	var dto RedeemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RedeemVoucher: invalid request body", "error", err, "voucher_id", id)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Redeem(r.Context(), id, user.ID, user.Permissions, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) voucherIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
