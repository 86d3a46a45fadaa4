package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRequestPaid     = "voucher_request.paid"
	EventTypeRequestApproved = "voucher_request.approved"
	EventTypeRequestRejected = "voucher_request.rejected"
	EventTypeVoucherRedeemed = "voucher.redeemed"
)

// RequestPaidEvent fires exactly once per pending->paid transition; the
// approver notification extension point subscribes to it.
type RequestPaidEvent struct {
	BaseEvent
	RequestID  int64  `json:"request_id"`
	RequestRef string `json:"request_ref"`
	CompanyID  int64  `json:"company_id"`
}

func NewRequestPaidEvent(requestID int64, requestRef string, companyID int64) *RequestPaidEvent {
	return &RequestPaidEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestPaid,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":  requestID,
				"request_ref": requestRef,
				"company_id":  companyID,
			},
		},
		RequestID:  requestID,
		RequestRef: requestRef,
		CompanyID:  companyID,
	}
}

type RequestApprovedEvent struct {
	BaseEvent
	RequestID      int64  `json:"request_id"`
	RequestRef     string `json:"request_ref"`
	ApprovedBy     int64  `json:"approved_by"`
	VouchersIssued int    `json:"vouchers_issued"`
}

func NewRequestApprovedEvent(requestID int64, requestRef string, approvedBy int64, vouchersIssued int) *RequestApprovedEvent {
	return &RequestApprovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestApproved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":      requestID,
				"request_ref":     requestRef,
				"approved_by":     approvedBy,
				"vouchers_issued": vouchersIssued,
			},
		},
		RequestID:      requestID,
		RequestRef:     requestRef,
		ApprovedBy:     approvedBy,
		VouchersIssued: vouchersIssued,
	}
}

type RequestRejectedEvent struct {
	BaseEvent
	RequestID         int64  `json:"request_id"`
	RequestRef        string `json:"request_ref"`
	VouchersCancelled int    `json:"vouchers_cancelled"`
}

func NewRequestRejectedEvent(requestID int64, requestRef string, vouchersCancelled int) *RequestRejectedEvent {
	return &RequestRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":         requestID,
				"request_ref":        requestRef,
				"vouchers_cancelled": vouchersCancelled,
			},
		},
		RequestID:         requestID,
		RequestRef:        requestRef,
		VouchersCancelled: vouchersCancelled,
	}
}

// VoucherRedeemedEvent is the audit extension point for redemptions.
type VoucherRedeemedEvent struct {
	BaseEvent
	VoucherID  int64  `json:"voucher_id"`
	VoucherRef string `json:"voucher_ref"`
	UserID     int64  `json:"user_id"`
	ShopID     int64  `json:"shop_id"`
}

func NewVoucherRedeemedEvent(voucherID int64, voucherRef string, userID, shopID int64) *VoucherRedeemedEvent {
	return &VoucherRedeemedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeVoucherRedeemed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"voucher_id":  voucherID,
				"voucher_ref": voucherRef,
				"user_id":     userID,
				"shop_id":     shopID,
			},
		},
		VoucherID:  voucherID,
		VoucherRef: voucherRef,
		UserID:     userID,
		ShopID:     shopID,
	}
}
