package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/voucher-management/internal/auth"
	"github.com/frahmantamala/voucher-management/internal/core/events"
)

// Sender delivers a notification to a single recipient. The default sender
// only logs; a mail or chat integration plugs in here.
type Sender interface {
	Send(ctx context.Context, recipient *auth.User, subject, body string) error
}

type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, recipient *auth.User, subject, body string) error {
	s.logger.InfoContext(ctx, "notification dispatched",
		"recipient_id", recipient.ID,
		"recipient_email", recipient.Email,
		"subject", subject)
	return nil
}

// ApproverNotifier tells everyone who can approve requests that a request
// was marked paid and is waiting for a decision.
type ApproverNotifier struct {
	directory auth.ApproverDirectory
	sender    Sender
	logger    *slog.Logger
}

func NewApproverNotifier(directory auth.ApproverDirectory, sender Sender, logger *slog.Logger) *ApproverNotifier {
	return &ApproverNotifier{
		directory: directory,
		sender:    sender,
		logger:    logger,
	}
}

// Register subscribes the notifier to the paid event.
func (n *ApproverNotifier) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeRequestPaid, n.HandleRequestPaid)
}

func (n *ApproverNotifier) HandleRequestPaid(ctx context.Context, event events.Event) error {
	paid, ok := event.(*events.RequestPaidEvent)
	if !ok {
		n.logger.Error("unexpected event payload for request paid", "event_type", event.EventType())
		return nil
	}

	approvers, err := n.directory.ListUsersWithCapability(auth.CapApproveRequest)
	if err != nil {
		n.logger.Error("failed to resolve approvers", "error", err, "request_ref", paid.RequestRef)
		return err
	}

	if len(approvers) == 0 {
		n.logger.Warn("no approvers to notify", "request_ref", paid.RequestRef)
		return nil
	}

	subject := fmt.Sprintf("Voucher request %s awaits approval", paid.RequestRef)
	body := fmt.Sprintf("Voucher request %s has been paid and is ready for review.", paid.RequestRef)

	for _, approver := range approvers {
		if err := n.sender.Send(ctx, approver, subject, body); err != nil {
			n.logger.Error("failed to notify approver",
				"error", err,
				"approver_id", approver.ID,
				"request_ref", paid.RequestRef)
		}
	}

	n.logger.Info("approvers notified",
		"request_ref", paid.RequestRef,
		"approver_count", len(approvers))
	return nil
}
