package notification

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/frahmantamala/voucher-management/internal/auth"
	"github.com/frahmantamala/voucher-management/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

type mockDirectory struct {
	approvers []*auth.User
	listErr   error

	requestedCapability string
}

func (m *mockDirectory) ListUsersWithCapability(capability string) ([]*auth.User, error) {
	m.requestedCapability = capability
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.approvers, nil
}

type mockSender struct {
	sent    []string
	sendErr error
}

func (m *mockSender) Send(ctx context.Context, recipient *auth.User, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, recipient.Email)
	return nil
}

var _ = Describe("ApproverNotifier", func() {
	var (
		directory *mockDirectory
		sender    *mockSender
		notifier  *ApproverNotifier
		ctx       context.Context
	)

	BeforeEach(func() {
		directory = &mockDirectory{
			approvers: []*auth.User{
				{ID: 2, Email: "approver@example.com"},
				{ID: 3, Email: "admin@example.com"},
			},
		}
		sender = &mockSender{}
		notifier = NewApproverNotifier(directory, sender, slog.Default())
		ctx = context.Background()
	})

	It("notifies every user who can approve requests", func() {
		event := events.NewRequestPaidEvent(1, "VRQ-ACM-25-#12", 1)

		err := notifier.HandleRequestPaid(ctx, event)
		Expect(err).NotTo(HaveOccurred())

		Expect(directory.requestedCapability).To(Equal(auth.CapApproveRequest))
		Expect(sender.sent).To(ConsistOf("approver@example.com", "admin@example.com"))
	})

	It("does nothing when no approvers exist", func() {
		directory.approvers = nil

		err := notifier.HandleRequestPaid(ctx, events.NewRequestPaidEvent(1, "VRQ-ACM-25-#12", 1))
		Expect(err).NotTo(HaveOccurred())
		Expect(sender.sent).To(BeEmpty())
	})

	It("propagates a directory failure so the bus can log it", func() {
		directory.listErr = errors.New("db down")

		err := notifier.HandleRequestPaid(ctx, events.NewRequestPaidEvent(1, "VRQ-ACM-25-#12", 1))
		Expect(err).To(HaveOccurred())
	})

	It("keeps notifying the rest when one delivery fails", func() {
		sender.sendErr = errors.New("smtp down")

		err := notifier.HandleRequestPaid(ctx, events.NewRequestPaidEvent(1, "VRQ-ACM-25-#12", 1))
		Expect(err).NotTo(HaveOccurred())
	})

	It("ignores payloads of the wrong type", func() {
		event := events.BaseEvent{Type: events.EventTypeRequestPaid}

		err := notifier.HandleRequestPaid(ctx, event)
		Expect(err).NotTo(HaveOccurred())
		Expect(sender.sent).To(BeEmpty())
	})
})
