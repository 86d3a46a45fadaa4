package request

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/voucher-management/internal"
	requestDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/request"
	voucherDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/voucher"
	"github.com/frahmantamala/voucher-management/internal/core/events"
	"github.com/frahmantamala/voucher-management/internal/refs"
	"github.com/frahmantamala/voucher-management/internal/voucher"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type mockRepository struct {
	requests map[int64]*requestDatamodel.VoucherRequest
	nextID   int64

	createdVouchers [][]*voucherDatamodel.Voucher
	savedEffects    []TransitionEffect

	createErrs         []error
	getErr             error
	saveErr            error
	cascadeAffected    int64
	createAttemptCount int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		requests:        make(map[int64]*requestDatamodel.VoucherRequest),
		nextID:          1,
		cascadeAffected: 0,
	}
}

func (m *mockRepository) CreateWithVouchers(req *requestDatamodel.VoucherRequest, vouchers []*voucherDatamodel.Voucher) error {
	m.createAttemptCount++
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	req.ID = m.nextID
	m.nextID++
	m.requests[req.ID] = req
	m.createdVouchers = append(m.createdVouchers, vouchers)
	return nil
}

func (m *mockRepository) GetByID(id int64) (*requestDatamodel.VoucherRequest, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	req, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return req, nil
}

func (m *mockRepository) List(status string, limit, offset int) ([]*requestDatamodel.VoucherRequest, int64, error) {
	var rows []*requestDatamodel.VoucherRequest
	for _, req := range m.requests {
		if status == "" || req.RequestStatus == status {
			rows = append(rows, req)
		}
	}
	return rows, int64(len(rows)), nil
}

func (m *mockRepository) SaveTransition(req *requestDatamodel.VoucherRequest, effect TransitionEffect) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.requests[req.ID] = req
	m.savedEffects = append(m.savedEffects, effect)
	return m.cascadeAffected, nil
}

type mockRefGenerator struct {
	requestSeq int64
	voucherSeq int64
	refErr     error
}

func (m *mockRefGenerator) NextRequestRef(companyPrefix string) (string, error) {
	if m.refErr != nil {
		return "", m.refErr
	}
	m.requestSeq++
	return refs.FormatRequestRef(companyPrefix, "25", m.requestSeq), nil
}

func (m *mockRefGenerator) NextVoucherRef(companyPrefix string) (string, error) {
	if m.refErr != nil {
		return "", m.refErr
	}
	m.voucherSeq++
	return refs.FormatVoucherRef(companyPrefix, "25", m.voucherSeq), nil
}

type mockCompanyDirectory struct {
	prefixes map[int64]string
}

func (m *mockCompanyDirectory) GetPrefix(companyID int64) (string, error) {
	prefix, ok := m.prefixes[companyID]
	if !ok {
		return "", internal.ErrCompanyNotFound
	}
	return prefix, nil
}

type mockEventPublisher struct {
	published  []events.Event
	publishErr error
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("Request Service", func() {
	var (
		repo      *mockRepository
		refGen    *mockRefGenerator
		companies *mockCompanyDirectory
		bus       *mockEventPublisher
		service   *Service
	)

	BeforeEach(func() {
		repo = newMockRepository()
		refGen = &mockRefGenerator{}
		companies = &mockCompanyDirectory{prefixes: map[int64]string{1: "ACM", 2: "BLG"}}
		bus = &mockEventPublisher{}
		service = NewService(repo, refGen, companies, bus, slog.Default())
	})

	Describe("CreateRequest", func() {
		var dto CreateRequestDTO

		BeforeEach(func() {
			amount := decimal.NewFromFloat(25.50)
			dto = CreateRequestDTO{
				CompanyID:          1,
				QuantityOfVouchers: 3,
				Amount:             &amount,
				ValidityPeriod:     2,
				ValidityType:       ValidityTypeMonth,
			}
		})

		It("creates a pending request with provisional vouchers", func() {
			resp, err := service.CreateRequest(7, dto)
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.RequestStatus).To(Equal(StatusPending))
			Expect(resp.RequestRef).To(Equal("VRQ-ACM-25-#1"))
			Expect(resp.RecordedBy).NotTo(BeNil())
			Expect(*resp.RecordedBy).To(Equal(int64(7)))
			Expect(resp.Warning).To(BeEmpty())

			Expect(repo.createdVouchers).To(HaveLen(1))
			vouchers := repo.createdVouchers[0]
			Expect(vouchers).To(HaveLen(3))
			for i, v := range vouchers {
				Expect(v.VoucherStatus).To(Equal(voucher.StatusProvisional))
				Expect(v.Amount.Equal(decimal.NewFromFloat(25.50))).To(BeTrue())
				Expect(v.VoucherRef).To(Equal(refs.FormatVoucherRef("ACM", "25", int64(i+1))))
			}
		})

		It("defaults the voucher amount to zero when none is given", func() {
			dto.Amount = nil
			_, err := service.CreateRequest(7, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.createdVouchers[0][0].Amount.IsZero()).To(BeTrue())
		})

		It("warns when a non-pending status was submitted", func() {
			dto.RequestStatus = StatusApproved
			resp, err := service.CreateRequest(7, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.RequestStatus).To(Equal(StatusPending))
			Expect(resp.Warning).To(ContainSubstring("submitted status was ignored"))
		})

		It("retries with fresh references when a reference collides", func() {
			repo.createErrs = []error{gorm.ErrDuplicatedKey}

			resp, err := service.CreateRequest(7, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.createAttemptCount).To(Equal(2))
			// the second attempt carries the next allocated sequence
			Expect(resp.RequestRef).To(Equal("VRQ-ACM-25-#2"))
		})

		It("gives up after the retry budget is spent", func() {
			for i := 0; i < refs.MaxAttempts; i++ {
				repo.createErrs = append(repo.createErrs, gorm.ErrDuplicatedKey)
			}

			_, err := service.CreateRequest(7, dto)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
			Expect(errors.Is(err, refs.ErrRetriesExhausted)).To(BeTrue())
			Expect(repo.createAttemptCount).To(Equal(refs.MaxAttempts))
		})

		It("does not retry on unrelated database failures", func() {
			repo.createErrs = []error{errors.New("connection reset")}

			_, err := service.CreateRequest(7, dto)
			Expect(err).To(HaveOccurred())
			Expect(repo.createAttemptCount).To(Equal(1))
		})

		It("rejects an unknown company", func() {
			dto.CompanyID = 99
			_, err := service.CreateRequest(7, dto)
			Expect(err).To(Equal(internal.ErrCompanyNotFound))
		})

		It("rejects an invalid payload before touching the repository", func() {
			dto.QuantityOfVouchers = 0
			_, err := service.CreateRequest(7, dto)
			Expect(err).To(HaveOccurred())
			Expect(repo.createAttemptCount).To(BeZero())
		})
	})

	Describe("UpdateStatus", func() {
		var ctx context.Context

		seedRequest := func(status string) int64 {
			id := repo.nextID
			repo.nextID++
			now := time.Now().Add(-time.Hour)
			row := &requestDatamodel.VoucherRequest{
				ID:                 id,
				RequestRef:         "VRQ-ACM-25-#12",
				CompanyID:          1,
				QuantityOfVouchers: 3,
				RequestStatus:      status,
				ValidityPeriod:     1,
				ValidityType:       ValidityTypeWeek,
				DateTimeRecorded:   now,
				CreatedAt:          now,
				UpdatedAt:          now,
			}
			if status == StatusPaid {
				row.DateTimePaid = &now
			}
			repo.requests[id] = row
			return id
		}

		BeforeEach(func() {
			ctx = context.Background()
		})

		It("marks a pending request paid and publishes the paid event", func() {
			id := seedRequest(StatusPending)

			result, err := service.UpdateStatus(ctx, id, 7, []string{"change_to_paid"}, UpdateStatusDTO{RequestStatus: StatusPaid})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.RequestStatus).To(Equal(StatusPaid))
			Expect(result.DateTimePaid).NotTo(BeNil())

			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventTypeRequestPaid))
		})

		It("approves a paid request and reports issued vouchers", func() {
			id := seedRequest(StatusPaid)
			repo.cascadeAffected = 3

			result, err := service.UpdateStatus(ctx, id, 42, []string{"approve_request"}, UpdateStatusDTO{RequestStatus: StatusApproved})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.RequestStatus).To(Equal(StatusApproved))
			Expect(result.DateTimeApproved).NotTo(BeNil())
			Expect(result.VouchersAffected).To(Equal(int64(3)))

			Expect(repo.savedEffects).To(HaveLen(1))
			Expect(repo.savedEffects[0].IssueVouchers).To(BeTrue())
			Expect(repo.savedEffects[0].ExpiryDate).NotTo(BeNil())

			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventTypeRequestApproved))
		})

		It("rejects a paid request and publishes the rejected event", func() {
			id := seedRequest(StatusPaid)
			repo.cascadeAffected = 3

			result, err := service.UpdateStatus(ctx, id, 42, []string{"reject_request"}, UpdateStatusDTO{RequestStatus: StatusRejected})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RequestStatus).To(Equal(StatusRejected))

			Expect(repo.savedEffects[0].CancelVouchers).To(BeTrue())
			Expect(bus.published[0].EventType()).To(Equal(events.EventTypeRequestRejected))
		})

		It("denies a transition the actor has no capability for", func() {
			id := seedRequest(StatusPaid)

			_, err := service.UpdateStatus(ctx, id, 7, []string{"change_to_paid"}, UpdateStatusDTO{RequestStatus: StatusApproved})
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
			Expect(repo.savedEffects).To(BeEmpty())
			Expect(bus.published).To(BeEmpty())
		})

		It("lets an admin perform any transition", func() {
			id := seedRequest(StatusPaid)

			_, err := service.UpdateStatus(ctx, id, 7, []string{"admin"}, UpdateStatusDTO{RequestStatus: StatusApproved})
			Expect(err).NotTo(HaveOccurred())
		})

		It("refuses approving a pending request even with the capability", func() {
			id := seedRequest(StatusPending)

			_, err := service.UpdateStatus(ctx, id, 42, []string{"approve_request"}, UpdateStatusDTO{RequestStatus: StatusApproved})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeApprovalRequiresPay))
			Expect(repo.savedEffects).To(BeEmpty())
		})

		It("skips the capability check for a same-status no-op", func() {
			id := seedRequest(StatusPending)

			result, err := service.UpdateStatus(ctx, id, 7, nil, UpdateStatusDTO{RequestStatus: StatusPending})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RequestStatus).To(Equal(StatusPending))
			Expect(bus.published).To(BeEmpty())
		})

		It("applies payment remarks alongside the transition", func() {
			id := seedRequest(StatusPending)
			remarks := "bank transfer ref 99812"

			_, err := service.UpdateStatus(ctx, id, 7, []string{"change_to_paid"}, UpdateStatusDTO{
				RequestStatus:  StatusPaid,
				PaymentRemarks: &remarks,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.requests[id].PaymentRemarks).NotTo(BeNil())
			Expect(*repo.requests[id].PaymentRemarks).To(Equal(remarks))
		})

		It("returns not found for a missing request", func() {
			_, err := service.UpdateStatus(ctx, 999, 7, []string{"admin"}, UpdateStatusDTO{RequestStatus: StatusPaid})
			Expect(err).To(Equal(internal.ErrRequestNotFound))
		})

		It("keeps the result when event publishing fails", func() {
			id := seedRequest(StatusPending)
			bus.publishErr = errors.New("bus closed")

			result, err := service.UpdateStatus(ctx, id, 7, []string{"change_to_paid"}, UpdateStatusDTO{RequestStatus: StatusPaid})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RequestStatus).To(Equal(StatusPaid))
		})
	})

	Describe("GetRequestByID and ListRequests", func() {
		It("returns not found for a missing id", func() {
			_, err := service.GetRequestByID(404)
			Expect(err).To(Equal(internal.ErrRequestNotFound))
		})

		It("lists requests with normalized pagination", func() {
			amount := decimal.NewFromInt(10)
			_, err := service.CreateRequest(7, CreateRequestDTO{
				CompanyID:          1,
				QuantityOfVouchers: 1,
				Amount:             &amount,
				ValidityPeriod:     1,
				ValidityType:       ValidityTypeMonth,
			})
			Expect(err).NotTo(HaveOccurred())

			list, err := service.ListRequests(RequestQueryParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Total).To(Equal(int64(1)))
			Expect(list.Page).To(Equal(1))
			Expect(list.PerPage).To(Equal(20))
			Expect(list.Requests).To(HaveLen(1))
		})
	})
})
