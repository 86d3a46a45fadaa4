package postgres

import (
	"testing"
	"time"

	"github.com/frahmantamala/voucher-management/internal"
	requestDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/request"
	voucherDatamodel "github.com/frahmantamala/voucher-management/internal/core/datamodel/voucher"
	"github.com/frahmantamala/voucher-management/internal/request"
	"github.com/frahmantamala/voucher-management/internal/voucher"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRequestRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RequestRepository Suite")
}

type SQLiteVoucherRequest struct {
	ID                 int64      `gorm:"primaryKey"`
	RequestRef         string     `gorm:"column:request_ref;uniqueIndex;not null"`
	CompanyID          int64      `gorm:"column:company_id;not null"`
	ClientID           *int64     `gorm:"column:client_id"`
	QuantityOfVouchers int        `gorm:"column:quantity_of_vouchers;not null"`
	Amount             *string    `gorm:"column:amount"`
	RequestStatus      string     `gorm:"column:request_status;default:'pending'"`
	ValidityPeriod     int        `gorm:"column:validity_period"`
	ValidityType       string     `gorm:"column:validity_type"`
	PaymentRemarks     *string    `gorm:"column:payment_remarks"`
	DateTimeRecorded   time.Time  `gorm:"column:date_time_recorded"`
	DateTimePaid       *time.Time `gorm:"column:date_time_paid"`
	DateTimeApproved   *time.Time `gorm:"column:date_time_approved"`
	RecordedBy         *int64     `gorm:"column:recorded_by"`
	ApprovedBy         *int64     `gorm:"column:approved_by"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (SQLiteVoucherRequest) TableName() string {
	return "voucher_requests"
}

type SQLiteVoucher struct {
	ID               int64      `gorm:"primaryKey"`
	VoucherRequestID int64      `gorm:"column:voucher_request_id;not null"`
	VoucherRef       string     `gorm:"column:voucher_ref;uniqueIndex;not null"`
	Amount           string     `gorm:"column:amount"`
	VoucherStatus    string     `gorm:"column:voucher_status;default:'provisional'"`
	DateTimeCreated  time.Time  `gorm:"column:date_time_created"`
	ExpiryDate       *time.Time `gorm:"column:expiry_date"`
	ExtensionDate    *time.Time `gorm:"column:extension_date"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (SQLiteVoucher) TableName() string {
	return "vouchers"
}

var _ = Describe("RequestRepository", func() {
	var (
		db   *gorm.DB
		repo request.Repository
	)

	newRequest := func(ref string) *requestDatamodel.VoucherRequest {
		now := time.Now()
		amount := decimal.NewFromInt(25)
		return &requestDatamodel.VoucherRequest{
			RequestRef:         ref,
			CompanyID:          1,
			QuantityOfVouchers: 2,
			Amount:             &amount,
			RequestStatus:      request.StatusPending,
			ValidityPeriod:     1,
			ValidityType:       request.ValidityTypeMonth,
			DateTimeRecorded:   now,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
	}

	newVouchers := func(refs ...string) []*voucherDatamodel.Voucher {
		now := time.Now()
		vouchers := make([]*voucherDatamodel.Voucher, len(refs))
		for i, ref := range refs {
			vouchers[i] = &voucherDatamodel.Voucher{
				VoucherRef:      ref,
				Amount:          decimal.NewFromInt(25),
				VoucherStatus:   voucher.StatusProvisional,
				DateTimeCreated: now,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
		}
		return vouchers
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteVoucherRequest{}, &SQLiteVoucher{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewRequestRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("CreateWithVouchers", func() {
		It("creates the request and links its vouchers", func() {
			req := newRequest("VRQ-ACM-25-#1")
			vouchers := newVouchers("ACM-25-0001", "ACM-25-0002")

			err := repo.CreateWithVouchers(req, vouchers)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.ID).NotTo(BeZero())

			var count int64
			err = db.Model(&voucherDatamodel.Voucher{}).
				Where("voucher_request_id = ?", req.ID).
				Count(&count).Error
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})

		It("rolls back the request when a voucher reference collides", func() {
			first := newRequest("VRQ-ACM-25-#1")
			err := repo.CreateWithVouchers(first, newVouchers("ACM-25-0001"))
			Expect(err).NotTo(HaveOccurred())

			second := newRequest("VRQ-ACM-25-#2")
			err = repo.CreateWithVouchers(second, newVouchers("ACM-25-0001"))
			Expect(err).To(HaveOccurred())

			var count int64
			err = db.Model(&requestDatamodel.VoucherRequest{}).Count(&count).Error
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})

		It("fails on a duplicate request reference", func() {
			err := repo.CreateWithVouchers(newRequest("VRQ-ACM-25-#1"), nil)
			Expect(err).NotTo(HaveOccurred())

			err = repo.CreateWithVouchers(newRequest("VRQ-ACM-25-#1"), nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetByID", func() {
		It("returns the stored request", func() {
			req := newRequest("VRQ-ACM-25-#1")
			Expect(repo.CreateWithVouchers(req, nil)).To(Succeed())

			found, err := repo.GetByID(req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.RequestRef).To(Equal("VRQ-ACM-25-#1"))
			Expect(found.RequestStatus).To(Equal(request.StatusPending))
		})

		It("returns not found for a missing id", func() {
			_, err := repo.GetByID(999)
			Expect(err).To(Equal(internal.ErrRequestNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			a := newRequest("VRQ-ACM-25-#1")
			Expect(repo.CreateWithVouchers(a, nil)).To(Succeed())

			b := newRequest("VRQ-ACM-25-#2")
			b.RequestStatus = request.StatusPaid
			Expect(repo.CreateWithVouchers(b, nil)).To(Succeed())
		})

		It("returns everything without a filter", func() {
			rows, total, err := repo.List("", 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			Expect(rows).To(HaveLen(2))
		})

		It("filters by status", func() {
			rows, total, err := repo.List(request.StatusPaid, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(rows[0].RequestRef).To(Equal("VRQ-ACM-25-#2"))
		})

		It("paginates with limit and offset", func() {
			rows, total, err := repo.List("", 1, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			Expect(rows).To(HaveLen(1))
		})
	})

	Describe("SaveTransition", func() {
		var req *requestDatamodel.VoucherRequest

		BeforeEach(func() {
			req = newRequest("VRQ-ACM-25-#1")
			Expect(repo.CreateWithVouchers(req, newVouchers("ACM-25-0001", "ACM-25-0002"))).To(Succeed())
		})

		It("issues provisional vouchers with the expiry date on approval", func() {
			expiry := time.Date(2025, time.August, 14, 0, 0, 0, 0, time.UTC)
			req.RequestStatus = request.StatusApproved

			affected, err := repo.SaveTransition(req, request.TransitionEffect{
				IssueVouchers: true,
				ExpiryDate:    &expiry,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(affected).To(Equal(int64(2)))

			var rows []*voucherDatamodel.Voucher
			err = db.Where("voucher_request_id = ?", req.ID).Find(&rows).Error
			Expect(err).NotTo(HaveOccurred())
			for _, v := range rows {
				Expect(v.VoucherStatus).To(Equal(voucher.StatusIssued))
				Expect(v.ExpiryDate).NotTo(BeNil())
			}
		})

		It("cancels provisional vouchers on rejection", func() {
			req.RequestStatus = request.StatusRejected

			affected, err := repo.SaveTransition(req, request.TransitionEffect{CancelVouchers: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(affected).To(Equal(int64(2)))

			var rows []*voucherDatamodel.Voucher
			err = db.Where("voucher_request_id = ?", req.ID).Find(&rows).Error
			Expect(err).NotTo(HaveOccurred())
			for _, v := range rows {
				Expect(v.VoucherStatus).To(Equal(voucher.StatusCancelled))
			}
		})

		It("leaves issued vouchers alone when cancelling", func() {
			err := db.Model(&voucherDatamodel.Voucher{}).
				Where("voucher_ref = ?", "ACM-25-0001").
				Update("voucher_status", voucher.StatusIssued).Error
			Expect(err).NotTo(HaveOccurred())

			req.RequestStatus = request.StatusRejected
			affected, err := repo.SaveTransition(req, request.TransitionEffect{CancelVouchers: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(affected).To(Equal(int64(1)))

			var issued voucherDatamodel.Voucher
			err = db.Where("voucher_ref = ?", "ACM-25-0001").First(&issued).Error
			Expect(err).NotTo(HaveOccurred())
			Expect(issued.VoucherStatus).To(Equal(voucher.StatusIssued))
		})

		It("reports zero affected vouchers when none are provisional", func() {
			err := db.Model(&voucherDatamodel.Voucher{}).
				Where("voucher_request_id = ?", req.ID).
				Update("voucher_status", voucher.StatusCancelled).Error
			Expect(err).NotTo(HaveOccurred())

			req.RequestStatus = request.StatusRejected
			affected, err := repo.SaveTransition(req, request.TransitionEffect{CancelVouchers: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(affected).To(BeZero())
		})

		It("persists the request row changes", func() {
			now := time.Now()
			req.RequestStatus = request.StatusPaid
			req.DateTimePaid = &now

			_, err := repo.SaveTransition(req, request.TransitionEffect{NotifyApprovers: true})
			Expect(err).NotTo(HaveOccurred())

			found, err := repo.GetByID(req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.RequestStatus).To(Equal(request.StatusPaid))
			Expect(found.DateTimePaid).NotTo(BeNil())
		})
	})
})
