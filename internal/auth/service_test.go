package auth

import (
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	passwords map[string]string
	userIDs   map[string]string
	usersByID map[int64]*User

	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockUserRepository{
		passwords: map[string]string{
			"clerk@example.com":    string(hashedPassword),
			"approver@example.com": string(hashedPassword),
			"admin@example.com":    string(hashedPassword),
		},
		userIDs: map[string]string{
			"clerk@example.com":    "1",
			"approver@example.com": "2",
			"admin@example.com":    "3",
		},
		usersByID: map[int64]*User{
			1: {ID: 1, Email: "clerk@example.com", Permissions: []string{CapRedeemVoucher}},
			2: {ID: 2, Email: "approver@example.com", Permissions: []string{CapMarkPaid, CapApproveRequest, CapRejectRequest}},
			3: {ID: 3, Email: "admin@example.com", Permissions: []string{CapAdmin}},
		},
	}
}

func (m *mockUserRepository) GetPasswordForEmail(email string) (string, string, error) {
	if m.returnError {
		return "", "", m.errorToReturn
	}
	if hash, exists := m.passwords[email]; exists {
		return hash, m.userIDs[email], nil
	}
	return "", "", errors.New("user not found")
}

func (m *mockUserRepository) GetUserWithPermissions(userID int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if user, exists := m.usersByID[userID]; exists {
		return user, nil
	}
	return nil, errors.New("user not found")
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret")
		service = NewService(mockRepo, tokenGen)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "clerk@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should embed the user id and email in the access token", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "clerk@example.com",
					Password: "correct_password",
				})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal("1"))
				gomega.Expect(claims.Email).To(gomega.Equal("clerk@example.com"))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should reject a wrong password", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "clerk@example.com",
					Password: "wrong_password",
				})
				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})

			ginkgo.It("should reject an unknown email", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "nobody@example.com",
					Password: "correct_password",
				})
				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})

			ginkgo.It("should reject missing fields with a validation error", func() {
				_, err := service.Authenticate(LoginDTO{Email: "clerk@example.com"})

				var validationErr ValidationError
				gomega.Expect(errors.As(err, &validationErr)).To(gomega.BeTrue())
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue a new token pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "approver@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			renewed, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(renewed.AccessToken).ToNot(gomega.BeEmpty())

			claims, err := service.ValidateAccessToken(renewed.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("2"))
		})

		ginkgo.It("should reject a malformed token", func() {
			_, err := service.RefreshTokens("not-a-token")
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})
	})

	ginkgo.Describe("GetUserWithPermissions", func() {
		ginkgo.It("should return the user with capability names", func() {
			user, err := service.GetUserWithPermissions(2)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(user.Permissions).To(gomega.ConsistOf(CapMarkPaid, CapApproveRequest, CapRejectRequest))
		})

		ginkgo.It("should propagate repository failures", func() {
			mockRepo.returnError = true
			mockRepo.errorToReturn = errors.New("db down")

			_, err := service.GetUserWithPermissions(2)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("HashPassword", func() {
		ginkgo.It("should produce a hash that verifies", func() {
			hash, err := service.HashPassword("secret")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret"))).To(gomega.Succeed())
		})
	})
})

var _ = ginkgo.Describe("User capabilities", func() {
	ginkgo.It("grants a named capability", func() {
		user := &User{Permissions: []string{CapRedeemVoucher}}
		gomega.Expect(user.HasPermission(CapRedeemVoucher)).To(gomega.BeTrue())
		gomega.Expect(user.HasPermission(CapApproveRequest)).To(gomega.BeFalse())
	})

	ginkgo.It("lets admin imply every capability", func() {
		user := &User{Permissions: []string{CapAdmin}}
		for _, capability := range []string{CapRedeemVoucher, CapApproveRequest, CapRejectRequest, CapMarkPaid} {
			gomega.Expect(user.HasPermission(capability)).To(gomega.BeTrue())
		}
	})
})

var _ = ginkgo.Describe("DefaultPermissionChecker", func() {
	checker := NewPermissionChecker()

	ginkgo.It("maps each capability to its check", func() {
		gomega.Expect(checker.CanRedeemVoucher([]string{CapRedeemVoucher})).To(gomega.BeTrue())
		gomega.Expect(checker.CanApproveRequest([]string{CapApproveRequest})).To(gomega.BeTrue())
		gomega.Expect(checker.CanRejectRequest([]string{CapRejectRequest})).To(gomega.BeTrue())
		gomega.Expect(checker.CanMarkPaid([]string{CapMarkPaid})).To(gomega.BeTrue())
	})

	ginkgo.It("denies without the capability", func() {
		gomega.Expect(checker.CanRedeemVoucher([]string{CapApproveRequest})).To(gomega.BeFalse())
		gomega.Expect(checker.CanMarkPaid(nil)).To(gomega.BeFalse())
	})

	ginkgo.It("grants everything to admin", func() {
		perms := []string{CapAdmin}
		gomega.Expect(checker.CanRedeemVoucher(perms)).To(gomega.BeTrue())
		gomega.Expect(checker.CanApproveRequest(perms)).To(gomega.BeTrue())
		gomega.Expect(checker.CanRejectRequest(perms)).To(gomega.BeTrue())
		gomega.Expect(checker.CanMarkPaid(perms)).To(gomega.BeTrue())
		gomega.Expect(checker.IsAdmin(perms)).To(gomega.BeTrue())
	})
})
