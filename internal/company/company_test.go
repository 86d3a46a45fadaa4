package company

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCompany(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Company Suite")
}

var _ = Describe("CreateCompanyDTO", func() {
	It("accepts a valid company and normalizes the prefix", func() {
		dto := &CreateCompanyDTO{CompanyName: "Acme Retail", Prefix: " acm "}
		Expect(dto.Validate()).To(Succeed())
		Expect(dto.Prefix).To(Equal("ACM"))
	})

	It("requires a company name", func() {
		dto := &CreateCompanyDTO{CompanyName: "  ", Prefix: "ACM"}
		Expect(dto.Validate()).To(HaveOccurred())
	})

	It("bounds the prefix length to 2 or 3 letters", func() {
		for _, prefix := range []string{"A", "ACME"} {
			dto := &CreateCompanyDTO{CompanyName: "Acme", Prefix: prefix}
			Expect(dto.Validate()).To(HaveOccurred(), "prefix %q", prefix)
		}
		dto := &CreateCompanyDTO{CompanyName: "Acme", Prefix: "AC"}
		Expect(dto.Validate()).To(Succeed())
	})

	It("rejects non-letter prefixes", func() {
		dto := &CreateCompanyDTO{CompanyName: "Acme", Prefix: "A1"}
		Expect(dto.Validate()).To(HaveOccurred())
	})
})

var _ = Describe("CreateShopDTO", func() {
	It("requires a company and a location", func() {
		Expect((&CreateShopDTO{Location: "Main Street"}).Validate()).To(HaveOccurred())
		Expect((&CreateShopDTO{CompanyID: 1}).Validate()).To(HaveOccurred())
		Expect((&CreateShopDTO{CompanyID: 1, Location: "Main Street"}).Validate()).To(Succeed())
	})
})
