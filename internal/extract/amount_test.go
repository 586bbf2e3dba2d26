package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("parseAmount", func() {
	var (
		input string
		value decimal.Decimal
		ok    bool
	)

	JustBeforeEach(func() {
		value, ok = parseAmount(input)
	})

	When("parsing a plain amount", func() {
		BeforeEach(func() {
			input = "9.25"
		})

		It("should parse it", func() {
			Expect(ok).To(BeTrue())
			Expect(value.Equal(decimal.RequireFromString("9.25"))).To(BeTrue())
		})
	})

	When("parsing a dollar amount with thousands separators", func() {
		BeforeEach(func() {
			input = "$1,234.56"
		})

		It("should strip the marker and the grouping", func() {
			Expect(ok).To(BeTrue())
			Expect(value.Equal(decimal.RequireFromString("1234.56"))).To(BeTrue())
		})
	})

	When("parsing a European-style amount", func() {
		BeforeEach(func() {
			input = "1.234,56"
		})

		It("should treat the comma as the decimal separator", func() {
			Expect(ok).To(BeTrue())
			Expect(value.Equal(decimal.RequireFromString("1234.56"))).To(BeTrue())
		})
	})

	When("parsing a comma-decimal amount without grouping", func() {
		BeforeEach(func() {
			input = "42,75"
		})

		It("should treat the comma as the decimal separator", func() {
			Expect(ok).To(BeTrue())
			Expect(value.Equal(decimal.RequireFromString("42.75"))).To(BeTrue())
		})
	})

	When("parsing a comma-grouped amount without decimals", func() {
		BeforeEach(func() {
			input = "1,234"
		})

		It("should treat the comma as grouping", func() {
			Expect(ok).To(BeTrue())
			Expect(value.Equal(decimal.RequireFromString("1234"))).To(BeTrue())
		})
	})

	When("parsing garbage", func() {
		BeforeEach(func() {
			input = "no amount here"
		})

		It("should report failure", func() {
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("pickAmount", func() {
	When("there are no candidates", func() {
		It("should return nil", func() {
			Expect(pickAmount(nil)).To(BeNil())
		})
	})

	When("values differ", func() {
		It("should pick the largest", func() {
			picked := pickAmount([]amountCandidate{
				{value: decimal.RequireFromString("4.50"), labelDist: -1, order: 1},
				{value: decimal.RequireFromString("9.25"), labelDist: -1, order: 2},
			})
			Expect(picked).NotTo(BeNil())
			Expect(picked.Equal(decimal.RequireFromString("9.25"))).To(BeTrue())
		})
	})

	When("values tie", func() {
		It("should pick the one closest to its label", func() {
			picked := pickAmount([]amountCandidate{
				{value: decimal.RequireFromString("9.25"), labelDist: 12, order: 1},
				{value: decimal.RequireFromString("9.25"), labelDist: 2, order: 2},
			})
			Expect(picked).NotTo(BeNil())
			Expect(picked.Equal(decimal.RequireFromString("9.25"))).To(BeTrue())
		})

		It("should keep the earlier candidate when distances also tie", func() {
			first := amountCandidate{value: decimal.RequireFromString("9.25"), labelDist: 2, order: 1}
			second := amountCandidate{value: decimal.RequireFromString("9.25"), labelDist: 2, order: 2}
			picked := pickAmount([]amountCandidate{first, second})
			Expect(picked).NotTo(BeNil())
			Expect(picked.Equal(first.value)).To(BeTrue())
		})
	})
})
