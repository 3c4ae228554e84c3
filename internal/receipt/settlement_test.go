package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func product(name, price string) Product {
	return Product{Name: name, Price: decimal.RequireFromString(price)}
}

var _ = Describe("ComputeSettlement", func() {
	var (
		confirmed  []Product
		personal   []Product
		discount   decimal.Decimal
		settlement Settlement
	)

	BeforeEach(func() {
		confirmed = nil
		personal = nil
		discount = decimal.Zero
	})

	JustBeforeEach(func() {
		settlement = ComputeSettlement(confirmed, personal, discount)
	})

	When("everything is shared", func() {
		BeforeEach(func() {
			confirmed = []Product{product("Milch", "1.99"), product("Brot", "2.50")}
			discount = decimal.RequireFromString("1.00")
		})

		It("subtracts the discount from the total", func() {
			Expect(settlement.Total.Equal(decimal.RequireFromString("3.49"))).To(BeTrue())
		})

		It("has no personal portion", func() {
			Expect(settlement.PersonalTotal.IsZero()).To(BeTrue())
		})

		It("splits the shared portion in half, rounded to cents", func() {
			Expect(settlement.OwedByOther.Equal(decimal.RequireFromString("1.75"))).To(BeTrue())
		})
	})

	When("some items are personal", func() {
		BeforeEach(func() {
			confirmed = []Product{product("Milch", "2.00"), product("Shampoo", "6.00")}
			personal = []Product{product("Shampoo", "6.00")}
		})

		It("excludes the personal portion from the split", func() {
			Expect(settlement.Total.Equal(decimal.RequireFromString("8.00"))).To(BeTrue())
			Expect(settlement.PersonalTotal.Equal(decimal.RequireFromString("6.00"))).To(BeTrue())
			Expect(settlement.OwedByOther.Equal(decimal.RequireFromString("1.00"))).To(BeTrue())
		})
	})

	When("a half cent has to be rounded", func() {
		BeforeEach(func() {
			confirmed = []Product{product("Kaugummi", "0.05")}
		})

		It("rounds half away from zero", func() {
			Expect(settlement.OwedByOther.Equal(decimal.RequireFromString("0.03"))).To(BeTrue())
		})
	})

	When("the only item is personal and a discount applies", func() {
		BeforeEach(func() {
			confirmed = []Product{product("Shampoo", "6.00")}
			personal = []Product{product("Shampoo", "6.00")}
			discount = decimal.RequireFromString("1.00")
		})

		It("reports the negative share without clamping", func() {
			Expect(settlement.Total.Equal(decimal.RequireFromString("5.00"))).To(BeTrue())
			Expect(settlement.OwedByOther.Equal(decimal.RequireFromString("-0.50"))).To(BeTrue())
		})
	})

	When("the discount exceeds the confirmed total", func() {
		BeforeEach(func() {
			confirmed = []Product{product("Milch", "1.00")}
			discount = decimal.RequireFromString("3.00")
		})

		It("passes the negative total through", func() {
			Expect(settlement.Total.Equal(decimal.RequireFromString("-2.00"))).To(BeTrue())
			Expect(settlement.OwedByOther.Equal(decimal.RequireFromString("-1.00"))).To(BeTrue())
		})
	})

	When("nothing was confirmed", func() {
		BeforeEach(func() {
			confirmed = nil
		})

		It("is all zeroes", func() {
			Expect(settlement.Total.IsZero()).To(BeTrue())
			Expect(settlement.OwedByOther.IsZero()).To(BeTrue())
		})
	})
})
