package receipt

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Parser", func() {
	var (
		parser *Parser
		text   string
		rcpt   *Receipt
		err    error
	)

	BeforeEach(func() {
		parser = NewParser()
	})

	JustBeforeEach(func() {
		rcpt, err = parser.Parse(text)
	})

	When("parsing a plain line-oriented receipt", func() {
		BeforeEach(func() {
			text = "Milch 1,99 A\nBrot 2,50 B\nKartenzahlung\nK Card Rabatt -1,00\n"
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("finds both products in order", func() {
			Expect(rcpt.Products).To(HaveLen(2))
			Expect(rcpt.Products[0].Name).To(Equal("Milch"))
			Expect(rcpt.Products[1].Name).To(Equal("Brot"))
		})

		It("converts the decimal comma", func() {
			Expect(rcpt.Products[0].Price.Equal(decimal.RequireFromString("1.99"))).To(BeTrue())
			Expect(rcpt.Products[1].Price.Equal(decimal.RequireFromString("2.50"))).To(BeTrue())
		})

		It("keeps the tax classes", func() {
			Expect(rcpt.Products[0].TaxClass).To(Equal(TaxClassA))
			Expect(rcpt.Products[1].TaxClass).To(Equal(TaxClassB))
		})

		It("extracts the card discount", func() {
			Expect(rcpt.Discount.Equal(decimal.RequireFromString("1.00"))).To(BeTrue())
		})
	})

	When("a line has no tax class", func() {
		BeforeEach(func() {
			text = "Pfand 0,25\n"
		})

		It("parses the product without one", func() {
			Expect(rcpt.Products).To(HaveLen(1))
			Expect(rcpt.Products[0].TaxClass).To(Equal(TaxClassNone))
		})
	})

	When("the tax class letter follows the amount without a space", func() {
		BeforeEach(func() {
			text = "Shampoo 123,45A\n"
		})

		It("still parses amount and class", func() {
			Expect(rcpt.Products[0].Price.Equal(decimal.RequireFromString("123.45"))).To(BeTrue())
			Expect(rcpt.Products[0].TaxClass).To(Equal(TaxClassA))
		})
	})

	When("the discount uses an en-dash", func() {
		BeforeEach(func() {
			text = "Milch 1,99 A\nK Card Rabatt –5,00\n"
		})

		It("matches it like a hyphen", func() {
			Expect(rcpt.Discount.Equal(decimal.RequireFromString("5.00"))).To(BeTrue())
		})
	})

	When("no discount phrase is present", func() {
		BeforeEach(func() {
			text = "Milch 1,99 A\n"
		})

		It("yields a zero discount", func() {
			Expect(rcpt.Discount.IsZero()).To(BeTrue())
		})
	})

	When("the text contains only boilerplate and noise", func() {
		BeforeEach(func() {
			text = "Summe 12,99\nPreis EUR\nKartenzahlung\nirgendwas anderes\n"
		})

		It("returns ErrEmptyReceipt", func() {
			Expect(errors.Is(err, ErrEmptyReceipt)).To(BeTrue())
		})
	})

	When("the text is empty", func() {
		BeforeEach(func() {
			text = ""
		})

		It("returns ErrEmptyReceipt", func() {
			Expect(errors.Is(err, ErrEmptyReceipt)).To(BeTrue())
		})
	})

	When("the document exposes section markers", func() {
		BeforeEach(func() {
			parser.NameBlockSkip = 2
			text = "KAUFLAND\nFiliale 4711\nMilch\nBrot\nButter\nPreis EUR\n1,99 A\n2,50 B €\nnicht gültig\n-0,75\nSumme 4,49\n"
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("pairs names and valid prices positionally", func() {
			Expect(rcpt.Products).To(HaveLen(3))
			Expect(rcpt.Products[0].Name).To(Equal("Milch"))
			Expect(rcpt.Products[0].Price.Equal(decimal.RequireFromString("1.99"))).To(BeTrue())
			Expect(rcpt.Products[0].TaxClass).To(Equal(TaxClassA))
			Expect(rcpt.Products[1].Name).To(Equal("Brot"))
			Expect(rcpt.Products[1].Price.Equal(decimal.RequireFromString("2.50"))).To(BeTrue())
			Expect(rcpt.Products[2].Name).To(Equal("Butter"))
			Expect(rcpt.Products[2].Price.Equal(decimal.RequireFromString("0.75"))).To(BeTrue())
		})
	})

	When("the names block is shorter than the prices block", func() {
		BeforeEach(func() {
			parser.NameBlockSkip = 0
			text = "Milch\nPreis EUR\n1,99 A\n2,50 B\nSumme 4,49\n"
		})

		It("stops at the shorter sequence", func() {
			Expect(rcpt.Products).To(HaveLen(1))
			Expect(rcpt.Products[0].Name).To(Equal("Milch"))
		})
	})

	When("section markers exist but the prices block is unusable", func() {
		BeforeEach(func() {
			parser.NameBlockSkip = 0
			text = "Milch 1,99 A\nPreis EUR\nkein Betrag hier\nSumme 1,99\n"
		})

		It("falls back to the line-oriented strategy", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(rcpt.Products).To(HaveLen(1))
			Expect(rcpt.Products[0].Name).To(Equal("Milch"))
			Expect(rcpt.Products[0].Price.Equal(decimal.RequireFromString("1.99"))).To(BeTrue())
		})
	})

	When("the names-block skip exceeds the header position", func() {
		BeforeEach(func() {
			parser.NameBlockSkip = 10
			text = "Milch 1,99 A\nPreis EUR\nSumme 1,99\n"
		})

		It("clamps the skip instead of panicking", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(rcpt.Products).To(HaveLen(1))
		})
	})
})

var _ = Describe("ParsePrice", func() {
	It("parses a comma-separated amount", func() {
		d, err := ParsePrice("12,34")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Equal(decimal.RequireFromString("12.34"))).To(BeTrue())
	})

	It("parses a period-separated amount", func() {
		d, err := ParsePrice("3.50")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Equal(decimal.RequireFromString("3.50"))).To(BeTrue())
	})

	It("returns ErrInvalidPrice for non-numeric input", func() {
		_, err := ParsePrice("drei fünfzig")
		Expect(errors.Is(err, ErrInvalidPrice)).To(BeTrue())
	})
})
