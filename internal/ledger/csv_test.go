package ledger

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RecordsCSV", func() {
	It("should render a header row", func() {
		Expect(RecordsCSV(nil)).To(Equal("Date,Merchant,Category,Amount"))
	})

	It("should double embedded quotes in the merchant field", func() {
		records := []SavedRecord{
			{ID: "1", Record: Record{
				Merchant: strPtr(`Al"s Diner`),
				Amount:   f64Ptr(12.5),
				Date:     strPtr("2024-03-05"),
				Category: catPtr(CategoryFoodDrink),
			}},
			{ID: "2", Record: Record{
				Merchant: strPtr("Target"),
				Amount:   f64Ptr(30),
				Date:     strPtr("2024-03-04"),
				Category: catPtr(CategoryShopping),
			}},
		}

		payload := RecordsCSV(records)
		lines := strings.Split(payload, "\n")
		Expect(lines).To(HaveLen(3))
		Expect(lines[1]).To(Equal(`2024-03-05,"Al""s Diner",Food & Drink,12.50`))
		Expect(lines[2]).To(Equal(`2024-03-04,"Target",Shopping,30.00`))
	})

	It("should render absent fields as N/A", func() {
		payload := RecordsCSV([]SavedRecord{{ID: "1"}})
		Expect(payload).To(HaveSuffix(`N/A,"N/A",N/A,N/A`))
	})

	It("should format amounts with two decimal places", func() {
		payload := RecordsCSV([]SavedRecord{
			{ID: "1", Record: Record{Amount: f64Ptr(7)}},
		})
		Expect(payload).To(HaveSuffix("7.00"))
	})
})

var _ = Describe("SummariesCSV", func() {
	It("should render summary columns with two-decimal totals", func() {
		payload := SummariesCSV([]CategorySummary{
			{Category: "Groceries", Total: 80, Count: 2},
			{Category: "Travel", Total: 20, Count: 1},
		})

		lines := strings.Split(payload, "\n")
		Expect(lines[0]).To(Equal("Category,Total Amount,Transactions"))
		Expect(lines[1]).To(Equal(`"Groceries",80.00,2`))
		Expect(lines[2]).To(Equal(`"Travel",20.00,1`))
	})
})

var _ = Describe("ExportFilename", func() {
	It("should reflect the active period", func() {
		Expect(ExportFilename(PeriodMonthly)).To(Equal("transactions_monthly.csv"))
		Expect(ExportFilename(PeriodAll)).To(Equal("transactions_all.csv"))
	})

	It("should default an empty period to all", func() {
		Expect(ExportFilename("")).To(Equal("transactions_all.csv"))
	})
})
