package ledger

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func datedRecord(id, date string, amount float64, cat Category) SavedRecord {
	return SavedRecord{
		ID: id,
		Record: Record{
			Amount:   f64Ptr(amount),
			Date:     strPtr(date),
			Category: catPtr(cat),
		},
	}
}

var _ = Describe("Period", func() {
	Describe("ParsePeriod", func() {
		It("should parse tokens case-insensitively", func() {
			p, err := ParsePeriod("Monthly")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(PeriodMonthly))
		})

		It("should treat an empty token as All", func() {
			p, err := ParsePeriod("")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(PeriodAll))
		})

		It("should reject unknown tokens", func() {
			_, err := ParsePeriod("fortnightly")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Range", func() {
		var now time.Time

		BeforeEach(func() {
			// Wednesday, March 20 2024
			now = time.Date(2024, 3, 20, 15, 30, 0, 0, time.Local)
		})

		It("should bound Daily to today's midnight through end of day", func() {
			start, end, ok := PeriodDaily.Range(now)
			Expect(ok).To(BeTrue())
			Expect(start).To(Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, time.Local)))
			Expect(end.Day()).To(Equal(20))
			Expect(end.Hour()).To(Equal(23))
		})

		It("should start Weekly on the preceding Monday", func() {
			start, end, ok := PeriodWeekly.Range(now)
			Expect(ok).To(BeTrue())
			Expect(start).To(Equal(time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local)))
			Expect(end.Day()).To(Equal(24)) // the following Sunday
		})

		It("should treat a Sunday anchor as the end of its week", func() {
			sunday := time.Date(2024, 3, 24, 10, 0, 0, 0, time.Local)
			start, end, ok := PeriodWeekly.Range(sunday)
			Expect(ok).To(BeTrue())
			Expect(start).To(Equal(time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local)))
			Expect(end.Day()).To(Equal(24))
		})

		It("should keep a Monday anchor at the start of its week", func() {
			monday := time.Date(2024, 3, 18, 10, 0, 0, 0, time.Local)
			start, _, ok := PeriodWeekly.Range(monday)
			Expect(ok).To(BeTrue())
			Expect(start).To(Equal(time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local)))
		})

		It("should bound Monthly to the calendar month", func() {
			start, end, ok := PeriodMonthly.Range(now)
			Expect(ok).To(BeTrue())
			Expect(start).To(Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)))
			Expect(end.Month()).To(Equal(time.March))
			Expect(end.Day()).To(Equal(31))
		})

		It("should bound Quarterly to the three-month quarter", func() {
			start, end, ok := PeriodQuarterly.Range(now)
			Expect(ok).To(BeTrue())
			Expect(start).To(Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)))
			Expect(end.Month()).To(Equal(time.March))
			Expect(end.Day()).To(Equal(31))
		})

		It("should place a mid-year anchor in its own quarter", func() {
			august := time.Date(2024, 8, 10, 0, 0, 0, 0, time.Local)
			start, end, ok := PeriodQuarterly.Range(august)
			Expect(ok).To(BeTrue())
			Expect(start.Month()).To(Equal(time.July))
			Expect(end.Month()).To(Equal(time.September))
		})

		It("should bound Yearly to the calendar year", func() {
			start, end, ok := PeriodYearly.Range(now)
			Expect(ok).To(BeTrue())
			Expect(start).To(Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)))
			Expect(end.Month()).To(Equal(time.December))
			Expect(end.Day()).To(Equal(31))
		})

		It("should report All as unbounded", func() {
			_, _, ok := PeriodAll.Range(now)
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("FilterByPeriod", func() {
	var now time.Time

	BeforeEach(func() {
		now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.Local)
	})

	When("filtering Daily", func() {
		It("should include a record iff its date is today's local date", func() {
			records := []SavedRecord{
				datedRecord("today", "2024-03-20", 10, CategoryShopping),
				datedRecord("yesterday", "2024-03-19", 10, CategoryShopping),
				datedRecord("tomorrow", "2024-03-21", 10, CategoryShopping),
			}

			filtered := FilterByPeriod(records, PeriodDaily, now)
			Expect(filtered).To(HaveLen(1))
			Expect(filtered[0].ID).To(Equal("today"))
		})
	})

	When("records lack a date", func() {
		var records []SavedRecord

		BeforeEach(func() {
			records = []SavedRecord{
				{ID: "undated"},
				datedRecord("dated", "2024-03-20", 10, CategoryShopping),
			}
		})

		It("should exclude them from every bounded period", func() {
			for _, p := range []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly} {
				filtered := FilterByPeriod(records, p, now)
				Expect(filtered).To(HaveLen(1), "period %s", p)
				Expect(filtered[0].ID).To(Equal("dated"))
			}
		})

		It("should include them in All", func() {
			Expect(FilterByPeriod(records, PeriodAll, now)).To(HaveLen(2))
		})
	})

	When("dates carry an unparseable value", func() {
		It("should exclude them from bounded periods", func() {
			records := []SavedRecord{
				{ID: "junk", Record: Record{Date: strPtr("not-a-date")}},
			}
			Expect(FilterByPeriod(records, PeriodYearly, now)).To(BeEmpty())
		})
	})

	When("a date sits on a period boundary", func() {
		It("should include both endpoints of the month", func() {
			records := []SavedRecord{
				datedRecord("first", "2024-03-01", 1, CategoryOther),
				datedRecord("last", "2024-03-31", 1, CategoryOther),
				datedRecord("outside", "2024-04-01", 1, CategoryOther),
			}
			filtered := FilterByPeriod(records, PeriodMonthly, now)
			Expect(filtered).To(HaveLen(2))
		})
	})
})

var _ = Describe("SortByDate", func() {
	It("should order newest first with undated records last", func() {
		records := []SavedRecord{
			{ID: "undated"},
			datedRecord("older", "2024-01-05", 1, CategoryOther),
			datedRecord("newer", "2024-03-05", 1, CategoryOther),
		}

		SortByDate(records)
		Expect(records[0].ID).To(Equal("newer"))
		Expect(records[1].ID).To(Equal("older"))
		Expect(records[2].ID).To(Equal("undated"))
	})
})

var _ = Describe("Summarize", func() {
	When("records share categories", func() {
		var summaries []CategorySummary

		BeforeEach(func() {
			summaries = Summarize([]SavedRecord{
				datedRecord("a", "2024-03-01", 50, CategoryGroceries),
				datedRecord("b", "2024-03-15", 30, CategoryGroceries),
				datedRecord("c", "2024-03-16", 20, CategoryTravel),
			})
		})

		It("should sum and count per category", func() {
			Expect(summaries).To(HaveLen(2))
			Expect(summaries[0]).To(Equal(CategorySummary{Category: "Groceries", Total: 80, Count: 2}))
			Expect(summaries[1]).To(Equal(CategorySummary{Category: "Travel", Total: 20, Count: 1}))
		})

		It("should conserve the total across groups", func() {
			var sum float64
			for _, s := range summaries {
				sum += s.Total
			}
			Expect(sum).To(Equal(100.0))
		})

		It("should order adjacent rows by non-increasing total", func() {
			for i := 1; i < len(summaries); i++ {
				Expect(summaries[i-1].Total).To(BeNumerically(">=", summaries[i].Total))
			}
		})
	})

	When("records lack category or amount", func() {
		It("should group them under Uncategorized with zero amounts", func() {
			summaries := Summarize([]SavedRecord{
				{ID: "bare"},
				{ID: "amountless", Record: Record{Category: catPtr(CategoryShopping)}},
			})

			Expect(summaries).To(HaveLen(2))
			Expect(summaries).To(ContainElement(CategorySummary{Category: Uncategorized, Total: 0, Count: 1}))
			Expect(summaries).To(ContainElement(CategorySummary{Category: "Shopping", Total: 0, Count: 1}))
		})
	})

	When("groups tie on total", func() {
		It("should keep first-encounter order", func() {
			summaries := Summarize([]SavedRecord{
				datedRecord("a", "2024-03-01", 10, CategoryTravel),
				datedRecord("b", "2024-03-02", 10, CategoryShopping),
			})

			Expect(summaries[0].Category).To(Equal("Travel"))
			Expect(summaries[1].Category).To(Equal("Shopping"))
		})
	})
})
