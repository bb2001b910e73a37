package stats

import (
	"sort"

	"github.com/trezcool/darasa/core/school"
)

func LineTotal(it school.LineItem) float64 { return it.LineTotal() }

func InvoiceAmount(items []school.LineItem, discount float64) float64 {
	return school.InvoiceAmount(items, discount)
}

// Revenue sums the amount of the paid invoices.
func Revenue(invoices []school.Invoice) float64 {
	return sumAmounts(invoices, school.InvoicePaid)
}

// RevenuePerStudent returns revenue / students, 0 when there is no student.
func RevenuePerStudent(revenue float64, students int) float64 {
	if students == 0 {
		return 0
	}
	return revenue / float64(students)
}

func sumAmounts(invoices []school.Invoice, status string) float64 {
	var sum float64
	for _, inv := range invoices {
		if inv.Status == status {
			sum += inv.Amount
		}
	}
	return sum
}

func countInvoices(invoices []school.Invoice, status string) int {
	var n int
	for _, inv := range invoices {
		if inv.Status == status {
			n++
		}
	}
	return n
}

type InvoiceSummary struct {
	Count        int     `json:"count"`
	Total        float64 `json:"total"`
	PaidCount    int     `json:"paid_count"`
	Paid         float64 `json:"paid"`
	PendingCount int     `json:"pending_count"`
	Pending      float64 `json:"pending"`
	OverdueCount int     `json:"overdue_count"`
	Overdue      float64 `json:"overdue"`
}

// SummarizeInvoices totals every invoice, then the paid, pending (sent) and overdue ones.
func SummarizeInvoices(invoices []school.Invoice) InvoiceSummary {
	s := InvoiceSummary{Count: len(invoices)}
	for _, inv := range invoices {
		s.Total += inv.Amount
	}
	s.PaidCount, s.Paid = countInvoices(invoices, school.InvoicePaid), sumAmounts(invoices, school.InvoicePaid)
	s.PendingCount, s.Pending = countInvoices(invoices, school.InvoiceSent), sumAmounts(invoices, school.InvoiceSent)
	s.OverdueCount, s.Overdue = countInvoices(invoices, school.InvoiceOverdue), sumAmounts(invoices, school.InvoiceOverdue)
	return s
}

type MonthlyRevenue struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
	Courses int     `json:"courses"`
}

// RevenueByMonth groups the paid invoices by month of payment and the courses by month, oldest first.
func RevenueByMonth(invoices []school.Invoice, courses []school.Course) []MonthlyRevenue {
	months := make(map[string]*MonthlyRevenue)
	get := func(key string) *MonthlyRevenue {
		m, ok := months[key]
		if !ok {
			m = &MonthlyRevenue{Month: key}
			months[key] = m
		}
		return m
	}
	for _, inv := range invoices {
		if inv.Status == school.InvoicePaid && inv.PaidDate != nil {
			get(inv.PaidDate.Format("2006-01")).Revenue += inv.Amount
		}
	}
	for _, c := range courses {
		get(c.Date.Format("2006-01")).Courses++
	}
	res := make([]MonthlyRevenue, 0, len(months))
	for _, m := range months {
		res = append(res, *m)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Month < res[j].Month })
	return res
}
