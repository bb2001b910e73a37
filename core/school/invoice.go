package school

import (
	"fmt"
	"strings"
	"time"
)

var invoiceTransitions = map[string][]string{
	InvoiceDraft:   {InvoiceSent, InvoiceCancelled},
	InvoiceSent:    {InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue: {InvoicePaid, InvoiceCancelled},
}

// LineTotal returns quantity * unit price.
func (it LineItem) LineTotal() float64 {
	return it.Quantity * it.UnitPrice
}

// InvoiceAmount returns the sum of the line totals minus the discount.
// The result may be negative; callers reject such invoices.
func InvoiceAmount(items []LineItem, discount float64) float64 {
	var sum float64
	for _, it := range items {
		sum += it.LineTotal()
	}
	return sum - discount
}

// Recompute refreshes every line total and the invoice amount.
func (inv *Invoice) Recompute() {
	for i := range inv.Items {
		inv.Items[i].Total = inv.Items[i].LineTotal()
	}
	inv.Amount = InvoiceAmount(inv.Items, inv.Discount)
}

func (inv *Invoice) AddItem(it LineItem) {
	inv.Items = append(inv.Items, it)
	inv.Recompute()
}

func (inv *Invoice) RemoveItem(idx int) bool {
	if idx < 0 || idx >= len(inv.Items) {
		return false
	}
	items := make([]LineItem, 0, len(inv.Items)-1)
	items = append(items, inv.Items[:idx]...)
	inv.Items = append(items, inv.Items[idx+1:]...)
	inv.Recompute()
	return true
}

// IsPending reports whether the invoice awaits payment.
func (inv Invoice) IsPending() bool {
	return inv.Status == InvoiceSent || inv.Status == InvoiceOverdue
}

// IsOverdue reports whether a sent invoice passed its due date at now.
func (inv Invoice) IsOverdue(now time.Time) bool {
	return inv.Status == InvoiceSent && now.After(inv.DueDate)
}

// InvoiceNumber formats the human readable number of the seq-th invoice of year.
func InvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%03d", year, seq)
}

// NextInvoiceNumber returns the number following the invoices already issued in year.
func NextInvoiceNumber(invoices []Invoice, year int) string {
	prefix := fmt.Sprintf("INV-%d-", year)
	var count int
	for _, inv := range invoices {
		if strings.HasPrefix(inv.Number, prefix) {
			count++
		}
	}
	return InvoiceNumber(year, count+1)
}

func CanTransitionInvoice(from, to string) bool {
	if from == to {
		return true
	}
	return contains(invoiceTransitions[from], to)
}

// CanTransitionCourse allows scheduled courses to move to any status; other statuses are final.
func CanTransitionCourse(from, to string) bool {
	return from == to || from == CourseScheduled
}
