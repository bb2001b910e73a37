package school

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceAmount(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItem
		discount float64
		want     float64
	}{
		{name: "no items", want: 0},
		{name: "items and discount", items: []LineItem{{Quantity: 2, UnitPrice: 15}, {Quantity: 1, UnitPrice: 45}}, discount: 10, want: 65},
		{name: "fractional quantity", items: []LineItem{{Quantity: 1.5, UnitPrice: 30}}, want: 45},
		{name: "discount above items", items: []LineItem{{Quantity: 1, UnitPrice: 5}}, discount: 10, want: -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InvoiceAmount(tt.items, tt.discount); got != tt.want {
				t.Errorf("InvoiceAmount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvoice_items(t *testing.T) {
	inv := Invoice{Discount: 5}
	inv.AddItem(LineItem{Description: "a", Quantity: 2, UnitPrice: 10})
	inv.AddItem(LineItem{Description: "b", Quantity: 1, UnitPrice: 30})
	assert.Equal(t, float64(45), inv.Amount)
	assert.Equal(t, float64(20), inv.Items[0].Total)

	if inv.RemoveItem(2) || inv.RemoveItem(-1) {
		t.Error("RemoveItem() = true for an index out of range")
	}
	if !inv.RemoveItem(0) {
		t.Fatal("RemoveItem(0) = false, want true")
	}
	assert.Equal(t, "b", inv.Items[0].Description)
	assert.Equal(t, float64(25), inv.Amount)
}

func TestInvoice_IsOverdue(t *testing.T) {
	due := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		status string
		now    time.Time
		want   bool
	}{
		{status: InvoiceSent, now: due.Add(time.Second), want: true},
		{status: InvoiceSent, now: due, want: false},
		{status: InvoiceDraft, now: due.AddDate(0, 1, 0), want: false},
		{status: InvoicePaid, now: due.AddDate(0, 1, 0), want: false},
		{status: InvoiceOverdue, now: due.AddDate(0, 1, 0), want: false},
	}
	for _, tt := range tests {
		inv := Invoice{Status: tt.status, DueDate: due}
		if got := inv.IsOverdue(tt.now); got != tt.want {
			t.Errorf("IsOverdue(%s, %v) = %v, want %v", tt.status, tt.now, got, tt.want)
		}
	}
}

func TestNextInvoiceNumber(t *testing.T) {
	invoices := []Invoice{{Number: "INV-2024-001"}, {Number: "INV-2024-002"}, {Number: "INV-2023-009"}}
	tests := []struct {
		year int
		want string
	}{
		{year: 2024, want: "INV-2024-003"},
		{year: 2023, want: "INV-2023-002"},
		{year: 2025, want: "INV-2025-001"},
	}
	for _, tt := range tests {
		if got := NextInvoiceNumber(invoices, tt.year); got != tt.want {
			t.Errorf("NextInvoiceNumber(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestCanTransitionInvoice(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{from: InvoiceDraft, to: InvoiceSent, want: true},
		{from: InvoiceDraft, to: InvoicePaid, want: false},
		{from: InvoiceSent, to: InvoicePaid, want: true},
		{from: InvoiceSent, to: InvoiceOverdue, want: true},
		{from: InvoiceOverdue, to: InvoicePaid, want: true},
		{from: InvoiceOverdue, to: InvoiceSent, want: false},
		{from: InvoicePaid, to: InvoiceCancelled, want: false},
		{from: InvoiceCancelled, to: InvoiceDraft, want: false},
		{from: InvoicePaid, to: InvoicePaid, want: true},
	}
	for _, tt := range tests {
		if got := CanTransitionInvoice(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransitionInvoice(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCanTransitionCourse(t *testing.T) {
	assert.True(t, CanTransitionCourse(CourseScheduled, CourseCompleted))
	assert.True(t, CanTransitionCourse(CourseScheduled, CourseNoShow))
	assert.True(t, CanTransitionCourse(CourseCancelled, CourseCancelled))
	assert.False(t, CanTransitionCourse(CourseCompleted, CourseScheduled))
	assert.False(t, CanTransitionCourse(CourseNoShow, CourseCompleted))
}
