package school

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterMessages(t *testing.T) {
	base := time.Date(2024, 12, 19, 10, 0, 0, 0, time.UTC)
	msgs := []Message{
		{ID: "m1", SenderID: "p1", ReceiverID: "t1", Subject: "Devoirs", Content: "Algèbre", CreatedAt: base},
		{ID: "m2", SenderID: "t1", ReceiverID: "p1", Subject: "Re: Devoirs", Content: "Exercices", Read: true, CreatedAt: base.Add(time.Hour)},
		{ID: "m3", SenderID: "p2", ReceiverID: "t1", Subject: "Absence", Content: "Lucas est malade", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "m4", SenderID: "p2", ReceiverID: "p3", Subject: "Covoiturage", Content: "Samedi", CreatedAt: base.Add(3 * time.Hour)},
	}
	tests := []struct {
		name   string
		userID string
		filter MessageFilter
		want   []string
	}{
		{name: "all, newest first", userID: "t1", filter: MessageFilter{Box: BoxAll}, want: []string{"m3", "m2", "m1"}},
		{name: "unread", userID: "t1", filter: MessageFilter{Box: BoxUnread}, want: []string{"m3", "m1"}},
		{name: "unread: read ones excluded", userID: "p1", filter: MessageFilter{Box: BoxUnread}, want: []string{}},
		{name: "sent", userID: "t1", filter: MessageFilter{Box: BoxSent}, want: []string{"m2"}},
		{name: "search subject", userID: "t1", filter: MessageFilter{Box: BoxAll, Search: "DEVOIRS"}, want: []string{"m2", "m1"}},
		{name: "search content", userID: "t1", filter: MessageFilter{Box: BoxAll, Search: "malade"}, want: []string{"m3"}},
		{name: "stranger", userID: "s1", filter: MessageFilter{Box: BoxAll}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]string, 0)
			for _, m := range FilterMessages(msgs, tt.userID, tt.filter) {
				got = append(got, m.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	if got := UnreadCount(msgs, "t1"); got != 2 {
		t.Errorf("UnreadCount() = %v, want 2", got)
	}
}

func TestCalendarEvents(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2024, 12, d, h, 0, 0, 0, time.UTC) }
	courses := []Course{
		{ID: "c1", Date: day(20, 14), Duration: 60, Status: CourseScheduled},
		{ID: "c2", Date: day(19, 16), Duration: 90, Status: CourseCompleted},
		{ID: "c3", Date: day(21, 10), Duration: 60, Status: CourseScheduled},
	}
	tests := []struct {
		name   string
		filter CalendarFilter
		want   []string
	}{
		{name: "all, by start", want: []string{"c2", "c1", "c3"}},
		{name: "status", filter: CalendarFilter{Status: CourseScheduled}, want: []string{"c1", "c3"}},
		{name: "from", filter: CalendarFilter{From: day(20, 0)}, want: []string{"c1", "c3"}},
		{name: "to", filter: CalendarFilter{To: day(20, 23)}, want: []string{"c2", "c1"}},
		{name: "overlap", filter: CalendarFilter{From: day(19, 17), To: day(19, 18)}, want: []string{"c2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]string, 0)
			for _, ev := range CalendarEvents(courses, tt.filter) {
				got = append(got, ev.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	ev := CalendarEvents(courses[:1], CalendarFilter{})[0]
	assert.Equal(t, day(20, 15), ev.End)
}
