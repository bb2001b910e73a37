package school

import (
	"sort"
	"time"
)

type CalendarEvent struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Subject    string    `json:"subject"`
	Status     string    `json:"status"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	TeacherID  string    `json:"teacher_id"`
	StudentIDs []string  `json:"student_ids"`
	Location   string    `json:"location,omitempty"`
}

type CalendarFilter struct {
	From   time.Time `query:"from"`
	To     time.Time `query:"to"`
	Status string    `query:"status"`
}

// CalendarEvents turns courses into calendar events ordered by start time.
// Events overlapping [From, To] are kept; zero bounds are open.
func CalendarEvents(courses []Course, f CalendarFilter) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(courses))
	for _, c := range courses {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		end := c.End()
		if !f.From.IsZero() && end.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && c.Date.After(f.To) {
			continue
		}
		events = append(events, CalendarEvent{
			ID:         c.ID,
			Title:      c.Title,
			Subject:    c.Subject,
			Status:     c.Status,
			Start:      c.Date,
			End:        end,
			TeacherID:  c.TeacherID,
			StudentIDs: c.StudentIDs,
			Location:   c.Location,
		})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return events
}
