package school

import (
	"sort"
	"strings"
)

// Message boxes
const (
	BoxAll    = "all"
	BoxUnread = "unread"
	BoxSent   = "sent"
)

type MessageFilter struct {
	Box    string `query:"filter"`
	Search string `query:"search"`
}

// Match reports whether m is visible to userID and satisfies the filter.
// Search does a case-insensitive match on the subject or the content.
func (f MessageFilter) Match(m Message, userID string) bool {
	if m.SenderID != userID && m.ReceiverID != userID {
		return false
	}
	switch f.Box {
	case BoxUnread:
		if m.ReceiverID != userID || m.Read {
			return false
		}
	case BoxSent:
		if m.SenderID != userID {
			return false
		}
	}
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(m.Subject), s) && !strings.Contains(strings.ToLower(m.Content), s) {
			return false
		}
	}
	return true
}

// FilterMessages returns the messages of userID matching f, newest first.
func FilterMessages(msgs []Message, userID string, f MessageFilter) []Message {
	res := make([]Message, 0)
	for _, m := range msgs {
		if f.Match(m, userID) {
			res = append(res, m)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

// UnreadCount returns the number of unread messages received by userID.
func UnreadCount(msgs []Message, userID string) int {
	var n int
	for _, m := range msgs {
		if m.ReceiverID == userID && !m.Read {
			n++
		}
	}
	return n
}
