// Package view selects the screen a role sees for a tab and gathers the data it shows.
package view

import (
	"sort"
	"time"

	"github.com/trezcool/darasa/core/actor"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/scope"
	"github.com/trezcool/darasa/core/stats"
	"github.com/trezcool/darasa/core/user"
)

const (
	DefaultTab = "dashboard"

	UnknownRole      = "unknown-role"
	UnknownRoleLabel = "Rôle non reconnu"
)

type Tab struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Screen struct {
	Role  string      `json:"role"`
	Tab   string      `json:"tab"`
	Label string      `json:"label"`
	Tabs  []Tab       `json:"tabs"`
	Data  interface{} `json:"data,omitempty"`
}

var tabs = map[string][]Tab{
	user.RoleAdmin: {
		{ID: "dashboard", Label: "Tableau de bord"},
		{ID: "users", Label: "Utilisateurs"},
		{ID: "teachers", Label: "Professeurs"},
		{ID: "students", Label: "Élèves"},
		{ID: "parents", Label: "Parents"},
		{ID: "system", Label: "Système"},
		{ID: "analytics", Label: "Statistiques"},
	},
	user.RoleTeacher: {
		{ID: "dashboard", Label: "Tableau de bord"},
		{ID: "students", Label: "Mes élèves"},
		{ID: "groups", Label: "Groupes"},
		{ID: "courses", Label: "Cours"},
		{ID: "calendar", Label: "Planning"},
		{ID: "materials", Label: "Supports"},
		{ID: "grades", Label: "Notes"},
		{ID: "attendance", Label: "Présences"},
		{ID: "messages", Label: "Messages"},
	},
	user.RoleStudent: {
		{ID: "dashboard", Label: "Tableau de bord"},
		{ID: "schedule", Label: "Mon planning"},
		{ID: "materials", Label: "Supports de cours"},
		{ID: "grades", Label: "Mes notes"},
		{ID: "homework", Label: "Devoirs"},
		{ID: "profile", Label: "Mon profil"},
		{ID: "password", Label: "Mot de passe"},
	},
	user.RoleParent: {
		{ID: "dashboard", Label: "Tableau de bord"},
		{ID: "children", Label: "Mes enfants"},
		{ID: "schedule", Label: "Planning"},
		{ID: "grades", Label: "Notes"},
		{ID: "homework", Label: "Devoirs"},
		{ID: "invoices", Label: "Factures"},
		{ID: "messages", Label: "Messages"},
	},
}

// Tabs returns the tabs of role, nil for an unknown role.
func Tabs(role string) []Tab {
	ts, ok := tabs[role]
	if !ok {
		return nil
	}
	return append([]Tab(nil), ts...)
}

// Dispatch looks up the screen of role for tab. An unknown tab falls back to the dashboard,
// an unknown role gets the unknown-role screen.
func Dispatch(role, tab string) Screen {
	ts, ok := tabs[role]
	if !ok {
		return Screen{Role: role, Tab: UnknownRole, Label: UnknownRoleLabel, Tabs: []Tab{}}
	}
	selected := ts[0]
	for _, t := range ts {
		if t.ID == tab {
			selected = t
			break
		}
	}
	return Screen{Role: role, Tab: selected.ID, Label: selected.Label, Tabs: Tabs(role)}
}

// Render dispatches the tab for a and fills the screen with the data of snap visible to a.
func Render(snap school.Snapshot, a actor.Actor, tab string, now time.Time) Screen {
	if a == nil {
		return Dispatch("", tab)
	}
	scr := Dispatch(a.Role(), tab)
	if scr.Tab == UnknownRole {
		return scr
	}
	scoped := scope.Filter(snap, a)
	if build, ok := builders[scr.Tab]; ok {
		scr.Data = build(scoped, a, now)
	}
	return scr
}

type builder func(snap school.Snapshot, a actor.Actor, now time.Time) interface{}

// builders are keyed by tab: a tab shared by several roles shows the same data, scoped per actor.
var builders = map[string]builder{
	"dashboard": func(snap school.Snapshot, a actor.Actor, now time.Time) interface{} {
		return stats.Dashboard(snap, a, now)
	},
	"users": func(snap school.Snapshot, _ actor.Actor, _ time.Time) interface{} {
		return snap.Users
	},
	"teachers": func(snap school.Snapshot, _ actor.Actor, _ time.Time) interface{} {
		return snap.Teachers
	},
	"students": studentsData,
	"children": studentsData,
	"parents": func(snap school.Snapshot, _ actor.Actor, _ time.Time) interface{} {
		return snap.Parents
	},
	"system": func(snap school.Snapshot, _ actor.Actor, _ time.Time) interface{} {
		return map[string]int{
			"users":    len(snap.Users),
			"teachers": len(snap.Teachers),
			"students": len(snap.Students),
			"parents":  len(snap.Parents),
			"courses":  len(snap.Courses),
			"grades":   len(snap.Grades),
			"invoices": len(snap.Invoices),
			"messages": len(snap.Messages),
		}
	},
	"analytics": func(snap school.Snapshot, _ actor.Actor, _ time.Time) interface{} {
		return stats.NewAnalytics(snap)
	},
	"groups": func(snap school.Snapshot, _ actor.Actor, _ time.Time) interface{} {
		return groupsByLevel(snap.Students)
	},
	"courses": func(snap school.Snapshot, _ actor.Actor, _ time.Time) interface{} {
		return snap.Courses
	},
	"calendar": calendarData,
	"schedule": calendarData,
	"grades": func(snap school.Snapshot, _ actor.Actor, _ time.Time) interface{} {
		return GradesData{
			Grades:   snap.Grades,
			Average:  stats.WeightedAverage(snap.Grades),
			Subjects: stats.SubjectAverages(snap.Grades),
			Students: stats.StudentAverages(snap.Students, snap.Grades),
		}
	},
	"invoices": func(snap school.Snapshot, _ actor.Actor, _ time.Time) interface{} {
		return InvoicesData{Invoices: snap.Invoices, Summary: stats.SummarizeInvoices(snap.Invoices)}
	},
	"messages": func(snap school.Snapshot, a actor.Actor, _ time.Time) interface{} {
		return MessagesData{
			Messages: school.FilterMessages(snap.Messages, a.ID(), school.MessageFilter{Box: school.BoxAll}),
			Unread:   school.UnreadCount(snap.Messages, a.ID()),
		}
	},
	"profile": func(snap school.Snapshot, a actor.Actor, _ time.Time) interface{} {
		usr, _ := snap.User(a.ID())
		return usr
	},
}

type GradesData struct {
	Grades   []school.Grade         `json:"grades"`
	Average  float64                `json:"average"`
	Subjects []stats.SubjectAverage `json:"subjects"`
	Students []stats.StudentAverage `json:"students"`
}

type InvoicesData struct {
	Invoices []school.Invoice     `json:"invoices"`
	Summary  stats.InvoiceSummary `json:"summary"`
}

type MessagesData struct {
	Messages []school.Message `json:"messages"`
	Unread   int              `json:"unread"`
}

type Group struct {
	Level    string           `json:"level"`
	Students []school.Student `json:"students"`
}

func studentsData(snap school.Snapshot, _ actor.Actor, _ time.Time) interface{} {
	return stats.StudentAverages(snap.Students, snap.Grades)
}

func calendarData(snap school.Snapshot, _ actor.Actor, _ time.Time) interface{} {
	return school.CalendarEvents(snap.Courses, school.CalendarFilter{})
}

func groupsByLevel(students []school.Student) []Group {
	byLevel := make(map[string][]school.Student)
	for _, s := range students {
		byLevel[s.Level] = append(byLevel[s.Level], s)
	}
	groups := make([]Group, 0, len(byLevel))
	for lvl, ss := range byLevel {
		groups = append(groups, Group{Level: lvl, Students: ss})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Level < groups[j].Level })
	return groups
}
