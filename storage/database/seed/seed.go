// Package seed holds the demo data set used when no remote store is configured.
package seed

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/entity"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
)

// DemoPassword is the password of every demo account.
const DemoPassword = "D4r4sa-demo!"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, h, mi int) time.Time {
	return time.Date(y, m, d, h, mi, 0, 0, time.UTC)
}

func users() []user.User {
	return []user.User{
		{ID: "admin-1", Email: "admin@darasa.io", Role: user.RoleAdmin, FirstName: "Admin", LastName: "Darasa", CreatedAt: day(2024, 1, 1)},
		{ID: "teacher-1", Email: "marie.dupont@email.com", Role: user.RoleTeacher, FirstName: "Marie", LastName: "Dupont", Phone: "+33123456789", Address: "15 rue de la République, 75011 Paris", CreatedAt: day(2024, 1, 1)},
		{ID: "parent-1", Email: "martin@email.com", Role: user.RoleParent, FirstName: "Jean", LastName: "Martin", Phone: "+33123456789", Address: "123 rue de la Paix, 75001 Paris", CreatedAt: day(2024, 1, 15)},
		{ID: "parent-2", Email: "dubois@email.com", Role: user.RoleParent, FirstName: "Sophie", LastName: "Dubois", Phone: "+33987654321", Address: "456 avenue des Champs, 75008 Paris", CreatedAt: day(2024, 2, 1)},
		{ID: "parent-3", Email: "bernard@email.com", Role: user.RoleParent, FirstName: "Pierre", LastName: "Bernard", Phone: "+33555666777", Address: "789 boulevard Saint-Germain, 75007 Paris", CreatedAt: day(2024, 1, 20)},
		{ID: "student-1", Email: "alice.martin@email.com", Role: user.RoleStudent, FirstName: "Alice", LastName: "Martin", CreatedAt: day(2024, 1, 15)},
		{ID: "student-2", Email: "lucas.dubois@email.com", Role: user.RoleStudent, FirstName: "Lucas", LastName: "Dubois", CreatedAt: day(2024, 2, 1)},
		{ID: "student-3", Email: "emma.bernard@email.com", Role: user.RoleStudent, FirstName: "Emma", LastName: "Bernard", CreatedAt: day(2024, 1, 20)},
	}
}

func allNotifications() school.NotificationSettings {
	return school.NotificationSettings{
		Email:            true,
		SMS:              true,
		Push:             true,
		CourseReminders:  true,
		PaymentReminders: true,
		GradeUpdates:     true,
	}
}

// Data returns the demo records in dependency order. Account passwords are not set.
func Data() []entity.Entity {
	records := make([]entity.Entity, 0)
	for _, usr := range users() {
		usr := usr
		usr.IsActive = true
		usr.UpdatedAt = usr.CreatedAt
		records = append(records, &usr)
	}

	parent2 := allNotifications()
	parent2.SMS = false
	parent3 := allNotifications()
	parent3.Push = false
	paid := day(2024, 12, 20)

	return append(records,
		&school.Teacher{
			ID:         "teacher-1",
			Email:      "marie.dupont@email.com",
			FirstName:  "Marie",
			LastName:   "Dupont",
			Subjects:   []string{"Mathématiques", "Physique", "Chimie"},
			HourlyRate: 35,
			Bio:        "Professeure de mathématiques et sciences avec 10 ans d'expérience.",
			Phone:      "+33123456789",
			CreatedAt:  day(2024, 1, 1),
		},
		&school.Student{
			ID:          "student-1",
			FirstName:   "Alice",
			LastName:    "Martin",
			DateOfBirth: day(2010, 5, 15),
			Level:       "4ème",
			Subjects:    []string{"Mathématiques", "Physique"},
			ParentIDs:   []string{"parent-1"},
			TeacherID:   "teacher-1",
			Notes:       "Excellente élève, très motivée",
			CreatedAt:   day(2024, 1, 15),
		},
		&school.Student{
			ID:          "student-2",
			FirstName:   "Lucas",
			LastName:    "Dubois",
			DateOfBirth: day(2011, 8, 22),
			Level:       "3ème",
			Subjects:    []string{"Français", "Histoire"},
			ParentIDs:   []string{"parent-2"},
			TeacherID:   "teacher-1",
			Notes:       "Besoin de plus de confiance en soi",
			CreatedAt:   day(2024, 2, 1),
		},
		&school.Student{
			ID:          "student-3",
			FirstName:   "Emma",
			LastName:    "Bernard",
			DateOfBirth: day(2009, 12, 10),
			Level:       "2nde",
			Subjects:    []string{"Mathématiques", "Chimie"},
			ParentIDs:   []string{"parent-3"},
			TeacherID:   "teacher-1",
			CreatedAt:   day(2024, 1, 20),
		},
		&school.Parent{
			ID:                     "parent-1",
			Email:                  "martin@email.com",
			FirstName:              "Jean",
			LastName:               "Martin",
			Phone:                  "+33123456789",
			Address:                "123 rue de la Paix, 75001 Paris",
			Children:               []string{"student-1"},
			PreferredPaymentMethod: "card",
			Notifications:          allNotifications(),
			CreatedAt:              day(2024, 1, 15),
		},
		&school.Parent{
			ID:                     "parent-2",
			Email:                  "dubois@email.com",
			FirstName:              "Sophie",
			LastName:               "Dubois",
			Phone:                  "+33987654321",
			Address:                "456 avenue des Champs, 75008 Paris",
			Children:               []string{"student-2"},
			PreferredPaymentMethod: "bank_transfer",
			Notifications:          parent2,
			CreatedAt:              day(2024, 2, 1),
		},
		&school.Parent{
			ID:                     "parent-3",
			Email:                  "bernard@email.com",
			FirstName:              "Pierre",
			LastName:               "Bernard",
			Phone:                  "+33555666777",
			Address:                "789 boulevard Saint-Germain, 75007 Paris",
			Children:               []string{"student-3"},
			PreferredPaymentMethod: "card",
			Notifications:          parent3,
			CreatedAt:              day(2024, 1, 20),
		},
		&school.Course{
			ID:          "course-1",
			Title:       "Mathématiques - Algèbre",
			Description: "Révision des équations du second degré",
			Date:        at(2024, 12, 20, 14, 0),
			Duration:    60,
			Subject:     "Mathématiques",
			StudentIDs:  []string{"student-1", "student-3"},
			TeacherID:   "teacher-1",
			Status:      school.CourseScheduled,
			Price:       30,
			Location:    "Salle 1",
			CreatedAt:   day(2024, 12, 15),
		},
		&school.Course{
			ID:          "course-2",
			Title:       "Physique - Mécanique",
			Description: "Les lois de Newton",
			Date:        at(2024, 12, 19, 16, 0),
			Duration:    90,
			Subject:     "Physique",
			StudentIDs:  []string{"student-1"},
			TeacherID:   "teacher-1",
			Status:      school.CourseCompleted,
			Price:       45,
			Notes:       "Très bonne compréhension",
			CreatedAt:   day(2024, 12, 10),
		},
		&school.Course{
			ID:          "course-3",
			Title:       "Français - Expression écrite",
			Description: "Rédaction de dissertations",
			Date:        at(2024, 12, 21, 10, 0),
			Duration:    60,
			Subject:     "Français",
			StudentIDs:  []string{"student-2"},
			TeacherID:   "teacher-1",
			Status:      school.CourseScheduled,
			Price:       30,
			CreatedAt:   day(2024, 12, 16),
		},
		&school.Grade{
			ID:        "grade-1",
			StudentID: "student-1",
			CourseID:  "course-2",
			TeacherID: "teacher-1",
			Subject:   "Physique",
			Score:     17,
			MaxScore:  20,
			Weight:    1,
			Type:      school.GradeExam,
			Comment:   "Excellent travail, continue comme ça !",
			Date:      day(2024, 12, 19),
		},
		&school.Grade{
			ID:        "grade-2",
			StudentID: "student-2",
			CourseID:  "course-3",
			TeacherID: "teacher-1",
			Subject:   "Français",
			Score:     14,
			MaxScore:  20,
			Weight:    0.5,
			Type:      school.GradeHomework,
			Comment:   "Bonne amélioration, quelques points à revoir",
			Date:      day(2024, 12, 18),
		},
		&school.Grade{
			ID:        "grade-3",
			StudentID: "student-3",
			CourseID:  "course-1",
			TeacherID: "teacher-1",
			Subject:   "Mathématiques",
			Score:     16,
			MaxScore:  20,
			Weight:    0.3,
			Type:      school.GradeQuiz,
			Comment:   "Très bonne maîtrise des concepts",
			Date:      day(2024, 12, 17),
		},
		&school.Invoice{
			ID:        "invoice-1",
			Number:    "INV-2024-001",
			TeacherID: "teacher-1",
			ParentID:  "parent-1",
			StudentID: "student-1",
			CourseIDs: []string{"course-1", "course-2"},
			Amount:    75,
			Currency:  "EUR",
			Status:    school.InvoiceSent,
			DueDate:   day(2024, 12, 30),
			Items: []school.LineItem{
				{Description: "Cours de Mathématiques", Quantity: 1, UnitPrice: 30, Total: 30},
				{Description: "Cours de Physique", Quantity: 1, UnitPrice: 45, Total: 45},
			},
			Notes:     "Paiement par virement bancaire accepté",
			CreatedAt: day(2024, 12, 15),
		},
		&school.Invoice{
			ID:            "invoice-2",
			Number:        "INV-2024-002",
			TeacherID:     "teacher-1",
			ParentID:      "parent-2",
			StudentID:     "student-2",
			CourseIDs:     []string{"course-3"},
			Amount:        30,
			Currency:      "EUR",
			Status:        school.InvoicePaid,
			DueDate:       day(2024, 12, 25),
			PaidDate:      &paid,
			PaymentMethod: "card",
			Items: []school.LineItem{
				{Description: "Cours de Français", Quantity: 1, UnitPrice: 30, Total: 30},
			},
			CreatedAt: day(2024, 12, 16),
		},
		&school.Message{
			ID:         "msg-1",
			SenderID:   "parent-1",
			ReceiverID: "teacher-1",
			Subject:    "Question sur les devoirs d'Alice",
			Content:    "Bonjour, Alice a des difficultés avec les exercices d'algèbre. Pourriez-vous lui donner quelques conseils supplémentaires ?",
			CreatedAt:  at(2024, 12, 19, 10, 30),
		},
		&school.Message{
			ID:         "msg-2",
			SenderID:   "teacher-1",
			ReceiverID: "parent-1",
			Subject:    "Re: Question sur les devoirs d'Alice",
			Content:    "Bonjour, je vais préparer des exercices supplémentaires pour Alice. Elle progresse très bien.",
			Read:       true,
			ThreadID:   "msg-1",
			CreatedAt:  at(2024, 12, 19, 14, 15),
		},
	)
}

// Load writes the demo data set into store, hashing DemoPassword for every account.
func Load(ctx context.Context, store entity.Store) error {
	var hash []byte
	for _, rec := range Data() {
		if usr, ok := rec.(*user.User); ok {
			if hash == nil {
				if err := usr.SetPassword(DemoPassword); err != nil {
					return errors.Wrap(err, "hashing demo password")
				}
				hash = usr.PasswordHash
			}
			usr.PasswordHash = hash
		}
		if _, err := store.Create(ctx, rec); err != nil {
			return errors.Wrapf(err, "seeding %s %s", rec.EntityKind(), rec.EntityID())
		}
	}
	return nil
}
