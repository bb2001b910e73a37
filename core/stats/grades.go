// Package stats computes the aggregates shown on the screens: grade averages, course rates and revenue.
// Every function is pure and reads its input only.
package stats

import (
	"sort"

	"github.com/trezcool/darasa/core/school"
)

// GradeScale is the scale averages are expressed on.
const GradeScale = 20

// Grade buckets
const (
	BucketExcellent = "excellent"
	BucketGood      = "good"
	BucketNeedsWork = "needs_work"
)

// WeightedAverage returns (Σ score/max*weight) / (Σ weight) * 20 over grades, restricted to the
// first given subject if any. It returns 0 when no grade counts or the total weight is 0.
func WeightedAverage(grades []school.Grade, subject ...string) float64 {
	var sum, weights float64
	for _, g := range grades {
		if len(subject) > 0 && g.Subject != subject[0] {
			continue
		}
		if g.MaxScore <= 0 {
			continue
		}
		sum += g.Score / g.MaxScore * g.Weight
		weights += g.Weight
	}
	if weights == 0 {
		return 0
	}
	return sum / weights * GradeScale
}

// OverallAverage returns the unweighted mean of the grades on the 20 scale, 0 when there is none.
func OverallAverage(grades []school.Grade) float64 {
	var sum float64
	var n int
	for _, g := range grades {
		if g.MaxScore <= 0 {
			continue
		}
		sum += g.Score / g.MaxScore * GradeScale
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// GradeBucket classifies a percentage: 80 and above is excellent, 60 and above good.
func GradeBucket(pct float64) string {
	switch {
	case pct >= 80:
		return BucketExcellent
	case pct >= 60:
		return BucketGood
	default:
		return BucketNeedsWork
	}
}

type SubjectAverage struct {
	Subject  string  `json:"subject"`
	Average  float64 `json:"average"`
	Grades   int     `json:"grades"`
	Students int     `json:"students"`
}

// SubjectAverages returns the weighted average of every subject found in grades, sorted by subject.
func SubjectAverages(grades []school.Grade) []SubjectAverage {
	bySubject := make(map[string][]school.Grade)
	for _, g := range grades {
		bySubject[g.Subject] = append(bySubject[g.Subject], g)
	}
	res := make([]SubjectAverage, 0, len(bySubject))
	for subj, gs := range bySubject {
		students := make(map[string]struct{})
		for _, g := range gs {
			students[g.StudentID] = struct{}{}
		}
		res = append(res, SubjectAverage{
			Subject:  subj,
			Average:  WeightedAverage(gs),
			Grades:   len(gs),
			Students: len(students),
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Subject < res[j].Subject })
	return res
}

type StudentAverage struct {
	StudentID string  `json:"student_id"`
	Name      string  `json:"name"`
	Average   float64 `json:"average"`
	Bucket    string  `json:"bucket"`
}

// StudentAverages returns the weighted average of every student, in the order of students.
func StudentAverages(students []school.Student, grades []school.Grade) []StudentAverage {
	byStudent := make(map[string][]school.Grade)
	for _, g := range grades {
		byStudent[g.StudentID] = append(byStudent[g.StudentID], g)
	}
	res := make([]StudentAverage, 0, len(students))
	for _, s := range students {
		avg := WeightedAverage(byStudent[s.ID])
		res = append(res, StudentAverage{
			StudentID: s.ID,
			Name:      s.FullName(),
			Average:   avg,
			Bucket:    GradeBucket(avg / GradeScale * 100),
		})
	}
	return res
}
