package stats

import "github.com/trezcool/darasa/core/school"

// CompletionRate returns the percentage of completed courses, 0 when there is none.
func CompletionRate(courses []school.Course) float64 {
	return statusRate(courses, school.CourseCompleted)
}

// CancellationRate returns the percentage of cancelled courses, 0 when there is none.
// No-shows are not counted as cancellations.
func CancellationRate(courses []school.Course) float64 {
	return statusRate(courses, school.CourseCancelled)
}

func NoShowRate(courses []school.Course) float64 {
	return statusRate(courses, school.CourseNoShow)
}

func statusRate(courses []school.Course, status string) float64 {
	if len(courses) == 0 {
		return 0
	}
	return float64(CountCourses(courses, status)) / float64(len(courses)) * 100
}

// CountCourses returns the number of courses having status.
func CountCourses(courses []school.Course, status string) int {
	var n int
	for _, c := range courses {
		if c.Status == status {
			n++
		}
	}
	return n
}
