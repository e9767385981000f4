package dto

import "time"

// StatisticsQuery narrows the evaluation set an aggregation runs over.
type StatisticsQuery struct {
	CourseID    *uint      `query:"course_id"`
	EvaluatorID *uint      `query:"evaluator_id"`
	From        *time.Time `query:"from"`
	To          *time.Time `query:"to"`
}

// StatisticsResponse summarizes a filtered evaluation set. An empty matching
// set yields zeroed aggregates, never an error.
type StatisticsResponse struct {
	TotalEvaluations     int       `json:"total_evaluations"`
	AverageGrade         float64   `json:"average_grade"`
	CompletedEvaluations int       `json:"completed_evaluations"`
	PendingEvaluations   int       `json:"pending_evaluations"`
	LateSubmissions      int       `json:"late_submissions"`
	GeneratedAt          time.Time `json:"generated_at"`
	CacheHit             bool      `json:"cache_hit"`
}
