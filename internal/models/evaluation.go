package models

import (
	"time"

	"gorm.io/datatypes"
)

// EvaluationStatus enumerates the grading lifecycle states.
type EvaluationStatus string

const (
	// StatusPending indicates the submission arrived and grading has not started.
	StatusPending EvaluationStatus = "pending"
	// StatusInProgress indicates an evaluator is actively grading.
	StatusInProgress EvaluationStatus = "in_progress"
	// StatusCompleted indicates grading finished and derived fields are set.
	StatusCompleted EvaluationStatus = "completed"
	// StatusReturned indicates the grade was released back to the student.
	StatusReturned EvaluationStatus = "returned"
	// StatusResubmitted indicates the student handed in a new version.
	StatusResubmitted EvaluationStatus = "resubmitted"
)

// TimelineAction enumerates the closed audit-log vocabulary.
type TimelineAction string

const (
	ActionSubmitted      TimelineAction = "submitted"
	ActionStartedGrading TimelineAction = "started_grading"
	ActionGraded         TimelineAction = "graded"
	ActionReturned       TimelineAction = "returned"
	ActionResubmitted    TimelineAction = "resubmitted"
)

// Inline feedback comment tags.
const (
	CommentSuggestion = "suggestion"
	CommentError      = "error"
	CommentPraise     = "praise"
	CommentQuestion   = "question"
)

// Attachment records metadata for a file the upload collaborator stored elsewhere.
type Attachment struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// RubricLevel is a named, point-valued level an evaluator can select.
type RubricLevel struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// RubricCriterion defines one scoring criterion. MaxPoints is the scoring
// ceiling and is independent of the level point values.
type RubricCriterion struct {
	Name      string        `json:"name"`
	MaxPoints float64       `json:"max_points"`
	Levels    []RubricLevel `json:"levels"`
}

// RubricScore is the points an evaluator awarded against one criterion.
type RubricScore struct {
	Criterion string  `json:"criterion"`
	Points    float64 `json:"points"`
	Level     string  `json:"level,omitempty"`
	Comment   string  `json:"comment,omitempty"`
}

// InlineComment anchors a feedback finding to a line of the submission.
type InlineComment struct {
	Line int    `json:"line"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// Feedback groups everything the evaluator tells the student.
type Feedback struct {
	Overall      string          `json:"overall"`
	Strengths    []string        `json:"strengths"`
	Improvements []string        `json:"improvements"`
	Comments     []InlineComment `json:"comments"`
}

// TimelineEntry is one append-only audit record. Entries are never mutated,
// reordered, or deleted.
type TimelineEntry struct {
	Action    TimelineAction `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	ActorID   uint           `json:"actor_id"`
	ActorRole string         `json:"actor_role,omitempty"`
	Notes     string         `json:"notes"`
}

// PlagiarismCheck stores the result a plagiarism collaborator computed.
type PlagiarismCheck struct {
	Checked   bool       `json:"checked"`
	Score     float64    `json:"score"`
	Sources   []string   `json:"sources"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

// EvaluationAnalytics carries counters maintained by the engine.
type EvaluationAnalytics struct {
	NumberOfRevisions int `json:"number_of_revisions"`
}

// EvaluationFlags marks auxiliary conditions without blocking the workflow.
type EvaluationFlags struct {
	Withdrawn        bool `json:"withdrawn"`
	OverAwarded      bool `json:"over_awarded"`
	LatenessComputed bool `json:"lateness_computed"`
}

// EvaluationSettings configures per-evaluation workflow behavior.
type EvaluationSettings struct {
	AllowResubmission    bool       `json:"allow_resubmission"`
	ShowGradeToStudent   bool       `json:"show_grade_to_student"`
	ResubmissionDeadline *time.Time `json:"resubmission_deadline,omitempty"`
}

// Evaluation tracks one student submission's grading lifecycle for one
// assignment. Assignment, course, student, and evaluator identifiers are
// foreign references owned by external systems.
type Evaluation struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PublicID string `gorm:"size:36;uniqueIndex;not null" json:"public_id"`

	AssignmentID uint `gorm:"not null;index" json:"assignment_id"`
	CourseID     uint `gorm:"not null;index" json:"course_id"`
	StudentID    uint `gorm:"not null;index" json:"student_id"`
	EvaluatorID  uint `gorm:"not null;index" json:"evaluator_id"`

	Content     string                              `gorm:"type:text;not null" json:"content"`
	Attachments datatypes.JSONSlice[Attachment]     `json:"attachments"`
	SubmittedAt time.Time                           `gorm:"not null" json:"submitted_at"`
	DueDate     time.Time                           `gorm:"not null" json:"due_date"`
	IsLate      bool                                `json:"is_late"`
	DaysLate    int                                 `json:"days_late"`

	TotalPoints  float64                             `gorm:"not null" json:"total_points"`
	EarnedPoints float64                             `gorm:"not null;default:0" json:"earned_points"`
	Percentage   float64                             `json:"percentage"`
	LetterGrade  string                              `gorm:"size:2" json:"letter_grade"`
	RubricScores datatypes.JSONSlice[RubricScore]    `json:"rubric_scores"`
	Rubric       datatypes.JSONSlice[RubricCriterion] `json:"rubric"`
	GradedAt     *time.Time                          `json:"graded_at"`
	GradedBy     *uint                               `json:"graded_by"`

	Feedback datatypes.JSONType[Feedback] `json:"feedback"`

	Status   EvaluationStatus                  `gorm:"size:32;not null;index" json:"status"`
	Timeline datatypes.JSONSlice[TimelineEntry] `json:"timeline"`

	Plagiarism datatypes.JSONType[PlagiarismCheck]     `json:"plagiarism"`
	Analytics  datatypes.JSONType[EvaluationAnalytics] `json:"analytics"`
	Flags      datatypes.JSONType[EvaluationFlags]     `json:"flags"`
	Settings   datatypes.JSONType[EvaluationSettings]  `json:"settings"`

	Version   int       `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordAction appends one audit entry to the timeline and returns the
// updated sequence. The caller persists the evaluation in the same write as
// the state change the entry describes.
func (e *Evaluation) RecordAction(action TimelineAction, actorID uint, actorRole, notes string, at time.Time) []TimelineEntry {
	entry := TimelineEntry{
		Action:    action,
		Timestamp: at,
		ActorID:   actorID,
		ActorRole: actorRole,
		Notes:     notes,
	}
	e.Timeline = append(e.Timeline, entry)
	return e.Timeline
}

// IsWithdrawn reports whether the evaluation was withdrawn. Withdrawn
// evaluations are flagged, never deleted, to preserve the audit trail.
func (e Evaluation) IsWithdrawn() bool {
	return e.Flags.Data().Withdrawn
}

// IsGraded reports whether a grading pass has produced a final score.
func (e Evaluation) IsGraded() bool {
	return e.GradedAt != nil
}
