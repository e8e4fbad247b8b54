package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// AnswerOptionDTO is used for displaying answer options to respondents.
type AnswerOptionDTO struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// QuestionDTO is used for displaying a question with its options.
type QuestionDTO struct {
	ID            uint              `json:"id"`
	SurveyID      uint              `json:"survey_id"`
	Text          string            `json:"text"`
	Order         int               `json:"order"`
	AnswerOptions []AnswerOptionDTO `json:"answer_options,omitempty"`
}

// SurveyDTO is used for displaying full survey details.
type SurveyDTO struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	AuthorID  uint          `json:"author_id"`
	IsActive  bool          `json:"is_active"`
	Questions []QuestionDTO `json:"questions,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SurveySummaryDTO is used for listing surveys.
type SurveySummaryDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	AuthorID      uint      `json:"author_id"`
	IsActive      bool      `json:"is_active"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProgressDTO reports how far a respondent is through a survey.
type ProgressDTO struct {
	Answered   int     `json:"answered"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// NextQuestionDTO is the progress-resolver response. Question is nil once
// the session is complete or the survey has no questions.
type NextQuestionDTO struct {
	Question    *QuestionDTO `json:"question"`
	Progress    ProgressDTO  `json:"progress"`
	IsCompleted bool         `json:"is_completed"`
	SessionID   uint         `json:"session_id"`
}

// SessionDTO is used for displaying a respondent's session.
type SessionDTO struct {
	ID             uint       `json:"id"`
	SurveyID       uint       `json:"survey_id"`
	SurveyTitle    string     `json:"survey_title,omitempty"`
	UserID         uint       `json:"user_id"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	IsCompleted    bool       `json:"is_completed"`
	CompletionTime *float64   `json:"completion_time,omitempty"`
}

// UserAnswerDTO is the answer-recorder response.
type UserAnswerDTO struct {
	ID                 uint      `json:"id"`
	SessionID          uint      `json:"session_id"`
	QuestionID         uint      `json:"question_id"`
	QuestionText       string    `json:"question_text,omitempty"`
	SelectedOptionID   uint      `json:"selected_option_id"`
	SelectedOptionText string    `json:"selected_option_text,omitempty"`
	AnsweredAt         time.Time `json:"answered_at"`
}
