package dto

// PopularAnswerDTO is one option's share of the answers to a question,
// ordered most-selected first.
type PopularAnswerDTO struct {
	AnswerOptionID uint    `json:"answer_option_id"`
	AnswerText     string  `json:"answer_text"`
	Count          int64   `json:"count"`
	Percentage     float64 `json:"percentage"`
}

type QuestionStatisticsDTO struct {
	QuestionID     uint               `json:"question_id"`
	QuestionText   string             `json:"question_text"`
	QuestionOrder  int                `json:"question_order"`
	TotalAnswers   int64              `json:"total_answers"`
	PopularAnswers []PopularAnswerDTO `json:"popular_answers"`
}

// SurveyStatisticsDTO is the owner-facing aggregate view of a survey.
// AverageCompletionTime is in seconds and nil when no session has completed.
type SurveyStatisticsDTO struct {
	SurveyID              uint                    `json:"survey_id"`
	SurveyTitle           string                  `json:"survey_title"`
	TotalResponses        int64                   `json:"total_responses"`
	CompletedResponses    int64                   `json:"completed_responses"`
	AverageCompletionTime *float64                `json:"average_completion_time"`
	QuestionsStatistics   []QuestionStatisticsDTO `json:"questions_statistics"`
}
