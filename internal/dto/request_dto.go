package dto

// AnswerOptionCreateDTO is used within QuestionCreateDTO for survey creation.
type AnswerOptionCreateDTO struct {
	Text  string `json:"text" binding:"required"`
	Order int    `json:"order" binding:"omitempty,min=0"`
}

// QuestionCreateDTO is used within SurveyCreateDTO for survey creation.
type QuestionCreateDTO struct {
	Text          string                  `json:"text" binding:"required"`
	Order         int                     `json:"order" binding:"omitempty,min=0"`
	AnswerOptions []AnswerOptionCreateDTO `json:"answer_options" binding:"omitempty,dive"`
}

// SurveyCreateDTO is for an author to create a new survey with all its
// questions and answer options in one request.
type SurveyCreateDTO struct {
	Title     string              `json:"title" binding:"required"`
	Questions []QuestionCreateDTO `json:"questions" binding:"omitempty,dive"`
}

// SubmitAnswerDTO is the request body for answering a single question.
type SubmitAnswerDTO struct {
	QuestionID     uint `json:"question_id" binding:"required"`
	AnswerOptionID uint `json:"answer_option_id" binding:"required"`
}
