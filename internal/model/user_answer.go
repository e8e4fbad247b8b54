package model

import (
	"time"
)

// UserAnswer stores one selected option per (session, question); resubmission
// replaces the selection instead of adding a row.
type UserAnswer struct {
	ID               uint         `gorm:"primarykey" json:"id"`
	SessionID        uint         `json:"session_id" gorm:"not null;uniqueIndex:uniq_answer_per_session_question"`
	QuestionID       uint         `json:"question_id" gorm:"not null;index;uniqueIndex:uniq_answer_per_session_question"`
	Question         Question     `json:"question,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SelectedOptionID uint         `json:"selected_option_id" gorm:"not null;index"`
	SelectedOption   AnswerOption `json:"selected_option,omitempty" gorm:"foreignKey:SelectedOptionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	// Denormalized survey/user references keep the statistics queries off the
	// session join path.
	SurveyID   uint      `json:"survey_id" gorm:"not null;index"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	AnsweredAt time.Time `json:"answered_at" gorm:"not null;index"`
}
