package model

import (
	"time"
)

type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	SurveyID      uint           `json:"survey_id" gorm:"not null;index;uniqueIndex:uniq_question_order_per_survey"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	Order         int            `json:"order" gorm:"column:order;not null;default:0;uniqueIndex:uniq_question_order_per_survey"`
	AnswerOptions []AnswerOption `json:"answer_options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt     time.Time      `json:"created_at"`
}
