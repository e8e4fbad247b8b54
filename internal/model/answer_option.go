package model

import (
	"time"
)

type AnswerOption struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID uint      `json:"question_id" gorm:"not null;index;uniqueIndex:uniq_option_order_per_question"`
	Text       string    `json:"text" gorm:"not null"`
	Order      int       `json:"order" gorm:"column:order;not null;default:0;uniqueIndex:uniq_option_order_per_question"`
	CreatedAt  time.Time `json:"created_at"`
}
