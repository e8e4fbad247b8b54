package model

import (
	"time"
)

// SurveySession tracks one respondent's attempt at a survey. At most one
// incomplete session exists per (user, survey) pair; the partial unique index
// created at migration time enforces that at the storage level.
type SurveySession struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	SurveyID    uint         `json:"survey_id" gorm:"not null;index"`
	Survey      Survey       `json:"survey,omitempty" gorm:"foreignKey:SurveyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID      uint         `json:"user_id" gorm:"not null;index"`
	StartedAt   time.Time    `json:"started_at" gorm:"not null;index"`
	CompletedAt *time.Time   `json:"completed_at,omitempty" gorm:"index"`
	IsCompleted bool         `json:"is_completed" gorm:"not null;default:false;index"`
	Answers     []UserAnswer `json:"answers,omitempty" gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// CompletionTime returns the duration of a finished session in seconds, or
// nil when the session never completed.
func (s *SurveySession) CompletionTime() *float64 {
	if s.CompletedAt == nil {
		return nil
	}
	seconds := s.CompletedAt.Sub(s.StartedAt).Seconds()
	return &seconds
}
