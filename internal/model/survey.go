package model

import (
	"time"
)

type Survey struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Title     string     `json:"title" gorm:"not null;index"`
	AuthorID  uint       `json:"author_id" gorm:"not null;index"`
	IsActive  bool       `json:"is_active" gorm:"not null;default:true;index"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:SurveyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
