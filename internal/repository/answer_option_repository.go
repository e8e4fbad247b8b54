package repository

import (
	"github.com/MartellOnell/testwork/internal/model"
	"gorm.io/gorm"
)

type AnswerOptionRepository interface {
	FindByIDInQuestion(id uint, questionID uint) (*model.AnswerOption, error)
	WithTx(tx *gorm.DB) AnswerOptionRepository
}

type answerOptionRepository struct {
	db *gorm.DB
}

func NewAnswerOptionRepository(db *gorm.DB) AnswerOptionRepository {
	return &answerOptionRepository{db: db}
}

func (r *answerOptionRepository) WithTx(tx *gorm.DB) AnswerOptionRepository {
	return &answerOptionRepository{db: tx}
}

func (r *answerOptionRepository) FindByIDInQuestion(id uint, questionID uint) (*model.AnswerOption, error) {
	var option model.AnswerOption
	err := r.db.Where("id = ? AND question_id = ?", id, questionID).First(&option).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}
