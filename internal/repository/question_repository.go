package repository

import (
	"github.com/MartellOnell/testwork/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindBySurveyID(surveyID uint) ([]model.Question, error)
	FindByIDInSurvey(id uint, surveyID uint) (*model.Question, error)
	CountBySurveyID(surveyID uint) (int64, error)
	WithTx(tx *gorm.DB) QuestionRepository
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

// FindBySurveyID returns the survey's questions ascending by order, each with
// its answer options preloaded in option order.
func (r *questionRepository) FindBySurveyID(surveyID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Preload("AnswerOptions", func(db *gorm.DB) *gorm.DB {
			// "order" needs quoting, it is a reserved word.
			return db.Order(`answer_options."order" ASC`)
		}).
		Where("survey_id = ?", surveyID).
		Order(`questions."order" ASC`).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByIDInSurvey(id uint, surveyID uint) (*model.Question, error) {
	var question model.Question
	err := r.db.Where("id = ? AND survey_id = ?", id, surveyID).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) CountBySurveyID(surveyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("survey_id = ?", surveyID).Count(&count).Error
	return count, err
}
