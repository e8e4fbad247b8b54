package repository

import (
	"github.com/MartellOnell/testwork/internal/model"
	"gorm.io/gorm"
)

// SurveyWithQuestionCount carries the list-view subquery result.
type SurveyWithQuestionCount struct {
	model.Survey
	QuestionCount int
}

type SurveyRepository interface {
	Create(survey *model.Survey) error
	Update(survey *model.Survey) error
	FindByID(id uint) (*model.Survey, error)
	FindActiveByID(id uint) (*model.Survey, error)
	FindByIDWithQuestions(id uint) (*model.Survey, error)
	FindAllByAuthorWithQuestionCount(authorID uint) ([]SurveyWithQuestionCount, error)
	FindAllActiveWithQuestionCount() ([]SurveyWithQuestionCount, error)
	WithTx(tx *gorm.DB) SurveyRepository
}

type surveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) WithTx(tx *gorm.DB) SurveyRepository {
	return &surveyRepository{db: tx}
}

func (r *surveyRepository) Create(survey *model.Survey) error {
	// GORM creates the associated questions and their answer options in the
	// same insert pass when survey.Questions is populated.
	return r.db.Create(survey).Error
}

func (r *surveyRepository) Update(survey *model.Survey) error {
	return r.db.Save(survey).Error
}

func (r *surveyRepository) FindByID(id uint) (*model.Survey, error) {
	var survey model.Survey
	if err := r.db.First(&survey, id).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepository) FindActiveByID(id uint) (*model.Survey, error) {
	var survey model.Survey
	if err := r.db.Where("is_active = ?", true).First(&survey, id).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepository) FindByIDWithQuestions(id uint) (*model.Survey, error) {
	var survey model.Survey
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			// "order" needs quoting, it is a reserved word.
			return db.Order(`questions."order" ASC`)
		}).
		Preload("Questions.AnswerOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`answer_options."order" ASC`)
		}).
		First(&survey, id).Error
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepository) FindAllByAuthorWithQuestionCount(authorID uint) ([]SurveyWithQuestionCount, error) {
	return r.findAllWithQuestionCount(r.db.Where("surveys.author_id = ?", authorID))
}

func (r *surveyRepository) FindAllActiveWithQuestionCount() ([]SurveyWithQuestionCount, error) {
	return r.findAllWithQuestionCount(r.db.Where("surveys.is_active = ?", true))
}

func (r *surveyRepository) findAllWithQuestionCount(query *gorm.DB) ([]SurveyWithQuestionCount, error) {
	var results []SurveyWithQuestionCount
	err := query.Model(&model.Survey{}).
		Select("surveys.*, (SELECT COUNT(*) FROM questions WHERE questions.survey_id = surveys.id) as question_count").
		Order("surveys.created_at DESC").
		Scan(&results).Error
	return results, err
}
