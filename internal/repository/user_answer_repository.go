package repository

import (
	"github.com/MartellOnell/testwork/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OptionCount is one row of the per-question answer distribution.
type OptionCount struct {
	AnswerOptionID uint   `gorm:"column:answer_option_id"`
	AnswerText     string `gorm:"column:answer_text"`
	Count          int64  `gorm:"column:answer_count"`
}

type UserAnswerRepository interface {
	Upsert(answer *model.UserAnswer) error
	FindBySessionAndQuestion(sessionID uint, questionID uint) (*model.UserAnswer, error)
	AnsweredQuestionIDs(sessionID uint) ([]uint, error)
	CountBySessionID(sessionID uint) (int64, error)
	GroupBySelectedOption(questionID uint) ([]OptionCount, error)
	WithTx(tx *gorm.DB) UserAnswerRepository
}

type userAnswerRepository struct {
	db *gorm.DB
}

func NewUserAnswerRepository(db *gorm.DB) UserAnswerRepository {
	return &userAnswerRepository{db: db}
}

func (r *userAnswerRepository) WithTx(tx *gorm.DB) UserAnswerRepository {
	return &userAnswerRepository{db: tx}
}

// Upsert inserts the answer or, when the (session, question) row already
// exists, replaces the selection and its timestamp in place.
func (r *userAnswerRepository) Upsert(answer *model.UserAnswer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"selected_option_id", "answered_at"}),
	}).Create(answer).Error
}

func (r *userAnswerRepository) FindBySessionAndQuestion(sessionID uint, questionID uint) (*model.UserAnswer, error) {
	var answer model.UserAnswer
	err := r.db.
		Preload("Question").
		Preload("SelectedOption").
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *userAnswerRepository) AnsweredQuestionIDs(sessionID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.UserAnswer{}).
		Where("session_id = ?", sessionID).
		Pluck("question_id", &ids).Error
	return ids, err
}

func (r *userAnswerRepository) CountBySessionID(sessionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.UserAnswer{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count, err
}

// GroupBySelectedOption returns the answer distribution for a question,
// most-selected first and option id ascending as the stable tie-break.
func (r *userAnswerRepository) GroupBySelectedOption(questionID uint) ([]OptionCount, error) {
	var results []OptionCount
	err := r.db.Model(&model.UserAnswer{}).
		Select("user_answers.selected_option_id as answer_option_id, answer_options.text as answer_text, COUNT(user_answers.id) as answer_count").
		Joins("JOIN answer_options ON answer_options.id = user_answers.selected_option_id").
		Where("user_answers.question_id = ?", questionID).
		Group("user_answers.selected_option_id, answer_options.text").
		Order("answer_count DESC, answer_option_id ASC").
		Scan(&results).Error
	return results, err
}
