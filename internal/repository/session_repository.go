package repository

import (
	"errors"
	"time"

	"github.com/MartellOnell/testwork/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	GetOrCreateActive(userID uint, surveyID uint) (*model.SurveySession, error)
	FindActive(userID uint, surveyID uint) (*model.SurveySession, error)
	Update(session *model.SurveySession) error
	FindLatest(userID uint, surveyID uint) (*model.SurveySession, error)
	CountBySurveyID(surveyID uint) (int64, error)
	CountCompletedBySurveyID(surveyID uint) (int64, error)
	FindCompletedBySurveyID(surveyID uint) ([]model.SurveySession, error)
	WithTx(tx *gorm.DB) SessionRepository
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) WithTx(tx *gorm.DB) SessionRepository {
	return &sessionRepository{db: tx}
}

// GetOrCreateActive returns the single incomplete session for the pair,
// inserting one when none exists. The partial unique index on
// (user_id, survey_id) WHERE is_completed = false backstops concurrent
// creates; completed sessions are never matched, which is what gives a
// finished respondent a fresh session on the next call.
func (r *sessionRepository) GetOrCreateActive(userID uint, surveyID uint) (*model.SurveySession, error) {
	session := model.SurveySession{
		UserID:      userID,
		SurveyID:    surveyID,
		StartedAt:   time.Now(),
		IsCompleted: false,
	}
	err := r.db.
		Where("user_id = ? AND survey_id = ? AND is_completed = ?", userID, surveyID, false).
		FirstOrCreate(&session).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a concurrent create against the index; the winner's row
		// exists now, so one re-read settles it.
		err = r.db.
			Where("user_id = ? AND survey_id = ? AND is_completed = ?", userID, surveyID, false).
			First(&session).Error
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindActive returns the incomplete session for the pair without creating
// one; gorm.ErrRecordNotFound when the caller has no session in progress.
func (r *sessionRepository) FindActive(userID uint, surveyID uint) (*model.SurveySession, error) {
	var session model.SurveySession
	err := r.db.
		Where("user_id = ? AND survey_id = ? AND is_completed = ?", userID, surveyID, false).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(session *model.SurveySession) error {
	return r.db.Save(session).Error
}

func (r *sessionRepository) FindLatest(userID uint, surveyID uint) (*model.SurveySession, error) {
	var session model.SurveySession
	err := r.db.
		Where("user_id = ? AND survey_id = ?", userID, surveyID).
		Order("started_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) CountBySurveyID(surveyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.SurveySession{}).Where("survey_id = ?", surveyID).Count(&count).Error
	return count, err
}

func (r *sessionRepository) CountCompletedBySurveyID(surveyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.SurveySession{}).
		Where("survey_id = ? AND is_completed = ?", surveyID, true).
		Count(&count).Error
	return count, err
}

func (r *sessionRepository) FindCompletedBySurveyID(surveyID uint) ([]model.SurveySession, error) {
	var sessions []model.SurveySession
	err := r.db.
		Where("survey_id = ? AND is_completed = ? AND completed_at IS NOT NULL", surveyID, true).
		Find(&sessions).Error
	return sessions, err
}
