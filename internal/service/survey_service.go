package service

import (
	"errors"
	"fmt"

	"github.com/MartellOnell/testwork/internal/dto"
	"github.com/MartellOnell/testwork/internal/model"
	"github.com/MartellOnell/testwork/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type SurveyService interface {
	CreateSurvey(actor model.Actor, req dto.SurveyCreateDTO) (*dto.SurveyDTO, error)
	ListSurveys(actor model.Actor) ([]dto.SurveySummaryDTO, error)
	GetSurveyDetails(actor model.Actor, surveyID uint) (*dto.SurveyDTO, error)
	DeactivateSurvey(actor model.Actor, surveyID uint) (*dto.SurveyDTO, error)
}

type surveyService struct {
	surveyRepo repository.SurveyRepository
	db         *gorm.DB
}

func NewSurveyService(surveyRepo repository.SurveyRepository, db *gorm.DB) SurveyService {
	return &surveyService{surveyRepo: surveyRepo, db: db}
}

// CreateSurvey creates the survey together with its questions and answer
// options as one atomic unit; a failure anywhere leaves nothing persisted.
func (s *surveyService) CreateSurvey(actor model.Actor, req dto.SurveyCreateDTO) (*dto.SurveyDTO, error) {
	if !actor.CanAuthor {
		return nil, fmt.Errorf("user must be an author to create surveys: %w", ErrForbidden)
	}

	surveyModel := model.Survey{
		Title:    req.Title,
		AuthorID: actor.ID,
		IsActive: true,
	}
	for _, qDto := range req.Questions {
		question := model.Question{
			Text:  qDto.Text,
			Order: qDto.Order,
		}
		for _, oDto := range qDto.AnswerOptions {
			question.AnswerOptions = append(question.AnswerOptions, model.AnswerOption{
				Text:  oDto.Text,
				Order: oDto.Order,
			})
		}
		surveyModel.Questions = append(surveyModel.Questions, question)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.surveyRepo.WithTx(tx).Create(&surveyModel)
	})
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateSurvey: failed to create survey")
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("duplicate question or option order in survey: %w", ErrValidation)
		}
		return nil, fmt.Errorf("database error creating survey: %w", err)
	}

	created, err := s.surveyRepo.FindByIDWithQuestions(surveyModel.ID)
	if err != nil {
		log.Error().Err(err).Uint("surveyID", surveyModel.ID).Msg("CreateSurvey: failed to reload created survey")
		return nil, fmt.Errorf("survey %d was created but could not be reloaded: %w", surveyModel.ID, err)
	}

	var resp dto.SurveyDTO
	if err := copier.Copy(&resp, created); err != nil {
		log.Error().Err(err).Msg("CreateSurvey: failed to copy survey to DTO")
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	return &resp, nil
}

// ListSurveys returns the caller's own surveys for authors, and all active
// surveys for respondents.
func (s *surveyService) ListSurveys(actor model.Actor) ([]dto.SurveySummaryDTO, error) {
	var (
		surveys []repository.SurveyWithQuestionCount
		err     error
	)
	if actor.CanAuthor {
		surveys, err = s.surveyRepo.FindAllByAuthorWithQuestionCount(actor.ID)
	} else {
		surveys, err = s.surveyRepo.FindAllActiveWithQuestionCount()
	}
	if err != nil {
		log.Error().Err(err).Uint("userID", actor.ID).Msg("ListSurveys: repository error")
		return nil, fmt.Errorf("error fetching surveys: %w", err)
	}

	dtos := make([]dto.SurveySummaryDTO, 0, len(surveys))
	for _, swc := range surveys {
		dtos = append(dtos, dto.SurveySummaryDTO{
			ID:            swc.Survey.ID,
			Title:         swc.Survey.Title,
			AuthorID:      swc.Survey.AuthorID,
			IsActive:      swc.Survey.IsActive,
			QuestionCount: swc.QuestionCount,
			CreatedAt:     swc.Survey.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *surveyService) GetSurveyDetails(actor model.Actor, surveyID uint) (*dto.SurveyDTO, error) {
	survey, err := s.surveyRepo.FindByIDWithQuestions(surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("survey %d does not exist: %w", surveyID, ErrNotFound)
		}
		log.Error().Err(err).Uint("surveyID", surveyID).Msg("GetSurveyDetails: repository error")
		return nil, fmt.Errorf("error fetching survey %d: %w", surveyID, err)
	}

	// Owners see their surveys in any state; everyone else only active ones.
	if !survey.IsActive && survey.AuthorID != actor.ID {
		return nil, fmt.Errorf("survey %d does not exist or is inactive: %w", surveyID, ErrNotFound)
	}

	var resp dto.SurveyDTO
	if err := copier.Copy(&resp, survey); err != nil {
		log.Error().Err(err).Msg("GetSurveyDetails: failed to copy survey to DTO")
		return nil, fmt.Errorf("error preparing survey details response: %w", err)
	}
	return &resp, nil
}

// DeactivateSurvey flips is_active off. Data is retained; the survey simply
// stops resolving for respondents.
func (s *surveyService) DeactivateSurvey(actor model.Actor, surveyID uint) (*dto.SurveyDTO, error) {
	survey, err := s.surveyRepo.FindByID(surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("survey %d does not exist: %w", surveyID, ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching survey %d: %w", surveyID, err)
	}
	if !actor.CanAuthor || survey.AuthorID != actor.ID {
		return nil, fmt.Errorf("only the survey author can deactivate it: %w", ErrForbidden)
	}

	survey.IsActive = false
	if err := s.surveyRepo.Update(survey); err != nil {
		log.Error().Err(err).Uint("surveyID", surveyID).Msg("DeactivateSurvey: failed to update survey")
		return nil, fmt.Errorf("database error deactivating survey: %w", err)
	}

	var resp dto.SurveyDTO
	if err := copier.Copy(&resp, survey); err != nil {
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	return &resp, nil
}
