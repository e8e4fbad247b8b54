package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/MartellOnell/testwork/internal/dto"
	"github.com/MartellOnell/testwork/internal/model"
	"github.com/MartellOnell/testwork/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AnswerService interface {
	SubmitAnswer(actor model.Actor, surveyID uint, req dto.SubmitAnswerDTO) (*dto.UserAnswerDTO, error)
}

type answerService struct {
	surveyRepo   repository.SurveyRepository
	questionRepo repository.QuestionRepository
	optionRepo   repository.AnswerOptionRepository
	sessionRepo  repository.SessionRepository
	answerRepo   repository.UserAnswerRepository
	db           *gorm.DB
}

func NewAnswerService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	optionRepo repository.AnswerOptionRepository,
	sessionRepo repository.SessionRepository,
	answerRepo repository.UserAnswerRepository,
	db *gorm.DB,
) AnswerService {
	return &answerService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		sessionRepo:  sessionRepo,
		answerRepo:   answerRepo,
		db:           db,
	}
}

// SubmitAnswer records one answer for the caller's incomplete session. The
// whole sequence — validation, session get-or-create, upsert, completion
// check — runs in a single transaction so a failure leaves no partial state
// and two concurrent submissions cannot race the completion flag apart.
func (s *answerService) SubmitAnswer(actor model.Actor, surveyID uint, req dto.SubmitAnswerDTO) (*dto.UserAnswerDTO, error) {
	var persisted model.UserAnswer

	err := s.db.Transaction(func(tx *gorm.DB) error {
		surveyRepo := s.surveyRepo.WithTx(tx)
		questionRepo := s.questionRepo.WithTx(tx)
		optionRepo := s.optionRepo.WithTx(tx)
		sessionRepo := s.sessionRepo.WithTx(tx)
		answerRepo := s.answerRepo.WithTx(tx)

		if _, err := surveyRepo.FindActiveByID(surveyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("survey %d does not exist or is inactive: %w", surveyID, ErrNotFound)
			}
			return fmt.Errorf("error fetching survey %d: %w", surveyID, err)
		}

		question, err := questionRepo.FindByIDInSurvey(req.QuestionID, surveyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("question %d does not belong to this survey: %w", req.QuestionID, ErrValidation)
			}
			return fmt.Errorf("error fetching question %d: %w", req.QuestionID, err)
		}

		option, err := optionRepo.FindByIDInQuestion(req.AnswerOptionID, question.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("answer option %d does not belong to this question: %w", req.AnswerOptionID, ErrValidation)
			}
			return fmt.Errorf("error fetching answer option %d: %w", req.AnswerOptionID, err)
		}

		session, err := sessionRepo.GetOrCreateActive(actor.ID, surveyID)
		if err != nil {
			return fmt.Errorf("error resolving survey session: %w", err)
		}

		answer := model.UserAnswer{
			SessionID:        session.ID,
			QuestionID:       question.ID,
			SelectedOptionID: option.ID,
			SurveyID:         surveyID,
			UserID:           actor.ID,
			AnsweredAt:       time.Now(),
		}
		if err := answerRepo.Upsert(&answer); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("duplicate answer for question %d: %w", question.ID, ErrConflict)
			}
			return fmt.Errorf("error recording answer: %w", err)
		}

		answeredCount, err := answerRepo.CountBySessionID(session.ID)
		if err != nil {
			return fmt.Errorf("error counting session answers: %w", err)
		}
		totalQuestions, err := questionRepo.CountBySurveyID(surveyID)
		if err != nil {
			return fmt.Errorf("error counting survey questions: %w", err)
		}

		// Only transition: incomplete -> complete, once every question has
		// an answer. Never reverts.
		if answeredCount >= totalQuestions && !session.IsCompleted {
			now := time.Now()
			session.IsCompleted = true
			session.CompletedAt = &now
			if err := sessionRepo.Update(session); err != nil {
				return fmt.Errorf("error completing session: %w", err)
			}
		}

		saved, err := answerRepo.FindBySessionAndQuestion(session.ID, question.ID)
		if err != nil {
			return fmt.Errorf("error reloading recorded answer: %w", err)
		}
		persisted = *saved
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Uint("userID", actor.ID).Uint("surveyID", surveyID).Uint("questionID", req.QuestionID).Msg("SubmitAnswer: submission rejected")
		return nil, err
	}

	return &dto.UserAnswerDTO{
		ID:                 persisted.ID,
		SessionID:          persisted.SessionID,
		QuestionID:         persisted.QuestionID,
		QuestionText:       persisted.Question.Text,
		SelectedOptionID:   persisted.SelectedOptionID,
		SelectedOptionText: persisted.SelectedOption.Text,
		AnsweredAt:         persisted.AnsweredAt,
	}, nil
}
