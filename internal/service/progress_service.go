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

type ProgressService interface {
	NextQuestion(actor model.Actor, surveyID uint) (*dto.NextQuestionDTO, error)
	GetMySession(actor model.Actor, surveyID uint) (*dto.SessionDTO, error)
}

type progressService struct {
	surveyRepo   repository.SurveyRepository
	questionRepo repository.QuestionRepository
	sessionRepo  repository.SessionRepository
	answerRepo   repository.UserAnswerRepository
}

func NewProgressService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	sessionRepo repository.SessionRepository,
	answerRepo repository.UserAnswerRepository,
) ProgressService {
	return &progressService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		sessionRepo:  sessionRepo,
		answerRepo:   answerRepo,
	}
}

// NextQuestion resolves the lowest-order unanswered question for the
// caller's incomplete session, creating the session on first contact.
func (s *progressService) NextQuestion(actor model.Actor, surveyID uint) (*dto.NextQuestionDTO, error) {
	_, err := s.surveyRepo.FindActiveByID(surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("survey %d does not exist or is inactive: %w", surveyID, ErrNotFound)
		}
		log.Error().Err(err).Uint("surveyID", surveyID).Msg("NextQuestion: failed to fetch survey")
		return nil, fmt.Errorf("error fetching survey %d: %w", surveyID, err)
	}

	// A completed session stays the caller's session until a new submission
	// starts a retake; resolving must not open one.
	session, err := s.sessionRepo.FindActive(actor.ID, surveyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session, err = s.sessionRepo.FindLatest(actor.ID, surveyID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			session, err = s.sessionRepo.GetOrCreateActive(actor.ID, surveyID)
		}
	}
	if err != nil {
		log.Error().Err(err).Uint("userID", actor.ID).Uint("surveyID", surveyID).Msg("NextQuestion: failed to resolve session")
		return nil, fmt.Errorf("error resolving survey session: %w", err)
	}

	answeredIDs, err := s.answerRepo.AnsweredQuestionIDs(session.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching answered questions: %w", err)
	}
	answered := make(map[uint]struct{}, len(answeredIDs))
	for _, id := range answeredIDs {
		answered[id] = struct{}{}
	}

	questions, err := s.questionRepo.FindBySurveyID(surveyID)
	if err != nil {
		return nil, fmt.Errorf("error fetching survey questions: %w", err)
	}

	var next *model.Question
	for i := range questions {
		if _, ok := answered[questions[i].ID]; !ok {
			next = &questions[i]
			break
		}
	}

	total := len(questions)
	answeredCount := len(answeredIDs)
	percentage := 0.0
	if total > 0 {
		percentage = float64(answeredCount) / float64(total) * 100
	}

	resp := dto.NextQuestionDTO{
		Progress: dto.ProgressDTO{
			Answered:   answeredCount,
			Total:      total,
			Percentage: percentage,
		},
		IsCompleted: answeredCount >= total,
		SessionID:   session.ID,
	}
	if next != nil {
		var questionDTO dto.QuestionDTO
		if err := copier.Copy(&questionDTO, next); err != nil {
			log.Error().Err(err).Uint("questionID", next.ID).Msg("NextQuestion: failed to copy question to DTO")
			return nil, fmt.Errorf("error preparing next question response: %w", err)
		}
		resp.Question = &questionDTO
	}
	return &resp, nil
}

// GetMySession returns the caller's most recent session for the survey,
// completed or not.
func (s *progressService) GetMySession(actor model.Actor, surveyID uint) (*dto.SessionDTO, error) {
	survey, err := s.surveyRepo.FindByID(surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("survey %d does not exist: %w", surveyID, ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching survey %d: %w", surveyID, err)
	}

	session, err := s.sessionRepo.FindLatest(actor.ID, surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no session found for this survey: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching session: %w", err)
	}

	return &dto.SessionDTO{
		ID:             session.ID,
		SurveyID:       session.SurveyID,
		SurveyTitle:    survey.Title,
		UserID:         session.UserID,
		StartedAt:      session.StartedAt,
		CompletedAt:    session.CompletedAt,
		IsCompleted:    session.IsCompleted,
		CompletionTime: session.CompletionTime(),
	}, nil
}
