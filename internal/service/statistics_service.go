package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MartellOnell/testwork/internal/cache"
	"github.com/MartellOnell/testwork/internal/dto"
	"github.com/MartellOnell/testwork/internal/model"
	"github.com/MartellOnell/testwork/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type StatisticsService interface {
	GetStatistics(actor model.Actor, surveyID uint) (*dto.SurveyStatisticsDTO, error)
}

type statisticsService struct {
	surveyRepo   repository.SurveyRepository
	questionRepo repository.QuestionRepository
	sessionRepo  repository.SessionRepository
	answerRepo   repository.UserAnswerRepository
	statsCache   cache.StatisticsCache
}

func NewStatisticsService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	sessionRepo repository.SessionRepository,
	answerRepo repository.UserAnswerRepository,
	statsCache cache.StatisticsCache,
) StatisticsService {
	return &statisticsService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		sessionRepo:  sessionRepo,
		answerRepo:   answerRepo,
		statsCache:   statsCache,
	}
}

// GetStatistics aggregates response counts, completion rate inputs, average
// completion time and the per-question answer distributions. Owner only.
// Results may be served from the cache; staleness is bounded by its TTL.
func (s *statisticsService) GetStatistics(actor model.Actor, surveyID uint) (*dto.SurveyStatisticsDTO, error) {
	survey, err := s.surveyRepo.FindByID(surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("survey %d does not exist: %w", surveyID, ErrNotFound)
		}
		log.Error().Err(err).Uint("surveyID", surveyID).Msg("GetStatistics: failed to fetch survey")
		return nil, fmt.Errorf("error fetching survey %d: %w", surveyID, err)
	}
	if !actor.CanAuthor || survey.AuthorID != actor.ID {
		return nil, fmt.Errorf("only the survey author can view statistics: %w", ErrForbidden)
	}

	ctx := context.Background()
	if cached, cacheErr := s.statsCache.Get(ctx, surveyID); cacheErr == nil && cached != nil {
		return cached, nil
	} else if cacheErr != nil {
		log.Warn().Err(cacheErr).Uint("surveyID", surveyID).Msg("GetStatistics: cache read failed, computing from storage")
	}

	totalResponses, err := s.sessionRepo.CountBySurveyID(surveyID)
	if err != nil {
		return nil, fmt.Errorf("error counting sessions: %w", err)
	}
	completedResponses, err := s.sessionRepo.CountCompletedBySurveyID(surveyID)
	if err != nil {
		return nil, fmt.Errorf("error counting completed sessions: %w", err)
	}

	var avgCompletionTime *float64
	completedSessions, err := s.sessionRepo.FindCompletedBySurveyID(surveyID)
	if err != nil {
		return nil, fmt.Errorf("error fetching completed sessions: %w", err)
	}
	if len(completedSessions) > 0 {
		var totalSeconds float64
		for i := range completedSessions {
			totalSeconds += completedSessions[i].CompletedAt.Sub(completedSessions[i].StartedAt).Seconds()
		}
		avg := totalSeconds / float64(len(completedSessions))
		avgCompletionTime = &avg
	}

	questions, err := s.questionRepo.FindBySurveyID(surveyID)
	if err != nil {
		return nil, fmt.Errorf("error fetching survey questions: %w", err)
	}

	questionStats := make([]dto.QuestionStatisticsDTO, 0, len(questions))
	for _, question := range questions {
		counts, err := s.answerRepo.GroupBySelectedOption(question.ID)
		if err != nil {
			return nil, fmt.Errorf("error aggregating answers for question %d: %w", question.ID, err)
		}

		var totalAnswers int64
		for _, oc := range counts {
			totalAnswers += oc.Count
		}

		popular := make([]dto.PopularAnswerDTO, 0, len(counts))
		for _, oc := range counts {
			percentage := 0.0
			if totalAnswers > 0 {
				percentage = float64(oc.Count) / float64(totalAnswers) * 100
			}
			popular = append(popular, dto.PopularAnswerDTO{
				AnswerOptionID: oc.AnswerOptionID,
				AnswerText:     oc.AnswerText,
				Count:          oc.Count,
				Percentage:     percentage,
			})
		}

		questionStats = append(questionStats, dto.QuestionStatisticsDTO{
			QuestionID:     question.ID,
			QuestionText:   question.Text,
			QuestionOrder:  question.Order,
			TotalAnswers:   totalAnswers,
			PopularAnswers: popular,
		})
	}

	stats := &dto.SurveyStatisticsDTO{
		SurveyID:              survey.ID,
		SurveyTitle:           survey.Title,
		TotalResponses:        totalResponses,
		CompletedResponses:    completedResponses,
		AverageCompletionTime: avgCompletionTime,
		QuestionsStatistics:   questionStats,
	}

	if cacheErr := s.statsCache.Set(ctx, stats); cacheErr != nil {
		log.Warn().Err(cacheErr).Uint("surveyID", surveyID).Msg("GetStatistics: cache write failed")
	}
	return stats, nil
}
