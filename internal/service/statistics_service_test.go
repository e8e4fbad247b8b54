package service

import (
	"errors"
	"testing"
	"time"

	"github.com/MartellOnell/testwork/internal/dto"
	"github.com/MartellOnell/testwork/internal/model"
)

func TestStatisticsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	survey := env.createColorsSurvey(t, authorActor)

	if _, err := env.statistics.GetStatistics(otherAuthor, survey.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner author, got %v", err)
	}
	if _, err := env.statistics.GetStatistics(respondentActor, survey.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for respondent, got %v", err)
	}
	if _, err := env.statistics.GetStatistics(authorActor, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing survey, got %v", err)
	}
}

func TestStatisticsZeroResponses(t *testing.T) {
	env := newTestEnv(t)
	survey := env.createColorsSurvey(t, authorActor)

	stats, err := env.statistics.GetStatistics(authorActor, survey.ID)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.TotalResponses != 0 || stats.CompletedResponses != 0 {
		t.Errorf("expected zero responses, got total=%d completed=%d", stats.TotalResponses, stats.CompletedResponses)
	}
	if stats.AverageCompletionTime != nil {
		t.Errorf("expected nil average completion time, got %v", *stats.AverageCompletionTime)
	}
	if len(stats.QuestionsStatistics) != 2 {
		t.Fatalf("expected stats for all 2 questions, got %d", len(stats.QuestionsStatistics))
	}
	for _, qs := range stats.QuestionsStatistics {
		if qs.TotalAnswers != 0 {
			t.Errorf("question %d: expected 0 answers, got %d", qs.QuestionID, qs.TotalAnswers)
		}
		if len(qs.PopularAnswers) != 0 {
			t.Errorf("question %d: expected empty popular answers, got %d", qs.QuestionID, len(qs.PopularAnswers))
		}
	}
}

func TestStatisticsSplitDistribution(t *testing.T) {
	env := newTestEnv(t)
	survey := env.createColorsSurvey(t, authorActor)
	q1 := survey.Questions[0]

	// Two respondents pick different options for the same question.
	if _, err := env.answers.SubmitAnswer(respondentActor, survey.ID, dto.SubmitAnswerDTO{
		QuestionID:     q1.ID,
		AnswerOptionID: q1.AnswerOptions[0].ID,
	}); err != nil {
		t.Fatalf("first respondent failed: %v", err)
	}
	if _, err := env.answers.SubmitAnswer(secondRespondent, survey.ID, dto.SubmitAnswerDTO{
		QuestionID:     q1.ID,
		AnswerOptionID: q1.AnswerOptions[1].ID,
	}); err != nil {
		t.Fatalf("second respondent failed: %v", err)
	}

	stats, err := env.statistics.GetStatistics(authorActor, survey.ID)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.TotalResponses != 2 {
		t.Errorf("expected 2 sessions counted, got %d", stats.TotalResponses)
	}
	if stats.CompletedResponses != 0 {
		t.Errorf("expected no completed sessions, got %d", stats.CompletedResponses)
	}

	q1Stats := stats.QuestionsStatistics[0]
	if q1Stats.QuestionID != q1.ID {
		t.Fatalf("expected question stats ordered by question order, got question %d first", q1Stats.QuestionID)
	}
	if q1Stats.TotalAnswers != 2 {
		t.Fatalf("expected 2 answers on q1, got %d", q1Stats.TotalAnswers)
	}
	if len(q1Stats.PopularAnswers) != 2 {
		t.Fatalf("expected 2 popular answer entries, got %d", len(q1Stats.PopularAnswers))
	}
	for _, pa := range q1Stats.PopularAnswers {
		if pa.Count != 1 {
			t.Errorf("option %d: expected count 1, got %d", pa.AnswerOptionID, pa.Count)
		}
		if pa.Percentage != 50 {
			t.Errorf("option %d: expected 50%%, got %v", pa.AnswerOptionID, pa.Percentage)
		}
	}
	// Tied counts fall back to ascending option id.
	if q1Stats.PopularAnswers[0].AnswerOptionID > q1Stats.PopularAnswers[1].AnswerOptionID {
		t.Error("expected option id ascending as the tie-break")
	}

	q2Stats := stats.QuestionsStatistics[1]
	if q2Stats.TotalAnswers != 0 || len(q2Stats.PopularAnswers) != 0 {
		t.Errorf("expected untouched q2 to be empty, got %+v", q2Stats)
	}
}

func TestStatisticsMajorityOrdering(t *testing.T) {
	env := newTestEnv(t)
	survey := env.createColorsSurvey(t, authorActor)
	q1 := survey.Questions[0]
	popular := q1.AnswerOptions[1]

	respondents := []model.Actor{
		{ID: 20, Username: "r20"},
		{ID: 21, Username: "r21"},
		{ID: 22, Username: "r22"},
	}
	choices := []uint{popular.ID, popular.ID, q1.AnswerOptions[0].ID}
	for i, actor := range respondents {
		if _, err := env.answers.SubmitAnswer(actor, survey.ID, dto.SubmitAnswerDTO{
			QuestionID:     q1.ID,
			AnswerOptionID: choices[i],
		}); err != nil {
			t.Fatalf("respondent %d failed: %v", actor.ID, err)
		}
	}

	stats, err := env.statistics.GetStatistics(authorActor, survey.ID)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	q1Stats := stats.QuestionsStatistics[0]
	if q1Stats.PopularAnswers[0].AnswerOptionID != popular.ID {
		t.Errorf("expected option %d on top, got %d", popular.ID, q1Stats.PopularAnswers[0].AnswerOptionID)
	}
	if q1Stats.PopularAnswers[0].Count != 2 || q1Stats.PopularAnswers[1].Count != 1 {
		t.Errorf("expected counts 2 and 1, got %d and %d", q1Stats.PopularAnswers[0].Count, q1Stats.PopularAnswers[1].Count)
	}
}

func TestStatisticsAverageCompletionTime(t *testing.T) {
	env := newTestEnv(t)
	survey := env.createColorsSurvey(t, authorActor)

	env.answerAll(t, respondentActor, survey)
	env.answerAll(t, secondRespondent, survey)

	// Pin the timestamps so the average is exact: 30s and 90s.
	base := time.Now().Add(-time.Hour)
	durations := map[uint]time.Duration{
		respondentActor.ID:  30 * time.Second,
		secondRespondent.ID: 90 * time.Second,
	}
	for userID, d := range durations {
		completed := base.Add(d)
		if err := env.db.Model(&model.SurveySession{}).
			Where("user_id = ? AND survey_id = ?", userID, survey.ID).
			Updates(map[string]interface{}{"started_at": base, "completed_at": completed}).Error; err != nil {
			t.Fatalf("failed to pin session timestamps: %v", err)
		}
	}

	stats, err := env.statistics.GetStatistics(authorActor, survey.ID)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.CompletedResponses != 2 {
		t.Fatalf("expected 2 completed sessions, got %d", stats.CompletedResponses)
	}
	if stats.AverageCompletionTime == nil {
		t.Fatal("expected an average completion time")
	}
	if got := *stats.AverageCompletionTime; got < 59.9 || got > 60.1 {
		t.Errorf("expected average of 60s, got %v", got)
	}
}

func TestStatisticsCountIncompleteSessions(t *testing.T) {
	env := newTestEnv(t)
	survey := env.createColorsSurvey(t, authorActor)
	q1 := survey.Questions[0]

	env.answerAll(t, respondentActor, survey)
	if _, err := env.answers.SubmitAnswer(secondRespondent, survey.ID, dto.SubmitAnswerDTO{
		QuestionID:     q1.ID,
		AnswerOptionID: q1.AnswerOptions[0].ID,
	}); err != nil {
		t.Fatalf("partial respondent failed: %v", err)
	}

	stats, err := env.statistics.GetStatistics(authorActor, survey.ID)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.TotalResponses != 2 {
		t.Errorf("expected both sessions counted, got %d", stats.TotalResponses)
	}
	if stats.CompletedResponses != 1 {
		t.Errorf("expected one completed session, got %d", stats.CompletedResponses)
	}
}
