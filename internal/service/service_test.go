package service

import (
	"testing"

	"github.com/MartellOnell/testwork/internal/cache"
	"github.com/MartellOnell/testwork/internal/dto"
	"github.com/MartellOnell/testwork/internal/model"
	"github.com/MartellOnell/testwork/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	authorActor      = model.Actor{ID: 1, Username: "author", CanAuthor: true}
	otherAuthor      = model.Actor{ID: 2, Username: "other-author", CanAuthor: true}
	respondentActor  = model.Actor{ID: 10, Username: "respondent"}
	secondRespondent = model.Actor{ID: 11, Username: "respondent-2"}
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.Survey{},
		&model.Question{},
		&model.AnswerOption{},
		&model.SurveySession{},
		&model.UserAnswer{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_session_per_user_survey
		 ON survey_sessions (user_id, survey_id) WHERE is_completed = false`,
	).Error; err != nil {
		t.Fatalf("failed to create active session index: %v", err)
	}
	return db
}

type testEnv struct {
	db         *gorm.DB
	surveys    SurveyService
	progress   ProgressService
	answers    AnswerService
	statistics StatisticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	surveyRepo := repository.NewSurveyRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	optionRepo := repository.NewAnswerOptionRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	answerRepo := repository.NewUserAnswerRepository(db)

	return &testEnv{
		db:         db,
		surveys:    NewSurveyService(surveyRepo, db),
		progress:   NewProgressService(surveyRepo, questionRepo, sessionRepo, answerRepo),
		answers:    NewAnswerService(surveyRepo, questionRepo, optionRepo, sessionRepo, answerRepo, db),
		statistics: NewStatisticsService(surveyRepo, questionRepo, sessionRepo, answerRepo, cache.NewStatisticsCache(nil)),
	}
}

// createColorsSurvey builds the canonical fixture: two questions in order,
// two options each.
func (env *testEnv) createColorsSurvey(t *testing.T, actor model.Actor) *dto.SurveyDTO {
	t.Helper()
	survey, err := env.surveys.CreateSurvey(actor, dto.SurveyCreateDTO{
		Title: "Colors",
		Questions: []dto.QuestionCreateDTO{
			{
				Text:  "Favorite primary color?",
				Order: 0,
				AnswerOptions: []dto.AnswerOptionCreateDTO{
					{Text: "Red", Order: 0},
					{Text: "Blue", Order: 1},
				},
			},
			{
				Text:  "Favorite shade?",
				Order: 1,
				AnswerOptions: []dto.AnswerOptionCreateDTO{
					{Text: "Light", Order: 0},
					{Text: "Dark", Order: 1},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("failed to create fixture survey: %v", err)
	}
	if len(survey.Questions) != 2 {
		t.Fatalf("expected 2 questions on fixture survey, got %d", len(survey.Questions))
	}
	return survey
}

// answerAll submits the first option for every question of the survey.
func (env *testEnv) answerAll(t *testing.T, actor model.Actor, survey *dto.SurveyDTO) {
	t.Helper()
	for _, question := range survey.Questions {
		if _, err := env.answers.SubmitAnswer(actor, survey.ID, dto.SubmitAnswerDTO{
			QuestionID:     question.ID,
			AnswerOptionID: question.AnswerOptions[0].ID,
		}); err != nil {
			t.Fatalf("failed to answer question %d: %v", question.ID, err)
		}
	}
}
