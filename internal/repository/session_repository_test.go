package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MartellOnell/testwork/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
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

func createSurveyFixture(t *testing.T, db *gorm.DB) *model.Survey {
	t.Helper()
	survey := model.Survey{Title: "Fixture", AuthorID: 1, IsActive: true}
	if err := db.Create(&survey).Error; err != nil {
		t.Fatalf("failed to create fixture survey: %v", err)
	}
	return &survey
}

func TestGetOrCreateActiveIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	survey := createSurveyFixture(t, db)
	repo := NewSessionRepository(db)

	first, err := repo.GetOrCreateActive(10, survey.ID)
	if err != nil {
		t.Fatalf("first GetOrCreateActive failed: %v", err)
	}
	if first.IsCompleted {
		t.Error("new session must start incomplete")
	}
	if first.StartedAt.IsZero() {
		t.Error("new session must carry a started timestamp")
	}

	second, err := repo.GetOrCreateActive(10, survey.ID)
	if err != nil {
		t.Fatalf("second GetOrCreateActive failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected the same session reused, got %d and %d", first.ID, second.ID)
	}

	var count int64
	db.Model(&model.SurveySession{}).Count(&count)
	if count != 1 {
		t.Errorf("expected one session row, got %d", count)
	}
}

func TestGetOrCreateActiveIgnoresCompletedSessions(t *testing.T) {
	db := setupTestDB(t)
	survey := createSurveyFixture(t, db)
	repo := NewSessionRepository(db)

	done, err := repo.GetOrCreateActive(10, survey.ID)
	if err != nil {
		t.Fatalf("GetOrCreateActive failed: %v", err)
	}
	now := time.Now()
	done.IsCompleted = true
	done.CompletedAt = &now
	if err := repo.Update(done); err != nil {
		t.Fatalf("failed to complete session: %v", err)
	}

	fresh, err := repo.GetOrCreateActive(10, survey.ID)
	if err != nil {
		t.Fatalf("GetOrCreateActive after completion failed: %v", err)
	}
	if fresh.ID == done.ID {
		t.Fatal("completed session must not be reused")
	}
	if fresh.IsCompleted {
		t.Error("replacement session must start incomplete")
	}
}

func TestGetOrCreateActiveIsScopedPerUserAndSurvey(t *testing.T) {
	db := setupTestDB(t)
	surveyA := createSurveyFixture(t, db)
	surveyB := createSurveyFixture(t, db)
	repo := NewSessionRepository(db)

	a10, _ := repo.GetOrCreateActive(10, surveyA.ID)
	b10, _ := repo.GetOrCreateActive(10, surveyB.ID)
	a11, _ := repo.GetOrCreateActive(11, surveyA.ID)

	if a10.ID == b10.ID || a10.ID == a11.ID {
		t.Errorf("sessions leaked across scopes: %d %d %d", a10.ID, b10.ID, a11.ID)
	}

	var count int64
	db.Model(&model.SurveySession{}).Count(&count)
	if count != 3 {
		t.Errorf("expected three distinct sessions, got %d", count)
	}
}

func TestFindActiveNeverCreates(t *testing.T) {
	db := setupTestDB(t)
	survey := createSurveyFixture(t, db)
	repo := NewSessionRepository(db)

	if _, err := repo.FindActive(10, survey.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound before any session, got %v", err)
	}

	created, err := repo.GetOrCreateActive(10, survey.ID)
	if err != nil {
		t.Fatalf("GetOrCreateActive failed: %v", err)
	}
	active, err := repo.FindActive(10, survey.ID)
	if err != nil {
		t.Fatalf("FindActive failed: %v", err)
	}
	if active.ID != created.ID {
		t.Errorf("expected active session %d, got %d", created.ID, active.ID)
	}

	now := time.Now()
	created.IsCompleted = true
	created.CompletedAt = &now
	if err := repo.Update(created); err != nil {
		t.Fatalf("failed to complete session: %v", err)
	}
	if _, err := repo.FindActive(10, survey.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound after completion, got %v", err)
	}

	var count int64
	db.Model(&model.SurveySession{}).Count(&count)
	if count != 1 {
		t.Errorf("FindActive must not insert rows, got %d", count)
	}
}

func TestGetOrCreateActiveUnderConcurrentCalls(t *testing.T) {
	db := setupTestDB(t)
	survey := createSurveyFixture(t, db)
	repo := NewSessionRepository(db)

	const callers = 8
	var wg sync.WaitGroup
	ids := make([]uint, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session, err := repo.GetOrCreateActive(10, survey.ID)
			if err == nil {
				ids[i] = session.ID
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d failed: %v", i, err)
		}
	}
	for i, id := range ids {
		if id != ids[0] {
			t.Errorf("caller %d got session %d, expected %d", i, id, ids[0])
		}
	}

	var count int64
	db.Model(&model.SurveySession{}).Count(&count)
	if count != 1 {
		t.Errorf("expected a single session row, got %d", count)
	}
}

func TestFindLatestPrefersNewestSession(t *testing.T) {
	db := setupTestDB(t)
	survey := createSurveyFixture(t, db)
	repo := NewSessionRepository(db)

	older := model.SurveySession{
		SurveyID:    survey.ID,
		UserID:      10,
		StartedAt:   time.Now().Add(-time.Hour),
		IsCompleted: true,
	}
	completed := older.StartedAt.Add(5 * time.Minute)
	older.CompletedAt = &completed
	if err := db.Create(&older).Error; err != nil {
		t.Fatalf("failed to create historical session: %v", err)
	}

	current, err := repo.GetOrCreateActive(10, survey.ID)
	if err != nil {
		t.Fatalf("GetOrCreateActive failed: %v", err)
	}

	latest, err := repo.FindLatest(10, survey.ID)
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if latest.ID != current.ID {
		t.Errorf("expected latest session %d, got %d", current.ID, latest.ID)
	}
}
