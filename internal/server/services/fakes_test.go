package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/dmitrijs2005/mindcare/internal/dbx"
	"github.com/dmitrijs2005/mindcare/internal/server/assistant"
	"github.com/dmitrijs2005/mindcare/internal/server/config"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/journals"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/moods"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		DatabaseTimeout:              time.Second,
		S3Region:                     "us-east-1",
		S3RootUser:                   "minioadmin",
		S3RootPassword:               "minioadmin",
		S3BaseEndpoint:               "http://127.0.0.1:9000",
		S3Bucket:                     "mindcare-exports",
		ExportURLValidityDuration:    15 * time.Minute,
	}
}

// newSQLiteDB opens an in-memory database with every migration applied.
func newSQLiteDB(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	ctx := context.Background()
	db, err := repomanager.OpenDB(ctx, config.DriverSQLite, ":memory:", 0)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewRepositoryManager(config.DriverSQLite)
	if err != nil {
		t.Fatalf("repository manager: %v", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db, rm
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	created   *models.User

	getOut      *models.User
	getErr      error
	lookedUpFor string
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.lookedUpFor = email
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetUserByID(context.Context, int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr  error
	deleted []string

	createErr error
	createdBy []int64
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID int64, _ string, _ time.Duration) error {
	f.createdBy = append(f.createdBy, userID)
	return f.createErr
}

func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return f.delErr
}

type fakeProfilesRepo struct {
	upsertErr error
	columns   []string
	saved     *models.Profile

	getOut *models.Profile
	getErr error
}

func (f *fakeProfilesRepo) Upsert(_ context.Context, p *models.Profile, columns []string) error {
	f.saved, f.columns = p, columns
	return f.upsertErr
}

func (f *fakeProfilesRepo) GetByUserID(context.Context, int64) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.getOut, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	p *fakeProfilesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.r }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository           { return m.p }
func (m *fakeRepoManager) Journals(dbx.DBTX) journals.Repository           { return nil }
func (m *fakeRepoManager) Moods(dbx.DBTX) moods.Repository                 { return nil }

type fakeAssistant struct {
	mu          sync.Mutex
	reply       string
	asked       []string
	tipsFor     *models.WellnessProfile
	tipsCalled  bool
	summary     models.MoodSummary
	reflectedOn string
}

func (f *fakeAssistant) Ask(_ context.Context, message string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, message)
	return f.reply
}

func (f *fakeAssistant) WellnessTips(_ context.Context, p *models.WellnessProfile) string {
	f.tipsFor, f.tipsCalled = p, true
	return "tips"
}

func (f *fakeAssistant) MoodInsights(_ context.Context, s models.MoodSummary) string {
	f.summary = s
	if s.Entries < assistant.MinMoodEntries {
		return assistant.NotEnoughMoodData
	}
	return "insights"
}

func (f *fakeAssistant) JournalReflection(_ context.Context, entry string) string {
	f.reflectedOn = entry
	return "reflection"
}

func (f *fakeAssistant) Affirmation() string { return "You are enough." }

func (f *fakeAssistant) Breathing() assistant.BreathingExercise {
	return assistant.BreathingExercise{Name: "Box Breathing"}
}
