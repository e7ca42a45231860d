package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	slotsqlRepo "studiobook/database/repository/slotsql"
	"studiobook/services/events"
)

func newSQLiteStore(t *testing.T) *slotsqlRepo.GormSlotRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := slotsqlRepo.NewGormSlotRepository(db)
	require.NoError(t, store.AutoMigrate(context.Background()))
	return store
}

func newTestRepository(t *testing.T) *Repository {
	store := newSQLiteStore(t)
	return NewRepository(store, store, time.Second, nil)
}

func weekday(d time.Weekday) *int {
	v := int(d)
	return &v
}

func utc(date, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []events.SlotChange
}

func (p *recordingPublisher) Publish(_ context.Context, c events.SlotChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingEnqueuer struct {
	tasks []*asynq.Task
}

func (e *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}
