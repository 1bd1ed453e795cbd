package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/komiteplus/committee-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type captureHandler struct {
	level   slog.Level
	records []slog.Record
	err     error
}

func (h *captureHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return h.err
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func record(level slog.Level, msg string) slog.Record {
	return slog.NewRecord(time.Now(), level, msg, 0)
}

func testLogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))
	return db
}

func TestMultiHandlerFansOutToInterestedHandlers(t *testing.T) {
	stdout := &captureHandler{level: slog.LevelInfo}
	pg := &captureHandler{level: slog.LevelError}
	m := NewMultiHandler(stdout, pg)

	require.NoError(t, m.Handle(context.Background(), record(slog.LevelInfo, "startup")))
	require.NoError(t, m.Handle(context.Background(), record(slog.LevelError, "boom")))

	require.Len(t, stdout.records, 2)
	require.Len(t, pg.records, 1)
	assert.Equal(t, "boom", pg.records[0].Message)
}

func TestMultiHandlerEnabledIsUnionOfSinks(t *testing.T) {
	m := NewMultiHandler(
		&captureHandler{level: slog.LevelWarn},
		&captureHandler{level: slog.LevelError},
	)
	assert.False(t, m.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, m.Enabled(context.Background(), slog.LevelWarn))
}

func TestMultiHandlerFailingSinkDoesNotStarveOthers(t *testing.T) {
	broken := &captureHandler{level: slog.LevelInfo, err: errors.New("disk full")}
	healthy := &captureHandler{level: slog.LevelInfo}
	m := NewMultiHandler(broken, healthy)

	err := m.Handle(context.Background(), record(slog.LevelInfo, "still delivered"))
	require.Error(t, err)
	require.Len(t, healthy.records, 1)
	assert.Equal(t, "still delivered", healthy.records[0].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestPruneDeletesOnlyExpiredRows(t *testing.T) {
	db := testLogDB(t)

	stale := models.SystemLog{ID: uuid.New(), Timestamp: time.Now().Add(-logRetention - time.Hour), Level: "ERROR", Message: "old"}
	fresh := models.SystemLog{ID: uuid.New(), Timestamp: time.Now().Add(-time.Hour), Level: "ERROR", Message: "recent"}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&fresh).Error)

	prune(db)

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "recent", rows[0].Message)
}

func TestPGHandlerBatchesErrorRecords(t *testing.T) {
	db := testLogDB(t)
	h := NewPGHandler(db)
	defer h.Stop()

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, h.Enabled(context.Background(), slog.LevelError))

	r := record(slog.LevelError, "refresh token revocation failed")
	r.AddAttrs(slog.String("user_id", uuid.NewString()), slog.String("error", "connection refused"))
	require.NoError(t, h.Handle(context.Background(), r))

	h.flush()

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "refresh token revocation failed", rows[0].Message)
	assert.Equal(t, "connection refused", rows[0].Error)
	require.NotNil(t, rows[0].UserID)
}
