package repositories

import (
	"TeleClinic/cache"
	"TeleClinic/database"
	"TeleClinic/models"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockedRepoEnv(t *testing.T) (sqlmock.Sqlmock, *cache.Cache) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	database.DB = gdb

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	database.RedisClient = client
	c := cache.NewCacheWithClient(client)

	t.Cleanup(func() {
		_ = client.Close()
		_ = sqlDB.Close()
		database.DB = nil
		database.RedisClient = nil
	})
	return mock, c
}

func TestPrescriptionCreateFirstAttach(t *testing.T) {
	mock, c := newMockedRepoEnv(t)
	repo := NewPrescriptionRepository(c)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "appointment_cache:APT-12", "stale", time.Minute))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "prescription"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "prescription"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	prescription := &models.Prescription{
		AppointmentID: 12,
		DoctorID:      "D1",
		PatientID:     "P1",
		Diagnosis:     "Migraine",
	}
	require.NoError(t, repo.Create(ctx, prescription, "APT-12"))
	assert.Equal(t, uint(1), prescription.ID)

	// The stale appointment view is dropped so the next read re-embeds the
	// prescription.
	_, err := c.Get(ctx, "appointment_cache:APT-12")
	assert.Equal(t, redis.Nil, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrescriptionCreateRejectsSecondAttach(t *testing.T) {
	mock, c := newMockedRepoEnv(t)
	repo := NewPrescriptionRepository(c)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "prescription"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	prescription := &models.Prescription{
		AppointmentID: 12,
		DoctorID:      "D1",
		PatientID:     "P1",
		Diagnosis:     "Migraine",
	}
	err := repo.Create(ctx, prescription, "APT-12")
	assert.ErrorIs(t, err, ErrPrescriptionExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
