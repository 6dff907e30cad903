package services

import (
	"TeleClinic/cache"
	"TeleClinic/database"
	"TeleClinic/models"
	"TeleClinic/payments"
	"TeleClinic/repositories"
	"TeleClinic/utils"
	"context"
	"net/http"
	"net/http/httptest"
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

// bookingTestEnv wires the booking service against a mocked database, a
// miniredis-backed cache, and an in-process payment gateway stub.
type bookingTestEnv struct {
	booking      *BookingService
	availability *AvailabilityService
	repo         *repositories.AppointmentRepository
	cache        *cache.Cache
	mock         sqlmock.Sqlmock
}

func newBookingTestEnv(t *testing.T) *bookingTestEnv {
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

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(201)
		_, _ = w.Write([]byte(`{"id":"order_fresh","amount":50000,"currency":"INR","receipt":"r","status":"created"}`))
	}))

	t.Cleanup(func() {
		gateway.Close()
		_ = client.Close()
		_ = sqlDB.Close()
		database.DB = nil
		database.RedisClient = nil
	})

	appointmentRepo := repositories.NewAppointmentRepository(c)
	availability := NewAvailabilityService(repositories.NewScheduleRepository(c), appointmentRepo, c, time.UTC)
	booking := NewBookingService(
		appointmentRepo,
		repositories.NewDoctorRepository(c),
		repositories.NewCouponRepository(c),
		availability,
		payments.NewClient(gateway.URL, "key", "secret"),
		"INR",
		15*time.Minute,
	)

	return &bookingTestEnv{
		booking:      booking,
		availability: availability,
		repo:         appointmentRepo,
		cache:        c,
		mock:         mock,
	}
}

func TestRetryPaymentReopensFailedBookingUnderSameCode(t *testing.T) {
	env := newBookingTestEnv(t)
	ctx := context.Background()

	startAt := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Minute)
	appointment := models.Appointment{
		ID:            7,
		Code:          "APT-RETRY",
		PatientID:     "P1",
		DoctorID:      "D1",
		Date:          startAt.Format(models.DateLayout),
		Time:          startAt.Format(models.TimeLayout),
		StartAt:       startAt,
		Status:        models.StatusFailed,
		Fees:          500,
		PaymentMethod: "card",
		PaymentStatus: models.PaymentFailed,
	}
	require.NoError(t, env.cache.SetJSON(ctx, "appointment_cache:APT-RETRY", appointment, time.Minute))

	// Reopening re-checks slot occupancy, flips the existing row back to
	// pending, then stamps the fresh order ID. No insert happens: the retry
	// keeps the same appointment code.
	env.mock.ExpectQuery(`SELECT count\(\*\) FROM "appointment"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	env.mock.ExpectExec(`UPDATE "appointment" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectExec(`UPDATE "appointment" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	order, err := env.booking.RetryPayment(ctx, "APT-RETRY", "P1")
	require.NoError(t, err)
	assert.Equal(t, "order_fresh", order.ID)

	code, err := env.repo.PendingBooking(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "APT-RETRY", code)

	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestSettleCallbackRejectsForeignPatient(t *testing.T) {
	env := newBookingTestEnv(t)
	ctx := context.Background()

	appointment := models.Appointment{
		ID:             9,
		Code:           "APT-OWNED",
		PatientID:      "P1",
		DoctorID:       "D1",
		StartAt:        time.Now().Add(24 * time.Hour).UTC(),
		Status:         models.StatusPending,
		PaymentStatus:  models.PaymentPending,
		PaymentOrderID: "order_owned",
	}
	require.NoError(t, env.cache.SetJSON(ctx, "appointment_cache:APT-OWNED", appointment, time.Minute))

	env.mock.ExpectQuery(`SELECT "code" FROM "appointment"`).
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("APT-OWNED"))

	// Another patient reporting a failure against someone else's order must
	// not touch the booking.
	_, err := env.booking.SettleCallback(ctx, payments.Callback{OrderID: "order_owned", Success: false}, "P2")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	var cached models.Appointment
	found, err := env.cache.GetJSON(ctx, "appointment_cache:APT-OWNED", &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.StatusPending, cached.Status)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestSettleCallbackWebhookFailureReleasesBooking(t *testing.T) {
	env := newBookingTestEnv(t)
	ctx := context.Background()

	appointment := models.Appointment{
		ID:             11,
		Code:           "APT-HOOK",
		PatientID:      "P1",
		DoctorID:       "D1",
		StartAt:        time.Now().Add(24 * time.Hour).UTC(),
		Status:         models.StatusPending,
		PaymentStatus:  models.PaymentPending,
		PaymentOrderID: "order_hook",
	}
	require.NoError(t, env.cache.SetJSON(ctx, "appointment_cache:APT-HOOK", appointment, time.Minute))

	env.mock.ExpectQuery(`SELECT "code" FROM "appointment"`).
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("APT-HOOK"))
	env.mock.ExpectExec(`UPDATE "appointment" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// The gateway's server-to-server path settles without a patient identity.
	settled, err := env.booking.SettleCallback(ctx, payments.Callback{OrderID: "order_hook", Success: false}, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, settled.Status)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestBookRejectsSlotOffSchedule(t *testing.T) {
	env := newBookingTestEnv(t)
	ctx := context.Background()

	date := time.Now().Add(72 * time.Hour).UTC().Format(models.DateLayout)
	doctor := models.Doctor{ID: "D1", FirstName: "Asha", LastName: "Rao", Specialty: "Dermatology", Fees: 500, Available: true}
	require.NoError(t, env.cache.SetJSON(ctx, "doctor_cache:D1", doctor, time.Minute))

	// The doctor only offers 10:00 that day.
	offered, err := env.availability.ResolveSlot(date, "10:00")
	require.NoError(t, err)
	require.NoError(t, env.cache.SetJSON(ctx, repositories.SlotsCacheKey("D1", date),
		[]Slot{{Time: "10:00", StartAt: offered}}, time.Minute))

	_, _, err = env.booking.Book(ctx, utils.BookingInput{
		PatientID:     "P1",
		DoctorID:      "D1",
		Date:          date,
		Time:          "03:00",
		PaymentMethod: "card",
		Reason:        "Recurring rash",
	})
	assert.ErrorIs(t, err, ErrSlotNotOffered)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}
