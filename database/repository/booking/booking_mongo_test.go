package bookingRepo

import (
	"context"
	"testing"
	"time"

	"spabook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "spabook.bookings"

func toDoc(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func sampleBooking() models.Booking {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return models.Booking{
		BookingID:        "BK1772359200000_ABC123",
		ChatRoomID:       "room-1",
		CustomerID:       "cust-1",
		CustomerName:     "Ayu",
		TherapistID:      "ther-1",
		TherapistName:    "Made",
		ServiceType:      "balinese massage",
		DurationMinutes:  60,
		TotalPrice:       350000,
		Kind:             models.KindImmediate,
		Status:           models.StatusPending,
		CreatedAt:        created,
		ResponseDeadline: created.Add(5 * time.Minute),
	}
}

func TestMongoBookingRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create succeeds", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		b := sampleBooking()
		require.NoError(mt, repo.Create(ctx, &b))
		assert.Equal(mt, b.CreatedAt, b.UpdatedAt)
	})

	mt.Run("create maps duplicate key", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		b := sampleBooking()
		err := repo.Create(ctx, &b)
		assert.ErrorIs(mt, err, ErrDuplicateID)
	})

	mt.Run("get by id decodes document", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		b := sampleBooking()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(mt.T, b)))

		got, err := repo.GetByID(ctx, b.BookingID)
		require.NoError(mt, err)
		assert.Equal(mt, b.BookingID, got.BookingID)
		assert.Equal(mt, models.StatusPending, got.Status)
		assert.True(mt, got.ResponseDeadline.Equal(b.ResponseDeadline))
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := repo.GetByID(ctx, "missing")
		assert.Nil(mt, got)
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("update status applies when status matches", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.UpdateStatus(ctx, "BK1", StatusChange{
			From: models.StatusPending,
			To:   models.StatusAccepted,
		})
		assert.NoError(mt, err)
	})

	mt.Run("update status reports conflict when nothing matched", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.UpdateStatus(ctx, "BK1", StatusChange{
			From: models.StatusPending,
			To:   models.StatusExpired,
		})
		assert.ErrorIs(mt, err, ErrStatusConflict)
	})

	mt.Run("update status surfaces command errors", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		err := repo.UpdateStatus(ctx, "BK1", StatusChange{
			From: models.StatusPending,
			To:   models.StatusRejected,
		})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrStatusConflict)
	})

	mt.Run("find overdue returns every batch", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		first := sampleBooking()
		second := sampleBooking()
		second.BookingID = "BK1772359200001_XYZ789"

		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, toDoc(mt.T, first)),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch, toDoc(mt.T, second)),
		)

		got, err := repo.FindOverdue(ctx, time.Now(), 10)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, first.BookingID, got[0].BookingID)
		assert.Equal(mt, second.BookingID, got[1].BookingID)
	})

	mt.Run("find recent active returns nil when none", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := repo.FindRecentActive(ctx, "cust-1", "ther-1", time.Now().Add(-5*time.Minute))
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("find recent active returns match", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		b := sampleBooking()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(mt.T, b)))

		got, err := repo.FindRecentActive(ctx, b.CustomerID, b.TherapistID, b.CreatedAt.Add(-time.Minute))
		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.Equal(mt, b.BookingID, got.BookingID)
	})
}
