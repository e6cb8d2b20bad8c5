package recordsRepo

import (
	"context"
	"testing"

	"spabook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestCommissionRecords(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := NewMongoRecordRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Create(ctx, models.CommissionRecord{BookingID: "BK1", TotalPrice: 100, AdminCommission: 30})
		require.NoError(mt, err)
		assert.NotEmpty(mt, id)
	})

	mt.Run("second record for booking is rejected", func(mt *mtest.T) {
		repo := NewMongoRecordRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Code: 11000, Message: "E11000 duplicate key"}))

		_, err := repo.Create(ctx, models.CommissionRecord{BookingID: "BK1"})
		assert.ErrorIs(mt, err, ErrCommissionExists)
	})

	mt.Run("missing record is nil", func(mt *mtest.T) {
		repo := NewMongoRecordRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "spabook.commission_records", mtest.FirstBatch))

		got, err := repo.GetByBookingID(ctx, "BK404")
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("list by therapist", func(mt *mtest.T) {
		repo := NewMongoRecordRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "spabook.commission_records", mtest.FirstBatch,
			bson.D{{Key: "id", Value: "c2"}, {Key: "bookingId", Value: "BK2"}, {Key: "therapistId", Value: "ther-1"}, {Key: "adminCommission", Value: 45.0}},
			bson.D{{Key: "id", Value: "c1"}, {Key: "bookingId", Value: "BK1"}, {Key: "therapistId", Value: "ther-1"}, {Key: "adminCommission", Value: 30.0}},
		))

		got, err := repo.GetByTherapistID(ctx, "ther-1")
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "BK2", got[0].BookingID)
		assert.Equal(mt, 30.0, got[1].AdminCommission)
	})
}
