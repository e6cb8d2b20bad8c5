package recordsRepo

import (
	"context"
	"errors"

	"spabook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrCommissionExists is returned when a booking already has a commission record.
var ErrCommissionExists = errors.New("commission already recorded for booking")

// CommissionRecordRepository stores the commission locked in on acceptance.
type CommissionRecordRepository interface {
	Create(ctx context.Context, record models.CommissionRecord) (string, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.CommissionRecord, error)
	GetByTherapistID(ctx context.Context, therapistID string) ([]models.CommissionRecord, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a CommissionRecordRepository backed by db.
func NewMongoRecordRepo(db *mongo.Database) CommissionRecordRepository {
	return &mongoRecordRepo{
		coll: db.Collection("commission_records"),
	}
}
