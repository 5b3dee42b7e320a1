package usages

import (
	"time"

	"github.com/angelmondragon/carbon-api/pkg/db/models"
	"github.com/google/uuid"
)

const deletedMessage = "Usage entry deleted successfully"

// CreateInput is the validated create payload.
type CreateInput struct {
	Amount      float64
	UsageTypeID int
}

// UpdateInput carries only the fields the client supplied.
type UpdateInput struct {
	Amount      *float64
	UsageTypeID *int
}

// UsageRecordDTO is the wire shape of a stored record.
type UsageRecordDTO struct {
	ID         uuid.UUID                `json:"id"`
	OwnerID    string                   `json:"owner_id"`
	Amount     float64                  `json:"amount"`
	UsageType  models.UsageTypeSnapshot `json:"usage_type"`
	RecordedAt time.Time                `json:"recorded_at"`
}

// DeleteResultDTO acknowledges a hard delete.
type DeleteResultDTO struct {
	Msg    string       `json:"msg"`
	Detail DeleteDetail `json:"detail"`
}

type DeleteDetail struct {
	DeletedCount int64 `json:"deleted_count"`
}

func ToDTO(record models.UsageRecord) UsageRecordDTO {
	return UsageRecordDTO{
		ID:         record.ID,
		OwnerID:    record.OwnerID,
		Amount:     record.Amount,
		UsageType:  record.UsageType,
		RecordedAt: record.RecordedAt.UTC(),
	}
}

func ToDTOs(records []models.UsageRecord) []UsageRecordDTO {
	out := make([]UsageRecordDTO, 0, len(records))
	for _, record := range records {
		out = append(out, ToDTO(record))
	}
	return out
}

func NewDeleteResult(count int64) DeleteResultDTO {
	return DeleteResultDTO{Msg: deletedMessage, Detail: DeleteDetail{DeletedCount: count}}
}
