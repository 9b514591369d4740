package report

import (
	"encoding/json"
	"time"

	domain "mifi-backend/internal/domain/report"
)

type GenerateInput struct {
	Name domain.Name
	// only read by payments_collected and summary
	StartDate time.Time
	EndDate   time.Time
}

type SnapshotDTO struct {
	SnapshotID  string          `json:"snapshot_id"`
	Name        string          `json:"name"`
	GeneratedAt time.Time       `json:"generated_at"`
	GeneratedBy *uint64         `json:"generated_by"`
	Payload     json.RawMessage `json:"payload"`
}
