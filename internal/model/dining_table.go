package model

import (
	"time"

	"github.com/google/uuid"
)

// DiningTable is a cash-register table. The in-progress order itself lives
// client-side; the server only tracks occupancy so that a validation request
// can be checked against an open table.
// Status: "Libre" | "Occupée"
type DiningTable struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Number    int        `gorm:"uniqueIndex;not null" json:"number"`
	Capacity  int        `gorm:"not null;default:2" json:"capacity"`
	Status    string     `gorm:"type:varchar(20);not null;default:'Libre'" json:"status"`
	OpenedAt  *time.Time `json:"openedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (DiningTable) TableName() string { return "dining_tables" }
