package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient names are not unique on their own; the canonical identity for
// aggregation is the (name, measurement unit) pair.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"index;not null" json:"name"`
	MeasurementUnit string    `gorm:"not null" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
