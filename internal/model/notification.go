package model

import (
	"time"
)

type Notification struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	RecipientID string    `bson:"recipient_id" json:"recipient_id"`
	Message     string    `bson:"message" json:"message"`
	Read        bool      `bson:"read" json:"read"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
