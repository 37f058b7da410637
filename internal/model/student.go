package model

import (
	"time"
)

type Student struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	StudentNumber  string    `bson:"student_number" json:"student_number"`
	FirstName      string    `bson:"first_name" json:"first_name"`
	LastName       string    `bson:"last_name" json:"last_name"`
	CampusID       string    `bson:"campus_id" json:"campus_id"`
	CohortID       string    `bson:"cohort_id" json:"cohort_id"`
	PlacementStart time.Time `bson:"placement_start" json:"placement_start"`
	PlacementEnd   time.Time `bson:"placement_end" json:"placement_end"`
	CreatedByID    string    `bson:"created_by_id" json:"created_by_id"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
