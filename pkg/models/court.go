package models

import "github.com/google/uuid"

const (
	SportBadminton  = "badminton"
	SportTennis     = "tennis"
	SportPickleball = "pickleball"
)

// SportTypes lists the sports a court can be assigned to.
var SportTypes = []string{SportBadminton, SportTennis, SportPickleball}

func IsSportType(s string) bool {
	for _, v := range SportTypes {
		if v == s {
			return true
		}
	}
	return false
}

type Court struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	SportType   string    `json:"sport_type" db:"sport_type"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
}
