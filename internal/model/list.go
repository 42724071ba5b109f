package model

import "time"

// List is one event's contribution request, owned by a user.
// Location is immutable after creation.
type List struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Location    string    `json:"location"`
	EventDate   time.Time `json:"event_date"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// List statuses.
const (
	ListStatusActive   = "active"
	ListStatusArchived = "archived"
)

// Item is an item-kind within a list: a named category with a unit and a
// fixed quantity per portion. Its parcels reference it by ID.
type Item struct {
	ID            string    `json:"id"`
	ListID        string    `json:"list_id"`
	Name          string    `json:"name"`
	Unit          string    `json:"unit"`
	PerPortion    float64   `json:"quantity_per_portion"`
	TotalQuantity float64   `json:"total_quantity"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
}

// Parcel is one claimable unit of an item-kind. A parcel is claimed when
// MemberCPF is set; claimed parcels hold the participant's name and CPF
// directly, there is no separate registration entity.
type Parcel struct {
	ID         string     `json:"id"`
	ItemID     string     `json:"item_id"`
	ListID     string     `json:"list_id"`
	Position   int        `json:"position"`
	MemberName string     `json:"member_name,omitempty"`
	MemberCPF  string     `json:"member_cpf,omitempty"`
	ClaimedAt  *time.Time `json:"claimed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Claimed reports whether the parcel is currently claimed by a participant.
func (p Parcel) Claimed() bool {
	return p.MemberCPF != ""
}

// ValidCPF checks the participant identifier format: exactly 11 digits.
func ValidCPF(cpf string) bool {
	if len(cpf) != 11 {
		return false
	}
	for _, c := range cpf {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
