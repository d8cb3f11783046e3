package room

type Status string

const (
	StatusVacant     Status = "vacant"
	StatusOccupied   Status = "occupied"
	StatusDirty      Status = "dirty"
	StatusOutOfOrder Status = "out_of_order"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusVacant, StatusOccupied, StatusDirty, StatusOutOfOrder:
		return true
	default:
		return false
	}
}

func AllStatuses() []Status {
	return []Status{StatusVacant, StatusOccupied, StatusDirty, StatusOutOfOrder}
}

// Filter narrows ListRooms. Empty fields match everything.
type Filter struct {
	IDs        []string
	CategoryID string
	Building   string
	Status     Status
}

func (f Filter) Matches(r *Room) bool {
	if len(f.IDs) > 0 {
		found := false
		for _, id := range f.IDs {
			if id == r.id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.CategoryID != "" && f.CategoryID != r.categoryID {
		return false
	}
	if f.Building != "" && f.Building != r.location.Building {
		return false
	}
	if f.Status != "" && f.Status != r.status {
		return false
	}
	return true
}
