package reservation

type Status string

const (
	StatusTentative  Status = "tentative"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// transitions lists every legal status change. Anything absent is rejected.
var transitions = map[Status][]Status{
	StatusTentative: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn: {StatusCheckedOut},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusTentative, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// HoldsRooms reports whether assignments in this status occupy inventory.
func (s Status) HoldsRooms() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

type Type string

const (
	TypeIndividual Type = "individual"
	TypeGroup      Type = "group"
	TypeCorporate  Type = "corporate"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeIndividual, TypeGroup, TypeCorporate:
		return true
	default:
		return false
	}
}

// AllowsMultipleRooms is false only for individual stays.
func (t Type) AllowsMultipleRooms() bool {
	return t != TypeIndividual
}
