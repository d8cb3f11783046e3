package queries

//go:generate mockgen -source=availability.go -destination=../../../tests/mock/queries/availability.go -package=queriesmock

import (
	"context"

	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/shared"
)

type AvailabilityQuery struct {
	Range      stay.DateRange
	CategoryID string
	// OwnerToken lets a wizard session see rooms it is already holding
	OwnerToken string
}

type AvailabilityQueries interface {
	FindAvailable(ctx context.Context, q AvailabilityQuery) ([]*RoomView, error)
}

type availabilityQueriesImpl struct {
	uow shared.UnitOfWork
	cal shared.Calendar
}

func NewAvailabilityQueries(uow shared.UnitOfWork, cal shared.Calendar) AvailabilityQueries {
	return &availabilityQueriesImpl{uow: uow, cal: cal}
}

// FindAvailable scans every candidate room's assignments and holds with the overlap predicate.
// The whole scan runs on one read snapshot.
func (q *availabilityQueriesImpl) FindAvailable(ctx context.Context, aq AvailabilityQuery) ([]*RoomView, error) {
	if err := shared.RequireRange(aq.Range); err != nil {
		return nil, err
	}

	claim := shared.Claim{
		Range:      aq.Range,
		OwnerToken: aq.OwnerToken,
		Now:        q.cal.Now(),
		Today:      q.cal.Today(),
	}

	var available []*room.Room
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		rooms, err := tx.Rooms().List(ctx, room.Filter{CategoryID: aq.CategoryID})
		if err != nil {
			return errs.Wrap(err, "list candidate rooms")
		}
		for _, rm := range rooms {
			occ, err := shared.LoadOccupancy(ctx, tx, rm.ID())
			if err != nil {
				return err
			}
			if occ.Available(claim) {
				available = append(available, rm)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewRoomViews(available), nil
}
