package queries

//go:generate mockgen -source=rooms.go -destination=../../../tests/mock/queries/rooms.go -package=queriesmock

import (
	"context"

	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/shared"
)

type RoomQueries interface {
	GetRoom(ctx context.Context, id string) (*RoomView, error)
	ListRooms(ctx context.Context, filter room.Filter) ([]*RoomView, error)
}

type roomQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewRoomQueries(uow shared.UnitOfWork) RoomQueries {
	return &roomQueriesImpl{uow: uow}
}

func (q *roomQueriesImpl) GetRoom(ctx context.Context, id string) (*RoomView, error) {
	var view *RoomView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		rm, err := tx.Rooms().FindByID(ctx, id)
		if err != nil {
			return shared.NotFoundOr(err, errs.Detail{RoomID: id}, "room %s not found", id)
		}
		view = NewRoomView(rm)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *roomQueriesImpl) ListRooms(ctx context.Context, filter room.Filter) ([]*RoomView, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, errs.Reject(errs.ErrValidation, errs.Detail{}, "unknown room status %q", filter.Status)
	}
	var views []*RoomView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		rooms, err := tx.Rooms().List(ctx, filter)
		if err != nil {
			return errs.Wrap(err, "list rooms")
		}
		views = NewRoomViews(rooms)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
