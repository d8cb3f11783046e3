package queries

//go:generate mockgen -source=reservations.go -destination=../../../tests/mock/queries/reservations.go -package=queriesmock

import (
	"context"

	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationQueries interface {
	GetReservation(ctx context.Context, id uuid.UUID) (*ReservationView, error)
}

type reservationQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewReservationQueries(uow shared.UnitOfWork) ReservationQueries {
	return &reservationQueriesImpl{uow: uow}
}

func (q *reservationQueriesImpl) GetReservation(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	var view *ReservationView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return shared.NotFoundOr(err, errs.Detail{ReservationID: id.String()}, "reservation %s not found", id)
		}
		view = NewReservationView(res)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
