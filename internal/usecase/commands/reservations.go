package commands

//go:generate mockgen -source=reservations.go -destination=../../../tests/mock/commands/reservations.go -package=commandsmock

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"room-allocation-engine/internal/domain/hold"
	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/queries"
	"room-allocation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type OpenTentativeInput struct {
	Type    reservation.Type
	Party   reservation.Party
	Deposit reservation.Deposit
}

type ReservationCommands interface {
	OpenTentative(ctx context.Context, in OpenTentativeInput) (*queries.ReservationView, error)
	Commit(ctx context.Context, draft reservation.Draft) (*queries.ReservationView, error)
	CheckIn(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
	CheckOut(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
	Cancel(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
	AmendAssignment(ctx context.Context, id, assignmentID uuid.UUID, rng stay.DateRange, ownerToken string) (*queries.ReservationView, error)
}

type reservationCommandsImpl struct {
	uow    shared.UnitOfWork
	cal    shared.Calendar
	logger *slog.Logger
}

func NewReservationCommands(uow shared.UnitOfWork, cal shared.Calendar, logger *slog.Logger) ReservationCommands {
	return &reservationCommandsImpl{uow: uow, cal: cal, logger: logger}
}

func isNotFound(err error) bool {
	return errors.Is(err, errs.ErrNotFound)
}

func (c *reservationCommandsImpl) OpenTentative(ctx context.Context, in OpenTentativeInput) (*queries.ReservationView, error) {
	res, err := reservation.NewTentative(in.Type, in.Party, in.Deposit, c.cal.Now())
	if err != nil {
		return nil, errs.Reject(errs.ErrInvalidComposition, errs.Detail{}, "%s", err.Error())
	}
	err = c.uow.Within(ctx, []shared.LockKey{shared.ReservationLock(res.ID())}, func(ctx context.Context, tx shared.Tx) error {
		return tx.Reservations().Save(ctx, res)
	})
	if err != nil {
		return nil, errs.Wrap(err, "save tentative reservation")
	}
	c.logger.Info("tentative reservation opened", "reservation_id", res.ID(), "type", res.Type())
	return queries.NewReservationView(res), nil
}

// Commit turns a draft into a confirmed reservation. Either every entry becomes an assignment
// and every referenced hold is consumed, or nothing changes.
func (c *reservationCommandsImpl) Commit(ctx context.Context, draft reservation.Draft) (*queries.ReservationView, error) {
	if err := draft.CheckComposition(); err != nil {
		return nil, err
	}
	if err := draft.CheckEntries(); err != nil {
		return nil, err
	}

	keys := shared.RoomLocks(draft.RoomIDs())
	if draft.ReservationID != nil {
		keys = append(keys, shared.ReservationLock(*draft.ReservationID))
	}

	var res *reservation.Reservation
	err := c.uow.Within(ctx, keys, func(ctx context.Context, tx shared.Tx) error {
		now, today := c.cal.Now(), c.cal.Today()

		var err error
		res, err = c.loadOrOpen(ctx, tx, draft, now)
		if err != nil {
			return err
		}

		// every entry is checked against the ledger before any hold is resolved
		occupancy := make(map[string]*shared.Occupancy, len(draft.Entries))
		for _, e := range draft.Entries {
			occ, ok := occupancy[e.RoomID]
			if !ok {
				if occ, err = shared.LoadOccupancy(ctx, tx, e.RoomID); err != nil {
					return err
				}
				occupancy[e.RoomID] = occ
			}
			claim := shared.Claim{Range: e.Range, OwnerToken: draft.OwnerToken, Now: now, Today: today}
			if err := occ.CheckHousekeeping(claim); err != nil {
				return err
			}
			if err := occ.Blocker(claim, errs.ErrRoomConflict); err != nil {
				return err
			}
		}

		consumed := make(map[uuid.UUID]struct{})
		assignments := make([]reservation.Assignment, 0, len(draft.Entries))
		for _, e := range draft.Entries {
			if e.HoldID != nil {
				h, err := ownedHold(occupancy[e.RoomID], *e.HoldID, draft.OwnerToken, e.Range, now)
				if err != nil {
					return err
				}
				consumed[h.ID()] = struct{}{}
			}
			assignments = append(assignments, reservation.NewAssignment(res.ID(), e.RoomID, e.Range, now))
		}

		if err := res.Confirm(assignments, now); err != nil {
			return err
		}
		if err := tx.Reservations().Save(ctx, res); err != nil {
			return errs.Wrap(err, "save reservation")
		}
		for _, a := range assignments {
			if err := tx.Assignments().Save(ctx, a); err != nil {
				return errs.Wrapf(err, "save assignment for room %s", a.RoomID())
			}
		}
		for id := range consumed {
			if err := tx.Holds().Delete(ctx, id); err != nil {
				return errs.Wrap(err, "consume hold")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("reservation committed",
		"reservation_id", res.ID(),
		"type", res.Type(),
		"rooms", res.RoomIDs(),
		"span", res.Span().String(),
	)
	return queries.NewReservationView(res), nil
}

func (c *reservationCommandsImpl) loadOrOpen(ctx context.Context, tx shared.Tx, draft reservation.Draft, now time.Time) (*reservation.Reservation, error) {
	if draft.ReservationID == nil {
		res, err := reservation.NewTentative(draft.Type, draft.Party, draft.Deposit, now)
		if err != nil {
			return nil, errs.Reject(errs.ErrInvalidComposition, errs.Detail{}, "%s", err.Error())
		}
		return res, nil
	}
	id := *draft.ReservationID
	res, err := tx.Reservations().FindByID(ctx, id)
	if err != nil {
		return nil, shared.NotFoundOr(err, errs.Detail{ReservationID: id.String()}, "reservation %s not found", id)
	}
	if res.Status() != reservation.StatusTentative {
		return nil, errs.Reject(errs.ErrInvalidTransition, errs.Detail{ReservationID: id.String()},
			"reservation is %s, only tentative reservations can be committed", res.Status())
	}
	if res.Type() != draft.Type {
		return nil, errs.Reject(errs.ErrInvalidComposition, errs.Detail{ReservationID: id.String()},
			"draft type %s does not match reservation type %s", draft.Type, res.Type())
	}
	return res, nil
}

// ownedHold finds the hold an entry spends. It must be active, owned by the committing session
// and cover every night of the entry.
func ownedHold(occ *shared.Occupancy, holdID uuid.UUID, token string, rng stay.DateRange, now time.Time) (*hold.Hold, error) {
	detail := errs.Detail{RoomID: occ.Room.ID(), HoldID: holdID.String()}
	for _, h := range occ.Holds {
		if h.ID() != holdID {
			continue
		}
		if !h.IsActive(now) {
			return nil, errs.Reject(errs.ErrHoldExpiredOrNotOwned, detail, "hold expired at %s", h.ExpiresAt().Format(time.RFC3339))
		}
		if !h.OwnedBy(token) {
			return nil, errs.Reject(errs.ErrHoldExpiredOrNotOwned, detail, "hold belongs to another session")
		}
		if !h.DateRange().Covers(rng) {
			detail.Range = rng.String()
			return nil, errs.Reject(errs.ErrHoldExpiredOrNotOwned, detail,
				"hold covers %s, not %s", h.DateRange(), rng)
		}
		return h, nil
	}
	return nil, errs.Reject(errs.ErrHoldExpiredOrNotOwned, detail, "no hold %s on room %s", holdID, occ.Room.ID())
}

// roomsOf reads which rooms a reservation touches so their locks can be taken before the real read.
func (c *reservationCommandsImpl) roomsOf(ctx context.Context, id uuid.UUID) ([]shared.LockKey, error) {
	var keys []shared.LockKey
	err := c.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return shared.NotFoundOr(err, errs.Detail{ReservationID: id.String()}, "reservation %s not found", id)
		}
		keys = append(shared.RoomLocks(res.RoomIDs()), shared.ReservationLock(id))
		return nil
	})
	return keys, err
}

// transition loads the reservation under its room and reservation locks and hands it to fn.
func (c *reservationCommandsImpl) transition(ctx context.Context, id uuid.UUID, event string, fn func(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error) (*queries.ReservationView, error) {
	keys, err := c.roomsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	var res *reservation.Reservation
	err = c.uow.Within(ctx, keys, func(ctx context.Context, tx shared.Tx) error {
		loaded, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return shared.NotFoundOr(err, errs.Detail{ReservationID: id.String()}, "reservation %s not found", id)
		}
		res = loaded
		if err := fn(ctx, tx, res); err != nil {
			return err
		}
		return tx.Reservations().Save(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("reservation "+event, "reservation_id", id, "status", res.Status())
	return queries.NewReservationView(res), nil
}

func (c *reservationCommandsImpl) CheckIn(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	return c.transition(ctx, id, "checked in", func(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error {
		now := c.cal.Now()
		current, err := res.CheckIn(c.cal.Today(), now)
		if err != nil {
			return err
		}
		for _, a := range current {
			rm, err := tx.Rooms().FindByID(ctx, a.RoomID())
			if err != nil {
				return shared.NotFoundOr(err, errs.Detail{RoomID: a.RoomID()}, "room %s not found", a.RoomID())
			}
			rm.Occupy(now)
			if err := tx.Rooms().Save(ctx, rm); err != nil {
				return errs.Wrap(err, "save occupied room")
			}
		}
		return nil
	})
}

func (c *reservationCommandsImpl) CheckOut(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	return c.transition(ctx, id, "checked out", func(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error {
		now, today := c.cal.Now(), c.cal.Today()
		var used []string
		for _, a := range res.Assignments() {
			if !a.DateRange().Start().After(today) && !slices.Contains(used, a.RoomID()) {
				used = append(used, a.RoomID())
			}
		}

		shortened, released, err := res.CheckOut(today, now)
		if err != nil {
			return err
		}
		for _, a := range shortened {
			if err := tx.Assignments().Save(ctx, a); err != nil {
				return errs.Wrap(err, "shorten assignment")
			}
		}
		if err := deleteAssignments(ctx, tx, released); err != nil {
			return err
		}
		for _, roomID := range used {
			rm, err := tx.Rooms().FindByID(ctx, roomID)
			if err != nil {
				return shared.NotFoundOr(err, errs.Detail{RoomID: roomID}, "room %s not found", roomID)
			}
			rm.Vacate(now)
			if err := tx.Rooms().Save(ctx, rm); err != nil {
				return errs.Wrap(err, "save vacated room")
			}
		}
		return nil
	})
}

func (c *reservationCommandsImpl) Cancel(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	return c.transition(ctx, id, "cancelled", func(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error {
		removed, err := res.Cancel(c.cal.Now())
		if err != nil {
			return err
		}
		return deleteAssignments(ctx, tx, removed)
	})
}

func (c *reservationCommandsImpl) MarkNoShow(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	return c.transition(ctx, id, "marked no-show", func(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error {
		removed, err := res.MarkNoShow(c.cal.Today(), c.cal.Now())
		if err != nil {
			return err
		}
		return deleteAssignments(ctx, tx, removed)
	})
}

// AmendAssignment moves the dates of one assignment. Shrinking always fits; growing is checked
// against the room like a fresh commit, ignoring the assignment itself and the caller's own holds.
func (c *reservationCommandsImpl) AmendAssignment(ctx context.Context, id, assignmentID uuid.UUID, rng stay.DateRange, ownerToken string) (*queries.ReservationView, error) {
	if err := shared.RequireRange(rng); err != nil {
		return nil, err
	}
	return c.transition(ctx, id, "amended", func(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error {
		now := c.cal.Now()
		before, after, err := res.Amend(assignmentID, rng, now)
		if err != nil {
			return err
		}
		if !before.DateRange().Covers(rng) {
			occ, err := shared.LoadOccupancy(ctx, tx, after.RoomID())
			if err != nil {
				return err
			}
			claim := shared.Claim{
				Range:            rng,
				OwnerToken:       ownerToken,
				Now:              now,
				Today:            c.cal.Today(),
				IgnoreAssignment: assignmentID,
			}
			if res.Status() == reservation.StatusConfirmed {
				if err := occ.CheckHousekeeping(claim); err != nil {
					return err
				}
			}
			if err := occ.Blocker(claim, errs.ErrRoomConflict); err != nil {
				return err
			}
		}
		return tx.Assignments().Save(ctx, after)
	})
}

func deleteAssignments(ctx context.Context, tx shared.Tx, assignments []reservation.Assignment) error {
	for _, a := range assignments {
		if err := tx.Assignments().Delete(ctx, a.ID()); err != nil {
			return errs.Wrapf(err, "delete assignment %s", a.ID())
		}
	}
	return nil
}
