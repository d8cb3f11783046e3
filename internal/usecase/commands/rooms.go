package commands

//go:generate mockgen -source=rooms.go -destination=../../../tests/mock/commands/rooms.go -package=commandsmock

import (
	"context"
	"log/slog"

	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/pkg/patch"
	"room-allocation-engine/internal/usecase/queries"
	"room-allocation-engine/internal/usecase/shared"
)

// RegisterRoomInput creates a room or patches an existing one. Nil fields keep the stored value.
type RegisterRoomInput struct {
	ID         string
	Building   *string
	Floor      *int
	Number     *string
	CategoryID *string
}

type RoomCommands interface {
	RegisterRoom(ctx context.Context, in RegisterRoomInput) (view *queries.RoomView, created bool, err error)
	SetStatus(ctx context.Context, id string, status room.Status) (*queries.RoomView, error)
	MarkClean(ctx context.Context, id string, clean bool) (*queries.RoomView, error)
	RemoveRoom(ctx context.Context, id string) error
}

type roomCommandsImpl struct {
	uow    shared.UnitOfWork
	cal    shared.Calendar
	logger *slog.Logger
}

func NewRoomCommands(uow shared.UnitOfWork, cal shared.Calendar, logger *slog.Logger) RoomCommands {
	return &roomCommandsImpl{uow: uow, cal: cal, logger: logger}
}

func (c *roomCommandsImpl) RegisterRoom(ctx context.Context, in RegisterRoomInput) (*queries.RoomView, bool, error) {
	if in.ID == "" {
		return nil, false, errs.Reject(errs.ErrValidation, errs.Detail{}, "room id is required")
	}
	now := c.cal.Now()

	var (
		view    *queries.RoomView
		created bool
	)
	err := c.uow.Within(ctx, []shared.LockKey{shared.RoomLock(in.ID)}, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Rooms().FindByID(ctx, in.ID)
		switch {
		case err == nil:
			loc := existing.Location()
			if !patch.Changed(in.Building, loc.Building) && !patch.Changed(in.Floor, loc.Floor) &&
				!patch.Changed(in.Number, loc.Number) && !patch.Changed(in.CategoryID, existing.CategoryID()) {
				view = queries.NewRoomView(existing)
				return nil
			}
			next := room.Location{
				Building: patch.Coalesce(in.Building, loc.Building),
				Floor:    patch.Coalesce(in.Floor, loc.Floor),
				Number:   patch.Coalesce(in.Number, loc.Number),
			}
			if err := existing.Relocate(next, patch.Coalesce(in.CategoryID, existing.CategoryID()), now); err != nil {
				return errs.Reject(errs.ErrValidation, errs.Detail{RoomID: in.ID}, "%s", err.Error())
			}
			view = queries.NewRoomView(existing)
			return tx.Rooms().Save(ctx, existing)
		case isNotFound(err):
			loc := room.Location{
				Building: patch.Coalesce(in.Building, ""),
				Floor:    patch.Coalesce(in.Floor, 0),
				Number:   patch.Coalesce(in.Number, in.ID),
			}
			rm, err := room.NewRoom(in.ID, loc, patch.Coalesce(in.CategoryID, ""), now)
			if err != nil {
				return errs.Reject(errs.ErrValidation, errs.Detail{RoomID: in.ID}, "%s", err.Error())
			}
			created = true
			view = queries.NewRoomView(rm)
			return tx.Rooms().Save(ctx, rm)
		default:
			return errs.Wrap(err, "load room")
		}
	})
	if err != nil {
		return nil, false, err
	}
	c.logger.Info("room registered", "room_id", in.ID, "created", created)
	return view, created, nil
}

func (c *roomCommandsImpl) SetStatus(ctx context.Context, id string, status room.Status) (*queries.RoomView, error) {
	if !status.IsValid() {
		return nil, errs.Reject(errs.ErrValidation, errs.Detail{RoomID: id}, "unknown room status %q", status)
	}
	return c.mutate(ctx, id, func(rm *room.Room) error {
		return rm.SetStatus(status, c.cal.Now())
	})
}

func (c *roomCommandsImpl) MarkClean(ctx context.Context, id string, clean bool) (*queries.RoomView, error) {
	return c.mutate(ctx, id, func(rm *room.Room) error {
		rm.MarkClean(clean, c.cal.Now())
		return nil
	})
}

func (c *roomCommandsImpl) mutate(ctx context.Context, id string, fn func(*room.Room) error) (*queries.RoomView, error) {
	var view *queries.RoomView
	err := c.uow.Within(ctx, []shared.LockKey{shared.RoomLock(id)}, func(ctx context.Context, tx shared.Tx) error {
		rm, err := tx.Rooms().FindByID(ctx, id)
		if err != nil {
			return shared.NotFoundOr(err, errs.Detail{RoomID: id}, "room %s not found", id)
		}
		if err := fn(rm); err != nil {
			return errs.Reject(errs.ErrValidation, errs.Detail{RoomID: id}, "%s", err.Error())
		}
		view = queries.NewRoomView(rm)
		return tx.Rooms().Save(ctx, rm)
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("room housekeeping updated", "room_id", id, "status", view.Status, "clean", view.Clean)
	return view, nil
}

// RemoveRoom refuses while any assignment still references the room. Holds on it are dropped.
func (c *roomCommandsImpl) RemoveRoom(ctx context.Context, id string) error {
	err := c.uow.Within(ctx, []shared.LockKey{shared.RoomLock(id)}, func(ctx context.Context, tx shared.Tx) error {
		occ, err := shared.LoadOccupancy(ctx, tx, id)
		if err != nil {
			return err
		}
		if len(occ.Assignments) > 0 {
			a := occ.Assignments[0]
			return errs.Reject(errs.ErrRoomInUse, errs.Detail{
				RoomID:        id,
				ReservationID: a.ReservationID().String(),
				AssignmentID:  a.ID().String(),
				Range:         a.DateRange().String(),
			}, "room %s still has %d assignment(s)", id, len(occ.Assignments))
		}
		for _, h := range occ.Holds {
			if err := tx.Holds().Delete(ctx, h.ID()); err != nil {
				return errs.Wrap(err, "drop hold of removed room")
			}
		}
		return tx.Rooms().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	c.logger.Info("room removed", "room_id", id)
	return nil
}
