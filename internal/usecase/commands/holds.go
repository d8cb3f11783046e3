package commands

//go:generate mockgen -source=holds.go -destination=../../../tests/mock/commands/holds.go -package=commandsmock

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"room-allocation-engine/internal/domain/hold"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/queries"
	"room-allocation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type HoldCommands interface {
	PlaceHold(ctx context.Context, roomID string, rng stay.DateRange, ownerToken string) (*queries.HoldView, error)
	ReleaseHold(ctx context.Context, holdID uuid.UUID, ownerToken string) error
	ExtendHold(ctx context.Context, holdID uuid.UUID, ownerToken string) (*queries.HoldView, error)
	ReleaseAll(ctx context.Context, ownerToken string) (int, error)
	ListHolds(ctx context.Context, ownerToken string) ([]*queries.HoldView, error)
	SweepExpired(ctx context.Context) (int, error)
}

type HoldOption func(*holdCommandsImpl)

func WithHoldTTL(ttl time.Duration) HoldOption {
	return func(c *holdCommandsImpl) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

type holdCommandsImpl struct {
	uow    shared.UnitOfWork
	cal    shared.Calendar
	logger *slog.Logger
	ttl    time.Duration
}

func NewHoldCommands(uow shared.UnitOfWork, cal shared.Calendar, logger *slog.Logger, opts ...HoldOption) HoldCommands {
	c := &holdCommandsImpl{
		uow:    uow,
		cal:    cal,
		logger: logger,
		ttl:    hold.DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func requireToken(token string) error {
	if token == "" {
		return errs.Reject(errs.ErrValidation, errs.Detail{}, "owner token is required")
	}
	return nil
}

func (c *holdCommandsImpl) PlaceHold(ctx context.Context, roomID string, rng stay.DateRange, ownerToken string) (*queries.HoldView, error) {
	if err := shared.RequireRange(rng); err != nil {
		return nil, err
	}
	if err := requireToken(ownerToken); err != nil {
		return nil, err
	}

	var view *queries.HoldView
	err := c.uow.Within(ctx, []shared.LockKey{shared.RoomLock(roomID)}, func(ctx context.Context, tx shared.Tx) error {
		occ, err := shared.LoadOccupancy(ctx, tx, roomID)
		if err != nil {
			return err
		}
		now := c.cal.Now()
		claim := shared.Claim{Range: rng, OwnerToken: ownerToken, Now: now, Today: c.cal.Today()}

		for _, h := range occ.Holds {
			if h.IsActive(now) && h.OwnedBy(ownerToken) && h.DateRange().Equal(rng) {
				view = queries.NewHoldView(h)
				return nil
			}
		}
		if err := occ.CheckHousekeeping(claim); err != nil {
			return err
		}
		if err := occ.Blocker(claim, errs.ErrRoomUnavailable); err != nil {
			return err
		}

		if err := dropExpired(ctx, tx, occ.Holds, now); err != nil {
			return err
		}
		h, err := hold.NewHold(roomID, rng, ownerToken, now, c.ttl)
		if err != nil {
			return errs.Reject(errs.ErrValidation, errs.Detail{RoomID: roomID}, "%s", err.Error())
		}
		if err := tx.Holds().Save(ctx, h); err != nil {
			return errs.Wrap(err, "save hold")
		}
		view = queries.NewHoldView(h)
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("hold placed", "hold_id", view.ID, "room_id", roomID, "range", rng.String())
	return view, nil
}

// dropExpired removes holds that lapsed but were not swept yet.
func dropExpired(ctx context.Context, tx shared.Tx, holds []*hold.Hold, now time.Time) error {
	for _, h := range holds {
		if h.IsActive(now) {
			continue
		}
		if err := tx.Holds().Delete(ctx, h.ID()); err != nil {
			return errs.Wrap(err, "drop expired hold")
		}
	}
	return nil
}

// locateHold finds the room a hold sits on so the caller can take that room's lock.
func (c *holdCommandsImpl) locateHold(ctx context.Context, holdID uuid.UUID) (string, error) {
	var roomID string
	err := c.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		h, err := tx.Holds().FindByID(ctx, holdID)
		if err != nil {
			return shared.NotFoundOr(err, errs.Detail{HoldID: holdID.String()}, "hold %s not found", holdID)
		}
		roomID = h.RoomID()
		return nil
	})
	return roomID, err
}

// withOwnedHold runs fn on an active hold owned by token, under the hold's room lock.
func (c *holdCommandsImpl) withOwnedHold(ctx context.Context, holdID uuid.UUID, token string, fn func(ctx context.Context, tx shared.Tx, h *hold.Hold) error) error {
	if err := requireToken(token); err != nil {
		return err
	}
	roomID, err := c.locateHold(ctx, holdID)
	if err != nil {
		return err
	}
	return c.uow.Within(ctx, []shared.LockKey{shared.RoomLock(roomID)}, func(ctx context.Context, tx shared.Tx) error {
		detail := errs.Detail{HoldID: holdID.String(), RoomID: roomID}
		h, err := tx.Holds().FindByID(ctx, holdID)
		if err != nil {
			return shared.NotFoundOr(err, detail, "hold %s not found", holdID)
		}
		if !h.IsActive(c.cal.Now()) {
			return errs.Reject(errs.ErrNotFound, detail, "hold %s expired at %s", holdID, h.ExpiresAt().Format(time.RFC3339))
		}
		if !h.OwnedBy(token) {
			return errs.Reject(errs.ErrNotOwner, detail, "hold %s belongs to another session", holdID)
		}
		return fn(ctx, tx, h)
	})
}

func (c *holdCommandsImpl) ReleaseHold(ctx context.Context, holdID uuid.UUID, ownerToken string) error {
	err := c.withOwnedHold(ctx, holdID, ownerToken, func(ctx context.Context, tx shared.Tx, h *hold.Hold) error {
		return tx.Holds().Delete(ctx, h.ID())
	})
	if err != nil {
		return err
	}
	c.logger.Info("hold released", "hold_id", holdID)
	return nil
}

func (c *holdCommandsImpl) ExtendHold(ctx context.Context, holdID uuid.UUID, ownerToken string) (*queries.HoldView, error) {
	var view *queries.HoldView
	err := c.withOwnedHold(ctx, holdID, ownerToken, func(ctx context.Context, tx shared.Tx, h *hold.Hold) error {
		if err := h.Extend(c.cal.Now(), c.ttl); err != nil {
			return errs.Reject(errs.ErrNotFound, errs.Detail{HoldID: holdID.String()}, "%s", err.Error())
		}
		if err := tx.Holds().Save(ctx, h); err != nil {
			return errs.Wrap(err, "save hold")
		}
		view = queries.NewHoldView(h)
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("hold extended", "hold_id", holdID, "expires_at", view.ExpiresAt)
	return view, nil
}

// ReleaseAll drops every hold of a wizard session, active or not. It returns how many were removed.
func (c *holdCommandsImpl) ReleaseAll(ctx context.Context, ownerToken string) (int, error) {
	if err := requireToken(ownerToken); err != nil {
		return 0, err
	}
	var rooms []string
	err := c.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		holds, err := tx.Holds().ListByOwner(ctx, ownerToken)
		if err != nil {
			return errs.Wrap(err, "list session holds")
		}
		for _, h := range holds {
			if !slices.Contains(rooms, h.RoomID()) {
				rooms = append(rooms, h.RoomID())
			}
		}
		return nil
	})
	if err != nil || len(rooms) == 0 {
		return 0, err
	}

	released := 0
	err = c.uow.Within(ctx, shared.RoomLocks(rooms), func(ctx context.Context, tx shared.Tx) error {
		holds, err := tx.Holds().ListByOwner(ctx, ownerToken)
		if err != nil {
			return errs.Wrap(err, "list session holds")
		}
		for _, h := range holds {
			if !slices.Contains(rooms, h.RoomID()) {
				continue
			}
			if err := tx.Holds().Delete(ctx, h.ID()); err != nil {
				return errs.Wrap(err, "release session hold")
			}
			released++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	c.logger.Info("session holds released", "count", released)
	return released, nil
}

func (c *holdCommandsImpl) ListHolds(ctx context.Context, ownerToken string) ([]*queries.HoldView, error) {
	if err := requireToken(ownerToken); err != nil {
		return nil, err
	}
	var views []*queries.HoldView
	err := c.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		holds, err := tx.Holds().ListByOwner(ctx, ownerToken)
		if err != nil {
			return errs.Wrap(err, "list session holds")
		}
		for _, h := range shared.ActiveHolds(holds, c.cal.Now()) {
			views = append(views, queries.NewHoldView(h))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// SweepExpired deletes lapsed holds room by room. Each deletion re-checks expiry under the room lock,
// so a hold extended or consumed in the meantime is left alone.
func (c *holdCommandsImpl) SweepExpired(ctx context.Context) (int, error) {
	byRoom := make(map[string][]uuid.UUID)
	err := c.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		expired, err := tx.Holds().ListExpired(ctx, c.cal.Now())
		if err != nil {
			return errs.Wrap(err, "list expired holds")
		}
		for _, h := range expired {
			byRoom[h.RoomID()] = append(byRoom[h.RoomID()], h.ID())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	var (
		swept    int
		sweepErr error
	)
	for roomID, ids := range byRoom {
		n := 0
		err := c.uow.Within(ctx, []shared.LockKey{shared.RoomLock(roomID)}, func(ctx context.Context, tx shared.Tx) error {
			now := c.cal.Now()
			for _, id := range ids {
				h, err := tx.Holds().FindByID(ctx, id)
				if err != nil {
					if isNotFound(err) {
						continue
					}
					return errs.Wrap(err, "reload hold")
				}
				if h.IsActive(now) {
					continue
				}
				if err := tx.Holds().Delete(ctx, id); err != nil {
					return errs.Wrap(err, "delete expired hold")
				}
				n++
			}
			return nil
		})
		if err != nil {
			sweepErr = errs.Combine(sweepErr, errs.Wrapf(err, "sweep room %s", roomID))
			continue
		}
		swept += n
	}
	if swept > 0 {
		c.logger.Info("expired holds swept", "count", swept)
	}
	return swept, sweepErr
}
