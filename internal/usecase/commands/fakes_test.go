//go:build unit

package commands_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/domain/resource"
	"slot-capacity-engine/internal/infra"
	sqlc "slot-capacity-engine/internal/infra/sqlc/generated"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// =============================================================================
// In-memory unit of work
// =============================================================================

type resourceRow struct {
	id, ownerID    uuid.UUID
	name           string
	capacity       int
	committed      int
	unitPriceCents int64
	version        int64
	createdAt      time.Time
}

// memUoW runs transactions one at a time and rolls the maps back on error.
// TryAdjust honours the version check the same way the SQL statement does.
type memUoW struct {
	txMu   sync.Mutex
	dataMu sync.Mutex

	resources    map[uuid.UUID]resourceRow
	reservations map[uuid.UUID]reservation.ReconstructParams

	// conflicts makes the next N TryAdjust calls lose to a phantom writer.
	conflicts        int
	failCancelStale  map[uuid.UUID]bool
	failUpdateStatus error
	adjustCalls      int
}

func newMemUoW() *memUoW {
	return &memUoW{
		resources:       make(map[uuid.UUID]resourceRow),
		reservations:    make(map[uuid.UUID]reservation.ReconstructParams),
		failCancelStale: make(map[uuid.UUID]bool),
	}
}

func (u *memUoW) seedResource(res *resource.Resource) {
	u.dataMu.Lock()
	defer u.dataMu.Unlock()
	u.resources[res.ID()] = resourceRow{
		id:             res.ID(),
		ownerID:        res.OwnerID(),
		name:           res.Name(),
		capacity:       res.Capacity(),
		committed:      res.Committed(),
		unitPriceCents: res.UnitPriceCents(),
		version:        res.Version(),
		createdAt:      res.CreatedAt(),
	}
}

func (u *memUoW) seedReservation(r *reservation.Reservation) {
	u.dataMu.Lock()
	defer u.dataMu.Unlock()
	u.reservations[r.ID()] = paramsOf(r)
}

func (u *memUoW) resource(id uuid.UUID) resourceRow {
	u.dataMu.Lock()
	defer u.dataMu.Unlock()
	return u.resources[id]
}

func (u *memUoW) reservation(id uuid.UUID) reservation.ReconstructParams {
	u.dataMu.Lock()
	defer u.dataMu.Unlock()
	return u.reservations[id]
}

// heldSum is the right-hand side of the capacity invariant.
func (u *memUoW) heldSum(resourceID uuid.UUID) int {
	u.dataMu.Lock()
	defer u.dataMu.Unlock()
	total := 0
	for _, p := range u.reservations {
		if p.ResourceID == resourceID && p.Status.CountsTowardCommitted() {
			total += p.Quantity
		}
	}
	return total
}

func (u *memUoW) reservationCount() int {
	u.dataMu.Lock()
	defer u.dataMu.Unlock()
	return len(u.reservations)
}

func (u *memUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.txMu.Lock()
	defer u.txMu.Unlock()

	u.dataMu.Lock()
	resSnap := make(map[uuid.UUID]resourceRow, len(u.resources))
	for k, v := range u.resources {
		resSnap[k] = v
	}
	rsvSnap := make(map[uuid.UUID]reservation.ReconstructParams, len(u.reservations))
	for k, v := range u.reservations {
		rsvSnap[k] = v
	}
	u.dataMu.Unlock()

	if err := fn(ctx, &memTx{u: u}); err != nil {
		u.dataMu.Lock()
		u.resources = resSnap
		u.reservations = rsvSnap
		u.dataMu.Unlock()
		return err
	}
	return nil
}

func (u *memUoW) CommandReads() shared.CommandReads {
	return &memReads{u: u}
}

type memTx struct {
	u *memUoW
}

func (t *memTx) Resources() shared.ResourceStore            { return &memResources{u: t.u} }
func (t *memTx) Reservations() shared.ReservationRepository { return &memReservations{u: t.u} }
func (t *memTx) Reads() shared.CommandReads                 { return &memReads{u: t.u} }
func (t *memTx) DB() sqlc.DBTX                              { return nil }

type memReads struct {
	u *memUoW
}

func (r *memReads) ResourceByID(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	r.u.dataMu.Lock()
	defer r.u.dataMu.Unlock()
	row, ok := r.u.resources[id]
	if !ok {
		return nil, infra.WrapRepoErr("resource not found", errs.New("no rows"), infra.KindNotFound)
	}
	return resource.Reconstruct(row.id, row.ownerID, row.name, row.capacity, row.committed,
		row.unitPriceCents, row.version, row.createdAt, row.createdAt), nil
}

func (r *memReads) ReservationByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	r.u.dataMu.Lock()
	defer r.u.dataMu.Unlock()
	p, ok := r.u.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", errs.New("no rows"), infra.KindNotFound)
	}
	return reservation.Reconstruct(p), nil
}

func (r *memReads) StaleHolds(_ context.Context, cutoff time.Time, limit int32) ([]shared.StaleHold, error) {
	r.u.dataMu.Lock()
	defer r.u.dataMu.Unlock()
	var holds []shared.StaleHold
	for _, p := range r.u.reservations {
		if isReapable(p, cutoff) {
			holds = append(holds, shared.StaleHold{ID: p.ID, ResourceID: p.ResourceID, Quantity: p.Quantity, CreatedAt: p.CreatedAt})
		}
	}
	sort.Slice(holds, func(i, j int) bool { return holds[i].CreatedAt.Before(holds[j].CreatedAt) })
	if len(holds) > int(limit) {
		holds = holds[:limit]
	}
	return holds, nil
}

type memResources struct {
	u *memUoW
}

func (s *memResources) Create(_ context.Context, _ sqlc.DBTX, res *resource.Resource) error {
	s.u.dataMu.Lock()
	defer s.u.dataMu.Unlock()
	if _, exists := s.u.resources[res.ID()]; exists {
		return infra.WrapRepoErr("duplicate resource", errs.New("duplicate"), infra.KindDuplicateKey)
	}
	s.u.resources[res.ID()] = resourceRow{
		id: res.ID(), ownerID: res.OwnerID(), name: res.Name(), capacity: res.Capacity(),
		unitPriceCents: res.UnitPriceCents(), createdAt: res.CreatedAt(),
	}
	return nil
}

func (s *memResources) TryAdjust(_ context.Context, _ sqlc.DBTX, id uuid.UUID, delta int, expectedVersion int64) (int64, error) {
	s.u.dataMu.Lock()
	defer s.u.dataMu.Unlock()
	s.u.adjustCalls++

	row, ok := s.u.resources[id]
	if !ok {
		return 0, infra.WrapRepoErr("resource not found", errs.New("no rows"), infra.KindNotFound)
	}
	if s.u.conflicts > 0 {
		s.u.conflicts--
		row.version++
		s.u.resources[id] = row
		return 0, errs.Mark(errs.New("phantom writer"), errs.ErrVersionConflict)
	}
	if row.version != expectedVersion {
		return 0, errs.Mark(errs.Newf("expected %d found %d", expectedVersion, row.version), errs.ErrVersionConflict)
	}
	next := row.committed + delta
	if next < 0 || next > row.capacity {
		return 0, &resource.CapacityError{ResourceID: id, Capacity: row.capacity, Committed: row.committed, Delta: delta}
	}
	row.committed = next
	row.version++
	s.u.resources[id] = row
	return row.version, nil
}

type memReservations struct {
	u *memUoW
}

func (s *memReservations) Create(_ context.Context, _ sqlc.DBTX, r *reservation.Reservation) (uuid.UUID, error) {
	s.u.dataMu.Lock()
	defer s.u.dataMu.Unlock()
	s.u.reservations[r.ID()] = paramsOf(r)
	return r.ID(), nil
}

func (s *memReservations) UpdateStatus(_ context.Context, _ sqlc.DBTX, r *reservation.Reservation, from reservation.Status) error {
	s.u.dataMu.Lock()
	defer s.u.dataMu.Unlock()
	if s.u.failUpdateStatus != nil {
		return s.u.failUpdateStatus
	}
	stored, ok := s.u.reservations[r.ID()]
	if !ok || stored.Status != from {
		return errs.Mark(errs.New("status moved"), errs.ErrVersionConflict)
	}
	s.u.reservations[r.ID()] = paramsOf(r)
	return nil
}

func (s *memReservations) CancelStale(_ context.Context, _ sqlc.DBTX, resourceID uuid.UUID, ids []uuid.UUID, cutoff, now time.Time) ([]shared.ReleasedHold, error) {
	s.u.dataMu.Lock()
	defer s.u.dataMu.Unlock()
	if s.u.failCancelStale[resourceID] {
		return nil, infra.WrapRepoErr("failed to cancel stale holds", errs.New("connection reset"))
	}

	var released []shared.ReleasedHold
	reason := reservation.CancelByReaper
	for _, id := range ids {
		p, ok := s.u.reservations[id]
		if !ok || p.ResourceID != resourceID || !isReapable(p, cutoff) {
			continue
		}
		at := now
		p.Status = reservation.StatusCancelled
		p.CancelReason = &reason
		p.CancelledAt = &at
		p.UpdatedAt = now
		s.u.reservations[id] = p
		released = append(released, shared.ReleasedHold{ID: id, Quantity: p.Quantity})
	}
	return released, nil
}

func isReapable(p reservation.ReconstructParams, cutoff time.Time) bool {
	return (p.Status == reservation.StatusPendingHold || p.Status == reservation.StatusPaymentFailed) &&
		p.CreatedAt.Before(cutoff)
}

func paramsOf(r *reservation.Reservation) reservation.ReconstructParams {
	return reservation.ReconstructParams{
		ID:              r.ID(),
		ResourceID:      r.ResourceID(),
		RequesterID:     r.RequesterID(),
		Quantity:        r.Quantity(),
		AmountCents:     r.Amount().Cents(),
		Status:          r.Status(),
		PaymentRef:      r.PaymentRef(),
		CancelReason:    r.CancelReason(),
		CreatedAt:       r.CreatedAt(),
		ConfirmedAt:     r.ConfirmedAt(),
		PaymentFailedAt: r.PaymentFailedAt(),
		CancelledAt:     r.CancelledAt(),
		CompletedAt:     r.CompletedAt(),
		UpdatedAt:       r.UpdatedAt(),
	}
}

// =============================================================================
// Collaborator fakes
// =============================================================================

type fakePayment struct {
	mu sync.Mutex

	intentErr error
	status    shared.PaymentStatus
	statusErr error
	refundErr error

	intents []int64
	refunds []string
}

func (p *fakePayment) CreatePaymentIntent(_ context.Context, amountCents int64, _ map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.intentErr != nil {
		return "", p.intentErr
	}
	p.intents = append(p.intents, amountCents)
	return "pi_" + uuid.NewString()[:8], nil
}

func (p *fakePayment) GetPaymentStatus(_ context.Context, _ string) (shared.PaymentStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.statusErr != nil {
		return "", p.statusErr
	}
	if p.status == "" {
		return shared.PaymentSucceeded, nil
	}
	return p.status, nil
}

func (p *fakePayment) CreateRefund(_ context.Context, ref string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refundErr != nil {
		return "", p.refundErr
	}
	p.refunds = append(p.refunds, ref)
	return "re_" + ref, nil
}

func (p *fakePayment) refundCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.refunds)
}

type fakeEmitter struct {
	mu     sync.Mutex
	err    error
	events []reservation.Event
}

func (e *fakeEmitter) Emit(_ context.Context, event reservation.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func (e *fakeEmitter) types() []reservation.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]reservation.EventType, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Type()
	}
	return out
}
