package reservation

type Status string

const (
	StatusPendingHold   Status = "pending_hold"
	StatusConfirmed     Status = "confirmed"
	StatusPaymentFailed Status = "payment_failed"
	StatusCancelled     Status = "cancelled"
	StatusCompleted     Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingHold, StatusConfirmed, StatusPaymentFailed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// HoldsCapacity reports whether a reservation in this state counts toward committed.
// PAYMENT_FAILED keeps its hold until an explicit cancel or the reaper.
func (s Status) HoldsCapacity() bool {
	switch s {
	case StatusPendingHold, StatusConfirmed, StatusPaymentFailed:
		return true
	default:
		return false
	}
}

// CountsTowardCommitted adds COMPLETED to the holding states: a fulfilled
// reservation has no capacity effect, so its units stay committed.
func (s Status) CountsTowardCommitted() bool {
	return s.HoldsCapacity() || s == StatusCompleted
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// CancelReason records who ended the hold.
type CancelReason string

const (
	CancelByRequester CancelReason = "requester"
	CancelByOwner     CancelReason = "owner"
	CancelByReaper    CancelReason = "reaper"
)

func (r CancelReason) String() string {
	return string(r)
}
