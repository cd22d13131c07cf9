package commands

import (
	"slot-capacity-engine/internal/infra"
	"slot-capacity-engine/internal/pkg/errs"
)

// storeErr keeps conflicts and capacity errors intact for the coordinator and
// callers, and folds everything else into the use-case sentinels.
func storeErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errs.Is(err, errs.ErrVersionConflict), errs.Is(err, errs.ErrCapacity), errs.Is(err, errs.ErrDomainValidation):
		return err
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, notFound)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}

func capacityExceeded(err error) error {
	return errs.Mark(err, errs.ErrCapacityExceeded)
}

func notPermitted(format string, args ...any) error {
	return errs.Mark(errs.Newf(format, args...), errs.ErrNotPermitted)
}

func paymentErr(err error, msg string) error {
	return errs.Mark(errs.Wrap(err, msg), errs.ErrPayment)
}

func validationErr(err error) error {
	return errs.Mark(err, errs.ErrDomainValidation)
}
