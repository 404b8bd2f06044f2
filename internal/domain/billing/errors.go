package billing

import (
	"fmt"

	xerrors "clinic-billing/internal/pkg/errors"
)

var (
	ErrSubscriberNotFound = fmt.Errorf("%w: subscriber not found", xerrors.ErrNotFound)
	ErrPlanNotFound       = fmt.Errorf("%w: plan not found", xerrors.ErrNotFound)
	ErrInvoiceNotFound    = fmt.Errorf("%w: invoice not found", xerrors.ErrNotFound)

	ErrSubscriberExists      = fmt.Errorf("%w: subscriber id already in use", xerrors.ErrDuplicateEntry)
	ErrInvalidPlanChoice     = fmt.Errorf("%w: invalid plan choice, expected 1 (monthly) or 2 (annual)", xerrors.ErrInvalidInput)
	ErrSubscriptionCancelled = fmt.Errorf("%w: subscription is cancelled", xerrors.ErrInvalidInput)
)
