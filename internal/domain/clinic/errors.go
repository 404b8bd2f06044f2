package clinic

import (
	"fmt"

	xerrors "clinic-billing/internal/pkg/errors"
)

// Rule violations of the clinic workflow. Each wraps one of the xerrors kinds.
var (
	// Unknown people referenced by an appointment are also bad arguments.
	ErrPatientNotFound      = fmt.Errorf("%w: %w: patient not found", xerrors.ErrInvalidInput, xerrors.ErrNotFound)
	ErrDoctorNotFound       = fmt.Errorf("%w: %w: doctor not found", xerrors.ErrInvalidInput, xerrors.ErrNotFound)
	ErrAppointmentNotFound  = fmt.Errorf("%w: appointment not found", xerrors.ErrNotFound)
	ErrConsultationNotFound = fmt.Errorf("%w: consultation not found", xerrors.ErrNotFound)
	ErrInvoiceNotFound      = fmt.Errorf("%w: invoice not found", xerrors.ErrNotFound)

	ErrSlotTaken               = fmt.Errorf("%w: doctor already has appointment at that slot", xerrors.ErrConflict)
	ErrConsultationExists      = fmt.Errorf("%w: consultation already recorded for appointment", xerrors.ErrDuplicateEntry)
	ErrInvoiceExists           = fmt.Errorf("%w: invoice already exists for consultation", xerrors.ErrDuplicateEntry)
	ErrAppointmentNotCompleted = fmt.Errorf("%w: appointment not completed", xerrors.ErrInvalidInput)
	ErrInvalidTransition       = fmt.Errorf("%w: invalid appointment transition", xerrors.ErrInvalidInput)
	ErrInvoiceClosed           = fmt.Errorf("%w: invoice already closed", xerrors.ErrInvalidInput)
	ErrInsufficientPayment     = fmt.Errorf("%w: insufficient amount, partial payments unsupported", xerrors.ErrInvalidInput)
	ErrUnknownPaymentMethod    = fmt.Errorf("%w: unknown payment method", xerrors.ErrInvalidInput)
	ErrInvalidItem             = fmt.Errorf("%w: invalid prescription item", xerrors.ErrInvalidInput)
)
