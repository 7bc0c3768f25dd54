package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
)

var (
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a non-negative number")
	ErrInvalidCost     = shared.NewDomainError("INVALID_COST", "Cost price cannot be negative")
	ErrMissingStore    = shared.NewDomainError("MISSING_STORE", "A destination store is required")
	ErrCountNotFound   = shared.NewDomainError("COUNT_NOT_FOUND", "Stock count not found")

	ErrIllegalTransition    = shared.NewDomainError("ILLEGAL_TRANSITION", "Operation not allowed in the current count status")
	ErrUnknownProduct       = shared.NewDomainError("UNKNOWN_PRODUCT", "Product is not part of this count")
	ErrCannotDeleteApproved = shared.NewDomainError("CANNOT_DELETE_APPROVED", "Approved counts cannot be deleted")
	ErrCountWithoutStore    = shared.NewDomainError("COUNT_WITHOUT_STORE", "Counts without a store cannot be applied to the per-store ledger")
	ErrDraftExists          = shared.NewDomainError("DRAFT_ALREADY_EXISTS", "A draft count already exists for this store in the current week")

	// Wrappers. The cause carries the specific failure.
	ErrEntryRecordingFailed = shared.NewDomainError("ENTRY_RECORDING_FAILED", "Stock entry could not be recorded")
	ErrApprovalFailed       = shared.NewDomainError("APPROVAL_FAILED", "Stock count could not be approved")
)

func illegalTransition(from CountStatus, action string) error {
	return ErrIllegalTransition.WithMessage(fmt.Sprintf("Cannot %s a count in status %s", action, from))
}

// DraftExistsError is returned by count creation when the store already has
// a draft for the current week. It unwraps to ErrDraftExists.
type DraftExistsError struct {
	CountID uuid.UUID
}

func (e *DraftExistsError) Error() string {
	return fmt.Sprintf("%s (count %s)", ErrDraftExists.Message, e.CountID)
}

func (e *DraftExistsError) Unwrap() error {
	return ErrDraftExists
}
