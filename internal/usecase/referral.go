package usecase

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"go-referral-backend/internal/domain"
	"go-referral-backend/internal/repository/airtable"
	"go-referral-backend/pkg/logger"
	"go-referral-backend/pkg/validation"
)

type referralUsecase struct {
	store    domain.ReferralStore
	validate *validator.Validate
	now      func() time.Time
}

// NewReferralUsecase creates the submission coordinator. The store is
// injected so tests can substitute a double.
func NewReferralUsecase(store domain.ReferralStore, validate *validator.Validate) domain.ReferralUsecase {
	return &referralUsecase{
		store:    store,
		validate: validate,
		now:      time.Now,
	}
}

// Submit runs the linear pipeline: validate -> duplicate check -> map (with
// attachment encode) -> create. No step is retried. The duplicate check and
// the create are two independent store calls, so two concurrent submissions
// with the same email can both pass the check; the store offers no uniqueness
// constraint we control, and the gap is accepted rather than hidden behind
// false synchronization.
func (uc *referralUsecase) Submit(ctx context.Context, ref *domain.Referral, att *domain.Attachment) (*domain.SubmitResult, error) {
	trimmed, fieldErrs := validation.ValidateReferral(uc.validate, *ref, att)
	if len(fieldErrs) > 0 {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}

	// Fail-open: a transport error during the check must not block a
	// legitimate new submission, so it is logged and treated as "no
	// duplicate found".
	exists, err := uc.store.FindByEmail(ctx, trimmed.Email)
	if err != nil {
		logger.Log.Warn("duplicate check failed, proceeding with submission", "error", err)
	} else if exists {
		return nil, domain.ErrDuplicate
	}

	fields := airtable.RecordFields(trimmed, att, uc.now())

	recordID, err := uc.store.CreateRecord(ctx, fields)
	if err != nil {
		return nil, err
	}

	return &domain.SubmitResult{RecordID: recordID}, nil
}

// CheckStore probes external-store connectivity.
func (uc *referralUsecase) CheckStore(ctx context.Context) error {
	return uc.store.Ping(ctx)
}
