package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessError_Error(t *testing.T) {
	err := WrapLoanNotFound("LOAN123")

	assert.Equal(t, "LOAN_NOT_FOUND: Loan with ID LOAN123 not found (loan not found)", err.Error())
	assert.Equal(t, "CACHE_ERROR: boom", NewBusinessError(ErrCodeCacheError, "boom", nil).Error())
}

func TestBusinessError_Unwrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
	}{
		{name: "loan not found", err: WrapLoanNotFound("L1"), sentinel: ErrLoanNotFound, code: ErrCodeLoanNotFound},
		{name: "friend loan not found", err: WrapFriendLoanNotFound("F1"), sentinel: ErrFriendLoanNotFound, code: ErrCodeFriendLoanNotFound},
		{name: "payment not found", err: WrapPaymentNotFound("L1", "P1"), sentinel: ErrPaymentNotFound, code: ErrCodePaymentNotFound},
		{name: "card not found", err: WrapCardNotFound("C1"), sentinel: ErrCardNotFound, code: ErrCodeCardNotFound},
		{name: "already paid", err: WrapPaymentAlreadyPaid("P1"), sentinel: ErrPaymentAlreadyPaid, code: ErrCodePaymentAlreadyPaid},
		{name: "wage fee paid", err: WrapWageFeeAlreadyPaid("L1"), sentinel: ErrWageFeeAlreadyPaid, code: ErrCodeWageFeeAlreadyPaid},
		{name: "loan terms", err: WrapInvalidLoanTerms(), sentinel: ErrInvalidLoanTerms, code: ErrCodeInvalidLoanTerms},
		{name: "loan period", err: WrapInvalidLoanPeriod(ErrInvalidLoanPeriod), sentinel: ErrInvalidLoanPeriod, code: ErrCodeInvalidLoanPeriod},
		{name: "validation", err: WrapValidation(errors.New("name is required")), sentinel: ErrValidation, code: ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service: %w", tt.err)

			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.Equal(t, tt.code, CodeOf(wrapped))
		})
	}
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}
