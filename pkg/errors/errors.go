package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound        = errors.New("loan not found")
	ErrFriendLoanNotFound  = errors.New("friend loan not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrCardNotFound        = errors.New("card not found")
	ErrPaymentAlreadyPaid  = errors.New("payment is already paid")
	ErrWageFeeAlreadyPaid  = errors.New("wage fee is already paid")
	ErrInvalidLoanTerms    = errors.New("interest rate and total payback are mutually exclusive")
	ErrInvalidLoanPeriod   = errors.New("end date must be after start date")
	ErrInvalidPaymentCount = errors.New("number of payments must be at least 1")
	ErrInvalidPaymentDay   = errors.New("payment day must be between 1 and 31")
	ErrValidation          = errors.New("validation failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound       = "LOAN_NOT_FOUND"
	ErrCodeFriendLoanNotFound = "FRIEND_LOAN_NOT_FOUND"
	ErrCodePaymentNotFound    = "PAYMENT_NOT_FOUND"
	ErrCodeCardNotFound       = "CARD_NOT_FOUND"
	ErrCodePaymentAlreadyPaid = "PAYMENT_ALREADY_PAID"
	ErrCodeWageFeeAlreadyPaid = "WAGE_FEE_ALREADY_PAID"
	ErrCodeInvalidLoanTerms   = "INVALID_LOAN_TERMS"
	ErrCodeInvalidLoanPeriod  = "INVALID_LOAN_PERIOD"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeCacheError         = "CACHE_ERROR"
)

// CodeOf returns the business code carried by err, or an empty string
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapFriendLoanNotFound(friendLoanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeFriendLoanNotFound,
		fmt.Sprintf("Friend loan with ID %s not found", friendLoanID),
		ErrFriendLoanNotFound,
	)
}

func WrapPaymentNotFound(loanID, paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment %s not found on loan %s", paymentID, loanID),
		ErrPaymentNotFound,
	)
}

func WrapCardNotFound(cardID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCardNotFound,
		fmt.Sprintf("Card with ID %s not found", cardID),
		ErrCardNotFound,
	)
}

func WrapPaymentAlreadyPaid(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentAlreadyPaid,
		fmt.Sprintf("Payment %s is already paid", paymentID),
		ErrPaymentAlreadyPaid,
	)
}

func WrapWageFeeAlreadyPaid(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeWageFeeAlreadyPaid,
		fmt.Sprintf("Wage fee for loan %s is already paid", loanID),
		ErrWageFeeAlreadyPaid,
	)
}

func WrapInvalidLoanTerms() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanTerms,
		"provide either interest_rate or total_payback, not both",
		ErrInvalidLoanTerms,
	)
}

// WrapInvalidLoanPeriod wraps calculator period errors (bad dates, counts or payment days)
func WrapInvalidLoanPeriod(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanPeriod,
		"invalid repayment period",
		err,
	)
}

func WrapValidation(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		"request validation failed",
		fmt.Errorf("%w: %v", ErrValidation, err),
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
