package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrDataAccess             = errors.New("data access failed")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")

	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)

var classified = []error{
	ErrNotFound, ErrValidation, ErrInvalidStateTransition, ErrDataAccess,
	ErrUnauthorized, ErrForbidden, ErrConflict,
	ErrInvalidCredentials, ErrEmailTaken, ErrInvalidRefreshToken, ErrRefreshTokenExpired, ErrInternal,
}

func isClassified(err error) bool {
	for _, target := range classified {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// dataAccess marks err as a persistence failure while keeping the cause in
// the chain. Errors that already carry a usecase sentinel pass through.
func dataAccess(op string, err error) error {
	if err == nil {
		return nil
	}
	if isClassified(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDataAccess, err)
}

func invalid(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
}
