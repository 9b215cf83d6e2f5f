package usecase

import (
	"context"
	"errors"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/jwt"
	ucauth "skill-swap/internal/usecase/auth"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.Account, TokenPair, error)
	Login(ctx context.Context, in ucauth.LoginInput) (user.Account, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

type Auth struct {
	authSvc  *ucauth.Service
	accounts user.AccountRepository
	jwt      jwt.Service
}

func NewAuthUsecase(authSvc *ucauth.Service, accounts user.AccountRepository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: authSvc, accounts: accounts, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.Account, TokenPair, error) {
	acc, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return user.Account{}, TokenPair{}, mapAuthServiceError(err)
	}

	tokens, err := u.issue(acc)
	if err != nil {
		return user.Account{}, TokenPair{}, err
	}
	return acc, tokens, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.Account, TokenPair, error) {
	acc, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return user.Account{}, TokenPair{}, mapAuthServiceError(err)
	}

	tokens, err := u.issue(acc)
	if err != nil {
		return user.Account{}, TokenPair{}, err
	}
	return acc, tokens, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPair{}, ErrRefreshTokenExpired
		}
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	acc, err := u.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, ErrInternal
	}
	return u.issue(acc)
}

func (u *Auth) issue(acc user.Account) (TokenPair, error) {
	access, err := u.jwt.GenerateAccessToken(acc.ID, acc.Email)
	if err != nil {
		return TokenPair{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(acc.ID)
	if err != nil {
		return TokenPair{}, ErrInternal
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func mapAuthServiceError(err error) error {
	switch {
	case errors.Is(err, ucauth.ErrInvalidInput):
		return ErrValidation
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return ErrEmailTaken
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return ErrInvalidCredentials
	default:
		return ErrInternal
	}
}
