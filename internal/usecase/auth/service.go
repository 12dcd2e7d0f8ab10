package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"ats-gateway/internal/domain/operator"
	"ats-gateway/internal/pkg/jwt"
	"ats-gateway/internal/pkg/logger"
	"ats-gateway/internal/pkg/password"
	"ats-gateway/internal/session"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrInternal            = errors.New("internal error")
)

// Revocations stores revoked token ids. Revoke must be an atomic claim: it
// reports false when the id had already been revoked.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error)
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type LoginInput struct {
	Email    string
	Password string
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type Service struct {
	operators operator.Repository
	jwt       jwt.Service
	revoked   Revocations
	lggr      logger.Logger
}

func NewService(operators operator.Repository, jwtSvc jwt.Service, revoked Revocations, lggr logger.Logger) *Service {
	if lggr == nil {
		lggr = logger.Nop()
	}
	return &Service{operators: operators, jwt: jwtSvc, revoked: revoked, lggr: lggr.Named("auth")}
}

func (s *Service) Login(ctx context.Context, in LoginInput) (operator.Operator, Tokens, error) {
	email := operator.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return operator.Operator{}, Tokens{}, ErrInvalidCredentials
	}

	op, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, operator.ErrNotFound) {
			return operator.Operator{}, Tokens{}, ErrInvalidCredentials
		}
		s.lggr.Errorw("load operator failed", "email", email, "err", err)
		return operator.Operator{}, Tokens{}, ErrInternal
	}

	if err := password.Compare(op.PasswordHash, in.Password); err != nil {
		return operator.Operator{}, Tokens{}, ErrInvalidCredentials
	}

	tokens, err := s.issue(op)
	if err != nil {
		return operator.Operator{}, Tokens{}, err
	}
	s.lggr.Infow("operator signed in", "operator_id", op.ID)
	return sanitize(op), tokens, nil
}

// Refresh rotates the pair: the presented refresh token is revoked and can
// not be used again. Of concurrent refreshes with one token only the one that
// claims the revocation gets a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	claims, err := s.refreshClaims(ctx, refreshToken)
	if err != nil {
		return Tokens{}, err
	}

	op, err := s.operators.GetByID(ctx, claims.OperatorID)
	if err != nil {
		if errors.Is(err, operator.ErrNotFound) {
			return Tokens{}, ErrInvalidRefreshToken
		}
		return Tokens{}, ErrInternal
	}

	claimed, err := s.revoke(ctx, claims.TokenID(), claims.Expiry())
	if err != nil {
		return Tokens{}, ErrInternal
	}
	if !claimed {
		return Tokens{}, ErrTokenRevoked
	}
	return s.issue(op)
}

// Logout revokes the refresh token and the access token of the current session.
func (s *Service) Logout(ctx context.Context, sess session.Session, refreshToken string) error {
	claims, err := s.refreshClaims(ctx, refreshToken)
	if err != nil {
		return err
	}
	if claims.OperatorID != sess.OperatorID {
		return ErrInvalidRefreshToken
	}

	if _, err := s.revoke(ctx, claims.TokenID(), claims.Expiry()); err != nil {
		return ErrInternal
	}
	if _, err := s.revoke(ctx, sess.TokenID, sess.ExpiresAt); err != nil {
		return ErrInternal
	}
	s.lggr.Infow("operator signed out", "operator_id", sess.OperatorID)
	return nil
}

// Authenticate turns a bearer access token into a session.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (session.Session, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return session.Session{}, ErrUnauthorized
	}
	claims, err := s.jwt.ValidateToken(accessToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return session.Session{}, ErrTokenExpired
		}
		return session.Session{}, ErrUnauthorized
	}
	if s.jwt.IsRefreshToken(claims) {
		return session.Session{}, ErrUnauthorized
	}
	if s.isRevoked(ctx, claims.TokenID()) {
		return session.Session{}, ErrTokenRevoked
	}

	return session.Session{
		OperatorID: claims.OperatorID,
		Email:      claims.Email,
		Role:       claims.Role,
		TokenID:    claims.TokenID(),
		ExpiresAt:  claims.Expiry(),
	}, nil
}

func (s *Service) Me(ctx context.Context, id uuid.UUID) (operator.Operator, error) {
	op, err := s.operators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, operator.ErrNotFound) {
			return operator.Operator{}, ErrUnauthorized
		}
		return operator.Operator{}, ErrInternal
	}
	return sanitize(op), nil
}

func (s *Service) refreshClaims(ctx context.Context, refreshToken string) (jwt.Claims, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return jwt.Claims{}, ErrInvalidRefreshToken
	}
	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt.Claims{}, ErrRefreshTokenExpired
		}
		return jwt.Claims{}, ErrInvalidRefreshToken
	}
	if !s.jwt.IsRefreshToken(claims) {
		return jwt.Claims{}, ErrInvalidRefreshToken
	}
	if s.isRevoked(ctx, claims.TokenID()) {
		return jwt.Claims{}, ErrTokenRevoked
	}
	return claims, nil
}

func (s *Service) issue(op operator.Operator) (Tokens, error) {
	sub := jwt.Subject{OperatorID: op.ID, Email: op.Email, Role: op.Role}
	access, err := s.jwt.GenerateAccessToken(sub)
	if err != nil {
		return Tokens{}, ErrInternal
	}
	refresh, err := s.jwt.GenerateRefreshToken(sub)
	if err != nil {
		return Tokens{}, ErrInternal
	}
	return Tokens{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}, nil
}

func (s *Service) revoke(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	if s.revoked == nil {
		return true, nil
	}
	claimed, err := s.revoked.Revoke(ctx, tokenID, expiresAt)
	if err != nil {
		s.lggr.Errorw("revoke token failed", "err", err)
		return false, err
	}
	return claimed, nil
}

// isRevoked fails open: a store error is logged and the token is accepted.
func (s *Service) isRevoked(ctx context.Context, tokenID string) bool {
	if s.revoked == nil {
		return false
	}
	ok, err := s.revoked.IsRevoked(ctx, tokenID)
	if err != nil {
		s.lggr.Warnw("revocation lookup failed", "err", err)
		return false
	}
	return ok
}

func sanitize(op operator.Operator) operator.Operator {
	op.PasswordHash = ""
	return op
}
