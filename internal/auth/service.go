package auth

import (
	"context"
	"fmt"
	"time"

	pkgAuth "github.com/merchdrop/storefront-gateway/pkg/auth"
	"github.com/merchdrop/storefront-gateway/pkg/auth/session"
	"github.com/merchdrop/storefront-gateway/pkg/config"
	"github.com/merchdrop/storefront-gateway/pkg/enums"
	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/merchdrop/storefront-gateway/pkg/upstream"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	PartnerLogin(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

// LoginRequest carries the credentials for either login entry point.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the slice of account data the storefront needs after login.
type UserSummary struct {
	ID    string            `json:"id"`
	Email string            `json:"email"`
	Role  enums.AccountRole `json:"role"`
}

// LoginResponse is returned by both login entry points.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserSummary `json:"user"`
}

type identityClient interface {
	Login(ctx context.Context, email, password string) (*upstream.LoginResult, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

type service struct {
	identity identityClient
	session  sessionManager
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Identity       identityClient
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Identity == nil {
		return nil, fmt.Errorf("identity client is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		identity: params.Identity,
		session:  params.SessionManager,
		jwtCfg:   params.JWTConfig,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Login authenticates a fan account. Partner roles are turned away so the
// storefront can send them to the partner sign-in instead.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	result, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if result.Role != enums.AccountRoleFan {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "use the partner sign-in for this account")
	}
	return s.issueTokens(ctx, result)
}

// PartnerLogin authenticates an artist, label, or admin account. Fan accounts
// are turned away symmetrically.
func (s *service) PartnerLogin(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	result, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !result.Role.IsPartner() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "use the fan sign-in for this account")
	}
	return s.issueTokens(ctx, result)
}

func (s *service) authenticate(ctx context.Context, req LoginRequest) (*upstream.LoginResult, error) {
	result, err := s.identity.Login(ctx, req.Email, req.Password)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && (typed.Code() == pkgerrors.CodeUnauthorized || typed.Code() == pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, err
	}
	if !result.Role.IsValid() {
		// The upstream accepted the credentials but the account's role could
		// not be determined; neither entry point can vouch for it.
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account role unknown")
	}
	return result, nil
}

func (s *service) issueTokens(ctx context.Context, result *upstream.LoginResult) (*LoginResponse, error) {
	accessID := session.NewAccessID()
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: result.UserID,
		Email:  result.Email,
		Role:   result.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserSummary{
			ID:    result.UserID,
			Email: result.Email,
			Role:  result.Role,
		},
	}, nil
}
