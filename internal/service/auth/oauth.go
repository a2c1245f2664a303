package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/medadmin/hospital-api/internal/model"
	apperrors "github.com/medadmin/hospital-api/pkg/errors"
)

// OAuthProvider wraps the external identity provider. Identity verification
// is delegated entirely to the provider; the userinfo payload is trusted
// as-is.
type OAuthProvider struct {
	config      *oauth2.Config
	userInfoURL string
	timeout     time.Duration
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string
	Timeout      time.Duration
}

// UserInfo is the provider's callback profile payload.
type UserInfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func NewOAuthProvider(cfg OAuthConfig) *OAuthProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &OAuthProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		timeout:     timeout,
	}
}

// AuthCodeURL returns the provider redirect URL for the given state.
func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades the callback code for the provider's profile payload.
// Provider calls run under a bounded timeout surfaced as a gateway timeout.
func (p *OAuthProvider) Exchange(ctx context.Context, code string) (*UserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.GatewayTimeout("identity provider timed out", err)
		}
		return nil, apperrors.Unauthorized(fmt.Errorf("code exchange failed: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}

	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.GatewayTimeout("identity provider timed out", err)
		}
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Unauthorized(fmt.Errorf("userinfo returned status %d", resp.StatusCode))
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, apperrors.Unauthorized(fmt.Errorf("userinfo payload missing email"))
	}

	return &info, nil
}

// LoginWithOAuth completes the callback: upserts a patient-role account
// keyed by provider email and issues a session token. The registration
// event fires only on first sight of the identity.
func (s *Service) LoginWithOAuth(ctx context.Context, code string) (*model.TokenResponse, error) {
	if s.oauth == nil {
		return nil, apperrors.BadRequest("oauth is not configured", nil)
	}

	info, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		user = &model.User{
			Email:        info.Email,
			Role:         model.RolePatient,
			OAuthSubject: info.Subject,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		if err := s.emitUserEvent(ctx, model.EventUserRegistered, user); err != nil {
			return nil, fmt.Errorf("failed to enqueue registration event: %w", err)
		}
	}

	token, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtSvc.Expiry().Seconds()),
	}, nil
}

// OAuthRedirectURL exposes the provider redirect for the handler.
func (s *Service) OAuthRedirectURL(state string) (string, error) {
	if s.oauth == nil {
		return "", apperrors.BadRequest("oauth is not configured", nil)
	}
	return s.oauth.AuthCodeURL(state), nil
}
