package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	authdto "github.com/BhavyPan/Advance-Web/internal/auth/dto"
	"github.com/BhavyPan/Advance-Web/pkg/config"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	config   *config.Config
	adapter  CredentialAdapter
	states   *stateSigner
	endpoint oauth2.Endpoint
	log      zerolog.Logger
	// apiOptions are appended to the userinfo client options
	apiOptions []option.ClientOption
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(cfg *config.Config, adapter CredentialAdapter, log zerolog.Logger, apiOptions ...option.ClientOption) AuthUsecase {
	return &authUsecase{
		config:     cfg,
		adapter:    adapter,
		states:     newStateSigner(cfg.JWTSecret, cfg.StateExpiry),
		endpoint:   google.Endpoint,
		log:        log.With().Str("component", "auth").Logger(),
		apiOptions: apiOptions,
	}
}

func (u *authUsecase) oauthConfig(redirectURI string) *oauth2.Config {
	endpoint := u.endpoint
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	return &oauth2.Config{
		ClientID:     u.config.GoogleClientID,
		ClientSecret: u.config.GoogleClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       u.consentScopes(),
		Endpoint:     endpoint,
	}
}

// consentScopes adds full mail access when mail goes through IMAP and SMTP
func (u *authUsecase) consentScopes() []string {
	scopes := append([]string(nil), authdomain.ScopesAll...)
	if u.config.MailStore == config.MailStoreIMAP {
		scopes = append(scopes, authdomain.ScopeFullMail)
	}
	return scopes
}

func (u *authUsecase) AuthURL(redirectURI string) (string, error) {
	state, err := u.states.Issue()
	if err != nil {
		return "", fmt.Errorf("failed to sign oauth state: %w", err)
	}

	url := u.oauthConfig(redirectURI).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
	u.log.Info().Str("redirect_uri", redirectURI).Int("scopes", len(u.consentScopes())).Msg("generated auth url")
	return url, nil
}

func (u *authUsecase) HandleCallback(ctx context.Context, code, state, redirectURI string) (*authdto.CallbackResponse, error) {
	if code == "" {
		return nil, authdomain.NewAuthError("sign in failed: missing authorization code", nil)
	}
	if err := u.states.Verify(state); err != nil {
		return nil, authdomain.NewAuthError("sign in failed: "+err.Error(), err)
	}

	oc := u.oauthConfig(redirectURI)
	token, err := oc.Exchange(ctx, code)
	if err != nil {
		u.log.Error().Err(err).Msg("code exchange failed")
		return nil, authdomain.NewAuthError(fmt.Sprintf("sign in failed: %v", err), err)
	}

	bundle := authdomain.CredentialBundle{
		TokenEndpoint: oc.Endpoint.TokenURL,
		ClientID:      oc.ClientID,
		ClientSecret:  oc.ClientSecret,
		Scopes:        grantedScopes(token),
	}.WithToken(token)

	sess, err := u.adapter.Authenticate(ctx, bundle, authdomain.ScopesAll)
	if err != nil {
		return nil, err
	}

	info, err := u.UserInfo(ctx, sess)
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("email", info.Email).Int("scopes", len(bundle.Scopes)).Msg("token fetched")

	return &authdto.CallbackResponse{
		Success:     true,
		UserInfo:    info,
		Credentials: sess.Bundle(),
	}, nil
}

func (u *authUsecase) UserInfo(ctx context.Context, sess *authdomain.Session) (*authdomain.UserInfo, error) {
	if sess == nil || sess.Client == nil {
		return nil, errors.New("session is not authenticated")
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(sess.Client)}, u.apiOptions...)
	srv, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create oauth2 service: %w", err)
	}

	info, err := srv.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve user info: %w", err)
	}

	verified := false
	if info.VerifiedEmail != nil {
		verified = *info.VerifiedEmail
	}
	return &authdomain.UserInfo{
		ID:            info.Id,
		Email:         info.Email,
		Name:          info.Name,
		Picture:       info.Picture,
		VerifiedEmail: verified,
	}, nil
}

func (u *authUsecase) CurrentUser(ctx context.Context, bundle authdomain.CredentialBundle) (*authdto.UserResponse, error) {
	sess, err := u.adapter.Authenticate(ctx, bundle, authdomain.ScopesAll)
	if err != nil {
		return nil, err
	}
	info, err := u.UserInfo(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &authdto.UserResponse{
		Success:     true,
		User:        info,
		Credentials: sess.Bundle(),
	}, nil
}

// grantedScopes reads the space-separated scope list the token endpoint returned
func grantedScopes(t *oauth2.Token) []string {
	if raw, ok := t.Extra("scope").(string); ok && raw != "" {
		return strings.Fields(raw)
	}
	return append([]string(nil), authdomain.ScopesAll...)
}
