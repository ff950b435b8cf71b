package service

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/initiatives-platform/identity/internal/api/metrics"
	"github.com/initiatives-platform/identity/internal/core/domain"
)

const oauthTokenPath = "/oauth/token"

// TokenConfig carries everything the broker needs to reach the token
// endpoint hosted by this process.
type TokenConfig struct {
	// ServerPort is the local port used when the request URL carries the
	// test-harness sentinel.
	ServerPort   string
	ClientID     string
	ClientSecret string
	// TestURLSentinel is the request-URL prefix integration harnesses use.
	TestURLSentinel string
	Timeout         time.Duration
}

// TokenService obtains OAuth2 access tokens through the password grant.
// The paired endpoint expects the credentials both in the query string and
// in the Basic header; that wire shape is preserved exactly, including the
// legacy `secret` parameter spelling. Stateless; one POST per call, never
// retried.
type TokenService struct {
	client *http.Client
	cfg    TokenConfig
	log    zerolog.Logger
}

func NewTokenService(cfg TokenConfig, log zerolog.Logger) *TokenService {
	if cfg.TestURLSentinel == "" {
		cfg.TestURLSentinel = "http://localhost/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &TokenService{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		log:    log,
	}
}

// Authorize posts the password grant to the token endpoint and returns the
// envelope with its status. Anything other than a 2xx response, transport
// failures included, collapses into a 401 result with no envelope.
func (s *TokenService) Authorize(ctx context.Context, user domain.User, requestURL string) domain.TokenResult {
	s.log.Info().Str("username", user.Username).Msg("getting access token for user")
	start := time.Now()
	result := s.authorize(ctx, user, requestURL)
	metrics.TokenRequestDuration.Observe(time.Since(start).Seconds())
	if result.Authorized() {
		metrics.TokenRequestsTotal.WithLabelValues("issued").Inc()
	} else {
		metrics.TokenRequestsTotal.WithLabelValues("rejected").Inc()
	}
	return result
}

func (s *TokenService) authorize(ctx context.Context, user domain.User, requestURL string) domain.TokenResult {
	target, err := s.tokenURL(user, requestURL)
	if err != nil {
		s.log.Warn().Err(err).Str("request_url", requestURL).Msg("unable to build token url")
		return unauthorized()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("unable to build token request")
		return unauthorized()
	}
	req.Header.Set("Authorization", "Basic "+s.basicClientCredentials())
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Msg("unable to obtain token")
		return unauthorized()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.log.Warn().Err(err).Msg("unable to read token response")
		return unauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Warn().Int("status", resp.StatusCode).Str("body", string(body)).Msg("unable to obtain token")
		return unauthorized()
	}

	return domain.TokenResult{Status: resp.StatusCode, Envelope: body}
}

// tokenURL composes <base>/oauth/token with the grant parameters. Request
// URLs starting with the harness sentinel resolve to localhost on the
// configured server port; otherwise the base is the request URL's scheme,
// host and port.
func (s *TokenService) tokenURL(user domain.User, requestURL string) (string, error) {
	var base string
	if strings.HasPrefix(requestURL, s.cfg.TestURLSentinel) {
		base = "http://localhost:" + s.cfg.ServerPort
	} else {
		u, err := url.Parse(requestURL)
		if err != nil {
			return "", err
		}
		base = u.Scheme + "://" + u.Host
	}

	params := url.Values{}
	params.Set("username", user.Username)
	params.Set("password", user.Password)
	params.Set("grant_type", "password")
	params.Set("scope", "openid")
	params.Set("client_id", s.cfg.ClientID)
	params.Set("secret", s.cfg.ClientSecret)

	return base + oauthTokenPath + "?" + params.Encode(), nil
}

func (s *TokenService) basicClientCredentials() string {
	return base64.StdEncoding.EncodeToString([]byte(s.cfg.ClientID + ":" + s.cfg.ClientSecret))
}

func unauthorized() domain.TokenResult {
	return domain.TokenResult{Status: http.StatusUnauthorized}
}
