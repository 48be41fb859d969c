package auth0

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"

	"github.com/bookwise/library-service/pkg/auth"
)

type Config struct {
	Issuer   string `yaml:"issuer" envconfig:"AUTH0_DOMAIN"`
	Audience string `yaml:"audience" envconfig:"AUTH0_AUDIENCE"`
	Enable   bool   `yaml:"enable" envconfig:"AUTH0_ENABLE"`
	// Secret signs HS256 tokens when Auth0 is disabled (local and test setups).
	Secret string `yaml:"secret" json:"-" envconfig:"AUTH_SECRET" default:"bookwise-dev-secret"`
}

var ErrInvalidToken = errors.New("invalid token")

// Validator turns a bearer token into the id of the authenticated user.
type Validator interface {
	UserID(ctx context.Context, token string) (string, error)
}

func NewValidator(cfg Config) (Validator, error) {
	if !cfg.Enable {
		if cfg.Secret == "" {
			return nil, errors.New("auth secret is empty")
		}
		return &hmacValidator{key: []byte(cfg.Secret)}, nil
	}
	issuerURL, err := url.Parse("https://" + cfg.Issuer + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %v", err)
	}
	provider := jwks.NewCachingProvider(issuerURL, time.Minute*5)
	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Audience},
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %v", err)
	}
	return &jwksValidator{v: jwtValidator}, nil
}

type jwksValidator struct {
	v *validator.Validator
}

func (j *jwksValidator) UserID(ctx context.Context, token string) (string, error) {
	raw, err := j.v.ValidateToken(ctx, token)
	if err != nil {
		return "", errors.Wrap(ErrInvalidToken, err.Error())
	}
	claims, ok := raw.(*validator.ValidatedClaims)
	if !ok || claims.RegisteredClaims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.RegisteredClaims.Subject, nil
}

type hmacValidator struct {
	key []byte
}

func (h *hmacValidator) UserID(_ context.Context, token string) (string, error) {
	claims := new(auth.Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return h.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// IssueToken signs an HS256 token for userID. Used by local tooling and tests.
func IssueToken(secret, userID, email string, ttl time.Duration) (string, error) {
	claims := &auth.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
