package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Auth0Config holds configuration for the Auth0 tenant used for sign-in.
type Auth0Config struct {
	Domain       string        `env:"AUTH0_DOMAIN,required"`
	ClientID     string        `env:"AUTH0_CLIENT_ID,required"`
	ClientSecret string        `env:"AUTH0_CLIENT_SECRET,required"`
	RedirectURL  string        `env:"AUTH0_REDIRECT_URL,required"`
	Scopes       []string      `env:"AUTH0_SCOPES" envSeparator:"," envDefault:"openid,profile,email,phone"`
	StateTTL     time.Duration `env:"AUTH0_STATE_TTL" envDefault:"10m"`
	SessionTTL   time.Duration `env:"AUTH0_SESSION_TTL" envDefault:"24h"`
}

// baseURL accepts a bare tenant domain or a full origin (handy for local stubs).
func (c Auth0Config) baseURL() string {
	d := strings.TrimRight(c.Domain, "/")
	if strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://") {
		return d
	}
	return "https://" + d
}

type auth0Provider struct {
	conf        *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewAuth0Provider creates a Provider backed by an Auth0 tenant.
func NewAuth0Provider(cfg Auth0Config) Provider {
	base := cfg.baseURL()
	return &auth0Provider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + "/authorize",
				TokenURL: base + "/oauth/token",
			},
		},
		userInfoURL: base + "/userinfo",
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *auth0Provider) AuthURL(state string, conn Connection) (string, error) {
	var opts []oauth2.AuthCodeOption
	if conn != ConnectionSocial {
		opts = append(opts, oauth2.SetAuthURLParam("connection", string(conn)))
	}
	return a.conf.AuthCodeURL(state, opts...), nil
}

func (a *auth0Provider) ResolveSnapshot(ctx context.Context, code string) (*Snapshot, error) {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return nil, ErrInvalidCode
	}

	u, err := a.fetchUserInfo(ctx, tok.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch auth0 userinfo: %w", err)
	}
	if u.Sub == "" {
		return nil, ErrMissingSubject
	}

	return &Snapshot{
		SubjectID:       u.Sub,
		IsAuthenticated: true,
		GivenName:       u.GivenName,
		FamilyName:      u.FamilyName,
		Email:           u.Email,
		PhoneNumber:     u.PhoneNumber,
	}, nil
}

func (a *auth0Provider) fetchUserInfo(ctx context.Context, accessToken string) (*auth0User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth0 userinfo returned status %d", resp.StatusCode)
	}

	var u auth0User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

type auth0User struct {
	Sub         string `json:"sub"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

var _ Provider = (*auth0Provider)(nil)
