package client

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// assertionLifetime must stay below the 60 second maximum the token endpoint
// accepts.
const assertionLifetime = 45 * time.Second

// KeyReader loads the private key named by Config.PrivateKey.
type KeyReader func(name string) ([]byte, error)

// TokenSource returns a source of access tokens for the configured
// authentication type. Token requests use the *http.Client stored in ctx
// under oauth2.HTTPClient, if any.
func TokenSource(ctx context.Context, conf *Config, readKey KeyReader) (oauth2.TokenSource, error) {
	switch conf.AuthType {
	case AuthDeveloperToken:
		if conf.DeveloperToken == "" {
			return nil, errors.New("developer_token is required for token auth")
		}
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: conf.DeveloperToken,
			TokenType:   "Bearer",
		}), nil
	case AuthCCG:
		if conf.ClientID == "" || conf.ClientSecret == "" {
			return nil, errors.New("client_id and client_secret are required for ccg auth")
		}
		cc := &clientcredentials.Config{
			ClientID:     conf.ClientID,
			ClientSecret: conf.ClientSecret,
			TokenURL:     conf.TokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
			EndpointParams: url.Values{
				"box_subject_type": {conf.SubjectType},
				"box_subject_id":   {conf.SubjectID},
			},
		}
		return cc.TokenSource(ctx), nil
	case AuthJWT:
		if readKey == nil {
			return nil, errors.New("no key reader for jwt auth")
		}
		pem, err := readKey(conf.PrivateKey)
		if err != nil {
			return nil, errors.Wrap(err, "unable to read private key")
		}
		key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
		if err != nil {
			return nil, errors.Wrap(err, "unable to parse private key")
		}
		src := &jwtSource{
			ctx:  ctx,
			conf: conf,
			key:  key,
			now:  time.Now,
		}
		return oauth2.ReuseTokenSource(nil, src), nil
	}
	return nil, errors.Errorf("unknown auth type %q", conf.AuthType)
}

// jwtSource exchanges a signed JWT assertion for an access token.
type jwtSource struct {
	ctx  context.Context
	conf *Config
	key  *rsa.PrivateKey
	now  func() time.Time
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (s *jwtSource) assertion() (string, error) {
	now := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":          s.conf.ClientID,
		"sub":          s.conf.SubjectID,
		"box_sub_type": s.conf.SubjectType,
		"aud":          s.conf.TokenURL,
		"jti":          uuid.NewString(),
		"exp":          now.Add(assertionLifetime).Unix(),
	})
	if s.conf.PublicKeyID != "" {
		t.Header["kid"] = s.conf.PublicKeyID
	}
	return t.SignedString(s.key)
}

// Token implements the oauth2.TokenSource interface.
func (s *jwtSource) Token() (*oauth2.Token, error) {
	assertion, err := s.assertion()
	if err != nil {
		return nil, errors.Wrap(err, "unable to sign assertion")
	}
	form := url.Values{
		"grant_type":    {jwtBearerGrant},
		"assertion":     {assertion},
		"client_id":     {s.conf.ClientID},
		"client_secret": {s.conf.ClientSecret},
	}
	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.conf.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	hc := http.DefaultClient
	if c, ok := s.ctx.Value(oauth2.HTTPClient).(*http.Client); ok && c != nil {
		hc = c
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "token request failed")
	}
	defer resp.Body.Close()
	tr := &tokenResponse{}
	if err := json.NewDecoder(resp.Body).Decode(tr); err != nil {
		return nil, errors.Wrapf(err, "unable to decode token response (%s)", resp.Status)
	}
	if resp.StatusCode != http.StatusOK || tr.AccessToken == "" {
		return nil, errors.Errorf("token request failed: %s: %s %s", resp.Status, tr.Error, tr.ErrorDescription)
	}
	tok := &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
	}
	if tr.ExpiresIn > 0 {
		tok.Expiry = s.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return tok, nil
}
