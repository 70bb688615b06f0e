package gateway

import (
	"bytes"
	"context"
	"errors"

	"golang.org/x/oauth2"

	"github.com/clearance-asce/portal/internal/domain"
	apperrors "github.com/clearance-asce/portal/internal/errors"
)

// Login exchanges credentials for a bearer token. The /token endpoint speaks
// the OAuth2 password grant with a form-encoded body, so this is the one
// operation that does not go through the generic JSON path.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Token, error) {
	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// Route the exchange through the gateway's HTTP client.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := conf.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return domain.Token{}, c.loginError(err)
	}

	return domain.Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
	}, nil
}

// loginError maps an oauth2 failure into the taxonomy. A 401 goes through
// the same unauthorized policy as every other call.
func (c *Client) loginError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) || re.Response == nil {
		return apperrors.Transport(err)
	}

	detail := extractDetail(bytes.NewReader(re.Body))
	if re.Response.StatusCode == 401 {
		c.handleUnauthorized()
	}
	return apperrors.FromStatus(re.Response.StatusCode, detail)
}

// CurrentUser fetches the authenticated identity from /users/me.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.Get(ctx, "/users/me", nil, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
