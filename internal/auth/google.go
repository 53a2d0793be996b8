package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/crucial707/storyshare/internal/models"
)

// GoogleProvider runs the Google OAuth 2.0 authorization-code flow.
type GoogleProvider struct {
	config *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{oauth2api.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthCodeURL is the consent page URL carrying state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Profile exchanges code for a token and reads the signed-in user's Google profile.
// The returned user has no ID yet; the caller persists it.
func (p *GoogleProvider) Profile(ctx context.Context, code string) (models.User, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return models.User{}, fmt.Errorf("exchange code: %w", err)
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(p.config.TokenSource(ctx, token)))
	if err != nil {
		return models.User{}, fmt.Errorf("userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return models.User{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Id == "" {
		return models.User{}, errors.New("userinfo without id")
	}

	return models.User{
		GoogleID:    info.Id,
		DisplayName: info.Name,
		FirstName:   info.GivenName,
		LastName:    info.FamilyName,
		Image:       info.Picture,
	}, nil
}
