package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/termcurator/curate/pkg/api/types/security"
)

func (c *client) Authenticate(ctx context.Context, userName string, password string) (security.User, error) {
	return getJson[security.User](
		ctx, c, http.MethodPost,
		[]string{"security", "authenticate", userName}, nil, password,
		messages(fmt.Sprintf("user %s cannot sign in", userName)),
	)
}

func (c *client) GetUser(ctx context.Context, userName string) (security.User, error) {
	return getJson[security.User](
		ctx, c, http.MethodGet,
		[]string{"security", "user", "name", userName}, nil, nil,
		messages(fmt.Sprintf("user %s is not found", userName)),
	)
}

func (c *client) UpdatePreferences(ctx context.Context, prefs security.UserPreferences) (security.UserPreferences, error) {
	return getJson[security.UserPreferences](
		ctx, c, http.MethodPost,
		[]string{"security", "user", "preferences", "update"}, nil, prefs,
		messages("preferences cannot be updated"),
	)
}
