package api

import (
	"errors"
	"net/http"

	"github.com/medsched/appointment-core/internal/scheduling"
)

var errMissingIdentity = errors.New("missing user identity headers")

// currentUser reads the identity the auth layer forwarded on the request.
// The core trusts these values; authenticating them is the auth
// collaborator's job.
func currentUser(r *http.Request) (scheduling.CurrentUser, error) {
	user := scheduling.CurrentUser{
		ID:    r.Header.Get("X-User-Id"),
		Name:  r.Header.Get("X-User-Name"),
		Email: r.Header.Get("X-User-Email"),
		Role:  scheduling.Role(r.Header.Get("X-User-Role")),
	}

	if user.ID == "" || !user.Role.IsValid() {
		return scheduling.CurrentUser{}, errMissingIdentity
	}
	return user, nil
}
