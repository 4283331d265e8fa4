/*
Package auth establishes the application session with the backing project.

PURPOSE:
  Models the identity bootstrap as a collaborator the server calls once at
  startup. A configuration failure here is fatal to the whole application,
  not just one operation: the server short-circuits to a dedicated
  configuration-error message instead of starting with a broken session.

  The anonymous authenticator only checks that a project is configured;
  a real identity provider would exchange credentials here.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrConfiguration indicates the identity bootstrap cannot establish a
// session because the project is misconfigured. Fatal to the application.
var ErrConfiguration = errors.New("authentication is not configured")

// Session is an established application session.
type Session struct {
	ProjectID string
}

// Authenticator establishes a session with the backing project.
type Authenticator interface {
	Establish(ctx context.Context) (Session, error)
}

// Anonymous signs in without user credentials, the way a kiosk-style
// deployment does. It fails if no project is configured.
type Anonymous struct {
	ProjectID string
}

var _ Authenticator = (*Anonymous)(nil)

func (a *Anonymous) Establish(_ context.Context) (Session, error) {
	if a.ProjectID == "" {
		return Session{}, fmt.Errorf("%w: missing project id; set auth.project_id in the config file", ErrConfiguration)
	}
	return Session{ProjectID: a.ProjectID}, nil
}
