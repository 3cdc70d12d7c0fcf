// Package formflow is the quick-start entry point: it wires the form service
// client, the loader and a session together for callers that do not need to
// assemble the pieces themselves.
package formflow

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/account"
	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/session"
)

// Structure aliases model.Structure for callers importing only the root
// package.
type Structure = model.Structure

// User aliases model.User.
type User = model.User

// Session aliases session.Session.
type Session = session.Session

// Open fetches the form assigned to user from src through a sanitising
// loader and returns the loaded session. On failure the session is returned
// in StatusLoadFailed together with the error so callers can Retry.
func Open(ctx context.Context, src loader.Source, user model.User, options ...session.Option) (*session.Session, error) {
	opts := append([]session.Option{session.WithUser(user)}, options...)
	sess := session.New(opts...)
	if err := sess.Load(ctx, loader.New(src), user.RollNumber); err != nil {
		return sess, err
	}
	return sess, nil
}

// Connect logs in against the form service at baseURL, treating an already
// registered user as success, and opens the user's form.
func Connect(ctx context.Context, baseURL, rollNumber, name string, options ...session.Option) (*session.Session, account.Result, error) {
	svc, err := client.New(baseURL)
	if err != nil {
		return nil, account.Result{}, err
	}
	login, err := account.Login(ctx, svc, rollNumber, name)
	if err != nil {
		return nil, account.Result{}, fmt.Errorf("formflow: login: %w", err)
	}
	sess, err := Open(ctx, svc, login.User, options...)
	return sess, login, err
}
