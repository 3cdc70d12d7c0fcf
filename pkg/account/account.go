package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/model"
)

// ErrCredentialsRequired is returned when either the roll number or the name
// is blank after trimming.
var ErrCredentialsRequired = errors.New("account: roll number and name are required")

// Registrar creates users on the form service.
type Registrar interface {
	CreateUser(ctx context.Context, user model.User) (string, error)
}

// RegistrarFunc adapts a function into a Registrar.
type RegistrarFunc func(ctx context.Context, user model.User) (string, error)

// CreateUser calls the underlying function.
func (fn RegistrarFunc) CreateUser(ctx context.Context, user model.User) (string, error) {
	return fn(ctx, user)
}

// Rule decides whether a registration failure still lets the user in.
type Rule func(err error) bool

// AlreadyExistsRule treats "user already exists" failures as a successful
// login. It matches an HTTP 409 from the service, or any error whose message
// mentions "already exists" regardless of case.
func AlreadyExistsRule(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// Result describes a successful login.
type Result struct {
	User model.User
	// Created is false when the user was already registered.
	Created bool
	// Message is the service acknowledgement, or the soft failure message
	// when Created is false.
	Message string
}

// Login registers the user identified by rollNumber and name. Failures
// matched by AlreadyExistsRule count as success with Created set to false.
func Login(ctx context.Context, registrar Registrar, rollNumber, name string) (Result, error) {
	return LoginWithRule(ctx, registrar, rollNumber, name, AlreadyExistsRule)
}

// LoginWithRule is Login with a caller-supplied soft-success rule.
func LoginWithRule(ctx context.Context, registrar Registrar, rollNumber, name string, soft Rule) (Result, error) {
	if registrar == nil {
		return Result{}, errors.New("account: registrar is nil")
	}
	user := model.User{
		RollNumber: strings.TrimSpace(rollNumber),
		Name:       strings.TrimSpace(name),
	}
	if user.RollNumber == "" || user.Name == "" {
		return Result{}, ErrCredentialsRequired
	}

	msg, err := registrar.CreateUser(ctx, user)
	if err == nil {
		return Result{User: user, Created: true, Message: msg}, nil
	}
	if soft != nil && soft(err) {
		return Result{User: user, Created: false, Message: err.Error()}, nil
	}
	return Result{}, fmt.Errorf("account: register %s: %w", user.RollNumber, err)
}
