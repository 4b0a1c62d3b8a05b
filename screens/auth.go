// Package screens contains the controllers behind the terminal views.
// Screens validate input, call the remote API, and shape results for
// rendering. Terminal I/O itself lives in cmd/chat.
package screens

import (
	"context"

	"group-chat/api"
	"group-chat/auth"
	"group-chat/domain"
	"group-chat/session"
)

// SignIn validates credentials locally, then authenticates against the
// backend. The session is only mutated on success.
func SignIn(ctx context.Context, svc api.IChatService, sess *session.Session, email, password string) error {
	if err := auth.ValidateSignIn(auth.SignInRequest{Email: email, Password: password}); err != nil {
		return err
	}
	result, err := svc.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	sess.LoginWithToken(result.User, result.Token)
	return nil
}

// SignUp registers a new account and signs the user in right away.
// An empty role falls back to the default.
func SignUp(ctx context.Context, svc api.IChatService, sess *session.Session, req auth.SignUpRequest) error {
	if req.Role == "" {
		req.Role = auth.DefaultRole
	}
	if err := auth.ValidateSignUp(req); err != nil {
		return err
	}
	user := domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		Role:         req.Role,
	}
	result, err := svc.SignUp(ctx, user, req.Password)
	if err != nil {
		return err
	}
	sess.LoginWithToken(result.User, result.Token)
	return nil
}
