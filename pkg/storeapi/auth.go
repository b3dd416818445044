package storeapi

import (
	"context"
	"net/url"
)

// LoginInput is the payload for POST /token/.
type LoginInput struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// RegisterInput is the payload for POST /register/.
type RegisterInput struct {
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Phone           string `json:"phone,omitempty"`
}

// ChangePasswordInput is the payload for POST /users/change_password/.
type ChangePasswordInput struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// registerResponse is the account plus the token pair issued at signup.
type registerResponse struct {
	Customer
	Token *TokenPair `json:"token,omitempty"`
}

// Login exchanges credentials for a token pair. The client does not persist
// the tokens; that is the session layer's job.
func (c *Client) Login(ctx context.Context, in LoginInput) (*TokenPair, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	var tok TokenPair
	if err := c.post(ctx, "/token/", in, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Register creates a new customer account. When the backend issues tokens at
// signup they are returned alongside the account.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*Customer, *TokenPair, error) {
	if err := c.validateInput(in); err != nil {
		return nil, nil, err
	}
	var resp registerResponse
	if err := c.post(ctx, "/register/", in, &resp); err != nil {
		return nil, nil, err
	}
	return &resp.Customer, resp.Token, nil
}

// AdminSession is the result of an admin login: the identity record to
// persist plus the credential pair for subsequent requests.
type AdminSession struct {
	User   AdminUser `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// AdminLogin authenticates against the back-office endpoint.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*AdminSession, error) {
	body := map[string]string{"email": email, "password": password}
	var sess AdminSession
	if err := c.post(ctx, "/admin/login/", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// CurrentAccount fetches the authenticated customer's account.
func (c *Client) CurrentAccount(ctx context.Context) (*Customer, error) {
	var cust Customer
	if err := c.get(ctx, "/users/me/account/", nil, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// UpdateAccount patches the authenticated customer's account.
func (c *Client) UpdateAccount(ctx context.Context, fields map[string]any) (*Customer, error) {
	var cust Customer
	if err := c.patch(ctx, "/users/me/account/", fields, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// ChangePassword changes the authenticated customer's password.
func (c *Client) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if err := c.validateInput(in); err != nil {
		return err
	}
	return c.post(ctx, "/users/change_password/", in, nil)
}

// CheckUsernameAvailable reports whether the username is free to register.
// This is a read-only availability probe: on any error it degrades to false
// (treat as taken), since failing closed is safer than crashing the caller.
func (c *Client) CheckUsernameAvailable(ctx context.Context, username string) bool {
	q := url.Values{"username": {username}}
	var resp struct {
		Available bool `json:"available"`
	}
	if err := c.get(ctx, "/check-username/", q, &resp); err != nil {
		c.logger.Debug("username availability check failed", "error", err)
		return false
	}
	return resp.Available
}

// CheckEmailAvailable reports whether the email is free to register.
// Degrades to false on error, same as CheckUsernameAvailable.
func (c *Client) CheckEmailAvailable(ctx context.Context, email string) bool {
	q := url.Values{"email": {email}}
	var resp struct {
		Available bool `json:"available"`
	}
	if err := c.get(ctx, "/check-email/", q, &resp); err != nil {
		c.logger.Debug("email availability check failed", "error", err)
		return false
	}
	return resp.Available
}
