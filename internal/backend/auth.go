package backend

import (
	"context"
	"net/http"
)

type loginRequest struct {
	StudentID string `json:"studentId"`
	Password  string `json:"password"`
}

type registerRequest struct {
	StudentID string `json:"studentId"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
}

// Login exchanges student credentials for a bearer token and identity.
func (c *Client) Login(ctx context.Context, studentID, password string) (*Credentials, error) {
	var creds Credentials
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", loginRequest{
		StudentID: studentID,
		Password:  password,
	}, &creds)
	if err != nil {
		return nil, err
	}
	return &creds, nil
}

// Register creates a new user account. Email is optional.
func (c *Client) Register(ctx context.Context, studentID, password, name, email string) (*User, error) {
	var u User
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", "", registerRequest{
		StudentID: studentID,
		Password:  password,
		Name:      name,
		Email:     email,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
