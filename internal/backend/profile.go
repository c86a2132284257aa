package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// GetProfile fetches the profile of the authenticated user.
func (c *Client) GetProfile(ctx context.Context, token string) (*Profile, error) {
	var p Profile
	if err := c.doJSON(ctx, http.MethodGet, "/profile", token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile saves the editable profile fields (name and email only).
func (c *Client) UpdateProfile(ctx context.Context, token, name, email string) error {
	return c.doJSON(ctx, http.MethodPut, "/profile", token, updateProfileRequest{
		Name:  name,
		Email: email,
	}, nil)
}

// UploadPicture uploads a profile picture as multipart form data and returns
// the URL the backend stored it under.
func (c *Client) UploadPicture(ctx context.Context, token, filename string, content io.Reader) (string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("profilePicture", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/profile/upload", body)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	var resp struct {
		ProfilePicture string `json:"profilePicture"`
	}
	if err := c.send(req, &resp); err != nil {
		return "", err
	}
	return resp.ProfilePicture, nil
}
