package rest

import (
	"context"
	"encoding/json"
	"fmt"
)

// User is the authenticated account, with quota fields the navbar renders.
type User struct {
	ID          string `json:"id"`
	UserName    string `json:"user_name"`
	Email       string `json:"email,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
	AvatarID    string `json:"avatar_id,omitempty"`
	DiskUsed    int64  `json:"disk_used"`
	DiskQuota   int64  `json:"disk_quota"`
	TimeUsed    int64  `json:"time_used"`
	TimeQuota   int64  `json:"time_quota"`
	HasAccess   bool   `json:"has_access"`
}

// FetchUser returns the authenticated user.
func (c *Client) FetchUser(ctx context.Context) (*User, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	var doc document
	if err := c.get(ctx, "/user", nil, &doc); err != nil {
		return nil, err
	}
	data := doc.DataList()
	if len(data) == 0 {
		return nil, &APIError{Kind: KindTransport, Message: "user response carried no data"}
	}
	buf, err := json.Marshal(data[0].Attributes)
	if err != nil {
		return nil, fmt.Errorf("encode user attributes: %w", err)
	}
	var u User
	if err := json.Unmarshal(buf, &u); err != nil {
		return nil, fmt.Errorf("decode user attributes: %w", err)
	}
	if u.ID == "" {
		u.ID = data[0].ID
	}
	return &u, nil
}

// UpdateUser patches mutable account fields (affiliation, email).
func (c *Client) UpdateUser(ctx context.Context, u *User) error {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	req := newDocument(resource{
		Type: "users",
		ID:   u.ID,
		Attributes: map[string]any{
			"affiliation": u.Affiliation,
			"email":       u.Email,
		},
	})
	return c.patch(ctx, "/user", req, nil)
}
