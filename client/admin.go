package client

import (
	"context"
	"net/url"
)

// AdminService handles admin-only operations.
type AdminService struct {
	c *Client
}

// DirectUpdate applies a field patch to a politician, bypassing the edit
// queue. Requires an admin API key. Returns the updated record.
func (s *AdminService) DirectUpdate(ctx context.Context, id string, req *DirectUpdateRequest) (*Politician, error) {
	var p Politician
	if err := s.c.patch(ctx, "/api/v1/admin/politicians/"+url.PathEscape(id), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
