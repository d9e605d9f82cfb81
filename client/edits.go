package client

import (
	"context"
	"net/url"
	"strconv"
)

// EditService handles edit proposal and moderation operations.
type EditService struct {
	c *Client
}

// Propose submits a new pending edit.
func (s *EditService) Propose(ctx context.Context, req *ProposeRequest) (*PendingEdit, error) {
	var edit PendingEdit
	if err := s.c.post(ctx, "/api/v1/edits", req, &edit); err != nil {
		return nil, err
	}
	return &edit, nil
}

// Get returns a single pending edit by ID.
func (s *EditService) Get(ctx context.Context, id string) (*PendingEdit, error) {
	var edit PendingEdit
	if err := s.c.get(ctx, "/api/v1/edits/"+url.PathEscape(id), nil, &edit); err != nil {
		return nil, err
	}
	return &edit, nil
}

// pendingListResponse wraps the pending queue response.
type pendingListResponse struct {
	Edits []PendingEdit `json:"edits"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
}

// ListPending returns one page of the pending edit queue plus the total
// pending count. Requires an admin API key.
func (s *EditService) ListPending(ctx context.Context, opts *PendingListOptions) ([]PendingEdit, int, error) {
	params := url.Values{}
	if opts != nil {
		if opts.EntityType != "" {
			params.Set("entity_type", opts.EntityType)
		}
		if opts.Page > 0 {
			params.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			params.Set("page_size", strconv.Itoa(opts.PageSize))
		}
	}
	var resp pendingListResponse
	if err := s.c.get(ctx, "/api/v1/edits", params, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Edits, resp.Total, nil
}

// Approve resolves a pending edit in the proposer's favor. Requires an
// admin API key.
func (s *EditService) Approve(ctx context.Context, id string) (*ApproveResult, error) {
	var result ApproveResult
	if err := s.c.post(ctx, "/api/v1/edits/"+url.PathEscape(id)+"/approve", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Deny resolves a pending edit against the proposer. Requires an admin
// API key.
func (s *EditService) Deny(ctx context.Context, id, reason string) error {
	return s.c.post(ctx, "/api/v1/edits/"+url.PathEscape(id)+"/deny", &DenyRequest{Reason: reason}, nil)
}
