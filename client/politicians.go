package client

import (
	"context"
	"net/url"
	"strconv"
)

// PoliticianService handles politician read operations.
type PoliticianService struct {
	c *Client
}

// politicianListResponse wraps the paginated politician list response.
type politicianListResponse struct {
	Politicians []Politician `json:"politicians"`
	HasMore     bool         `json:"has_more"`
}

// List returns politicians with optional filtering and pagination.
func (s *PoliticianService) List(ctx context.Context, opts *PoliticianListOptions) ([]Politician, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Party != "" {
			params.Set("party", opts.Party)
		}
		if opts.Query != "" {
			params.Set("q", opts.Query)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp politicianListResponse
	if err := s.c.get(ctx, "/api/v1/politicians", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Politicians, resp.HasMore, nil
}

// Get returns a single politician by ID.
func (s *PoliticianService) Get(ctx context.Context, id string) (*Politician, error) {
	var p Politician
	if err := s.c.get(ctx, "/api/v1/politicians/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// revisionListResponse wraps the paginated revision list response.
type revisionListResponse struct {
	Revisions []Revision `json:"revisions"`
	HasMore   bool       `json:"has_more"`
}

// Revisions returns the revision log for a politician, newest first.
func (s *PoliticianService) Revisions(ctx context.Context, id string, limit, offset int) ([]Revision, bool, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	var resp revisionListResponse
	if err := s.c.get(ctx, "/api/v1/politicians/"+url.PathEscape(id)+"/revisions", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Revisions, resp.HasMore, nil
}

// editListResponse wraps the paginated edit list response.
type editListResponse struct {
	Edits   []PendingEdit `json:"edits"`
	HasMore bool          `json:"has_more"`
}

// EditHistory returns the proposal history for a politician, newest first.
func (s *PoliticianService) EditHistory(ctx context.Context, id string, limit, offset int) ([]PendingEdit, bool, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	var resp editListResponse
	if err := s.c.get(ctx, "/api/v1/politicians/"+url.PathEscape(id)+"/edits", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Edits, resp.HasMore, nil
}
