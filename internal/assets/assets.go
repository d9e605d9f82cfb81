// Package assets resolves stored asset identifiers to public CDN URLs.
package assets

import (
	"strings"

	"github.com/netrika/netrika/internal/models"
)

// Resolver turns photo asset IDs into absolute media URLs. Asset IDs are
// stored in the database; URLs are derived at read time so the media host
// can move without a data migration.
type Resolver struct {
	baseURL string
}

// NewResolver creates a Resolver for the given media base URL. An empty
// base URL yields a resolver that leaves records untouched.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// PhotoURL returns the public URL for a photo asset ID, or "" when either
// the asset or the base URL is unset.
func (r *Resolver) PhotoURL(assetID *string) string {
	if r.baseURL == "" || assetID == nil || *assetID == "" {
		return ""
	}

	return r.baseURL + "/photos/" + *assetID
}

// Decorate fills the derived PhotoURL field on a politician record.
func (r *Resolver) Decorate(p *models.Politician) {
	if p == nil {
		return
	}

	p.PhotoURL = r.PhotoURL(p.PhotoAssetID)
}

// DecorateAll fills the derived PhotoURL field on a slice of records.
func (r *Resolver) DecorateAll(ps []models.Politician) {
	for i := range ps {
		r.Decorate(&ps[i])
	}
}
