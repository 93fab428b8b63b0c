package backend

import (
	"context"
	"net/url"

	"flipops-dashboard/internal/model"

	"github.com/google/uuid"
)

// ListingFilter narrows a listing list query.
type ListingFilter struct {
	Status   model.ListingStatus
	Platform model.DestinationPlatform
	Page     int
	PerPage  int
}

// Values encodes the filter as query parameters.
func (f ListingFilter) Values() url.Values {
	q := pageValues(f.Page, f.PerPage)
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Platform != "" {
		q.Set("platform", string(f.Platform))
	}
	return q
}

// ListListings returns a page of listings matching the filter.
func (c *Client) ListListings(ctx context.Context, f ListingFilter) (*model.ListingList, error) {
	var out model.ListingList
	if err := c.get(ctx, "/listings", f.Values(), &out); err != nil {
		return nil, err
	}
	fillPages(&out.Pages, out.Total, out.PerPage)
	return &out, nil
}

// ActiveListings returns currently published listings, newest first.
func (c *Client) ActiveListings(ctx context.Context, page, perPage int) (*model.ListingList, error) {
	var out model.ListingList
	if err := c.get(ctx, "/listings/active", pageValues(page, perPage), &out); err != nil {
		return nil, err
	}
	fillPages(&out.Pages, out.Total, out.PerPage)
	return &out, nil
}

// GetListing returns a single listing by id.
func (c *Client) GetListing(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	var out model.Listing
	if err := c.get(ctx, "/listings/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishListing asks the backend to publish a draft or paused listing. The
// transition to active happens asynchronously server-side.
func (c *Client) PublishListing(ctx context.Context, id uuid.UUID) (*model.Ack, error) {
	var out model.Ack
	if err := c.post(ctx, "/listings/"+id.String()+"/publish", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndListing takes a listing off the marketplace.
func (c *Client) EndListing(ctx context.Context, id uuid.UUID) (*model.Ack, error) {
	var out model.Ack
	if err := c.post(ctx, "/listings/"+id.String()+"/end", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
