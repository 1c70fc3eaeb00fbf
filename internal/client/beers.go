package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"path"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/beer-client/internal/constants"
	"github.com/fivetwenty-io/beer-client/internal/http"
	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

// BeersClient implements beer.BeersClient.
type BeersClient struct {
	httpClient *http.Client
}

// NewBeersClient creates a new beers client.
func NewBeersClient(httpClient *http.Client) *BeersClient {
	return &BeersClient{
		httpClient: httpClient,
	}
}

func beerPath(id uuid.UUID) string {
	return constants.BeersPath + "/" + id.String()
}

// List implements beer.BeersClient.List.
func (c *BeersClient) List(ctx context.Context, filter *beer.Filter) (*beer.Page[beer.Beer], error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: nethttp.MethodGet,
		Path:   beer.BuildURI(constants.BeersPath, filter),
	})
	if err != nil {
		return nil, fmt.Errorf("listing beers: %w", err)
	}

	var page beer.Page[beer.Beer]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, &beer.DecodeError{Target: "beer page", Err: err}
	}

	return &page, nil
}

// ListAll implements beer.BeersClient.ListAll.
func (c *BeersClient) ListAll(ctx context.Context, filter *beer.Filter) ([]beer.Beer, error) {
	return beer.FetchAllPages[beer.Beer](ctx, c, filter, &beer.PaginationOptions{})
}

// Get implements beer.BeersClient.Get.
func (c *BeersClient) Get(ctx context.Context, id uuid.UUID) (*beer.Beer, error) {
	if id == uuid.Nil {
		return nil, beer.ErrBeerIDRequired
	}

	return c.fetch(ctx, beerPath(id), id)
}

// Create implements beer.BeersClient.Create. The API answers with a Location
// header only, so the created beer is read back with a second request. A
// Location that does not end in a beer ID is still followed, but a 404 from
// it is reported as a *beer.RemoteError rather than a NotFoundError.
func (c *BeersClient) Create(ctx context.Context, draft *beer.Beer) (*beer.Beer, error) {
	if draft == nil {
		return nil, beer.ErrBeerRequired
	}

	resp, err := c.httpClient.Post(ctx, constants.BeersPath, draft.CreatePayload())
	if err != nil {
		return nil, fmt.Errorf("creating beer: %w", err)
	}

	location := resp.Headers.Get("Location")
	if location == "" {
		return nil, &beer.ProtocolError{StatusCode: resp.StatusCode, Err: beer.ErrMissingLocation}
	}

	id, err := uuid.Parse(path.Base(location))
	if err != nil {
		id = uuid.Nil
	}

	return c.fetch(ctx, location, id)
}

// Update implements beer.BeersClient.Update.
func (c *BeersClient) Update(ctx context.Context, update *beer.Beer) (*beer.Beer, error) {
	if update == nil {
		return nil, beer.ErrBeerRequired
	}

	if update.ID == uuid.Nil {
		return nil, beer.ErrBeerIDRequired
	}

	_, err := c.httpClient.Do(ctx, &http.Request{
		Method: nethttp.MethodPut,
		Path:   beerPath(update.ID),
		Body:   update,
		BeerID: update.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("updating beer: %w", notFound(err, update.ID))
	}

	return c.Get(ctx, update.ID)
}

// Delete implements beer.BeersClient.Delete.
func (c *BeersClient) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return beer.ErrBeerIDRequired
	}

	_, err := c.httpClient.Do(ctx, &http.Request{
		Method: nethttp.MethodDelete,
		Path:   beerPath(id),
		BeerID: id,
	})
	if err != nil {
		return fmt.Errorf("deleting beer: %w", notFound(err, id))
	}

	return nil
}

func (c *BeersClient) fetch(ctx context.Context, location string, id uuid.UUID) (*beer.Beer, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: nethttp.MethodGet,
		Path:   location,
		BeerID: id,
	})
	if err != nil {
		return nil, fmt.Errorf("getting beer: %w", notFound(err, id))
	}

	var result beer.Beer

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, &beer.DecodeError{Target: "beer", Err: err}
	}

	return &result, nil
}

// notFound converts a 404 into a NotFoundError for id. Without an id the
// remote error is returned unchanged.
func notFound(err error, id uuid.UUID) error {
	if id == uuid.Nil {
		return err
	}

	remoteErr := &beer.RemoteError{}
	if errors.As(err, &remoteErr) && remoteErr.StatusCode == nethttp.StatusNotFound {
		return &beer.NotFoundError{ID: id}
	}

	return err
}
