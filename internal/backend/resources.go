package backend

import (
	"context"
	"net/http"
	"net/url"
)

// Collection addresses one REST collection, e.g. "warehouses".
type Collection struct {
	client *Client
	name   string
}

// Collection returns a handle for name.
func (c *Client) Collection(name string) Collection {
	return Collection{client: c, name: name}
}

func (col Collection) listPath() string {
	return "/" + col.name + "/"
}

func (col Collection) itemPath(id string) string {
	return "/" + col.name + "/" + url.PathEscape(id) + "/"
}

// List decodes the whole collection into out.
func (col Collection) List(ctx context.Context, out any) error {
	return col.client.Do(ctx, http.MethodGet, col.listPath(), nil, out)
}

// Get decodes one item into out.
func (col Collection) Get(ctx context.Context, id string, out any) error {
	return col.client.Do(ctx, http.MethodGet, col.itemPath(id), nil, out)
}

// Create posts in and decodes the created item into out.
func (col Collection) Create(ctx context.Context, in, out any) error {
	return col.client.Do(ctx, http.MethodPost, col.listPath(), in, out)
}

// Update puts in and decodes the updated item into out.
func (col Collection) Update(ctx context.Context, id string, in, out any) error {
	return col.client.Do(ctx, http.MethodPut, col.itemPath(id), in, out)
}

// Delete removes one item.
func (col Collection) Delete(ctx context.Context, id string) error {
	return col.client.Do(ctx, http.MethodDelete, col.itemPath(id), nil, nil)
}
