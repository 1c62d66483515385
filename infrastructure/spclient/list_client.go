package spclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/api"

	"propmgmt/domain/contracts"
	"propmgmt/logging"
)

const listPageSize = 500

// ListClient implements contracts.ListStore against SharePoint lists through the REST API.
type ListClient struct {
	client *gosip.SPClient
	logger *logging.Logger
}

// NewListClient creates a list client for the site the auth client is configured for
func NewListClient(authClient *gosip.SPClient) *ListClient {
	return &ListClient{
		client: authClient,
		logger: logging.Default().WithComponent("sharepoint_list_client"),
	}
}

// createRequestConfig asks for minimal-metadata JSON bound to ctx. Writes keep
// gosip's verbose body type so it can stamp the list's entity type.
func createRequestConfig(ctx context.Context) *api.RequestConfig {
	return &api.RequestConfig{
		Context: ctx,
		Headers: map[string]string{
			"Accept":          "application/json;odata=nometadata",
			"X-Gosip-NoRetry": "true",
		},
	}
}

// items returns the item collection of list. SP.Conf mutates its receiver,
// so every call starts from a fresh root.
func (c *ListClient) items(ctx context.Context, list string) *api.Items {
	return api.NewSP(c.client).Conf(createRequestConfig(ctx)).Web().Lists().GetByTitle(list).Items()
}

// item resolves id to a list item reference. SharePoint ids are positive integers,
// so anything else cannot exist.
func (c *ListClient) item(ctx context.Context, list, id string) (*api.Item, error) {
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%s item %q: %w", list, id, contracts.ErrNoItemsFound)
	}
	return c.items(ctx, list).GetByID(n), nil
}

// CreateListItem adds an item to list
func (c *ListClient) CreateListItem(ctx context.Context, list string, fields map[string]any) (*contracts.ListItem, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s item: %w", list, err)
	}
	start := time.Now()
	resp, err := c.items(ctx, list).Add(body)
	if err != nil {
		return nil, fmt.Errorf("create %s item: %w", list, classify(err))
	}
	item, err := decodeItemJSON(resp.Normalized())
	if err != nil {
		return nil, fmt.Errorf("decode %s item: %w", list, err)
	}
	c.logger.SharePoint("List item created", "list", list, "id", item.ID, "duration_ms", time.Since(start).Milliseconds())
	return item, nil
}

// UpdateListItem merges fields into an existing item
func (c *ListClient) UpdateListItem(ctx context.Context, list, id string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s item %s: %w", list, id, err)
	}
	item, err := c.item(ctx, list, id)
	if err != nil {
		return err
	}
	if _, err := item.Update(body); err != nil {
		return fmt.Errorf("update %s item %s: %w", list, id, classify(err))
	}
	return nil
}

// DeleteListItem removes an item
func (c *ListClient) DeleteListItem(ctx context.Context, list, id string) error {
	item, err := c.item(ctx, list, id)
	if err != nil {
		return err
	}
	if err := item.Delete(); err != nil {
		return fmt.Errorf("delete %s item %s: %w", list, id, classify(err))
	}
	return nil
}

// GetListItem loads one item by id
func (c *ListClient) GetListItem(ctx context.Context, list, id string) (*contracts.ListItem, error) {
	item, err := c.item(ctx, list, id)
	if err != nil {
		return nil, err
	}
	resp, err := item.Get()
	if err != nil {
		return nil, fmt.Errorf("get %s item %s: %w", list, id, classify(err))
	}
	decoded, err := decodeItemJSON(resp.Normalized())
	if err != nil {
		return nil, fmt.Errorf("decode %s item %s: %w", list, id, err)
	}
	return decoded, nil
}

// GetListItems pages through every item of list, optionally filtered on one column
func (c *ListClient) GetListItems(ctx context.Context, list string, filter *contracts.Filter) ([]contracts.ListItem, error) {
	query := c.items(ctx, list).Top(listPageSize)
	if filter != nil {
		query = query.Filter(fmt.Sprintf("%s eq %s", filter.Field, odataString(filter.Value)))
	}

	var items []contracts.ListItem
	page, err := query.GetPaged()
	for n := 0; ; n++ {
		if err != nil {
			return nil, fmt.Errorf("get %s items page %d: %w", list, n, classify(err))
		}
		pageItems, decodeErr := decodeItems(page.Items)
		if decodeErr != nil {
			return nil, fmt.Errorf("decode %s items page %d: %w", list, n, decodeErr)
		}
		items = append(items, pageItems...)
		if !page.HasNextPage() {
			break
		}
		page, err = page.GetNextPage()
	}
	c.logger.SharePoint("List items fetched", "list", list, "count", len(items))
	return items, nil
}

// classify maps a SharePoint 404 to ErrNoItemsFound
func classify(err error) error {
	var spErr *gosip.SPError
	if errors.As(err, &spErr) && spErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", err, contracts.ErrNoItemsFound)
	}
	return err
}
