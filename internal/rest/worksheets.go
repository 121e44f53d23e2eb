package rest

import (
	"context"
	"net/url"
	"strings"

	"sheets-cli/internal/ws"
)

// FetchWorksheet hydrates a worksheet through the interpreter so the block
// sequence comes back ready to render. bundleUUIDs, when non-empty, asks the
// server to refresh only those bundles' rows.
func (c *Client) FetchWorksheet(ctx context.Context, uuid string, bundleUUIDs []string) (*ws.Worksheet, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	q := url.Values{}
	if len(bundleUUIDs) > 0 {
		q.Set("bundle_uuids", strings.Join(bundleUUIDs, ","))
	}
	var info ws.Worksheet
	if err := c.get(ctx, "/interpret/worksheet/"+url.PathEscape(uuid), q, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// AddItemsRequest mutates worksheet source lines. Items replace the lines
// identified by IDs when IDs is set; an empty Items with IDs is the delete
// primitive. AfterSortKey absent means append at tail; any numeric value,
// including 0, is passed through.
type AddItemsRequest struct {
	Items        []string `json:"items"`
	IDs          []int    `json:"ids,omitempty"`
	AfterSortKey *float64 `json:"after_sort_key,omitempty"`
}

// AddItems appends, replaces, or deletes worksheet source lines.
func (c *Client) AddItems(ctx context.Context, worksheetUUID string, req AddItemsRequest) error {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	if req.Items == nil {
		req.Items = []string{}
	}
	return c.post(ctx, "/worksheets/"+url.PathEscape(worksheetUUID)+"/add-items", nil, req, nil)
}

// WorksheetRef is a search hit from the worksheet search endpoint.
type WorksheetRef struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	OwnerName string `json:"owner_name,omitempty"`
}

// SearchWorksheets runs a keyword search over worksheets (navbar search).
func (c *Client) SearchWorksheets(ctx context.Context, keywords []string) ([]WorksheetRef, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	var resp struct {
		Response []WorksheetRef `json:"response"`
	}
	body := map[string]any{"keywords": keywords}
	if err := c.post(ctx, "/interpret/wsearch", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Response, nil
}

// NewWorksheet creates an empty worksheet and returns its uuid.
func (c *Client) NewWorksheet(ctx context.Context, name string) (string, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	req := newDocument(resource{
		Type:       "worksheets",
		Attributes: map[string]any{"name": name},
	})
	var resp document
	if err := c.post(ctx, "/worksheets", nil, req, &resp); err != nil {
		return "", err
	}
	if len(resp.DataList()) == 0 {
		return "", &APIError{Kind: KindTransport, Message: "new worksheet response carried no data"}
	}
	return resp.DataList()[0].ID, nil
}
