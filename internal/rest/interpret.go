package rest

import (
	"context"
	"net/url"

	"sheets-cli/internal/ws"
)

// FetchInterpretedBlock interprets a single placeholder directive in the
// context of its worksheet and returns the resulting blocks. Zero blocks is a
// valid answer (the directive matched nothing).
func (c *Client) FetchInterpretedBlock(ctx context.Context, worksheetUUID, directive string) ([]ws.Block, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	q := url.Values{}
	q.Set("directive", directive)
	q.Set("uuid", worksheetUUID)
	var resp struct {
		Blocks []ws.Block `json:"blocks"`
	}
	if err := c.get(ctx, "/interpret/worksheet/"+url.PathEscape(worksheetUUID), q, &resp); err != nil {
		return nil, err
	}
	return resp.Blocks, nil
}

// FetchAsyncTableContents bulk-resolves the per-cell content references of a
// table that arrived briefly loaded. The rows come back fully materialized.
func (c *Client) FetchAsyncTableContents(ctx context.Context, worksheetUUID string, contents []map[string]any) ([]map[string]any, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	body := map[string]any{
		"contents": contents,
		"uuid":     worksheetUUID,
	}
	var resp struct {
		Contents []map[string]any `json:"contents"`
	}
	if err := c.post(ctx, "/interpret/genpath-table-contents", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Contents, nil
}

// BundleRef is a search hit from the bundle search endpoint.
type BundleRef struct {
	UUID     string         `json:"uuid"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SearchBundles runs a keyword search over bundles (`.mine .count` style
// directives resolve through the same endpoint).
func (c *Client) SearchBundles(ctx context.Context, keywords []string) ([]BundleRef, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	var resp struct {
		Response struct {
			Records []BundleRef `json:"records"`
		} `json:"response"`
	}
	body := map[string]any{"keywords": keywords}
	if err := c.post(ctx, "/interpret/search", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Response.Records, nil
}

// CommandResult is the outcome of a server-side CLI command.
type CommandResult struct {
	Output           string `json:"output"`
	StructuredResult struct {
		UIActions [][]string `json:"ui_actions,omitempty"`
	} `json:"structured_result"`
}

// ExecuteCommand runs a CLI-equivalent command server-side, scoped to a
// worksheet when worksheetUUID is non-empty. The permission dialog and the
// run dialog both go through here.
func (c *Client) ExecuteCommand(ctx context.Context, worksheetUUID, command string) (*CommandResult, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	body := map[string]any{"command": command}
	if worksheetUUID != "" {
		body["worksheet_uuid"] = worksheetUUID
	}
	var res CommandResult
	if err := c.post(ctx, "/cli/command", nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
