package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"sheets-cli/internal/ws"
)

// FetchBundleMetadata hydrates one bundle, folding the JSON:API envelope's
// included owner and group permissions into the flat Bundle the formatter
// expects.
func (c *Client) FetchBundleMetadata(ctx context.Context, uuid string) (*ws.Bundle, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	q := url.Values{"include": []string{"owner,group_permissions,host_worksheets"}}
	var doc document
	if err := c.get(ctx, "/bundles/"+url.PathEscape(uuid), q, &doc); err != nil {
		return nil, err
	}
	data := doc.DataList()
	if len(data) == 0 {
		return nil, &APIError{Kind: KindTransport, Message: "bundle response carried no data"}
	}
	return hydrateBundle(&doc, data[0])
}

func hydrateBundle(doc *document, res resource) (*ws.Bundle, error) {
	// Round-trip attributes through JSON into the typed struct; the attribute
	// names match the wire tags.
	buf, err := json.Marshal(res.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encode bundle attributes: %w", err)
	}
	var b ws.Bundle
	if err := json.Unmarshal(buf, &b); err != nil {
		return nil, fmt.Errorf("decode bundle attributes: %w", err)
	}
	if b.UUID == "" {
		b.UUID = res.ID
	}
	if b.ID == "" {
		b.ID = res.ID
	}

	if rel, ok := res.Relationships["owner"]; ok {
		if id, ok := rel.One(); ok {
			if inc := doc.findIncluded(id.Type, id.ID); inc != nil {
				b.Owner.ID = inc.ID
				if n, ok := inc.Attributes["user_name"].(string); ok {
					b.Owner.UserName = n
				}
			}
		}
	}
	if rel, ok := res.Relationships["group_permissions"]; ok && len(b.GroupPermissions) == 0 {
		for _, id := range rel.Many() {
			inc := doc.findIncluded(id.Type, id.ID)
			if inc == nil {
				continue
			}
			var gp ws.GroupPermission
			if n, ok := inc.Attributes["group_name"].(string); ok {
				gp.GroupName = n
			}
			if p, ok := inc.Attributes["permission"].(float64); ok {
				gp.Permission = int(p)
			}
			if s, ok := inc.Attributes["permission_spec"].(string); ok {
				gp.PermissionSpec = s
			}
			b.GroupPermissions = append(b.GroupPermissions, gp)
		}
	}
	return &b, nil
}

// FetchBundleContents returns the depth-1 listing for a path inside a
// bundle. A 404 means the path (or the bundle's contents) does not exist yet
// and is reported as a nil info with no error, so callers keep rendering.
func (c *Client) FetchBundleContents(ctx context.Context, uuid, path string) (*ws.ContentsInfo, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	p := "/bundles/" + url.PathEscape(uuid) + "/contents/info/"
	if path != "" {
		p += ws.EncodeContentsPath(path)
	}
	var resp struct {
		Data ws.ContentsInfo `json:"data"`
	}
	err := c.get(ctx, p, url.Values{"depth": []string{"1"}}, &resp)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// FetchFileSummary fetches a truncated head+tail preview of a file inside a
// bundle. 404 maps to an empty summary, mirroring FetchBundleContents.
func (c *Client) FetchFileSummary(ctx context.Context, uuid, path string) (string, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	q := url.Values{}
	q.Set("head", "50")
	q.Set("tail", "50")
	q.Set("truncation_text", "\n... [truncated] ...\n\n")
	rawurl := c.restURL("/bundles/"+url.PathEscape(uuid)+"/contents/blob/"+ws.EncodeContentsPath(path), q)
	req, err := c.newRequest(ctx, "GET", rawurl, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &APIError{Kind: KindTransport, Message: err.Error(), URL: rawurl}
	}
	defer resp.Body.Close()
	if resp.StatusCode == 404 {
		return "", nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errorFromResponse(resp, rawurl)
	}
	buf, err := readAllLimited(resp.Body, 1<<20)
	if err != nil {
		return "", &APIError{Kind: KindTransport, Message: err.Error(), URL: rawurl}
	}
	return string(buf), nil
}

// BlobURL is the browser-facing URL for a file inside a bundle; the file
// browser hands it out for opening files externally.
func (c *Client) BlobURL(uuid, path string) string {
	return c.restURL("/bundles/"+url.PathEscape(uuid)+"/contents/blob/"+ws.EncodeContentsPath(path), nil)
}

// FetchBundleStores lists the storage locations backing a bundle.
func (c *Client) FetchBundleStores(ctx context.Context, uuid string) ([]ws.BundleStore, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	var doc document
	if err := c.get(ctx, "/bundles/"+url.PathEscape(uuid)+"/locations", nil, &doc); err != nil {
		return nil, err
	}
	var stores []ws.BundleStore
	for _, res := range doc.DataList() {
		buf, err := json.Marshal(res.Attributes)
		if err != nil {
			continue
		}
		var s ws.BundleStore
		if err := json.Unmarshal(buf, &s); err != nil {
			continue
		}
		if s.UUID == "" {
			s.UUID = res.ID
		}
		stores = append(stores, s)
	}
	return stores, nil
}

// CreateBundleOptions shape bundle creation. AfterSortKey places the new
// source line; Detached creates the bundle without adding it to the
// worksheet.
type CreateBundleOptions struct {
	Detached     bool
	AfterSortKey *float64
}

// CreateBundle creates a bundle attached to worksheetUUID and returns its
// hydrated metadata (most importantly the fresh uuid for the blob upload).
func (c *Client) CreateBundle(ctx context.Context, worksheetUUID string, bundleType string, metadata map[string]any, opts CreateBundleOptions) (*ws.Bundle, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	q := url.Values{}
	if worksheetUUID != "" {
		q.Set("worksheet", worksheetUUID)
	}
	if opts.AfterSortKey != nil {
		q.Set("after_sort_key", strconv.FormatFloat(*opts.AfterSortKey, 'f', -1, 64))
	}
	if opts.Detached {
		q.Set("detached", "1")
	}

	req := newDocument(resource{
		Type: "bundles",
		Attributes: map[string]any{
			"bundle_type": bundleType,
			"metadata":    metadata,
		},
	})
	var resp document
	if err := c.post(ctx, "/bundles", q, req, &resp); err != nil {
		return nil, err
	}
	data := resp.DataList()
	if len(data) == 0 {
		return nil, &APIError{Kind: KindTransport, Message: "create bundle response carried no data"}
	}
	return hydrateBundle(&resp, data[0])
}

// UpdateBundleMetadata patches metadata fields on one bundle. Values must
// already be serialized to their raw types (see ws.SerializeFormat).
func (c *Client) UpdateBundleMetadata(ctx context.Context, uuid string, fields map[string]any) error {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	req := newDocument(resource{
		Type:       "bundles",
		ID:         uuid,
		Attributes: map[string]any{"metadata": fields},
	})
	return c.patch(ctx, "/bundles", req, nil)
}
