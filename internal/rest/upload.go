package rest

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"sheets-cli/internal/ws"
)

// ProgressFunc observes upload progress. loaded counts bytes sent so far;
// total is the full size when known, else 0.
type ProgressFunc func(loaded, total int64)

// PutBlobOptions shape a blob upload. Unpack asks the server to expand a
// supported archive; Finalize transitions the bundle out of uploading once
// the blob lands.
type PutBlobOptions struct {
	Filename string
	Unpack   bool
	Finalize bool
	Progress ProgressFunc
}

// progressReader wraps the upload body and reports cumulative progress as the
// transport consumes it.
type progressReader struct {
	r      io.Reader
	total  int64
	loaded int64
	report ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.loaded += int64(n)
		if p.report != nil {
			p.report(p.loaded, p.total)
		}
	}
	return n, err
}

// PutBundleBlob streams a bundle's contents to the blob endpoint. size is the
// body length in bytes (required by the server and used for progress). No
// client-side timeout applies; cancel through ctx.
func (c *Client) PutBundleBlob(ctx context.Context, uuid string, body io.Reader, size int64, opts PutBlobOptions) error {
	q := url.Values{}
	q.Set("filename", opts.Filename)
	q.Set("unpack", boolParam(opts.Unpack))
	if opts.Finalize {
		q.Set("finalize", "1")
	}
	rawurl := c.restURL("/bundles/"+url.PathEscape(uuid)+"/contents/blob/", q)

	pr := &progressReader{r: body, total: size, report: opts.Progress}
	req, err := c.newRequest(ctx, http.MethodPut, rawurl, pr)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: err.Error(), URL: rawurl}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp, rawurl)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	return nil
}

// ShouldUnpack reports whether a filename should be uploaded with unpack=1.
func ShouldUnpack(filename string) bool { return ws.PathIsArchive(filename) }

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
