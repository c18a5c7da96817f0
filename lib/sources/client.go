package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"check24-backend/lib/restyutil"
	"check24-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

var httpTracer = telemetry.Tracer("check24.lib.sources/http")

// Client is the http client shared by the requests of one source. Every
// method returns a *Error tagged with the source name on failure.
type Client struct {
	source string
	http   *resty.Client
}

// NewClient expects opts with defaults already applied.
func NewClient(source string, opts Options) *Client {
	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetTimeout(opts.Timeout)
	client.SetHeader("user-agent", opts.UserAgent)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	restyutil.InstrumentClient(client, httpTracer, opts.InstrumentOutput)

	return &Client{source: source, http: client}
}

// Get requests path relative to the base url and returns the body of a 2xx
// response.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, NewError(c.source, ErrNetwork, err)
	}
	if !res.IsSuccess() {
		return nil, NewError(
			c.source, ErrUnexpectedStatus,
			fmt.Errorf("GET %s returned %d", res.Request.URL, res.StatusCode()),
		)
	}
	return res.Body(), nil
}

func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	body, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	err = json.Unmarshal(body, out)
	if err != nil {
		return NewError(c.source, ErrDecode, fmt.Errorf("GET %s: %w", path, err))
	}
	return nil
}

func (c *Client) GetDocument(ctx context.Context, path string) (*goquery.Document, error) {
	body, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, NewError(c.source, ErrDecode, fmt.Errorf("GET %s: %w", path, err))
	}
	return doc, nil
}
