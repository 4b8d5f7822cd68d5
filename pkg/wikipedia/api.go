package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
)

// DefaultEndpoint is the per-language MediaWiki API address, %s is the language code.
const DefaultEndpoint = "https://%s.wikipedia.org/w/api.php"

// DefaultUserAgent is sent when the caller does not provide one.
const DefaultUserAgent = "wikidump/1.0"

// ErrBadLanguage is returned for language codes that can't be used as a subdomain.
var ErrBadLanguage = errors.New("invalid language code")

var langRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidLanguage reports whether lang looks like a Wikipedia edition code.
func ValidLanguage(lang string) bool { return langRe.MatchString(lang) }

// Client talks to the MediaWiki query API of any language edition.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient makes a client on top of cl. The User-Agent header is always set,
// extra middlewares (e.g. request logging) are applied after it.
func NewClient(cl http.Client, userAgent string, mws ...middleware.RoundTripperHandler) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	mws = append([]middleware.RoundTripperHandler{middleware.Header("User-Agent", userAgent)}, mws...)
	return &Client{
		httpClient: requester.New(cl, mws...).Client(),
		endpoint:   DefaultEndpoint,
	}
}

// FetchRandom asks for a single random article of the main namespace.
func (c *Client) FetchRandom(ctx context.Context, lang string) (*RandomResponse, error) {
	params := url.Values{}
	params.Set("list", "random")
	params.Set("rnnamespace", "0")
	params.Set("rnlimit", "1")

	var resp RandomResponse
	if err := c.query(ctx, lang, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchArticle loads the intro extract, page props and language links of the page.
func (c *Client) FetchArticle(ctx context.Context, lang string, pageID int) (*PageAPIResponse, error) {
	params := url.Values{}
	params.Set("prop", "extracts|pageprops|langlinks")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("pageids", strconv.Itoa(pageID))
	params.Set("llprop", "url|langname")
	params.Set("lllimit", "max")

	var resp PageAPIResponse
	if err := c.query(ctx, lang, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchExtract loads the intro extract and page props of the page with the given title.
func (c *Client) FetchExtract(ctx context.Context, lang, title string) (*PageAPIResponse, error) {
	params := url.Values{}
	params.Set("prop", "extracts|pageprops")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("titles", title)

	var resp PageAPIResponse
	if err := c.query(ctx, lang, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) query(ctx context.Context, lang string, params url.Values, dst any) error {
	if !ValidLanguage(lang) {
		return fmt.Errorf("%w: %q", ErrBadLanguage, lang)
	}
	params.Set("action", "query")
	params.Set("format", "json")
	apiURL := fmt.Sprintf(c.endpoint, lang) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status from %s: %s", lang, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", lang, err)
	}
	return nil
}
