package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	contentserverclient "github.com/foomo/contentserver/client"
	"github.com/foomo/contentserver/content"
	"github.com/foomo/contentserver/requests"
	"github.com/foomo/globalcontent-mcp/schema"
)

var ErrNotFound = errors.New("global content not found")

// Source fetches the raw global content object, an object carrying "header"
// and "footer", decoded but not yet validated.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (any, error)
}

// StrapiSource reads the global single type from the Strapi REST API.
type StrapiSource struct {
	httpClient *http.Client
	url        string
	token      string
	attempts   uint
	settings   SiteSettings
}

func NewStrapiSource(siteSettings SiteSettings, httpClient *http.Client) *StrapiSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	attempts := siteSettings.Retries
	if attempts == 0 {
		attempts = 1
	}
	return &StrapiSource{
		httpClient: httpClient,
		url:        strings.TrimSuffix(siteSettings.StrapiURL, "/") + siteSettings.StrapiPath,
		token:      siteSettings.StrapiToken,
		attempts:   attempts,
		settings:   siteSettings,
	}
}

func (s *StrapiSource) Name() string {
	return string(SourceTypeStrapi)
}

func (s *StrapiSource) Fetch(ctx context.Context) (any, error) {
	var payload any
	err := retry.Do(
		func() error {
			v, err := s.fetch(ctx)
			if err != nil {
				return err
			}
			payload = v
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.settings.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *StrapiSource) fetch(ctx context.Context) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, retry.Unrecoverable(ErrNotFound)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, retry.Unrecoverable(fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode))
	}

	body, err := schema.Decode(resp.Body)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	data, err := member(body, "data")
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	return data, nil
}

type contentGetter interface {
	GetContent(ctx context.Context, r *requests.Content) (*content.SiteContent, error)
}

// ContentServerSource reads the global content from the data of a content
// server node.
type ContentServerSource struct {
	client contentGetter
	env    *requests.Env
	uri    string
}

func NewContentServerSource(siteSettings SiteSettings, httpClient *http.Client) *ContentServerSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client := contentserverclient.New(
		contentserverclient.NewHTTPTransport(
			siteSettings.ContentServerURL,
			contentserverclient.HTTPTransportWithHTTPClient(httpClient),
		))
	return newContentServerSource(client, siteSettings)
}

func newContentServerSource(client contentGetter, siteSettings SiteSettings) *ContentServerSource {
	uri := siteSettings.URI
	if uri == "" {
		uri = "/"
	}
	return &ContentServerSource{
		client: client,
		env:    siteSettings.Env,
		uri:    uri,
	}
}

func (s *ContentServerSource) Name() string {
	return string(SourceTypeContentServer)
}

func (s *ContentServerSource) Fetch(ctx context.Context) (any, error) {
	siteContent, err := s.client.GetContent(ctx, &requests.Content{
		URI:   s.uri,
		Env:   s.env,
		Nodes: map[string]*requests.Node{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get content for %s: %w", s.uri, err)
	}
	if siteContent.Status == content.StatusNotFound {
		return nil, ErrNotFound
	}
	if siteContent.Data == nil {
		return nil, &schema.MissingFieldError{Field: "data"}
	}
	return siteContent.Data, nil
}

// member returns a required member of a decoded object.
func member(v any, name string) (any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &schema.TypeMismatchError{Expected: schema.KindObject, Actual: schema.KindOf(v)}
	}
	m, ok := obj[name]
	if !ok {
		return nil, &schema.MissingFieldError{Field: name}
	}
	return m, nil
}
