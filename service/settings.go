package service

import (
	"net/http"
	"time"

	"github.com/foomo/contentserver/requests"
	"github.com/foomo/globalcontent-mcp/schema"
)

type SourceType string

const (
	SourceTypeStrapi        SourceType = "strapi"
	SourceTypeContentServer SourceType = "contentserver"
)

type SiteSettings struct {
	Source SourceType

	// Strapi REST API
	StrapiURL   string
	StrapiPath  string
	StrapiToken string
	Retries     uint
	RetryDelay  time.Duration

	// foomo content server
	Env              *requests.Env
	ContentServerURL string
	URI              string

	// validation
	FailFast    bool
	Concurrency int
}

// DefaultSiteSettings returns the settings for a local Strapi instance.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		Source:     SourceTypeStrapi,
		StrapiURL:  "http://localhost:1337",
		StrapiPath: "/api/global",
		Retries:    3,
		RetryDelay: 200 * time.Millisecond,
		Env:        &requests.Env{},
		URI:        "/",
	}
}

func (siteSettings SiteSettings) schemaOptions() []schema.Option {
	var opts []schema.Option
	if siteSettings.FailFast {
		opts = append(opts, schema.WithFailFast())
	}
	if siteSettings.Concurrency > 1 {
		opts = append(opts, schema.WithConcurrency(siteSettings.Concurrency))
	}
	return opts
}

// NewSource creates the content source selected in siteSettings.
func NewSource(siteSettings SiteSettings, httpClient *http.Client) (Source, error) {
	switch siteSettings.Source {
	case SourceTypeStrapi, "":
		return NewStrapiSource(siteSettings, httpClient), nil
	case SourceTypeContentServer:
		return NewContentServerSource(siteSettings, httpClient), nil
	}
	return nil, &UnknownSourceError{Source: siteSettings.Source}
}

type UnknownSourceError struct {
	Source SourceType
}

func (e *UnknownSourceError) Error() string {
	return "unknown content source: " + string(e.Source)
}
