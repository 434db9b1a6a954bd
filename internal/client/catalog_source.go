package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"beauty/advisor/internal/config"
	"beauty/advisor/internal/domain"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// CatalogSource fetches the static products resource
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]domain.Product, error)
}

// NewCatalogSource returns an HTTP source for http(s) URLs and a file
// source for anything else
func NewCatalogSource(cfg config.CatalogConfig) CatalogSource {
	source := strings.TrimSpace(cfg.Source)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		timeout := time.Duration(cfg.Timeout) * time.Second
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		return &httpCatalogSource{
			url: source,
			httpClient: resty.New().
				SetTimeout(timeout).
				SetHeader("Accept", "application/json"),
		}
	}
	return &fileCatalogSource{path: source}
}

type httpCatalogSource struct {
	url        string
	httpClient *resty.Client
}

func (s *httpCatalogSource) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog from %s: %w", s.url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch catalog from %s: HTTP error: %d", s.url, resp.StatusCode())
	}

	return DecodeCatalog([]byte(resp.String()))
}

type fileCatalogSource struct {
	path string
}

func (s *fileCatalogSource) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", s.path, err)
	}
	return DecodeCatalog(data)
}

// DecodeCatalog parses the {"products": [...]} document and normalizes
// every description to plain text
func DecodeCatalog(data []byte) ([]domain.Product, error) {
	var doc domain.CatalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if doc.Products == nil {
		return nil, fmt.Errorf("failed to decode catalog: missing products collection")
	}

	for i := range doc.Products {
		doc.Products[i].Description = PlainText(doc.Products[i].Description)
	}

	log.Debugf("Decoded catalog with %d products", len(doc.Products))
	return doc.Products, nil
}
