package clinicapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vet-clinic-console/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("clinic api client not configured")
	ErrUnauthorized  = errors.New("clinic api unauthorized")
	ErrUpstream      = errors.New("clinic api upstream error")
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// Transport es para tests (nil = default).
	Transport http.RoundTripper
}

// Client habla con el backend de la clínica. El backend es la fuente de verdad
// de citas e historias clínicas; el console no guarda nada propio.
type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}

	headers := map[string]string{}
	if tok := strings.TrimSpace(cfg.Token); tok != "" {
		headers["Authorization"] = "Bearer " + tok
	}

	hc, err := httpclient.New(httpclient.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Transport: cfg.Transport,
		Headers:   headers,
	})
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

// mapErr traduce errores HTTP: 404 al ErrNotFound del dominio, 401/403 a
// ErrUnauthorized y el resto a ErrUpstream con el detalle original.
func mapErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	switch {
	case httpclient.IsStatus(err, http.StatusNotFound):
		return notFound
	case httpclient.IsStatus(err, http.StatusUnauthorized), httpclient.IsStatus(err, http.StatusForbidden):
		return ErrUnauthorized
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}
