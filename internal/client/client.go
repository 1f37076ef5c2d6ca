package client

import (
	"github.com/go-resty/resty/v2"
)

// IdentityHeader carries the caller's resolved address on scoped requests.
const IdentityHeader = "X-Client-IP"

// StoreClient talks to the remote event-store service.
type StoreClient struct {
	HTTP   *resty.Client
	Config ClientConfig
}

type ClientConfig struct {
	BaseURL string
}

func New(cfg ClientConfig) *StoreClient {
	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)

	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")

	return &StoreClient{
		HTTP:   r,
		Config: cfg,
	}
}
