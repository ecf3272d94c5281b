package places

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://maps.googleapis.com"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 2.0

	photoMaxWidth  = 700
	photoMaxHeight = 440
)

// GoogleClient talks to the Google Places web service. It implements the
// PhotoProvider and Geocoder ports and is safe for concurrent use.
type GoogleClient struct {
	session *http.Client
	apiKey  string
	baseURL string
	limiter *rate.Limiter
}

// Option configures the client.
type Option func(*GoogleClient)

func WithBaseURL(baseURL string) Option {
	return func(c *GoogleClient) { c.baseURL = baseURL }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *GoogleClient) { c.session = client }
}

// WithRateLimit bounds outbound requests per second.
func WithRateLimit(perSecond float64) Option {
	return func(c *GoogleClient) {
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewGoogleClient builds a client. An empty key yields a client whose calls
// fail with domain.ErrPlacesUnavailable without touching the network.
func NewGoogleClient(apiKey string, opts ...Option) *GoogleClient {
	c := &GoogleClient{
		session: &http.Client{Timeout: DefaultTimeout},
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), int(DefaultRateLimit)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *GoogleClient) configured() bool { return c.apiKey != "" }
