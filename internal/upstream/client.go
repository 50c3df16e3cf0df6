package upstream

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Observer records call latency; *observability.Prom satisfies it.
type Observer interface {
	ObserveUpstream(api, op string, fn func() error) error
}

func newRestyClient(cfg Config) *resty.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
}

// call runs one request and turns every failure into an *Error.
func call(ctx context.Context, obs Observer, api, op string, do func(context.Context) (*resty.Response, error)) (*resty.Response, error) {
	var resp *resty.Response

	run := func() error {
		r, err := do(ctx)
		if err != nil {
			return mapTransportError(api, op, err)
		}

		resp = r

		return mapHTTPError(api, op, r)
	}

	var err error

	if obs == nil {
		err = run()
	} else {
		err = obs.ObserveUpstream(api, op, run)
	}

	return resp, err
}
