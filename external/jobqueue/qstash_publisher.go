// Package jobqueue publishes deferred jobs through Upstash QStash. The API
// itself stays stateless: QStash calls back into the internal jobs endpoint
// on schedule, so import runs survive restarts without an in-process timer.
package jobqueue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/sporating/sporating/internal/config"
	"github.com/sporating/sporating/internal/platform/logging"
)

// ImportJob is the payload delivered back to the internal jobs endpoint.
type ImportJob struct {
	Season string   `json:"season,omitempty"`
	Sports []string `json:"sports,omitempty"`
}

type Publisher struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	targetBaseURL string
	retries       int
	enabled       bool
	logger        *logging.Logger
}

func NewPublisher(cfg config.Config, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		baseURL:       strings.TrimRight(cfg.QStashBaseURL, "/"),
		token:         cfg.QStashToken,
		targetBaseURL: strings.TrimRight(cfg.QStashTargetBaseURL, "/"),
		retries:       cfg.QStashRetries,
		enabled:       cfg.QStashEnabled,
		logger:        logger.With("client", "qstash"),
	}
}

func (p *Publisher) Enabled() bool { return p.enabled }

// EnqueueImport publishes an import job with the given delay. A zero delay
// delivers immediately.
func (p *Publisher) EnqueueImport(ctx context.Context, job ImportJob, delay time.Duration) error {
	if !p.enabled {
		return nil
	}
	if p.token == "" {
		return crerr.New("qstash token is not configured")
	}
	if p.targetBaseURL == "" {
		return crerr.New("qstash target base url is not configured")
	}

	payload, err := sonic.Marshal(job)
	if err != nil {
		return crerr.Wrap(err, "marshal import job")
	}

	target := p.targetBaseURL + "/v1/internal/jobs/import"
	publishURL := p.baseURL + "/v2/publish/" + url.QueryEscape(target)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, bytes.NewReader(payload))
	if err != nil {
		return crerr.Wrap(err, "build publish request")
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Retries", strconv.Itoa(p.retries))
	if delay > 0 {
		req.Header.Set("Upstash-Delay", fmt.Sprintf("%ds", int(delay.Seconds())))
	}

	p.logger.DebugContext(ctx, "publishing import job", "curl", curlPreview(req, payload))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return crerr.Wrap(err, "publish import job")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return crerr.Newf("qstash publish returned status %d: %s", resp.StatusCode, string(body))
	}

	p.logger.InfoContext(ctx, "import job published",
		"target", target,
		"delay", delay.String(),
	)
	return nil
}

// curlPreview renders the request as a copy-pastable curl line for debug
// logs, with the bearer token masked.
func curlPreview(req *http.Request, body []byte) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString("curl -X ")
	buf.WriteString(req.Method)
	for key, values := range req.Header {
		for _, value := range values {
			if strings.EqualFold(key, "Authorization") {
				value = "Bearer ***"
			}
			buf.WriteString(" -H '")
			buf.WriteString(key)
			buf.WriteString(": ")
			buf.WriteString(value)
			buf.WriteString("'")
		}
	}
	if len(body) > 0 {
		buf.WriteString(" -d '")
		buf.Write(body)
		buf.WriteString("'")
	}
	buf.WriteString(" '")
	buf.WriteString(req.URL.String())
	buf.WriteString("'")

	return buf.String()
}
