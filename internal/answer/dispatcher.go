package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
)

// Ensure Dispatcher implements repository.Executor.
var _ repository.Executor = (*Dispatcher)(nil)

const (
	targetEcho       = "echo"
	chatTargetMarker = "/api/chat"
	genericPollReply = "Polling response for general request"
	maxUpstreamBody  = 1 << 20
	upstreamProvider = "upstream"
)

type chatJobResult struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

type upstreamResult struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

type genericResult struct {
	Response string `json:"response"`
}

// Dispatcher executes relay jobs by looking at their target.
type Dispatcher struct {
	answerer     Answerer
	allowedHosts map[string]struct{}
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewDispatcher creates a dispatcher. Only hosts listed in upstreamHosts may
// be called directly; chat targets go to answerer.
func NewDispatcher(answerer Answerer, upstreamHosts []string, httpClient *http.Client, logger *zap.Logger) *Dispatcher {
	allowed := make(map[string]struct{}, len(upstreamHosts))
	for _, h := range upstreamHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed[h] = struct{}{}
		}
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Dispatcher{
		answerer:     answerer,
		allowedHosts: allowed,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// Execute routes the request:
//   - "echo" returns the body as a JSON string,
//   - any target containing /api/chat is answered by the chat answerer,
//   - an allowlisted absolute URL is called upstream,
//   - anything else gets the generic polling reply.
func (d *Dispatcher) Execute(ctx context.Context, req *domain.RelayRequest) (json.RawMessage, error) {
	target := strings.TrimSpace(req.Target)

	switch {
	case strings.EqualFold(target, targetEcho):
		return json.Marshal(req.Body)
	case strings.Contains(target, chatTargetMarker):
		return d.chat(ctx, req)
	}

	if u, err := url.Parse(target); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		if _, ok := d.allowedHosts[strings.ToLower(u.Hostname())]; ok {
			return d.forward(ctx, u, req)
		}
		d.logger.Debug("Upstream host not allowlisted, sending generic reply", zap.String("host", u.Hostname()))
	}

	return json.Marshal(genericResult{Response: genericPollReply})
}

func (d *Dispatcher) chat(ctx context.Context, req *domain.RelayRequest) (json.RawMessage, error) {
	var chatReq domain.ChatRequest
	if err := json.Unmarshal([]byte(req.Body), &chatReq); err != nil {
		return nil, fmt.Errorf("decode chat body: %w", err)
	}

	reply, err := d.answerer.Answer(ctx, &chatReq)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("Relayed chat answered",
		zap.String("provider", reply.Provider),
		zap.Int("reply_len", len(reply.Text)),
	)

	return json.Marshal(chatJobResult{Response: reply.Text, Status: domain.ChatStatusPollingSuccess})
}

func (d *Dispatcher) forward(ctx context.Context, target *url.URL, req *domain.RelayRequest) (json.RawMessage, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
		if req.Body != "" {
			method = http.MethodPost
		}
	}

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("upstream: new request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upstream: %s %s: %w", method, target.Host, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(resp.Body, maxUpstreamBody)); err != nil {
		return nil, fmt.Errorf("upstream: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody := buf.String()
		if len(errBody) > maxErrorBody {
			errBody = errBody[:maxErrorBody]
		}
		return nil, &ProviderError{Provider: upstreamProvider, StatusCode: resp.StatusCode, Body: errBody}
	}

	return json.Marshal(upstreamResult{StatusCode: resp.StatusCode, Body: buf.String()})
}
