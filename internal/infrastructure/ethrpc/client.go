package ethrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"hdrcommit/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTimeout = 30 * time.Second

// ErrBlockNotFound is returned when the node answers a block query with null.
var ErrBlockNotFound = errors.New("block not found")

// FetchError wraps every transport, HTTP and JSON-RPC failure of a call.
type FetchError struct {
	Endpoint string
	Method   string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("rpc %s %s: %v", e.Endpoint, e.Method, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Client struct {
	url        string
	endpoint   string
	httpClient *http.Client
	idCounter  uint64
}

type Config struct {
	URL     string
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("rpc url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		url:        cfg.URL,
		endpoint:   Redact(cfg.URL),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Endpoint is the URL with credentials masked, safe for logs and reports.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	var result quantity
	if err := c.call(ctx, "eth_chainId", []any{}, &result); err != nil {
		return 0, err
	}
	value, err := domain.ParseQuantity(domain.FieldChainID, string(result))
	if err != nil {
		return 0, c.fetchError("eth_chainId", err)
	}
	return value, nil
}

func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	var result quantity
	if err := c.call(ctx, "eth_blockNumber", []any{}, &result); err != nil {
		return 0, err
	}
	value, err := domain.ParseQuantity(domain.FieldNumber, string(result))
	if err != nil {
		return 0, c.fetchError("eth_blockNumber", err)
	}
	return value, nil
}

// HeaderByTag fetches the chain id and the block header selected by tag and
// normalizes them into a HeaderRecord. Malformed fields surface as
// domain.EncodingError, not FetchError.
func (c *Client) HeaderByTag(ctx context.Context, tag domain.BlockTag) (domain.HeaderRecord, error) {
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return domain.HeaderRecord{}, err
	}

	var raw *rpcHeader
	if err := c.call(ctx, "eth_getBlockByNumber", []any{tag.RPCParam(), false}, &raw); err != nil {
		return domain.HeaderRecord{}, err
	}
	if raw == nil {
		return domain.HeaderRecord{}, c.fetchError("eth_getBlockByNumber", fmt.Errorf("%w: %s", ErrBlockNotFound, tag))
	}
	return raw.toRecord(chainID)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	ctx, span := otel.Tracer("hdrcommit/ethrpc").Start(ctx, "ethrpc."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.method", method),
			attribute.String("rpc.endpoint", c.endpoint),
		),
	)
	defer span.End()

	if err := c.do(ctx, method, params, result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return c.fetchError(method, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, params []any, result any) error {
	id := atomic.AddUint64(&c.idCounter, 1)
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("rpc status %d", resp.StatusCode)
	}

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return err
	}
	if decoded.Error != nil {
		return decoded.Error
	}
	if result == nil {
		return nil
	}
	if len(decoded.Result) == 0 {
		return errors.New("rpc result is empty")
	}
	return json.Unmarshal(decoded.Result, result)
}

func (c *Client) fetchError(method string, err error) error {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return err
	}
	return &FetchError{Endpoint: c.endpoint, Method: method, Err: err}
}
