package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// Transport delivers server-originated notifications to the connected
// client. The request/response side of the wire protocol is out of scope;
// only the outbound notification path is abstracted here.
type Transport interface {
	SendNotification(ctx context.Context, method string, params interface{}) error
}

// TransportMode selects the transport a server speaks
type TransportMode string

const (
	// ModeStdio writes line-delimited JSON-RPC notifications to stdout.
	ModeStdio TransportMode = "stdio"

	// ModeHTTP posts JSON-RPC notifications to a configured endpoint.
	ModeHTTP TransportMode = "http"
)

// SupportedModes lists the transport modes a server can be built with
func SupportedModes() []string {
	return []string{string(ModeStdio), string(ModeHTTP)}
}

// notification is the JSON-RPC 2.0 notification envelope
type notification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// stdioTransport writes one notification per line. Writes are serialized
// so concurrent senders cannot interleave partial lines.
type stdioTransport struct {
	mu  sync.Mutex
	out io.Writer
}

// NewStdioTransport creates a stdio transport. A nil writer defaults to
// os.Stdout.
func NewStdioTransport(out io.Writer) Transport {
	if out == nil {
		out = os.Stdout
	}
	return &stdioTransport{out: out}
}

func (t *stdioTransport) SendNotification(_ context.Context, method string, params interface{}) error {
	payload, err := json.Marshal(notification{JSONRPC: "2.0", Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode notification %s: %w", method, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.out.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("failed to write notification %s: %w", method, err)
	}
	return nil
}

// httpTransport posts each notification to a fixed endpoint
type httpTransport struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTransport creates an HTTP transport posting to endpoint. A nil
// client defaults to one with a 10 second timeout.
func NewHTTPTransport(endpoint string, client *http.Client) Transport {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &httpTransport{endpoint: endpoint, client: client}
}

func (t *httpTransport) SendNotification(ctx context.Context, method string, params interface{}) error {
	payload, err := json.Marshal(notification{JSONRPC: "2.0", Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode notification %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post notification %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification %s rejected with status %d", method, resp.StatusCode)
	}
	return nil
}
