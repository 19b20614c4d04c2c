package commerce

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "log"
    "net/http"
    "strings"
    "time"
)

// Session is the slice of the session record the client needs: where to read
// the bearer token from, and where to drop it when the upstream answers 401.
type Session interface {
    BearerToken() string
    ClearCredentials()
}

type Client struct {
    baseURL     string
    timeout     time.Duration
    readRetries int
    client      *http.Client
    transport   *http.Transport
}

func NewClient(baseURL string, timeout time.Duration, readRetries int) *Client {
    transport := &http.Transport{
        MaxIdleConns:        100,
        MaxIdleConnsPerHost: 20,
        MaxConnsPerHost:     100,
        IdleConnTimeout:     90 * time.Second,
        DisableKeepAlives:   false,
        TLSHandshakeTimeout: 10 * time.Second,
    }

    if readRetries < 0 {
        readRetries = 0
    }

    return &Client{
        baseURL:     strings.TrimRight(baseURL, "/"),
        timeout:     timeout,
        readRetries: readRetries,
        transport:   transport,
        client: &http.Client{
            Timeout:   timeout,
            Transport: transport,
        },
    }
}

// Ping checks that the upstream answers HTTP at all. Any response counts;
// health checks only care about reachability.
func (c *Client) Ping(ctx context.Context) error {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
    if err != nil {
        return err
    }
    resp, err := c.client.Do(req)
    if err != nil {
        return err
    }
    resp.Body.Close()
    return nil
}

type envelope struct {
    Status  string              `json:"status"`
    Message string              `json:"message"`
    Data    json.RawMessage     `json:"data,omitempty"`
    Errors  map[string][]string `json:"errors,omitempty"`
}

// do issues one upstream call and decodes the enveloped payload into out.
// GETs are retried up to readRetries extra times on network errors and 5xx;
// any 4xx aborts immediately and mutations are never retried.
func (c *Client) do(ctx context.Context, sess Session, method, path string, body interface{}, out interface{}) error {
    var payload []byte
    if body != nil {
        var err error
        payload, err = json.Marshal(body)
        if err != nil {
            return fmt.Errorf("error marshaling request: %v", err)
        }
    }

    attempts := 1
    if method == http.MethodGet {
        attempts += c.readRetries
    }

    var lastErr error
    for attempt := 0; attempt < attempts; attempt++ {
        if attempt > 0 {
            log.Printf("Retrying %s %s (attempt %d/%d)", method, path, attempt+1, attempts)
        }

        err := c.doOnce(ctx, sess, method, path, payload, out)
        if err == nil {
            return nil
        }

        apiErr := AsAPIError(err)
        if apiErr != nil && apiErr.Kind != ErrKindTransient {
            return err
        }
        lastErr = err
    }

    return lastErr
}

func (c *Client) doOnce(ctx context.Context, sess Session, method, path string, payload []byte, out interface{}) error {
    reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
    defer cancel()

    var reader io.Reader
    if payload != nil {
        reader = bytes.NewReader(payload)
    }

    req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reader)
    if err != nil {
        return fmt.Errorf("error creating request: %v", err)
    }

    req.Header.Set("Accept", "application/json")
    if payload != nil {
        req.Header.Set("Content-Type", "application/json")
    }
    if sess != nil {
        if token := sess.BearerToken(); token != "" {
            req.Header.Set("Authorization", "Bearer "+token)
        }
    }

    start := time.Now()
    resp, err := c.client.Do(req)
    if err != nil {
        return &APIError{
            Kind:    ErrKindTransient,
            Message: "could not reach the store service",
        }
    }
    defer resp.Body.Close()

    respBody, err := io.ReadAll(resp.Body)
    if err != nil {
        return &APIError{
            Kind:    ErrKindTransient,
            Status:  resp.StatusCode,
            Message: "error reading upstream response",
        }
    }

    if elapsed := time.Since(start); elapsed > 2*time.Second {
        log.Printf("Slow upstream call: %s %s took %v", method, path, elapsed)
    }

    if resp.StatusCode >= 200 && resp.StatusCode < 300 {
        if out == nil {
            return nil
        }
        return decodeEnvelope(respBody, out)
    }

    return c.classifyFailure(sess, resp.StatusCode, respBody)
}

func decodeEnvelope(body []byte, out interface{}) error {
    clean := strings.TrimPrefix(string(body), "\ufeff")

    var env envelope
    if err := json.Unmarshal([]byte(clean), &env); err != nil {
        return &APIError{
            Kind:    ErrKindTransient,
            Message: "invalid upstream response",
        }
    }
    if len(env.Data) == 0 {
        // Some endpoints answer with a bare confirmation message.
        return nil
    }
    if err := json.Unmarshal(env.Data, out); err != nil {
        return &APIError{
            Kind:    ErrKindTransient,
            Message: "invalid upstream response payload",
        }
    }
    return nil
}

// classifyFailure maps an upstream status code onto the error taxonomy. A 401
// drops the stored credential on the spot so the session is treated as logged
// out everywhere from here on.
func (c *Client) classifyFailure(sess Session, status int, body []byte) error {
    var env envelope
    _ = json.Unmarshal(body, &env)

    message := env.Message

    switch {
    case status == http.StatusUnauthorized:
        if sess != nil {
            sess.ClearCredentials()
        }
        if message == "" {
            message = "authentication required"
        }
        return &APIError{Kind: ErrKindAuth, Status: status, Message: message}

    case status == http.StatusForbidden:
        if message == "" {
            message = "you do not have permission to do that"
        }
        return &APIError{Kind: ErrKindForbidden, Status: status, Message: message}

    case status == http.StatusNotFound:
        if message == "" {
            message = "not found"
        }
        return &APIError{Kind: ErrKindNotFound, Status: status, Message: message}

    case status >= 400 && status < 500:
        if message == "" {
            message = "invalid request"
        }
        return &APIError{Kind: ErrKindValidation, Status: status, Message: message, Fields: env.Errors}

    default:
        if message == "" {
            message = "the store service is unavailable"
        }
        return &APIError{Kind: ErrKindTransient, Status: status, Message: message}
    }
}
