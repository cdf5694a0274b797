// Package payment implements the HTTP client for the external payment
// gateway.  The gateway exposes two endpoints used by this service: a
// Snap-style transaction creation endpoint returning a client-facing
// payment token, and a status endpoint reporting the authoritative
// state of a transaction.  Authentication is HTTP Basic with the server
// key as username and an empty password.
package payment

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "time"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// requestTimeout bounds every outbound gateway call so a hung gateway
// cannot block a handler past this deadline.
const requestTimeout = 10 * time.Second

// SnapToken is the gateway response to a transaction creation request.
type SnapToken struct {
    Token       string `json:"token"`        // client-facing payment token
    RedirectURL string `json:"redirect_url"` // hosted payment page
}

// Status is the gateway's authoritative view of a transaction.  Amount
// fields arrive as decimal strings and are kept as such; the local row
// already knows the gross amount it charged.
type Status struct {
    OrderID           string           `json:"order_id"`
    TransactionStatus string           `json:"transaction_status"`
    PaymentType       string           `json:"payment_type"`
    GrossAmount       string           `json:"gross_amount"`
    Currency          string           `json:"currency"`
    SettlementTime    string           `json:"settlement_time"`
    VANumbers         []model.VANumber `json:"va_numbers"`
    PaymentAmounts    []PaymentAmount  `json:"payment_amounts"`
}

// PaymentAmount is one partial payment reported by the gateway.
type PaymentAmount struct {
    PaidAt string `json:"paid_at"`
    Amount string `json:"amount"`
}

// StatusSettlement is the gateway's terminal "money received" status.
const StatusSettlement = "settlement"

// Client talks to the payment gateway.  Construct with NewClient.
type Client struct {
    baseURL   string
    serverKey string
    http      *http.Client
}

// NewClient returns a gateway client for the given base URL and server
// key.  The underlying HTTP client carries a request timeout so calls
// cannot hang indefinitely.
func NewClient(baseURL, serverKey string) *Client {
    return &Client{
        baseURL:   baseURL,
        serverKey: serverKey,
        http:      &http.Client{Timeout: requestTimeout},
    }
}

// CreateTransaction opens a transaction at the gateway bound to
// (orderID, grossAmount) and returns the payment token the client
// widget needs.  Any transport failure or non-2xx response is returned
// as an error; callers treat those as gateway unavailability.
func (c *Client) CreateTransaction(ctx context.Context, orderID string, grossAmountCents int64) (SnapToken, error) {
    body := map[string]interface{}{
        "transaction_details": map[string]interface{}{
            "order_id":     orderID,
            "gross_amount": grossAmountCents,
        },
        "credit_card": map[string]interface{}{
            "secure": true,
        },
    }
    buf, err := json.Marshal(body)
    if err != nil {
        return SnapToken{}, err
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/snap/v1/transactions", bytes.NewReader(buf))
    if err != nil {
        return SnapToken{}, err
    }
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("Accept", "application/json")
    req.SetBasicAuth(c.serverKey, "")

    resp, err := c.http.Do(req)
    if err != nil {
        return SnapToken{}, fmt.Errorf("gateway create transaction: %w", err)
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
        return SnapToken{}, fmt.Errorf("gateway create transaction: status %d: %s", resp.StatusCode, snippet)
    }
    var tok SnapToken
    if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
        return SnapToken{}, fmt.Errorf("gateway create transaction: decode: %w", err)
    }
    if tok.Token == "" {
        return SnapToken{}, fmt.Errorf("gateway create transaction: empty token")
    }
    return tok, nil
}

// GetStatus fetches the authoritative transaction status for an order id.
func (c *Client) GetStatus(ctx context.Context, orderID string) (Status, error) {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/"+orderID+"/status", nil)
    if err != nil {
        return Status{}, err
    }
    req.Header.Set("Accept", "application/json")
    req.SetBasicAuth(c.serverKey, "")

    resp, err := c.http.Do(req)
    if err != nil {
        return Status{}, fmt.Errorf("gateway status: %w", err)
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
        return Status{}, fmt.Errorf("gateway status: status %d: %s", resp.StatusCode, snippet)
    }
    var st Status
    if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
        return Status{}, fmt.Errorf("gateway status: decode: %w", err)
    }
    return st, nil
}
