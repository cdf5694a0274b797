package payment

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
)

func TestCreateTransaction(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost || r.URL.Path != "/snap/v1/transactions" {
            t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
        }
        user, _, ok := r.BasicAuth()
        if !ok || user != "server-key" {
            t.Errorf("expected basic auth with server key, got %q", user)
        }
        var body struct {
            TransactionDetails struct {
                OrderID     string `json:"order_id"`
                GrossAmount int64  `json:"gross_amount"`
            } `json:"transaction_details"`
            CreditCard struct {
                Secure bool `json:"secure"`
            } `json:"credit_card"`
        }
        if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
            t.Fatalf("decode request: %v", err)
        }
        if body.TransactionDetails.OrderID != "order-1" || body.TransactionDetails.GrossAmount != 2500 {
            t.Errorf("unexpected transaction details %+v", body.TransactionDetails)
        }
        if !body.CreditCard.Secure {
            t.Error("expected credit_card.secure true")
        }
        _ = json.NewEncoder(w).Encode(map[string]string{
            "token":        "snap-token-123",
            "redirect_url": "https://gateway.example/pay/snap-token-123",
        })
    }))
    defer srv.Close()

    c := NewClient(srv.URL, "server-key")
    tok, err := c.CreateTransaction(context.Background(), "order-1", 2500)
    if err != nil {
        t.Fatalf("create transaction failed: %v", err)
    }
    if tok.Token != "snap-token-123" {
        t.Errorf("expected token snap-token-123, got %q", tok.Token)
    }
}

func TestCreateTransactionNon2xx(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        http.Error(w, "unauthorized", http.StatusUnauthorized)
    }))
    defer srv.Close()

    c := NewClient(srv.URL, "wrong-key")
    if _, err := c.CreateTransaction(context.Background(), "order-1", 100); err == nil {
        t.Fatal("expected error on non-2xx response")
    }
}

func TestCreateTransactionEmptyToken(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        _ = json.NewEncoder(w).Encode(map[string]string{"token": ""})
    }))
    defer srv.Close()

    c := NewClient(srv.URL, "server-key")
    if _, err := c.CreateTransaction(context.Background(), "order-1", 100); err == nil {
        t.Fatal("expected error on empty token")
    }
}

func TestGetStatus(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/v2/order-7/status" {
            t.Errorf("unexpected path %s", r.URL.Path)
        }
        _ = json.NewEncoder(w).Encode(map[string]interface{}{
            "order_id":           "order-7",
            "transaction_status": "settlement",
            "payment_type":       "bank_transfer",
            "currency":           "IDR",
            "settlement_time":    "2024-05-01 10:00:00",
            "va_numbers":         []map[string]string{{"bank": "bca", "va_number": "1234567890"}},
        })
    }))
    defer srv.Close()

    c := NewClient(srv.URL, "server-key")
    st, err := c.GetStatus(context.Background(), "order-7")
    if err != nil {
        t.Fatalf("get status failed: %v", err)
    }
    if st.TransactionStatus != StatusSettlement {
        t.Errorf("expected settlement, got %q", st.TransactionStatus)
    }
    if len(st.VANumbers) != 1 || st.VANumbers[0].Bank != "bca" {
        t.Errorf("unexpected va_numbers %+v", st.VANumbers)
    }
}

func TestGetStatusNotFound(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        http.Error(w, "not found", http.StatusNotFound)
    }))
    defer srv.Close()

    c := NewClient(srv.URL, "server-key")
    if _, err := c.GetStatus(context.Background(), "missing"); err == nil {
        t.Fatal("expected error on 404")
    }
}
