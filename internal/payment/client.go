package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client calls the external payment provider's form-encoded invoice endpoint.
type Client struct {
	URL     string // invoice-creation endpoint
	APIKey  string
	Sandbox bool
	HTTP    *http.Client
}

// NewClient creates a provider client. In sandbox mode no outbound call is
// made; invoices are fabricated locally so the full flow can run without
// provider credentials.
func NewClient(endpoint, apiKey string, sandbox bool, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		URL:     endpoint,
		APIKey:  apiKey,
		Sandbox: sandbox,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// InvoiceRequest describes the charge sent to the provider.
type InvoiceRequest struct {
	Reference  string // participant id, echoed back for reconciliation
	Name       string
	Phone      string
	Amount     int
	SuccessURL string
	CancelURL  string
}

// Invoice is the provider's reply to a successful invoice creation.
type Invoice struct {
	PayURL    string `json:"pay_url"`
	PaymentID string `json:"paymentID"`
	Amount    int    `json:"amount"`
}

// ProviderError carries the provider's own failure message.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider: %s (status %d)", e.Message, e.Status)
}

type invoiceReply struct {
	PayURL    string      `json:"pay_url"`
	PaymentID string      `json:"paymentID"`
	Amount    json.Number `json:"amount"`
	ErrMsg    string      `json:"error"`
}

// CreateInvoice posts the charge and returns the provider invoice.
func (c *Client) CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error) {
	if c.Sandbox {
		paymentID := fmt.Sprintf("SBX-%s-%d", req.Reference, time.Now().UnixNano())
		sep := "?"
		if strings.Contains(req.SuccessURL, "?") {
			sep = "&"
		}
		return &Invoice{
			PayURL:    req.SuccessURL + sep + "paymentID=" + url.QueryEscape(paymentID),
			PaymentID: paymentID,
			Amount:    req.Amount,
		}, nil
	}

	form := url.Values{}
	form.Set("api_key", c.APIKey)
	form.Set("amount", strconv.Itoa(req.Amount))
	form.Set("reference", req.Reference)
	form.Set("customer_name", req.Name)
	form.Set("customer_phone", req.Phone)
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("payment: create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, &ProviderError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var reply invoiceReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("payment: decode response failed: %w", err)
	}
	if reply.ErrMsg != "" {
		return nil, &ProviderError{Status: resp.StatusCode, Message: reply.ErrMsg}
	}

	amount := req.Amount
	if n, err := reply.Amount.Int64(); err == nil && n > 0 {
		amount = int(n)
	}
	return &Invoice{PayURL: reply.PayURL, PaymentID: reply.PaymentID, Amount: amount}, nil
}
