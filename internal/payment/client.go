package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
)

var ErrSessionNotFound = errors.New("支付会话不存在")

// Client 封装支付服务商的结账接口，本服务只用到创建会话和查询会话两个调用
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Payment.RequestTimeout) * time.Second,
		},
	}
}

type LineItem struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// SessionMetadata 会被服务商原样带回，支付完成后据此找到要入账的套餐
type SessionMetadata struct {
	PackageID     int64 `json:"packageId,string"`
	EmployeeLimit int32 `json:"employeeLimit,string"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Session struct {
	ID              string          `json:"id"`
	PaymentStatus   string          `json:"paymentStatus"`
	CustomerEmail   string          `json:"customerEmail"`
	AmountTotal     int64           `json:"amountTotal"`
	PaymentIntentID string          `json:"paymentIntentId"`
	Metadata        SessionMetadata `json:"metadata"`
}

const PaymentStatusPaid = "paid"

func (c *Client) CreateCheckoutSession(item LineItem, customerEmail string, metadata SessionMetadata) (*CheckoutSession, error) {
	body := struct {
		LineItem          LineItem        `json:"lineItem"`
		CustomerEmail     string          `json:"customerEmail"`
		Metadata          SessionMetadata `json:"metadata"`
		SuccessURL        string          `json:"successUrl"`
		CancelURL         string          `json:"cancelUrl"`
		ClientReferenceID string          `json:"clientReferenceId"`
	}{
		LineItem:          item,
		CustomerEmail:     customerEmail,
		Metadata:          metadata,
		SuccessURL:        c.cfg.Payment.SuccessURL,
		CancelURL:         c.cfg.Payment.CancelURL,
		ClientReferenceID: uuid.NewString(),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.cfg.Payment.RequestTimeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Payment.BaseURL+"/v1/checkout/sessions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Payment.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("支付服务商返回了意外的状态码 %d", resp.StatusCode)
	}

	session := &CheckoutSession{}
	if err := json.NewDecoder(resp.Body).Decode(session); err != nil {
		return nil, err
	}

	return session, nil
}

func (c *Client) RetrieveSession(sessionID string) (*Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.cfg.Payment.RequestTimeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Payment.BaseURL+"/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Payment.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrSessionNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("支付服务商返回了意外的状态码 %d", resp.StatusCode)
	}

	session := &Session{}
	if err := json.NewDecoder(resp.Body).Decode(session); err != nil {
		return nil, err
	}

	return session, nil
}
