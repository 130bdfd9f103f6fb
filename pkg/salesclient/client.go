package salesclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/minimart-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SalesAPI é o conjunto de operações remotas usadas pelo Store
type SalesAPI interface {
	ListSales(ctx context.Context, filter domain.SalesFilter) ([]domain.DailySalesEntry, error)
	GetSales(ctx context.Context, id string) (*domain.DailySalesEntry, error)
	CreateSales(ctx context.Context, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error)
	UpdateSales(ctx context.Context, id string, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error)
	DeleteSales(ctx context.Context, id string) error
	ApproveSales(ctx context.Context, id string, notes string) (*domain.DailySalesEntry, error)
}

// APIError é a falha devolvida pelo servidor no envelope {success: false, error}
type APIError struct {
	StatusCode  int
	Code        string
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// IsNotFound indica se o erro é um 404 do servidor
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type envelope struct {
	Success     bool                `json:"success"`
	Data        jsoniter.RawMessage `json:"data,omitempty"`
	Message     string              `json:"message,omitempty"`
	Count       *int                `json:"count,omitempty"`
	Error       string              `json:"error,omitempty"`
	Code        string              `json:"code,omitempty"`
	FieldErrors map[string]string   `json:"fieldErrors,omitempty"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetToken troca o token Bearer usado nas próximas requisições
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "erro ao serializar requisição")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrap(err, "erro ao criar requisição")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "erro ao chamar %s %s", method, path)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(err, "resposta inválida de %s %s (status %d)", method, path, resp.StatusCode)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		message := env.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        env.Code,
			Message:     message,
			FieldErrors: env.FieldErrors,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrapf(err, "erro ao decodificar dados de %s %s", method, path)
		}
	}

	return nil
}

// Login autentica e guarda o token para as próximas chamadas
func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/login", nil, domain.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	c.SetToken(resp.Token)
	return &resp, nil
}

func filterQuery(filter domain.SalesFilter) url.Values {
	query := url.Values{}
	if filter.DateFrom != "" {
		query.Set("dateFrom", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query.Set("dateTo", filter.DateTo)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.CashierName != "" {
		query.Set("cashierName", filter.CashierName)
	}
	return query
}

func (c *Client) ListSales(ctx context.Context, filter domain.SalesFilter) ([]domain.DailySalesEntry, error) {
	entries := []domain.DailySalesEntry{}
	if err := c.do(ctx, http.MethodGet, "/v1/daily-sales", filterQuery(filter), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) GetSales(ctx context.Context, id string) (*domain.DailySalesEntry, error) {
	var entry domain.DailySalesEntry
	if err := c.do(ctx, http.MethodGet, "/v1/daily-sales/"+url.PathEscape(id), nil, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) CreateSales(ctx context.Context, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error) {
	var entry domain.DailySalesEntry
	if err := c.do(ctx, http.MethodPost, "/v1/daily-sales", nil, patch, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) UpdateSales(ctx context.Context, id string, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error) {
	var entry domain.DailySalesEntry
	if err := c.do(ctx, http.MethodPut, "/v1/daily-sales/"+url.PathEscape(id), nil, patch, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) DeleteSales(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/daily-sales/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ApproveSales(ctx context.Context, id string, notes string) (*domain.DailySalesEntry, error) {
	var entry domain.DailySalesEntry
	body := map[string]string{"notes": notes}
	if err := c.do(ctx, http.MethodPost, "/v1/daily-sales/"+url.PathEscape(id)+"/approve", nil, body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) AuditSales(ctx context.Context, id string, notes string) (*domain.DailySalesEntry, error) {
	var entry domain.DailySalesEntry
	body := map[string]string{"notes": notes}
	if err := c.do(ctx, http.MethodPost, "/v1/daily-sales/"+url.PathEscape(id)+"/audit", nil, body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
