package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/OldStager01/sales-forecaster/internal/logger"
	"github.com/OldStager01/sales-forecaster/pkg/models"
)

const TraceIDHeader = "X-Trace-ID"

type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
	}
}

func (c *Client) Regions(ctx context.Context) ([]string, error) {
	return c.list(ctx, "/metadata/regions")
}

func (c *Client) Products(ctx context.Context) ([]string, error) {
	return c.list(ctx, "/metadata/products")
}

func (c *Client) Subcategories(ctx context.Context) ([]string, error) {
	return c.list(ctx, "/metadata/subcategories")
}

func (c *Client) list(ctx context.Context, path string) ([]string, error) {
	var values []string
	if err := c.do(ctx, http.MethodGet, path, "", nil, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// PredictByFields posts a field-based request to /predict/by_fields.
func (c *Client) PredictByFields(ctx context.Context, req models.FieldsPredictionRequest) (float64, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	return c.predict(ctx, "/predict/by_fields", body)
}

// PredictFeatures posts a feature vector to the endpoint of the given model.
func (c *Client) PredictFeatures(ctx context.Context, model models.ModelType, features []float64) (float64, error) {
	body, err := json.Marshal(models.FeaturePredictionRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	return c.predict(ctx, "/predict/"+string(model), body)
}

func (c *Client) predict(ctx context.Context, path string, body []byte) (float64, error) {
	var resp struct {
		Prediction *float64 `json:"prediction"`
	}
	if err := c.do(ctx, http.MethodPost, path, "application/json", body, &resp); err != nil {
		return 0, err
	}
	if resp.Prediction == nil {
		return 0, fmt.Errorf("%w: %s: missing prediction", ErrInvalidResponse, path)
	}
	return *resp.Prediction, nil
}

// PredictCSV uploads a CSV file as multipart form field "file".
func (c *Client) PredictCSV(ctx context.Context, filename string, r io.Reader) ([]float64, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var resp models.CSVPredictionResponse
	if err := c.do(ctx, http.MethodPost, "/predict_csv", mw.FormDataContentType(), buf.Bytes(), &resp); err != nil {
		return nil, err
	}
	return resp.Predictions, nil
}

func (c *Client) Metrics(ctx context.Context) (map[string]interface{}, error) {
	var resp models.MetricsResponse
	if err := c.do(ctx, http.MethodGet, "/metrics", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Metrics, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set(TraceIDHeader, traceID)
	}

	logger.WithFields(map[string]interface{}{
		"method": method,
		"path":   path,
	}).Debug("Calling prediction backend")

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp models.ErrorResponse
		// The body may be empty or not JSON at all.
		_ = json.Unmarshal(data, &errResp)
		return &RequestError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     errResp.Detail,
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, method, path, err)
	}
	return nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
