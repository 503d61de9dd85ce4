package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sales-forecaster/internal/client"
	"github.com/OldStager01/sales-forecaster/internal/logger"
	"github.com/OldStager01/sales-forecaster/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return client.New(client.Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
}

func TestClient_MetadataLists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/metadata/regions":
			_, _ = io.WriteString(w, `["East","West"]`)
		case "/metadata/products":
			_, _ = io.WriteString(w, `["Widget"]`)
		case "/metadata/subcategories":
			_, _ = io.WriteString(w, `[]`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	regions, err := c.Regions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"East", "West"}, regions)

	products, err := c.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Widget"}, products)

	subcats, err := c.Subcategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, subcats)
}

func TestClient_PredictFeatures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict/profit", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "trace-abc", r.Header.Get(client.TraceIDHeader))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"features":[1.5,2.5,3]}`, string(body))

		_, _ = io.WriteString(w, `{"prediction":42.567}`)
	})

	ctx := logger.WithTraceID(context.Background(), "trace-abc")
	got, err := c.PredictFeatures(ctx, models.ModelProfit, []float64{1.5, 2.5, 3})
	require.NoError(t, err)
	assert.InDelta(t, 42.567, got, 1e-9)
}

func TestClient_PredictByFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict/by_fields", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, map[string]string{
			"region":       "East",
			"product_name": "Widget",
			"sub_category": "A",
			"order_date":   "2024-03-01",
			"model":        "quantity",
		}, req)

		_, _ = io.WriteString(w, `{"prediction":7}`)
	})

	got, err := c.PredictByFields(context.Background(), models.FieldsPredictionRequest{
		Region:      "East",
		ProductName: "Widget",
		SubCategory: "A",
		OrderDate:   "2024-03-01",
		Model:       "quantity",
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
}

func TestClient_RequestErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"detail from backend", http.StatusBadRequest, `{"detail":"model unavailable"}`, "model unavailable"},
		{"empty body", http.StatusServiceUnavailable, ``, "Error 503"},
		{"non json body", http.StatusInternalServerError, `<html>oops</html>`, "Error 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.PredictFeatures(context.Background(), models.ModelQuantity, []float64{1})
			require.Error(t, err)
			assert.ErrorIs(t, err, client.ErrRequestFailed)

			var reqErr *client.RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.status, reqErr.StatusCode)
			assert.Equal(t, tt.wantMessage, client.UserMessage(err))
		})
	}
}

func TestClient_MissingPrediction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := c.PredictFeatures(context.Background(), models.ModelProfit, []float64{1})
	assert.ErrorIs(t, err, client.ErrInvalidResponse)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.New(client.Config{BaseURL: url, Timeout: time.Second})
	_, err := c.Regions(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrTransport)
	assert.NotErrorIs(t, err, client.ErrRequestFailed)

	var transportErr *client.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, transportErr.Err.Error(), client.UserMessage(err))
}

func TestClient_PredictCSV(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict_csv", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "orders.csv", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(data))

		_, _ = io.WriteString(w, `{"predictions":[10.5,11]}`)
	})

	got, err := c.PredictCSV(context.Background(), "orders.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{10.5, 11}, got)
}

func TestClient_MetricsAndHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/metrics":
			_, _ = io.WriteString(w, `{"metrics":{"profit_r2":0.91}}`)
		case "/health":
			w.WriteHeader(http.StatusOK)
		}
	})

	metrics, err := c.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.91, metrics["profit_r2"])

	assert.NoError(t, c.HealthCheck(context.Background()))
	assert.NoError(t, c.Close())
}
