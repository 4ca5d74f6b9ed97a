package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retail-tools/retail-atlas/pkg/models/api"
	"github.com/retail-tools/retail-atlas/pkg/models/domain"
	"github.com/retail-tools/retail-atlas/pkg/services/pipeline"
	"github.com/retail-tools/retail-atlas/pkg/services/registry"
)

type mockAnalysis struct {
	mock.Mock
}

func (m *mockAnalysis) Profiles() []domain.SourceProfile {
	args := m.Called()
	return args.Get(0).([]domain.SourceProfile)
}

func (m *mockAnalysis) Analyze(ctx context.Context, profile string) (*pipeline.Result, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Result), args.Error(1)
}

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		RunID:         "run-1",
		ReferenceDate: time.Date(2011, 12, 9, 12, 50, 0, 0, time.UTC),
		RFM: []domain.RFMRecord{
			{CustomerID: "17850", Recency: 0, Frequency: 3, Monetary: 120.5},
			{CustomerID: "13047", Recency: 31, Frequency: 1, Monetary: 25.2},
		},
		Summary: domain.Summary{
			Customers: 2,
			Recency:   domain.MetricStats{Min: 0, Max: 31, Avg: 15.5},
			Frequency: domain.MetricStats{Min: 1, Max: 3, Avg: 2},
			Monetary:  domain.MetricStats{Min: 25.2, Max: 120.5, Avg: 72.85},
		},
		Stats: pipeline.CleanStats{Input: 5, Kept: 4, MissingCustomer: 1},
	}
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(nil))

	mockSvc := new(mockAnalysis)

	config := Config{
		Addr:            ":8600",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Analysis: mockSvc,
			Logger:   logger,
		},
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		path           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name: "ListSources",
			path: "/api/v1/sources",
			setupMocks: func() {
				mockSvc.On("Profiles").
					Return([]domain.SourceProfile{{Name: "uk-retail", Type: domain.SourceTypeCSV}}).Once()
			},
			expectedStatus: http.StatusOK,
			expected:       []api.Source{{Name: "uk-retail", Type: "csv"}},
			parseResponse:  unmarshalResponse[[]api.Source](),
		},
		{
			name: "GetRFM",
			path: "/api/v1/sources/uk-retail/rfm",
			setupMocks: func() {
				mockSvc.On("Analyze", mock.Anything, "uk-retail").
					Return(sampleResult(), nil).Once()
			},
			expectedStatus: http.StatusOK,
			expected: api.RFMResult{
				RunID:         "run-1",
				Source:        "uk-retail",
				ReferenceDate: time.Date(2011, 12, 9, 12, 50, 0, 0, time.UTC),
				RowsRead:      5,
				RowsRejected:  1,
				Records: []api.RFMRecord{
					{CustomerID: "17850", Recency: 0, Frequency: 3, Monetary: 120.5},
					{CustomerID: "13047", Recency: 31, Frequency: 1, Monetary: 25.2},
				},
			},
			parseResponse: unmarshalResponse[api.RFMResult](),
		},
		{
			name: "GetSummary",
			path: "/api/v1/sources/uk-retail/rfm/summary",
			setupMocks: func() {
				mockSvc.On("Analyze", mock.Anything, "uk-retail").
					Return(sampleResult(), nil).Once()
			},
			expectedStatus: http.StatusOK,
			expected: api.Summary{
				Customers: 2,
				Recency:   api.MetricStats{Min: 0, Max: 31, Avg: 15.5},
				Frequency: api.MetricStats{Min: 1, Max: 3, Avg: 2},
				Monetary:  api.MetricStats{Min: 25.2, Max: 120.5, Avg: 72.85},
			},
			parseResponse: unmarshalResponse[api.Summary](),
		},
		{
			name: "GetTopCustomers",
			path: "/api/v1/sources/uk-retail/customers/top?n=1",
			setupMocks: func() {
				mockSvc.On("Analyze", mock.Anything, "uk-retail").
					Return(sampleResult(), nil).Once()
			},
			expectedStatus: http.StatusOK,
			expected:       []api.TopCustomer{{CustomerID: "17850", Monetary: 120.5, Frequency: 3}},
			parseResponse:  unmarshalResponse[[]api.TopCustomer](),
		},
		{
			name: "HugeTopN",
			path: "/api/v1/sources/uk-retail/customers/top?n=4611686018427387904",
			setupMocks: func() {
				mockSvc.On("Analyze", mock.Anything, "uk-retail").
					Return(sampleResult(), nil).Once()
			},
			expectedStatus: http.StatusOK,
			expected: []api.TopCustomer{
				{CustomerID: "17850", Monetary: 120.5, Frequency: 3},
				{CustomerID: "13047", Monetary: 25.2, Frequency: 1},
			},
			parseResponse: unmarshalResponse[[]api.TopCustomer](),
		},
		{
			name: "UnknownSource",
			path: "/api/v1/sources/nope/rfm",
			setupMocks: func() {
				mockSvc.On("Analyze", mock.Anything, "nope").
					Return(nil, fmt.Errorf("profile %q: %w", "nope", registry.ErrProfileNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "EmptyDataset",
			path: "/api/v1/sources/empty/rfm/summary",
			setupMocks: func() {
				mockSvc.On("Analyze", mock.Anything, "empty").
					Return(nil, fmt.Errorf("aggregate: %w", pipeline.ErrEmptyDataset)).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "BadTopN",
			path:           "/api/v1/sources/uk-retail/customers/top?n=minus-five",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			resp, err := http.Get(testServer.URL + tc.path)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			if tc.expected != nil {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err, "Failed to read response body")

				actual, err := tc.parseResponse(body)
				require.NoError(t, err, "Failed to parse response")

				assert.Equal(t, tc.expected, actual)
			}

			mockSvc.AssertExpectations(t)
		})
	}
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retail-atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads yaml config", func(t *testing.T) {
		path := writeConfig(t, "addr: \":9000\"\nshutdown_timeout: 5s\nprofiles: /etc/retail-atlas/sources.ini\n")

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "/etc/retail-atlas/sources.ini", cfg.Profiles)
	})

	t.Run("defaults fill in", func(t *testing.T) {
		path := writeConfig(t, "profiles: sources.ini\n")

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, ":8600", cfg.Addr)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("profiles path is mandatory", func(t *testing.T) {
		path := writeConfig(t, "addr: \":9000\"\n")

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
		assert.Error(t, err)
	})
}
