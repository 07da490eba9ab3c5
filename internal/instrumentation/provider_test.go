package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func retrieverConfig() Config {
	return Config{
		ServiceName:     "driveretriever",
		ServiceVersion:  "1.2.3",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
		FolderID:        "folder-1",
		NumResults:      5,
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false, MetricsExporter: "bogus"})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	assert.False(t, provider.PrometheusEnabled())
	require.NotNil(t, provider.Metrics())
	assert.NotNil(t, provider.Tracer("drive"))
	assert.NoError(t, provider.Shutdown(context.Background()))

	// Recording on a disabled provider is a no-op.
	provider.Metrics().RecordRetrieval(context.Background(), StatusSuccess, time.Second)
}

func TestNewProvider_ExportsRetrieverMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()

	provider, err := NewProvider(ctx, retrieverConfig(), WithMetricReader(reader))
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	assert.False(t, provider.PrometheusEnabled())

	m := provider.Metrics()
	m.RecordDriveAPIOperation(ctx, OperationList, StatusSuccess, 10*time.Millisecond)
	m.RecordDriveAPIOperation(ctx, OperationDownload, StatusError, 20*time.Millisecond)
	m.RecordDownloadedBytes(ctx, OperationDownload, 4096)
	m.RecordDocument(ctx, OutcomeText, "text/plain")
	m.RecordDocument(ctx, OutcomeEmpty, "application/pdf")
	m.RecordRetrieval(ctx, StatusSuccess, 30*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	folder, ok := rm.Resource.Set().Value(ResourceFolderID)
	require.True(t, ok)
	assert.Equal(t, "folder-1", folder.AsString())
	limit, ok := rm.Resource.Set().Value(ResourceNumResults)
	require.True(t, ok)
	assert.Equal(t, int64(5), limit.AsInt64())
	version, ok := rm.Resource.Set().Value(semconv.ServiceVersionKey)
	require.True(t, ok)
	assert.Equal(t, "1.2.3", version.AsString())

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		assert.Equal(t, "driveretriever", sm.Scope.Name)
		for _, metric := range sm.Metrics {
			names[metric.Name] = true
		}
	}
	for _, name := range []string{
		"drive_api_operations_total",
		"drive_api_operation_duration_seconds",
		"drive_downloaded_bytes_total",
		"documents_retrieved_total",
		"retrievals_total",
		"retrieval_duration_seconds",
	} {
		assert.True(t, names[name], "metric %s not exported", name)
	}

	assert.Equal(t, map[string]int64{OperationList: 1, OperationDownload: 1},
		sumByAttr(t, reader, "drive_api_operations_total", attrOperation))
	assert.Equal(t, map[string]int64{OutcomeText: 1, OutcomeEmpty: 1},
		sumByAttr(t, reader, "documents_retrieved_total", attrOutcome))
}

func TestNewResource(t *testing.T) {
	tests := []struct {
		name         string
		config       Config
		wantFolder   bool
		wantLimit    bool
		wantInstance string
	}{
		{
			name:         "retriever attributes",
			config:       Config{ServiceName: "svc", FolderID: "root", NumResults: 10, ServiceInstanceID: "pod-1"},
			wantFolder:   true,
			wantLimit:    true,
			wantInstance: "pod-1",
		},
		{
			name:         "no folder",
			config:       Config{ServiceName: "svc", ServiceInstanceID: "pod-2"},
			wantInstance: "pod-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newResource(context.Background(), tt.config)
			require.NoError(t, err)

			set := res.Set()
			_, ok := set.Value(ResourceFolderID)
			assert.Equal(t, tt.wantFolder, ok)
			_, ok = set.Value(ResourceNumResults)
			assert.Equal(t, tt.wantLimit, ok)

			instance, ok := set.Value(semconv.ServiceInstanceIDKey)
			require.True(t, ok)
			assert.Equal(t, tt.wantInstance, instance.AsString())
			assert.Equal(t, attribute.StringValue("svc"), mustValue(t, set, semconv.ServiceNameKey))
		})
	}
}

func mustValue(t *testing.T, set *attribute.Set, key attribute.Key) attribute.Value {
	t.Helper()
	v, ok := set.Value(key)
	require.True(t, ok, "missing %s", key)
	return v
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(*Config)
		wantErr        string
		wantPrometheus bool
	}{
		{
			name:           "prometheus",
			mutate:         func(*Config) {},
			wantPrometheus: true,
		},
		{
			name: "stdout",
			mutate: func(c *Config) {
				c.MetricsExporter = ExporterStdout
				c.TracingExporter = ExporterStdout
			},
		},
		{
			name:    "unknown metrics exporter",
			mutate:  func(c *Config) { c.MetricsExporter = "statsd" },
			wantErr: "invalid metrics exporter",
		},
		{
			name:    "unknown tracing exporter",
			mutate:  func(c *Config) { c.TracingExporter = "zipkin" },
			wantErr: "invalid tracing exporter",
		},
		{
			name:    "otlp tracing without endpoint",
			mutate:  func(c *Config) { c.TracingExporter = ExporterOTLP },
			wantErr: "OTLP endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			config := retrieverConfig()
			tt.mutate(&config)

			provider, err := NewProvider(ctx, config)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer func() { assert.NoError(t, provider.Shutdown(ctx)) }()

			assert.True(t, provider.Enabled())
			assert.Equal(t, tt.wantPrometheus, provider.PrometheusEnabled())
			assert.NotNil(t, provider.Tracer("drive"))
		})
	}
}
