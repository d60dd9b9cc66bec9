package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{
		Enabled:     false,
		ServiceName: "facturo-backend",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{
		Enabled:     false,
		ServiceName: "facturo-backend",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.ForceFlush(context.Background()))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricInstruments(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	meter := mp.Meter("test")
	ctx := context.Background()

	counter, err := NewCounter(meter, "invoices_created_total", "Invoices created", "{invoice}")
	require.NoError(t, err)
	counter.Inc(ctx, AttrSellerID.String("s-1"))
	counter.Add(ctx, 3)

	histogram, err := NewHistogram(meter, HistogramOpts{
		Name:        "http_request_duration_seconds",
		Description: "HTTP request duration",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	require.NoError(t, err)
	histogram.Record(ctx, 0.042, AttrHTTPMethod.String("GET"))
	histogram.RecordDuration(ctx, 25*time.Millisecond)

	gauge, err := NewGauge(meter, "outbox_pending_entries", "Pending outbox entries", "{entry}")
	require.NoError(t, err)
	gauge.Record(ctx, 7)
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "facturo", cfg.DBName)
}

func TestDBTracingPlugin_Register(t *testing.T) {
	newDB := func(t *testing.T) *gorm.DB {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err)
		return db
	}

	t.Run("disabled is a no-op", func(t *testing.T) {
		plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
		assert.NoError(t, plugin.Register(newDB(t)))
	})

	t.Run("enabled registers callbacks", func(t *testing.T) {
		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		plugin := NewDBTracingPlugin(cfg, zap.NewNop())

		db := newDB(t)
		require.NoError(t, plugin.Register(db))

		// Queries must still work with the callbacks installed
		type record struct {
			ID   uint
			Name string
		}
		require.NoError(t, db.AutoMigrate(&record{}))
		require.NoError(t, db.Create(&record{Name: "probe"}).Error)

		var got record
		require.NoError(t, db.First(&got, "name = ?", "probe").Error)
		assert.Equal(t, "probe", got.Name)
	})
}
