package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8080, cfg.HTTP.Port)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, time.Minute, cfg.Cache.DefaultTTL)

	assert.Equal(t, "kafka", cfg.Messaging.Driver)
	assert.Equal(t, "orders.events", cfg.Messaging.Kafka.Topic)
	assert.Equal(t, "comanda-kitchen", cfg.Messaging.ConsumerGroup)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.NotEmpty(t, cfg.Database.WriterDSN)
	assert.Equal(t, cfg.Database.WriterDSN, cfg.Database.ReaderDSN, "reader falls back to writer DSN")

	assert.Equal(t, "comanda", cfg.Observability.ServiceName)
	assert.Equal(t, "/metrics", cfg.Observability.PrometheusPath)

	assert.Equal(t, "Comanda", cfg.Restaurant.Name)
	assert.Equal(t, "http://localhost:8080", cfg.Restaurant.PublicURL)
	assert.Zero(t, cfg.Restaurant.TaxRate)

	assert.Equal(t, "exports", cfg.Report.ExportDir)
	assert.Equal(t, "qr_codes", cfg.QR.OutputDir)
}

func TestNewOverridesFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RESTAURANT_NAME", "La Terraza")
	t.Setenv("RESTAURANT_CURRENCY", "EUR")
	t.Setenv("RESTAURANT_TAX_RATE", "0.21")
	t.Setenv("RESTAURANT_PUBLIC_URL", "http://192.168.1.20:8080/")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "La Terraza", cfg.Restaurant.Name)
	assert.Equal(t, "EUR", cfg.Restaurant.Currency)
	assert.InDelta(t, 0.21, cfg.Restaurant.TaxRate, 1e-9)
	assert.Equal(t, "http://192.168.1.20:8080", cfg.Restaurant.PublicURL, "trailing slash trimmed")
}

func TestNewDisabledBackendsFallToNoop(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("MESSAGING_ENABLED", "false")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "noop", cfg.Cache.Driver)
	assert.Equal(t, "noop", cfg.Messaging.Driver)
}

func TestNewRejectsInvalidValues(t *testing.T) {
	t.Run("negative tax rate", func(t *testing.T) {
		t.Setenv("RESTAURANT_TAX_RATE", "-0.1")
		_, err := New()
		assert.Error(t, err)
	})

	t.Run("unsupported cache driver", func(t *testing.T) {
		t.Setenv("CACHE_DRIVER", "memcached")
		_, err := New()
		assert.Error(t, err)
	})

	t.Run("unsupported messaging driver", func(t *testing.T) {
		t.Setenv("MESSAGING_DRIVER", "rabbitmq")
		_, err := New()
		assert.Error(t, err)
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "-1")
		_, err := New()
		assert.Error(t, err)
	})
}
