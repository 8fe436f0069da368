package statsd

import (
	"sync"
	"time"

	std "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/goto/salt/log"
)

// Reporter publishes search metrics to a statsd agent. A nil or disabled
// reporter accepts every call and publishes nothing.
type Reporter struct {
	client std.ClientInterface
	logger log.Logger
	config Config

	// pending tracks publishes still in flight
	pending sync.WaitGroup
}

// Init validates the config and initializes the statsd client.
func Init(logger log.Logger, cfg Config) (*Reporter, error) {
	reporter := &Reporter{logger: logger, config: cfg}
	if !cfg.Enabled {
		logger.Warn("statsd is disabled")
		return reporter, nil
	}

	client, err := std.New(cfg.Address,
		std.WithNamespace(cfg.Prefix),
		std.WithoutTelemetry())
	if err != nil {
		return nil, err
	}

	reporter.client = client
	return reporter, nil
}

// Close waits for pending publishes, then flushes and closes the statsd
// connection.
func (sd *Reporter) Close() error {
	if sd == nil || sd.client == nil {
		return nil
	}
	sd.pending.Wait()
	return sd.client.Close()
}

// Incr returns a increment counter metric.
func (sd *Reporter) Incr(name string) *Metric {
	return sd.newMetric(name, func(client std.ClientInterface, name string, tags []string, rate float64) error {
		return client.Incr(name, tags, rate)
	})
}

// Timing returns a timer metric.
func (sd *Reporter) Timing(name string, value time.Duration) *Metric {
	return sd.newMetric(name, func(client std.ClientInterface, name string, tags []string, rate float64) error {
		return client.Timing(name, value, tags, rate)
	})
}

// Histogram creates and returns a histogram metric.
func (sd *Reporter) Histogram(name string, value float64) *Metric {
	return sd.newMetric(name, func(client std.ClientInterface, name string, tags []string, rate float64) error {
		return client.Histogram(name, value, tags, rate)
	})
}

type publishFunc func(client std.ClientInterface, name string, tags []string, rate float64) error

func (sd *Reporter) newMetric(name string, publish publishFunc) *Metric {
	if sd == nil || sd.client == nil {
		return nil
	}
	return &Metric{
		rate:          sd.config.SamplingRate,
		logger:        sd.logger,
		name:          name,
		withInfluxTag: sd.config.WithInfluxTagFormat,
		pending:       &sd.pending,
		publishFunc: func(name string, tags []string, rate float64) error {
			return publish(sd.client, name, tags, rate)
		},
	}
}
