package statsd

import (
	"sort"
	"strings"
	"sync"

	"github.com/goto/salt/log"
)

// Metric represents a statsd metric. Every method is a no-op on a nil
// Metric, which is what a disabled Reporter hands out.
type Metric struct {
	logger        log.Logger
	name          string
	rate          float64
	tags          map[string]string
	withInfluxTag bool
	pending       *sync.WaitGroup
	publishFunc   func(name string, tags []string, rate float64) error
}

// Success tags the metric as successful.
func (m *Metric) Success() *Metric {
	return m.Tag("success", "true")
}

// Failure tags the metric as failure.
func (m *Metric) Failure(err error) *Metric {
	return m.Tag("success", "false")
}

// Result tags the metric as success or failure depending on err.
func (m *Metric) Result(err error) *Metric {
	if err != nil {
		return m.Failure(err)
	}
	return m.Success()
}

// Tag adds a tag to the metric.
func (m *Metric) Tag(key string, val string) *Metric {
	if m == nil {
		return nil
	}

	if m.tags == nil {
		m.tags = map[string]string{}
	}

	m.tags[key] = val
	return m
}

// Publish publishes the metric with collected tags. Intended to
// be used with defer.
func (m *Metric) Publish() {
	if m == nil {
		return
	}

	name, tags := m.format()
	if m.pending != nil {
		m.pending.Add(1)
	}
	go func() {
		if m.pending != nil {
			defer m.pending.Done()
		}
		if err := m.publishFunc(name, tags, m.rate); err != nil {
			m.logger.Warn("failed to publish metric", "name", name, "err", err)
		}
	}()
}

// format returns the metric name and datadog tags, tags sorted by key.
// With the influx format the tags are folded into the name instead.
func (m *Metric) format() (string, []string) {
	keys := make([]string, 0, len(m.tags))
	for k := range m.tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if m.withInfluxTag {
		var b strings.Builder
		b.WriteString(m.name)
		for _, k := range keys {
			b.WriteString("," + k + "=" + m.tags[k])
		}
		return b.String(), nil
	}

	tags := make([]string, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, k+":"+m.tags[k])
	}
	return m.name, tags
}
