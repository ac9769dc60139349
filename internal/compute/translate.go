package compute

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/obsidianstack/logstash-exporter/internal/scraper"
)

// Observation is one labelled value of a Family.
type Observation struct {
	Labels []string
	Value  float64
}

// Family is the per-poll instance of a Definition: the observations gathered
// for it during one scrape, in walk order.
type Family struct {
	Def          *Definition
	Observations []Observation

	seen map[string]struct{}
}

// MetricSet is the result of one translation. It holds one Family per
// Definition, including families with no observations.
type MetricSet struct {
	Families []*Family

	// Duplicates counts samples dropped because their family already held an
	// observation with the same label values.
	Duplicates int
}

// NewMetricSet returns a MetricSet with an empty Family for every Definition.
func NewMetricSet() *MetricSet {
	set := &MetricSet{Families: make([]*Family, len(Definitions))}
	for i, d := range Definitions {
		set.Families[i] = &Family{Def: d}
	}
	return set
}

// Len returns the total number of observations across all families.
func (s *MetricSet) Len() int {
	n := 0
	for _, f := range s.Families {
		n += len(f.Observations)
	}
	return n
}

// Translate appends each sample to the family of its key. It is pure: the
// result depends only on samples and the static Definitions.
//
// When two samples share a key and label values, the first one wins and the
// rest are counted in Duplicates. Logstash does not guarantee plugin ids are
// unique and the exposition format cannot carry the same series twice.
func Translate(samples []scraper.Sample) (*MetricSet, error) {
	set := NewMetricSet()
	for _, s := range samples {
		idx, ok := definitionsByKey[s.Key]
		if !ok {
			return nil, fmt.Errorf("translate: unknown metric key %q", s.Key)
		}
		f := set.Families[idx]
		if len(s.Labels) != len(f.Def.Labels) {
			return nil, fmt.Errorf("translate: %s: got %d label values, want %d",
				f.Def.Name, len(s.Labels), len(f.Def.Labels))
		}
		if !f.add(s.Labels, s.Value) {
			set.Duplicates++
		}
	}
	return set, nil
}

// add records an observation; it returns false if labels were already seen.
func (f *Family) add(labels []string, value float64) bool {
	// \xff cannot appear in valid UTF-8 label values.
	sig := strings.Join(labels, "\xff")
	if f.seen == nil {
		f.seen = make(map[string]struct{})
	}
	if _, dup := f.seen[sig]; dup {
		return false
	}
	f.seen[sig] = struct{}{}
	f.Observations = append(f.Observations, Observation{Labels: labels, Value: value})
	return true
}

// Metrics converts the set into constant metrics ready to be sent on a
// prometheus.Collector channel.
func (s *MetricSet) Metrics() ([]prometheus.Metric, error) {
	out := make([]prometheus.Metric, 0, s.Len())
	for _, f := range s.Families {
		for _, o := range f.Observations {
			m, err := prometheus.NewConstMetric(f.Def.desc, f.Def.Kind.ValueType(), o.Value, o.Labels...)
			if err != nil {
				return nil, fmt.Errorf("translate: %s: %w", f.Def.Name, err)
			}
			out = append(out, m)
		}
	}
	return out, nil
}
