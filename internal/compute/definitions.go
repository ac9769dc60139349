package compute

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/obsidianstack/logstash-exporter/internal/scraper"
)

// Kind is the exposition type of an exported metric.
type Kind int

const (
	KindGauge Kind = iota
	KindCounter
)

func (k Kind) String() string {
	switch k {
	case KindGauge:
		return "gauge"
	case KindCounter:
		return "counter"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ValueType maps k onto the client library's value type.
func (k Kind) ValueType() prometheus.ValueType {
	if k == KindCounter {
		return prometheus.CounterValue
	}
	return prometheus.GaugeValue
}

// Label names, in the order the walker emits label values.
var (
	pipelineLabels = []string{"pipeline_id"}
	pluginLabels   = []string{"pipeline_id", "plugin_name", "plugin_id"}
	grokLabels     = []string{"pipeline_id", "plugin_id"}
)

// Definition is the static description of one exported metric. Definitions
// are built once at package init and never mutated.
type Definition struct {
	Key    scraper.Key
	Name   string
	Help   string
	Labels []string
	Kind   Kind

	desc *prometheus.Desc
}

// Desc returns the prometheus descriptor for d.
func (d *Definition) Desc() *prometheus.Desc { return d.desc }

func define(key scraper.Key, name, help string, labels []string) *Definition {
	return &Definition{
		Key:    key,
		Name:   name,
		Help:   help,
		Labels: labels,
		// Every value Logstash reports here only grows until the process restarts.
		Kind: KindCounter,
		desc: prometheus.NewDesc(name, help, labels, nil),
	}
}

// Definitions lists every exported metric in exposition order.
var Definitions = []*Definition{
	define(scraper.KeyEventsDuration,
		"logstash_pipeline_events_processing_duration_seconds_total",
		"Logstash pipeline events processing total time", pipelineLabels),
	define(scraper.KeyEventsIn,
		"logstash_pipeline_events_processing_in_count",
		"Logstash pipeline incoming events", pipelineLabels),
	define(scraper.KeyEventsOut,
		"logstash_pipeline_events_processing_out_count",
		"Logstash pipeline outgoing events", pipelineLabels),
	define(scraper.KeyEventsFiltered,
		"logstash_pipeline_events_processing_filtered_count",
		"Logstash pipeline filtered events", pipelineLabels),
	define(scraper.KeyEventsQueuePushDuration,
		"logstash_pipeline_events_processing_queue_push_duration_seconds_total",
		"Logstash pipeline events queue push total time", pipelineLabels),

	define(scraper.KeyInputsOut,
		"logstash_pipeline_plugins_inputs_out_count",
		"Logstash pipeline input plugins outgoing events", pluginLabels),
	define(scraper.KeyInputsQueuePushDuration,
		"logstash_pipeline_plugins_inputs_queue_push_duration_seconds_total",
		"Logstash pipeline input plugins queue push total time", pluginLabels),

	define(scraper.KeyFiltersIn,
		"logstash_pipeline_plugins_filters_in_count",
		"Logstash pipeline filters plugins incoming events", pluginLabels),
	define(scraper.KeyFiltersOut,
		"logstash_pipeline_plugins_filters_out_count",
		"Logstash pipeline filters plugins outgoing events", pluginLabels),
	define(scraper.KeyFiltersDuration,
		"logstash_pipeline_plugins_filters_duration_seconds_total",
		"Logstash pipeline filters plugins total processing time", pluginLabels),
	define(scraper.KeyFiltersGrokMatches,
		"logstash_pipeline_plugins_filters_grok_matches_count",
		"Logstash pipeline grok filter plugins matches", grokLabels),
	define(scraper.KeyFiltersGrokFailures,
		"logstash_pipeline_plugins_filters_grok_failures_count",
		"Logstash pipeline grok filter plugins failures", grokLabels),

	define(scraper.KeyOutputsIn,
		"logstash_pipeline_plugins_outputs_in_count",
		"Logstash pipeline outputs plugins incoming events", pluginLabels),
	define(scraper.KeyOutputsOut,
		"logstash_pipeline_plugins_outputs_out_count",
		"Logstash pipeline outputs plugins outgoing events", pluginLabels),
	define(scraper.KeyOutputsDuration,
		"logstash_pipeline_plugins_outputs_duration_seconds_total",
		"Logstash pipeline outputs plugins total processing time", pluginLabels),
}

var definitionsByKey = func() map[scraper.Key]int {
	m := make(map[scraper.Key]int, len(Definitions))
	for i, d := range Definitions {
		m[d.Key] = i
	}
	return m
}()
