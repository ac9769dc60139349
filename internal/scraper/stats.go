package scraper

// NodeStats is the subset of Logstash's GET /_node/stats document the exporter
// reads. Numeric fields are pointers so that a field absent from the payload
// can be told apart from a genuine zero; Walk reports absent fields as a
// SchemaError.
type NodeStats struct {
	Pipelines map[string]PipelineStats `json:"pipelines"`
}

// PipelineStats is one pipeline's snapshot under "pipelines".
type PipelineStats struct {
	Events  *EventsStats  `json:"events"`
	Plugins *PluginsStats `json:"plugins"`
}

// EventsStats holds the event counters reported for a pipeline or a plugin.
// Which fields are required depends on where the record appears:
//
//	pipeline: duration_in_millis, in, out, filtered, queue_push_duration_in_millis
//	input:    out, queue_push_duration_in_millis
//	filter:   in, out, duration_in_millis
//	output:   in, out, duration_in_millis
type EventsStats struct {
	DurationInMillis          *float64 `json:"duration_in_millis"`
	In                        *float64 `json:"in"`
	Out                       *float64 `json:"out"`
	Filtered                  *float64 `json:"filtered"`
	QueuePushDurationInMillis *float64 `json:"queue_push_duration_in_millis"`
}

// PluginsStats groups a pipeline's plugins by stage, in the order Logstash
// reports them.
type PluginsStats struct {
	Inputs  []PluginStats `json:"inputs"`
	Filters []PluginStats `json:"filters"`
	Outputs []PluginStats `json:"outputs"`
}

// PluginStats is one configured plugin instance. Matches and Failures are only
// reported (and only read) for the grok filter. ID and Name are pointers so an
// absent field can be told apart from an empty one.
type PluginStats struct {
	ID       *string      `json:"id"`
	Name     *string      `json:"name"`
	Events   *EventsStats `json:"events"`
	Matches  *float64     `json:"matches"`
	Failures *float64     `json:"failures"`
}
