package scraper

import (
	"fmt"
	"sort"
)

// Key identifies which exported metric a Sample belongs to.
type Key string

// Sample keys, one per exported metric.
const (
	KeyEventsDuration          Key = "events_duration"
	KeyEventsIn                Key = "events_in"
	KeyEventsOut               Key = "events_out"
	KeyEventsFiltered          Key = "events_filtered"
	KeyEventsQueuePushDuration Key = "events_queue_push_duration"

	KeyInputsOut               Key = "inputs_out"
	KeyInputsQueuePushDuration Key = "inputs_queue_push_duration"

	KeyFiltersIn           Key = "filters_in"
	KeyFiltersOut          Key = "filters_out"
	KeyFiltersDuration     Key = "filters_duration"
	KeyFiltersGrokMatches  Key = "filters_grok_matches"
	KeyFiltersGrokFailures Key = "filters_grok_failures"

	KeyOutputsIn       Key = "outputs_in"
	KeyOutputsOut      Key = "outputs_out"
	KeyOutputsDuration Key = "outputs_duration"
)

// grokPlugin is the filter name that reports matches/failures.
const grokPlugin = "grok"

// Sample is one labelled value extracted from a node-stats document.
// Labels are ordered to match the metric definition for Key.
type Sample struct {
	Key    Key
	Labels []string
	Value  float64
}

// Walk extracts every exported value from doc.
//
// Pipelines are visited in sorted id order and plugins in the order Logstash
// lists them; callers must not rely on either. A document with no pipelines
// yields no samples and no error. Any missing field fails the whole walk
// with a *SchemaError so that a partial metric set is never produced.
//
// Durations reported in milliseconds are converted to seconds.
func Walk(doc *NodeStats) ([]Sample, error) {
	if doc == nil || len(doc.Pipelines) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(doc.Pipelines))
	for id := range doc.Pipelines {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := &walker{}
	for _, id := range ids {
		if err := w.pipeline(id, doc.Pipelines[id]); err != nil {
			return nil, err
		}
	}
	return w.out, nil
}

type walker struct {
	out []Sample

	// missing is the path of the first absent field seen in the current
	// record; reset by check.
	missing string
}

func (w *walker) emit(key Key, value float64, labels ...string) {
	w.out = append(w.out, Sample{Key: key, Labels: labels, Value: value})
}

// num returns *v, or records path as missing.
func (w *walker) num(v *float64, path string) float64 {
	if v == nil {
		w.note(path)
		return 0
	}
	return *v
}

// seconds is num for millisecond fields.
func (w *walker) seconds(v *float64, path string) float64 {
	return w.num(v, path) / 1000
}

// str is num for string fields. An empty string is a value, not a gap.
func (w *walker) str(s *string, path string) string {
	if s == nil {
		w.note(path)
		return ""
	}
	return *s
}

func (w *walker) note(path string) {
	if w.missing == "" {
		w.missing = path
	}
}

// check returns a SchemaError for the first missing field noted since the
// last call, and resets the marker.
func (w *walker) check() error {
	if w.missing == "" {
		return nil
	}
	err := &SchemaError{Path: w.missing}
	w.missing = ""
	return err
}

func (w *walker) pipeline(id string, p PipelineStats) error {
	base := "pipelines." + id

	ev := p.Events
	if ev == nil {
		return &SchemaError{Path: base + ".events"}
	}
	duration := w.seconds(ev.DurationInMillis, base+".events.duration_in_millis")
	in := w.num(ev.In, base+".events.in")
	out := w.num(ev.Out, base+".events.out")
	filtered := w.num(ev.Filtered, base+".events.filtered")
	queuePush := w.seconds(ev.QueuePushDurationInMillis, base+".events.queue_push_duration_in_millis")
	if err := w.check(); err != nil {
		return err
	}
	w.emit(KeyEventsDuration, duration, id)
	w.emit(KeyEventsIn, in, id)
	w.emit(KeyEventsOut, out, id)
	w.emit(KeyEventsFiltered, filtered, id)
	w.emit(KeyEventsQueuePushDuration, queuePush, id)

	plugins := p.Plugins
	if plugins == nil {
		return &SchemaError{Path: base + ".plugins"}
	}
	switch {
	case plugins.Inputs == nil:
		return &SchemaError{Path: base + ".plugins.inputs"}
	case plugins.Filters == nil:
		return &SchemaError{Path: base + ".plugins.filters"}
	case plugins.Outputs == nil:
		return &SchemaError{Path: base + ".plugins.outputs"}
	}

	for i, pl := range plugins.Inputs {
		if err := w.input(id, fmt.Sprintf("%s.plugins.inputs[%d]", base, i), pl); err != nil {
			return err
		}
	}
	for i, pl := range plugins.Filters {
		if err := w.filter(id, fmt.Sprintf("%s.plugins.filters[%d]", base, i), pl); err != nil {
			return err
		}
	}
	for i, pl := range plugins.Outputs {
		if err := w.output(id, fmt.Sprintf("%s.plugins.outputs[%d]", base, i), pl); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) identity(path string, pl PluginStats) (name, id string, err error) {
	name = w.str(pl.Name, path+".name")
	id = w.str(pl.ID, path+".id")
	if pl.Events == nil {
		w.note(path + ".events")
	}
	return name, id, w.check()
}

func (w *walker) input(pipelineID, path string, pl PluginStats) error {
	name, id, err := w.identity(path, pl)
	if err != nil {
		return err
	}
	out := w.num(pl.Events.Out, path+".events.out")
	queuePush := w.seconds(pl.Events.QueuePushDurationInMillis, path+".events.queue_push_duration_in_millis")
	if err := w.check(); err != nil {
		return err
	}
	w.emit(KeyInputsOut, out, pipelineID, name, id)
	w.emit(KeyInputsQueuePushDuration, queuePush, pipelineID, name, id)
	return nil
}

func (w *walker) filter(pipelineID, path string, pl PluginStats) error {
	name, id, err := w.identity(path, pl)
	if err != nil {
		return err
	}
	in := w.num(pl.Events.In, path+".events.in")
	out := w.num(pl.Events.Out, path+".events.out")
	duration := w.seconds(pl.Events.DurationInMillis, path+".events.duration_in_millis")

	grok := name == grokPlugin
	var matches, failures float64
	if grok {
		matches = w.num(pl.Matches, path+".matches")
		failures = w.num(pl.Failures, path+".failures")
	}
	if err := w.check(); err != nil {
		return err
	}

	w.emit(KeyFiltersIn, in, pipelineID, name, id)
	w.emit(KeyFiltersOut, out, pipelineID, name, id)
	w.emit(KeyFiltersDuration, duration, pipelineID, name, id)
	if grok {
		// The plugin name is always "grok" here, so it is not a label.
		w.emit(KeyFiltersGrokMatches, matches, pipelineID, id)
		w.emit(KeyFiltersGrokFailures, failures, pipelineID, id)
	}
	return nil
}

func (w *walker) output(pipelineID, path string, pl PluginStats) error {
	name, id, err := w.identity(path, pl)
	if err != nil {
		return err
	}
	in := w.num(pl.Events.In, path+".events.in")
	out := w.num(pl.Events.Out, path+".events.out")
	duration := w.seconds(pl.Events.DurationInMillis, path+".events.duration_in_millis")
	if err := w.check(); err != nil {
		return err
	}
	w.emit(KeyOutputsIn, in, pipelineID, name, id)
	w.emit(KeyOutputsOut, out, pipelineID, name, id)
	w.emit(KeyOutputsDuration, duration, pipelineID, name, id)
	return nil
}
