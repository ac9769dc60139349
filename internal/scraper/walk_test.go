package scraper

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func decodeStats(t *testing.T, body string) *NodeStats {
	t.Helper()
	var ns NodeStats
	if err := json.Unmarshal([]byte(body), &ns); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return &ns
}

// byKey indexes samples by key; each key is expected at most once.
func byKey(t *testing.T, samples []Sample) map[Key]Sample {
	t.Helper()
	m := make(map[Key]Sample, len(samples))
	for _, s := range samples {
		if _, dup := m[s.Key]; dup {
			t.Fatalf("key %s emitted more than once", s.Key)
		}
		m[s.Key] = s
	}
	return m
}

func TestWalk_GrokScenario(t *testing.T) {
	doc := decodeStats(t, `{"pipelines": {"main": {
	  "events": {"duration_in_millis": 2000, "in": 10, "out": 8, "filtered": 2, "queue_push_duration_in_millis": 100},
	  "plugins": {"inputs": [],
	    "filters": [{"name":"grok","id":"g1","events":{"in":5,"out":4,"duration_in_millis":50}, "matches":3,"failures":1}],
	    "outputs": []}}}}`)

	samples, err := Walk(doc)
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	if len(samples) != 10 {
		t.Fatalf("samples = %d, want 10", len(samples))
	}

	m := byKey(t, samples)
	cases := []struct {
		key    Key
		value  float64
		labels []string
	}{
		{KeyEventsDuration, 2.0, []string{"main"}},
		{KeyEventsIn, 10, []string{"main"}},
		{KeyEventsOut, 8, []string{"main"}},
		{KeyEventsFiltered, 2, []string{"main"}},
		{KeyEventsQueuePushDuration, 0.1, []string{"main"}},
		{KeyFiltersIn, 5, []string{"main", "grok", "g1"}},
		{KeyFiltersOut, 4, []string{"main", "grok", "g1"}},
		{KeyFiltersDuration, 0.05, []string{"main", "grok", "g1"}},
		{KeyFiltersGrokMatches, 3, []string{"main", "g1"}},
		{KeyFiltersGrokFailures, 1, []string{"main", "g1"}},
	}
	for _, c := range cases {
		s, ok := m[c.key]
		if !ok {
			t.Errorf("%s: not emitted", c.key)
			continue
		}
		if s.Value != c.value {
			t.Errorf("%s: value = %v, want %v", c.key, s.Value, c.value)
		}
		if !reflect.DeepEqual(s.Labels, c.labels) {
			t.Errorf("%s: labels = %v, want %v", c.key, s.Labels, c.labels)
		}
	}
}

func TestWalk_SampleCount(t *testing.T) {
	doc := decodeStats(t, nodeStatsJSON)
	samples, err := Walk(doc)
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	// 5 events + 2*1 input + (5 grok + 3 mutate) + 3*1 output
	if want := 5 + 2 + 8 + 3; len(samples) != want {
		t.Errorf("samples = %d, want %d", len(samples), want)
	}
}

func TestWalk_MultiplePipelines(t *testing.T) {
	doc := decodeStats(t, `{"pipelines": {
	  "b": {"events": {"duration_in_millis": 0, "in": 0, "out": 0, "filtered": 0, "queue_push_duration_in_millis": 0},
	        "plugins": {"inputs": [{"id":"i","name":"stdin","events":{"out":1,"queue_push_duration_in_millis":0}}], "filters": [], "outputs": []}},
	  "a": {"events": {"duration_in_millis": 0, "in": 0, "out": 0, "filtered": 0, "queue_push_duration_in_millis": 0},
	        "plugins": {"inputs": [], "filters": [], "outputs": [{"id":"o","name":"stdout","events":{"in":1,"out":1,"duration_in_millis":3}}]}}
	}}`)

	samples, err := Walk(doc)
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	if want := 5*2 + 2 + 3; len(samples) != want {
		t.Fatalf("samples = %d, want %d", len(samples), want)
	}
	for _, s := range samples {
		if s.Key == KeyOutputsDuration {
			if s.Labels[0] != "a" || s.Value != 0.003 {
				t.Errorf("outputs duration = %v %v, want [a stdout o] 0.003", s.Labels, s.Value)
			}
		}
		if s.Key == KeyInputsOut && s.Labels[0] != "b" {
			t.Errorf("inputs out labelled with pipeline %q, want b", s.Labels[0])
		}
	}
}

func TestWalk_DurationConversion(t *testing.T) {
	doc := decodeStats(t, `{"pipelines": {"main": {
	  "events": {"duration_in_millis": 1500, "in": 0, "out": 0, "filtered": 0, "queue_push_duration_in_millis": 1},
	  "plugins": {"inputs": [], "filters": [], "outputs": []}}}}`)
	samples, err := Walk(doc)
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	m := byKey(t, samples)
	if got := m[KeyEventsDuration].Value; got != 1.5 {
		t.Errorf("duration = %v, want 1.5", got)
	}
	if got := m[KeyEventsQueuePushDuration].Value; got != 0.001 {
		t.Errorf("queue push duration = %v, want 0.001", got)
	}
}

func TestWalk_EmptyPipelines(t *testing.T) {
	for _, body := range []string{`{}`, `{"pipelines": {}}`, `{"pipelines": null}`} {
		samples, err := Walk(decodeStats(t, body))
		if err != nil {
			t.Errorf("%s: Walk error: %v", body, err)
		}
		if len(samples) != 0 {
			t.Errorf("%s: samples = %d, want 0", body, len(samples))
		}
	}
	if samples, err := Walk(nil); err != nil || samples != nil {
		t.Errorf("Walk(nil) = %v, %v; want nil, nil", samples, err)
	}
}

func TestWalk_MissingFields(t *testing.T) {
	const events = `"events": {"duration_in_millis": 1, "in": 1, "out": 1, "filtered": 1, "queue_push_duration_in_millis": 1}`
	cases := []struct {
		name string
		body string
		path string
	}{
		{
			name: "pipeline events",
			body: `{"pipelines":{"main":{"plugins":{"inputs":[],"filters":[],"outputs":[]}}}}`,
			path: "pipelines.main.events",
		},
		{
			name: "pipeline events field",
			body: `{"pipelines":{"main":{"events":{"duration_in_millis":1,"in":1,"out":1,"queue_push_duration_in_millis":1},"plugins":{"inputs":[],"filters":[],"outputs":[]}}}}`,
			path: "pipelines.main.events.filtered",
		},
		{
			name: "plugins",
			body: `{"pipelines":{"main":{` + events + `}}}`,
			path: "pipelines.main.plugins",
		},
		{
			name: "filters list",
			body: `{"pipelines":{"main":{` + events + `,"plugins":{"inputs":[],"outputs":[]}}}}`,
			path: "pipelines.main.plugins.filters",
		},
		{
			name: "input queue push",
			body: `{"pipelines":{"main":{` + events + `,"plugins":{"inputs":[{"id":"i","name":"beats","events":{"out":1}}],"filters":[],"outputs":[]}}}}`,
			path: "pipelines.main.plugins.inputs[0].events.queue_push_duration_in_millis",
		},
		{
			name: "filter in",
			body: `{"pipelines":{"main":{` + events + `,"plugins":{"inputs":[],"filters":[{"id":"m","name":"mutate","events":{"out":1,"duration_in_millis":1}}],"outputs":[]}}}}`,
			path: "pipelines.main.plugins.filters[0].events.in",
		},
		{
			name: "grok failures",
			body: `{"pipelines":{"main":{` + events + `,"plugins":{"inputs":[],"filters":[{"id":"g","name":"grok","events":{"in":1,"out":1,"duration_in_millis":1},"matches":1}],"outputs":[]}}}}`,
			path: "pipelines.main.plugins.filters[0].failures",
		},
		{
			name: "output id",
			body: `{"pipelines":{"main":{` + events + `,"plugins":{"inputs":[],"filters":[],"outputs":[{"name":"stdout","events":{"in":1,"out":1,"duration_in_millis":1}}]}}}}`,
			path: "pipelines.main.plugins.outputs[0].id",
		},
		{
			name: "plugin events",
			body: `{"pipelines":{"main":{` + events + `,"plugins":{"inputs":[],"filters":[],"outputs":[{"id":"o","name":"stdout"}]}}}}`,
			path: "pipelines.main.plugins.outputs[0].events",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			samples, err := Walk(decodeStats(t, c.body))
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v (%T), want *SchemaError", err, err)
			}
			if se.Path != c.path {
				t.Errorf("path = %q, want %q", se.Path, c.path)
			}
			if samples != nil {
				t.Errorf("samples = %d, want none on error", len(samples))
			}
		})
	}
}

func TestWalk_NonGrokIgnoresMatches(t *testing.T) {
	doc := decodeStats(t, `{"pipelines": {"main": {
	  "events": {"duration_in_millis": 0, "in": 0, "out": 0, "filtered": 0, "queue_push_duration_in_millis": 0},
	  "plugins": {"inputs": [], "filters": [{"id":"d","name":"dissect","events":{"in":1,"out":1,"duration_in_millis":1},"matches":9}], "outputs": []}}}}`)
	samples, err := Walk(doc)
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	for _, s := range samples {
		if s.Key == KeyFiltersGrokMatches || s.Key == KeyFiltersGrokFailures {
			t.Errorf("non-grok filter emitted %s", s.Key)
		}
	}
	if len(samples) != 8 {
		t.Errorf("samples = %d, want 8", len(samples))
	}
}

func TestWalk_EmptyIdentityExported(t *testing.T) {
	doc := decodeStats(t, `{"pipelines": {"main": {
	  "events": {"duration_in_millis": 0, "in": 0, "out": 0, "filtered": 0, "queue_push_duration_in_millis": 0},
	  "plugins": {"inputs": [{"id":"","name":"beats","events":{"out":4,"queue_push_duration_in_millis":0}}],
	              "filters": [], "outputs": [{"id":"o","name":"","events":{"in":1,"out":1,"duration_in_millis":1}}]}}}}`)
	samples, err := Walk(doc)
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	m := byKey(t, samples)

	in, ok := m[KeyInputsOut]
	if !ok {
		t.Fatal("inputs out sample missing")
	}
	if want := []string{"main", "beats", ""}; !reflect.DeepEqual(in.Labels, want) {
		t.Errorf("inputs labels = %q, want %q", in.Labels, want)
	}
	if in.Value != 4 {
		t.Errorf("inputs out = %v, want 4", in.Value)
	}

	out, ok := m[KeyOutputsIn]
	if !ok {
		t.Fatal("outputs in sample missing")
	}
	if want := []string{"main", "", "o"}; !reflect.DeepEqual(out.Labels, want) {
		t.Errorf("outputs labels = %q, want %q", out.Labels, want)
	}
}
