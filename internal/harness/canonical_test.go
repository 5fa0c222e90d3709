package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"zebra": 1,
		"alpha": 2,
		"mango": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mango":3,"zebra":1}`, string(data))
}

func TestMarshalCanonicalNested(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"trace": []any{
			map[string]any{"seq": int64(1), "ok": true},
		},
		"name": "demo",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"demo","trace":[{"ok":true,"seq":1}]}`, string(data))
}

func TestMarshalCanonicalNFCNormalizesStrings(t *testing.T) {
	// "é" as 'e' + combining acute accent (NFD) must serialize the
	// same as the precomposed form.
	decomposed, err := MarshalCanonical("café")
	require.NoError(t, err)
	precomposed, err := MarshalCanonical("café")
	require.NoError(t, err)
	assert.Equal(t, precomposed, decomposed)
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	data, err := MarshalCanonical("<a> & </a>")
	require.NoError(t, err)
	assert.Equal(t, `"<a> & </a>"`, string(data))
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"x": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float")
}

func TestMarshalCanonicalRejectsNull(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"x": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null")
}

func TestCanonicalTraceStable(t *testing.T) {
	result := &Result{
		Passed:       true,
		SessionToken: "tok-1",
		Trace: []TraceEvent{
			{Seq: 1, Type: EventCall, Op: StepClickMenu, Target: "new-window"},
			{Seq: 2, Type: EventCompletion, Op: StepClickMenu, Outcome: OutcomeOK},
		},
	}
	first, err := CanonicalTrace("demo", result)
	require.NoError(t, err)
	second, err := CanonicalTrace("demo", result)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t,
		`{"passed":true,"scenario":"demo","session_token":"tok-1",`+
			`"trace":[{"op":"click_menu","seq":1,"target":"new-window","type":"call"},`+
			`{"op":"click_menu","outcome":"ok","seq":2,"type":"completion"}]}`,
		string(first))
}
