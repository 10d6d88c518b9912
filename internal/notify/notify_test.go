package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Loading("Processing...", "api-loading")
	assert.Len(t, r.Active(), 1)

	r.Destroy("api-loading")
	r.Success("Created successfully")
	r.Error("Failed to create domain")

	assert.Empty(t, r.Active())
	assert.Equal(t, []Message{
		{Level: LevelSuccess, Content: "Created successfully"},
		{Level: LevelError, Content: "Failed to create domain"},
	}, r.Messages())
	assert.Equal(t, 1, r.Count(LevelLoading))
	assert.Equal(t, 1, r.Count(LevelDestroy))
	assert.Len(t, r.Events(), 4)
}

func TestRecorder_DestroyOnlyMatchingKey(t *testing.T) {
	r := NewRecorder()
	r.Loading("a", "k1")
	r.Loading("b", "k2")
	r.Destroy("k1")

	active := r.Active()
	if assert.Len(t, active, 1) {
		assert.Equal(t, "k2", active[0].Key)
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Loading("Processing...", "api-loading")
	w.Success("Deleted successfully")
	w.Error("Resource not found.")

	assert.Equal(t, "OK    Deleted successfully\nERROR Resource not found.\n", buf.String())

	buf.Reset()
	w.ShowLoading = true
	w.Loading("Processing...", "api-loading")
	assert.Equal(t, "...   Processing...\n", buf.String())
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := Multi{a, b, NewLogNotifier(nil)}

	m.Loading("Processing...", "k")
	m.Destroy("k")
	m.Info("hello")
	m.Warning("careful")

	for _, r := range []*Recorder{a, b} {
		assert.Equal(t, []Message{
			{Level: LevelInfo, Content: "hello"},
			{Level: LevelWarning, Content: "careful"},
		}, r.Messages())
	}
}
