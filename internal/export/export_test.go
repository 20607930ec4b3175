package export

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ltask/internal/registry"
	"ltask/internal/service"
	"ltask/internal/testutil"
)

func TestWrite_GoogleTasksShape(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []service.Task{
		{Name: "Buy milk"},
		{Name: "Write report", Completed: true},
	})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "tasks#tasks", doc["kind"])

	items, ok := doc["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)

	first := items[0].(map[string]any)
	assert.Equal(t, "tasks#task", first["kind"])
	assert.Equal(t, "Buy milk", first["title"])
	assert.Equal(t, "needsAction", first["status"])

	second := items[1].(map[string]any)
	assert.Equal(t, "completed", second["status"])
}

func TestWriteRead_RoundTrip(t *testing.T) {
	in := []service.Task{
		{Name: "a"},
		{Name: "b", Completed: true},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, in))

	out, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRead_SkipsUntitledItems(t *testing.T) {
	doc := `{"kind":"tasks#tasks","items":[{"title":"  "},{"title":" keep ","status":"completed"},null]}`

	out, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []service.Task{{Name: "keep", Completed: true}}, out)
}

func TestRead_RejectsGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("not json"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = Read(strings.NewReader(`{"kind":"tasks#taskList"}`))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestApply_AddsAndCompletes(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	r := registry.New(fs)
	require.NoError(t, r.Initialize(ctx))

	n, err := Apply(ctx, r, []service.Task{
		{Name: "a"},
		{Name: "b", Completed: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []service.Task{{Name: "a"}, {Name: "b", Completed: true}}, r.ListTasks())
}

func TestApply_StopsOnFailure(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	r := registry.New(fs)
	require.NoError(t, r.Initialize(ctx))
	fs.PutErrFor["b"] = testutil.ErrInjected

	n, err := Apply(ctx, r, []service.Task{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrStorageFailure)
	assert.Equal(t, 1, n)
}
