package tui

import (
	"context"
	"encoding/json"
	"testing"

	"pindrop/internal/models"
	"pindrop/internal/pinclient"
	"pindrop/internal/repository"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	address string
}

func (r stubResolver) ResolveAddress(context.Context, float64, float64) (string, error) {
	return r.address, nil
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func newTestModel(t *testing.T, pins ...models.Pin) (Model, *pinclient.Client, *repository.MemoryStore, *MapView) {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	if len(pins) > 0 {
		b, err := json.Marshal(pins)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, pinclient.StorageKey, string(b)))
	}

	mapView := NewMapView()
	confirm := &Confirmer{}
	client := pinclient.New(ctx, store, stubResolver{address: "MG Road, Bengaluru"},
		pinclient.WithMap(mapView), pinclient.WithConfirmer(confirm))
	return New(ctx, client, mapView, confirm), client, store, mapView
}

// send feeds msg to the model and, when runCmd is set, executes the returned
// command and feeds its message back.
func send(t *testing.T, m Model, msg tea.Msg, runCmd bool) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if runCmd && cmd != nil {
		if out := cmd(); out != nil {
			next, _ = m.Update(out)
			m = next.(Model)
		}
	}
	return m
}

func TestModel_DropPin(t *testing.T) {
	m, client, _, _ := newTestModel(t)

	m = send(t, m, keys("a"), false)
	assert.Equal(t, modeCoords, m.mode)

	m = send(t, m, keys("12.97,77.59"), false)
	m = send(t, m, enter, false)
	assert.Equal(t, modeRemark, m.mode)

	draft, ok := client.Draft()
	require.True(t, ok)
	assert.Equal(t, models.Coordinates{Latitude: 12.97, Longitude: 77.59}, draft.Coordinates)

	m = send(t, m, keys("Lunch spot"), false)
	draft, _ = client.Draft()
	assert.Equal(t, "Lunch spot", draft.Remark)

	m = send(t, m, enter, true)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Zero(t, m.inFlight)
	assert.Empty(t, m.err)

	assert.Equal(t, []models.Pin{{Latitude: 12.97, Longitude: 77.59, Remark: "Lunch spot", Address: "MG Road, Bengaluru"}}, client.Pins())
	assert.Len(t, m.list.Items(), 1)
	assert.Contains(t, m.View(), "Lunch spot")
}

func TestModel_InvalidCoordinates(t *testing.T) {
	m, client, _, _ := newTestModel(t)

	m = send(t, m, keys("a"), false)
	m = send(t, m, keys("north"), false)
	m = send(t, m, enter, false)

	assert.Equal(t, modeCoords, m.mode)
	assert.NotEmpty(t, m.err)
	_, ok := client.Draft()
	assert.False(t, ok)
}

func TestModel_SelectFliesMap(t *testing.T) {
	pin := models.Pin{Latitude: 48.8584, Longitude: 2.2945, Remark: "tower", Address: "Paris"}
	m, client, _, mapView := newTestModel(t, pin)

	m = send(t, m, enter, false)

	center, zoom := mapView.Camera()
	assert.Equal(t, pin.Coordinates(), center)
	assert.Equal(t, pinclient.FocusZoom, zoom)
	_, index, ok := client.Selected()
	assert.True(t, ok)
	assert.Equal(t, 0, index)
	assert.True(t, m.list.Items()[0].(pinItem).selected)
}

func TestModel_EditRemark(t *testing.T) {
	pin := models.Pin{Latitude: 1, Longitude: 2, Remark: "old", Address: "addr"}
	m, client, _, _ := newTestModel(t, pin)

	m = send(t, m, keys("e"), false)
	assert.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "old", m.input.Value())

	m = send(t, m, keys(" and new"), false)
	m = send(t, m, enter, false)

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "old and new", client.Pins()[0].Remark)
	assert.Equal(t, "addr", client.Pins()[0].Address)
}

func TestModel_CancelEdit(t *testing.T) {
	pin := models.Pin{Latitude: 1, Longitude: 2, Remark: "old"}
	m, client, _, _ := newTestModel(t, pin)

	m = send(t, m, keys("e"), false)
	m = send(t, m, keys("xyz"), false)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc}, false)

	assert.Equal(t, modeBrowse, m.mode)
	_, editing := client.Editing()
	assert.False(t, editing)
	assert.Equal(t, "old", client.Pins()[0].Remark)
}

func TestModel_Delete(t *testing.T) {
	a := models.Pin{Latitude: 1, Longitude: 1, Remark: "a"}
	b := models.Pin{Latitude: 2, Longitude: 2, Remark: "b"}
	m, client, _, _ := newTestModel(t, a, b)

	m = send(t, m, keys("d"), false)
	assert.Equal(t, []models.Pin{b}, client.Pins())
	assert.Len(t, m.list.Items(), 1)
}

func TestModel_ClearAll(t *testing.T) {
	a := models.Pin{Latitude: 1, Longitude: 1, Remark: "a"}

	t.Run("declined", func(t *testing.T) {
		m, client, _, _ := newTestModel(t, a)
		m = send(t, m, keys("C"), false)
		assert.Equal(t, modeConfirmClear, m.mode)
		assert.Contains(t, m.View(), pinclient.ClearAllPrompt)

		m = send(t, m, keys("n"), true)
		assert.Equal(t, modeBrowse, m.mode)
		assert.Len(t, client.Pins(), 1)
	})

	t.Run("confirmed", func(t *testing.T) {
		m, client, store, _ := newTestModel(t, a)
		m = send(t, m, keys("C"), false)
		m = send(t, m, keys("y"), true)

		assert.Empty(t, client.Pins())
		assert.Empty(t, m.list.Items())
		_, ok, err := store.Get(context.Background(), pinclient.StorageKey)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, m.View(), "No pins saved yet.")
	})
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		in          string
		expected    models.Coordinates
		expectError bool
	}{
		{in: "12.97,77.59", expected: models.Coordinates{Latitude: 12.97, Longitude: 77.59}},
		{in: " -33.86 , 151.2 ", expected: models.Coordinates{Latitude: -33.86, Longitude: 151.2}},
		{in: "1 2", expected: models.Coordinates{Latitude: 1, Longitude: 2}},
		{in: "1", expectError: true},
		{in: "a,b", expectError: true},
		{in: "91,0", expectError: true},
		{in: "0,181", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCoordinates(tt.in)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
