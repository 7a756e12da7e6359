// Package pinclient keeps the list of saved pins, the draft pin being composed
// and the selection/edit state, and mirrors every change of the saved list
// into a Store before it becomes visible.
package pinclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"pindrop/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	// StorageKey is the store entry holding the JSON encoded pin list.
	StorageKey = "pins"
	// FocusZoom is the zoom level used when the map flies to a selected pin.
	FocusZoom = 14

	AddressNotFound   = "Address not found"
	AddressFetchError = "Address fetch error"

	ClearAllPrompt = "Are you sure you want to delete all pins?"
)

var (
	ErrNoDraft         = errors.New("pinclient: no draft pin")
	ErrNotEditing      = errors.New("pinclient: no edit in progress")
	ErrIndexOutOfRange = errors.New("pinclient: pin index out of range")
	ErrEditInProgress  = errors.New("pinclient: finish or cancel the open edit first")
)

// Draft is a pin that has coordinates but has not been saved yet.
type Draft struct {
	Coordinates models.Coordinates
	Remark      string
}

// Edit is an open remark edit of the pin at Index.
type Edit struct {
	Index  int
	Remark string
}

// Client is the pin list state machine. All methods are safe for concurrent
// use; mutations are serialized so store writes happen in call order.
type Client struct {
	mu sync.Mutex

	store    Store
	resolver AddressResolver
	view     Map
	confirm  Confirmer

	pins []models.Pin

	draft    *Draft
	draftSeq uint64

	selected int
	focused  *models.Coordinates

	edit *Edit
}

// Option configures a Client.
type Option func(*Client)

// WithMap sets the map the client focuses on selection.
func WithMap(m Map) Option {
	return func(c *Client) { c.view = m }
}

// WithConfirmer sets the prompt used by ClearAll. Without one ClearAll never proceeds.
func WithConfirmer(confirm Confirmer) Option {
	return func(c *Client) { c.confirm = confirm }
}

// New creates a client and loads the saved pins from store.
func New(ctx context.Context, store Store, resolver AddressResolver, opts ...Option) *Client {
	c := &Client{
		store:    store,
		resolver: resolver,
		view:     noopMap{},
		selected: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pins = c.load(ctx)
	return c
}

// load never fails: a missing, unreadable or malformed entry is an empty list.
func (c *Client) load(ctx context.Context) []models.Pin {
	raw, ok, err := c.store.Get(ctx, StorageKey)
	if err != nil {
		log.Debug().Err(err).Msg("pinclient: cannot read saved pins, starting empty")
		return []models.Pin{}
	}
	if !ok {
		return []models.Pin{}
	}

	var pins []models.Pin
	if err := json.Unmarshal([]byte(raw), &pins); err != nil {
		log.Debug().Err(err).Msg("pinclient: saved pins are malformed, starting empty")
		return []models.Pin{}
	}
	if pins == nil {
		pins = []models.Pin{}
	}
	return pins
}

// persist writes the full list. Callers hold c.mu.
func (c *Client) persist(ctx context.Context, pins []models.Pin) error {
	b, err := json.Marshal(pins)
	if err != nil {
		return fmt.Errorf("pinclient: failed to encode pins: %w", err)
	}
	if err := c.store.Set(ctx, StorageKey, string(b)); err != nil {
		return fmt.Errorf("pinclient: failed to save pins: %w", err)
	}
	return nil
}

// Pins returns a copy of the saved pins in display order.
func (c *Client) Pins() []models.Pin {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.pins)
}

// Len returns the number of saved pins.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pins)
}

// StartDraft begins a new draft at coords with an empty remark, replacing any
// unsaved draft.
func (c *Client) StartDraft(coords models.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = &Draft{Coordinates: coords}
	c.draftSeq++
}

// SetDraftRemark updates the remark typed into the draft form.
func (c *Client) SetDraftRemark(remark string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return ErrNoDraft
	}
	c.draft.Remark = remark
	return nil
}

// Draft returns the current draft, if any.
func (c *Client) Draft() (Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return Draft{}, false
	}
	return *c.draft, true
}

// SubmitDraft saves the draft with remark. The address lookup runs without
// holding the client lock; the coordinates used are the ones captured when the
// call started, even if a new draft is started meanwhile. A failed lookup
// stores AddressFetchError as the address and still saves the pin.
func (c *Client) SubmitDraft(ctx context.Context, remark string) (models.Pin, error) {
	c.mu.Lock()
	if c.draft == nil {
		c.mu.Unlock()
		return models.Pin{}, ErrNoDraft
	}
	coords := c.draft.Coordinates
	seq := c.draftSeq
	c.mu.Unlock()

	pin := models.Pin{
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Remark:    remark,
		Address:   c.resolveAddress(ctx, coords),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	updated := append(slices.Clone(c.pins), pin)
	if err := c.persist(ctx, updated); err != nil {
		return models.Pin{}, err
	}
	c.pins = updated

	// a newer click owns the draft now
	if c.draftSeq == seq {
		c.draft = nil
	}
	return pin, nil
}

func (c *Client) resolveAddress(ctx context.Context, coords models.Coordinates) string {
	address, err := c.resolver.ResolveAddress(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		log.Warn().Err(err).
			Float64("lat", coords.Latitude).
			Float64("lng", coords.Longitude).
			Msg("address fetch failed")
		return AddressFetchError
	}
	return address
}

// DeletePin removes the pin at index and clears the selection.
func (c *Client) DeletePin(ctx context.Context, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.edit != nil {
		return ErrEditInProgress
	}
	if index < 0 || index >= len(c.pins) {
		return ErrIndexOutOfRange
	}

	updated := slices.Delete(slices.Clone(c.pins), index, index+1)
	if err := c.persist(ctx, updated); err != nil {
		return err
	}
	c.pins = updated
	c.clearSelection()
	return nil
}

// ClearAll removes every pin after the user confirms. It reports whether the
// list was cleared; a declined prompt is not an error.
func (c *Client) ClearAll(ctx context.Context) (bool, error) {
	c.mu.Lock()
	editing := c.edit != nil
	confirm := c.confirm
	c.mu.Unlock()

	if editing {
		return false, ErrEditInProgress
	}
	if confirm == nil || !confirm.Confirm(ClearAllPrompt) {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.edit != nil {
		return false, ErrEditInProgress
	}
	if err := c.store.Remove(ctx, StorageKey); err != nil {
		return false, fmt.Errorf("pinclient: failed to clear pins: %w", err)
	}
	c.pins = []models.Pin{}
	c.clearSelection()
	return true, nil
}

// StartEdit opens an edit of the remark of the pin at index. Any other open
// edit is abandoned.
func (c *Client) StartEdit(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.pins) {
		return ErrIndexOutOfRange
	}
	c.edit = &Edit{Index: index, Remark: c.pins[index].Remark}
	return nil
}

// SetEditRemark updates the text of the open edit.
func (c *Client) SetEditRemark(remark string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit == nil {
		return ErrNotEditing
	}
	c.edit.Remark = remark
	return nil
}

// Editing returns the open edit, if any.
func (c *Client) Editing() (Edit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit == nil {
		return Edit{}, false
	}
	return *c.edit, true
}

// SaveEdit writes the edited remark into the pin and closes the edit.
// Coordinates and address are left untouched.
func (c *Client) SaveEdit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.edit == nil {
		return ErrNotEditing
	}

	updated := slices.Clone(c.pins)
	updated[c.edit.Index].Remark = c.edit.Remark
	if err := c.persist(ctx, updated); err != nil {
		return err
	}
	c.pins = updated
	c.edit = nil
	return nil
}

// CancelEdit closes the open edit without saving. It is a no-op when nothing is edited.
func (c *Client) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit = nil
}

// SelectPin selects the pin at index and flies the map to it. Selecting a pin
// at the coordinates already in focus does not move the map again.
func (c *Client) SelectPin(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.pins) {
		return ErrIndexOutOfRange
	}
	c.selected = index

	coords := c.pins[index].Coordinates()
	if c.focused != nil && *c.focused == coords {
		return nil
	}
	c.focused = &coords
	c.view.FlyTo(coords, FocusZoom)
	return nil
}

// Selected returns the selected pin and its index.
func (c *Client) Selected() (models.Pin, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 {
		return models.Pin{}, -1, false
	}
	return c.pins[c.selected], c.selected, true
}

// clearSelection also forgets the focus, so selecting again flies again.
func (c *Client) clearSelection() {
	c.selected = -1
	c.focused = nil
}
