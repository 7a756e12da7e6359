// Package tui is the interactive terminal front end of the pin client.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"pindrop/internal/models"
	"pindrop/internal/pinclient"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

type mode int

const (
	modeBrowse mode = iota
	modeCoords
	modeRemark
	modeEdit
	modeConfirmClear
)

// Confirmer answers the clear-all prompt with what the user typed in the
// inline y/n bar. Each answer is consumed by one Confirm call.
type Confirmer struct {
	answer atomic.Bool
}

// Confirm implements pinclient.Confirmer.
func (c *Confirmer) Confirm(string) bool {
	return c.answer.Swap(false)
}

func (c *Confirmer) set(yes bool) { c.answer.Store(yes) }

type submittedMsg struct {
	pin models.Pin
	err error
}

type clearedMsg struct {
	cleared bool
	err     error
}

// pinItem adapts a pin to bubbles/list.Item
type pinItem struct {
	pin      models.Pin
	selected bool
}

func (i pinItem) Title() string {
	if i.selected {
		return selectedStyle.Render("● " + i.pin.DisplayRemark())
	}
	return i.pin.DisplayRemark()
}

func (i pinItem) Description() string {
	return fmt.Sprintf("%s  (%.5f, %.5f)", i.pin.DisplayAddress(), i.pin.Latitude, i.pin.Longitude)
}

func (i pinItem) FilterValue() string { return i.pin.Remark }

// Model is the Bubble Tea model driving a pinclient.Client.
type Model struct {
	ctx     context.Context
	client  *pinclient.Client
	mapView *MapView
	confirm *Confirmer

	list  list.Model
	input textinput.Model
	mode  mode

	inFlight int
	status   string
	err      string
}

// New builds the model. client must have been created with mapView as its map
// and confirm as its confirmer.
func New(ctx context.Context, client *pinclient.Client, mapView *MapView, confirm *Confirmer) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Saved Pins"
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("pin", "pins")
	l.SetShowHelp(true)
	l.KeyMap.Quit.SetEnabled(false)

	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "drop pin")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "focus")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	m := Model{
		ctx:     ctx,
		client:  client,
		mapView: mapView,
		confirm: confirm,
		list:    l,
		input:   ti,
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until the user quits.
func Run(ctx context.Context, client *pinclient.Client, mapView *MapView, confirm *Confirmer) error {
	p := tea.NewProgram(New(ctx, client, mapView, confirm), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model) refresh() {
	_, selected, hasSelection := m.client.Selected()
	pins := m.client.Pins()
	items := make([]list.Item, 0, len(pins))
	for i, p := range pins {
		items = append(items, pinItem{pin: p, selected: hasSelection && i == selected})
	}
	m.list.SetItems(items)
}

func (m *Model) fail(err error) {
	m.status = ""
	m.err = err.Error()
}

func (m *Model) openInput(next mode, placeholder, value string) tea.Cmd {
	m.mode = next
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.input.SetValue("")
	m.input.Blur()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case submittedMsg:
		m.inFlight--
		if msg.err != nil {
			m.fail(msg.err)
		} else {
			m.err = ""
			m.status = "saved pin at " + msg.pin.DisplayAddress()
		}
		m.refresh()
		return m, nil

	case clearedMsg:
		switch {
		case msg.err != nil:
			m.fail(msg.err)
		case msg.cleared:
			m.err = ""
			m.status = "all pins deleted"
		default:
			m.status = "kept all pins"
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeCoords, modeRemark, modeEdit:
			return m.updateInput(msg)
		case modeConfirmClear:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	index := m.list.Index()
	hasPins := len(m.list.Items()) > 0

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "a":
		m.err = ""
		return m, m.openInput(modeCoords, "lat,lon of the new pin", "")

	case "enter":
		if !hasPins {
			return m, nil
		}
		if err := m.client.SelectPin(index); err != nil {
			m.fail(err)
			return m, nil
		}
		m.status = "map centred on " + m.mapView.String()
		m.refresh()
		return m, nil

	case "e":
		if !hasPins {
			return m, nil
		}
		if err := m.client.StartEdit(index); err != nil {
			m.fail(err)
			return m, nil
		}
		edit, _ := m.client.Editing()
		return m, m.openInput(modeEdit, "Edit remark...", edit.Remark)

	case "d":
		if !hasPins {
			return m, nil
		}
		if err := m.client.DeletePin(m.ctx, index); err != nil {
			m.fail(err)
			return m, nil
		}
		m.err = ""
		m.status = "pin deleted"
		m.refresh()
		return m, nil

	case "C":
		if !hasPins {
			return m, nil
		}
		m.mode = modeConfirmClear
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == modeEdit {
			m.client.CancelEdit()
		}
		m.closeInput()
		return m, nil

	case tea.KeyEnter:
		value := m.input.Value()
		switch m.mode {
		case modeCoords:
			coords, err := ParseCoordinates(value)
			if err != nil {
				m.fail(err)
				return m, nil
			}
			m.client.StartDraft(coords)
			m.err = ""
			return m, m.openInput(modeRemark, "Enter remark...", "")

		case modeRemark:
			if err := m.client.SetDraftRemark(value); err != nil {
				m.fail(err)
				m.closeInput()
				return m, nil
			}
			m.closeInput()
			m.inFlight++
			m.status = "looking up address..."
			return m, m.submit(value)

		case modeEdit:
			if err := m.client.SetEditRemark(value); err != nil {
				m.fail(err)
				m.closeInput()
				return m, nil
			}
			if err := m.client.SaveEdit(m.ctx); err != nil {
				m.fail(err)
				return m, nil
			}
			m.closeInput()
			m.err = ""
			m.status = "remark updated"
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	switch m.mode {
	case modeRemark:
		_ = m.client.SetDraftRemark(m.input.Value())
	case modeEdit:
		_ = m.client.SetEditRemark(m.input.Value())
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirm.set(true)
	case "n", "N", "esc":
		m.confirm.set(false)
	default:
		return m, nil
	}
	m.mode = modeBrowse
	return m, m.clearAll()
}

// submit runs the address lookup off the event loop; the draft's coordinates
// are captured by the client when the command starts.
func (m Model) submit(remark string) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		pin, err := client.SubmitDraft(ctx, remark)
		if err != nil {
			log.Error().Err(err).Msg("submit draft failed")
		}
		return submittedMsg{pin: pin, err: err}
	}
}

func (m Model) clearAll() tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		cleared, err := client.ClearAll(ctx)
		return clearedMsg{cleared: cleared, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("%s  %s %s",
		titleStyle.Render("Pin Drop"),
		accentStyle.Render("map"),
		m.mapView.String(),
	)
	if draft, ok := m.client.Draft(); ok {
		header += "  " + pendingStyle.Render(fmt.Sprintf("draft %.5f, %.5f", draft.Coordinates.Latitude, draft.Coordinates.Longitude))
	}
	if m.inFlight > 0 {
		header += "  " + mutedStyle.Render(fmt.Sprintf("%d lookup(s) pending", m.inFlight))
	}
	b.WriteString(header + "\n")

	if len(m.list.Items()) == 0 {
		b.WriteString(mutedStyle.Render("No pins saved yet.") + "\n")
	}
	b.WriteString(m.list.View())

	switch m.mode {
	case modeCoords, modeRemark, modeEdit:
		title := map[mode]string{
			modeCoords: "Drop a pin",
			modeRemark: "Remark for the new pin",
			modeEdit:   "Edit remark",
		}[m.mode]
		b.WriteString("\n" + panelStyle.Render(title+"\n"+m.input.View()))
	case modeConfirmClear:
		b.WriteString("\n" + warnPanelStyle.Render(pinclient.ClearAllPrompt+" [y/n]"))
	}

	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render("✖ "+m.err))
	} else if m.status != "" {
		b.WriteString("\n" + successStyle.Render("✔ "+m.status))
	}
	return panelStyle.Render(b.String())
}

// ParseCoordinates reads "lat,lon" or "lat lon".
func ParseCoordinates(s string) (models.Coordinates, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 2 {
		return models.Coordinates{}, fmt.Errorf("expected \"lat,lon\", got %q", s)
	}

	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid latitude format: %q", fields[0])
	}
	lon, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid longitude format: %q", fields[1])
	}
	if lat < -90 || lat > 90 {
		return models.Coordinates{}, fmt.Errorf("latitude out of range: %g", lat)
	}
	if lon < -180 || lon > 180 {
		return models.Coordinates{}, fmt.Errorf("longitude out of range: %g", lon)
	}
	return models.Coordinates{Latitude: lat, Longitude: lon}, nil
}
