package ui

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockModel quits right away, or panics when asked to.
type mockModel struct {
	panicOnInit bool
	panicOnView bool
	panicOnMsg  bool
}

func (m *mockModel) Init() tea.Cmd {
	if m.panicOnInit {
		panic("init panic test")
	}
	return tea.Quit
}

func (m *mockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.panicOnMsg {
		panic("update panic test")
	}
	return m, tea.Quit
}

func (m *mockModel) View() string {
	if m.panicOnView {
		panic("view panic test")
	}
	return "Test UI"
}

func headless() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
		tea.WithoutCatchPanics(),
	}
}

func newHandler(create ProgramFactory, maxRestarts int) *RecoveryHandler {
	h := NewRecoveryHandler(zap.NewNop(), create)
	h.restartDelay = 5 * time.Millisecond
	h.maxRestarts = maxRestarts
	return h
}

func TestRecoveryHandlerNormalExit(t *testing.T) {
	h := newHandler(func() (tea.Model, []tea.ProgramOption) {
		return &mockModel{}, headless()
	}, 3)

	require.NoError(t, h.Run(context.Background()))
	assert.Zero(t, h.Restarts())
}

func TestRecoveryHandlerRestartsAfterPanic(t *testing.T) {
	var created atomic.Int32
	h := newHandler(func() (tea.Model, []tea.ProgramOption) {
		n := created.Add(1)
		return &mockModel{panicOnInit: n == 1}, headless()
	}, 3)

	require.NoError(t, h.Run(context.Background()))
	assert.Equal(t, 1, h.Restarts())
	assert.Equal(t, int32(2), created.Load())
}

func TestRecoveryHandlerGivesUp(t *testing.T) {
	h := newHandler(func() (tea.Model, []tea.ProgramOption) {
		return &mockModel{panicOnInit: true}, headless()
	}, 2)

	err := h.Run(context.Background())
	assert.ErrorIs(t, err, ErrTooManyRestarts)
	assert.Equal(t, 3, h.Restarts())
}

func TestRecoveryHandlerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var created atomic.Int32
	h := newHandler(func() (tea.Model, []tea.ProgramOption) {
		created.Add(1)
		return &mockModel{panicOnInit: true}, headless()
	}, 5)

	require.NoError(t, h.Run(ctx))
	assert.Equal(t, int32(1), created.Load())
}

func TestSafeModel(t *testing.T) {
	model := &mockModel{}
	safe := NewSafeModel(model, zap.NewNop())

	assert.NotNil(t, safe.Init())
	assert.Equal(t, "Test UI", safe.View())

	model.panicOnView = true
	assert.Equal(t, "Rendering failed. Press ctrl+q to exit.", safe.View())

	model.panicOnMsg = true
	next, cmd := safe.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Same(t, safe, next)
	assert.Nil(t, cmd)

	model.panicOnInit = true
	assert.Nil(t, safe.Init())
}
