package router

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui"
)

// Screen represents a screen that can be navigated to
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Factory builds the screen for a route.
type Factory func() Screen

type entry struct {
	route  ui.Route
	screen Screen
}

// Router manages navigation between screens using a stack. Navigating to a
// route already on the stack pops back to it instead of stacking a copy.
type Router struct {
	factories map[ui.Route]Factory
	stack     []entry
	width     int
	height    int
}

// New creates a router showing the root route.
func New(root ui.Route, factories map[ui.Route]Factory) (*Router, error) {
	build, ok := factories[root]
	if !ok {
		return nil, fmt.Errorf("no screen registered for route %s", root)
	}
	return &Router{
		factories: factories,
		stack:     []entry{{route: root, screen: build()}},
	}, nil
}

// Init initializes the current screen
func (r *Router) Init() tea.Cmd {
	return r.stack[len(r.stack)-1].screen.Init()
}

// Update processes navigation messages and forwards everything else to the
// current screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ui.RouterMsg:
		return r.Navigate(msg.To)

	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		if msg.String() == "esc" && r.CanGoBack() {
			return r.Back()
		}
	}

	top := &r.stack[len(r.stack)-1]
	updated, cmd := top.screen.Update(msg)
	top.screen = updated
	return cmd
}

// View renders the current screen
func (r *Router) View() string {
	return r.stack[len(r.stack)-1].screen.View()
}

// SetSize sets the size for the router and current screen
func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.stack[len(r.stack)-1].screen.SetSize(width, height)
}

// Navigate shows route, popping back to it if it is already on the stack.
func (r *Router) Navigate(route ui.Route) tea.Cmd {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i].route == route {
			r.stack = r.stack[:i+1]
			return r.activate()
		}
	}

	build, ok := r.factories[route]
	if !ok {
		return nil
	}
	r.stack = append(r.stack, entry{route: route, screen: build()})
	return r.activate()
}

// Back pops the current screen. The root screen is never popped.
func (r *Router) Back() tea.Cmd {
	if !r.CanGoBack() {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return r.activate()
}

func (r *Router) activate() tea.Cmd {
	top := r.stack[len(r.stack)-1].screen
	top.SetSize(r.width, r.height)
	return top.Init()
}

// Current returns the route on top of the stack.
func (r *Router) Current() ui.Route {
	return r.stack[len(r.stack)-1].route
}

// Depth returns the current navigation depth
func (r *Router) Depth() int {
	return len(r.stack)
}

// CanGoBack returns true if there are screens to go back to
func (r *Router) CanGoBack() bool {
	return len(r.stack) > 1
}
