package cli

import (
	"github.com/charmbracelet/bubbles/key"
)

// cubeKeyMap defines the key bindings of the cube page.
type cubeKeyMap struct {
	Turn        key.Binding
	OrbitLeft   key.Binding
	OrbitRight  key.Binding
	OrbitUp     key.Binding
	OrbitDown   key.Binding
	ResetCamera key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k cubeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Turn, k.OrbitLeft, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k cubeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Turn},
		{k.OrbitLeft, k.OrbitRight, k.OrbitUp, k.OrbitDown, k.ResetCamera},
		{k.Help, k.Quit},
	}
}

func defaultCubeKeyMap() cubeKeyMap {
	return cubeKeyMap{
		Turn: key.NewBinding(
			key.WithKeys("r", "l", "u", "d", "f", "b", "R", "L", "U", "D", "F", "B"),
			key.WithHelp("r/l/u/d/f/b", "turn face"),
		),
		OrbitLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→/↑/↓", "orbit"),
		),
		OrbitRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "orbit right"),
		),
		OrbitUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "orbit up"),
		),
		OrbitDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "orbit down"),
		),
		ResetCamera: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset view"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// previewKeyMap defines the key bindings of the preview page.
type previewKeyMap struct {
	Play key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k previewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k previewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Play, k.Back, k.Quit}}
}

func defaultPreviewKeyMap() previewKeyMap {
	return previewKeyMap{
		Play: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "play/pause"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to the cube"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
