package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines every browser key binding with its help text.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Escape    key.Binding

	Up       key.Binding
	Down     key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding

	NextPrimary   key.Binding
	NextSecondary key.Binding
	PrevSecondary key.Binding

	SortColumnLeft  key.Binding
	SortColumnRight key.Binding
	Sort            key.Binding

	Parish       key.Binding
	Detail       key.Binding
	ResetFilters key.Binding
	PageSizeUp   key.Binding
	PageSizeDown key.Binding
	Reload       key.Binding

	Back    key.Binding
	Forward key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "pgdown"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "pgup"),
			key.WithHelp("p", "previous page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last page"),
		),

		NextPrimary: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bill type"),
		),
		NextSecondary: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next table"),
		),
		PrevSecondary: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous table"),
		),

		SortColumnLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "column"),
		),
		SortColumnRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "column"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),

		Parish: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "parish"),
		),
		Detail: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "parish by year"),
		),
		ResetFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset filters"),
		),
		PageSizeUp: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "more rows"),
		),
		PageSizeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer rows"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),

		Back: key.NewBinding(
			key.WithKeys("backspace", "["),
			key.WithHelp("[", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "forward"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.PrevPage, k.NextSecondary, k.Parish, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage, k.FirstPage, k.LastPage},
		{k.NextPrimary, k.NextSecondary, k.PrevSecondary},
		{k.SortColumnLeft, k.SortColumnRight, k.Sort},
		{k.Parish, k.Detail, k.ResetFilters, k.PageSizeUp, k.PageSizeDown, k.Reload},
		{k.Back, k.Forward, k.Help, k.Quit},
	}
}
