package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pop      key.Binding
	PopWord  key.Binding
	Resample key.Binding
	Retry    key.Binding
	Exit     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pop: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("backspace", "delete"),
		),
		PopWord: key.NewBinding(
			key.WithKeys("ctrl+w", "alt+backspace"),
			key.WithHelp("ctrl+w", "delete word"),
		),
		Resample: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "new words"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r", "R"),
			key.WithHelp("r", "retry"),
		),
		Exit: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k keyMap) runningHelp() []key.Binding {
	return []key.Binding{k.Pop, k.PopWord, k.Quit}
}

func (k keyMap) finishedHelp() []key.Binding {
	return []key.Binding{k.Resample, k.Retry, k.Exit}
}
