package tui

import (
	"github.com/postudio/postudio-terminal/pkg/store"
)

type sessionState int

const (
	editorView sessionState = iota
	pickerView
)

// Messages for communication between views
type StatusMsg string

type SwitchViewMsg struct {
	view sessionState
}

// openFileMsg asks the app to load a catalog.
type openFileMsg struct {
	path string
}

type themeChangedMsg struct {
	theme string
}

type translatedOneMsg struct {
	index int
	text  string
	err   error
}

type translatedAllMsg struct {
	result store.BatchResult
	err    error
}
