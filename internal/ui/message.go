package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/todox/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgListsFetched MsgKind = iota
	MsgListFetched
	MsgMutated
)

type listsFetched struct {
	lists []models.List
	err   error
}

type listFetched struct {
	list *models.List
	err  error
}

type mutated struct {
	status string
	err    error
}

// listsFetchedMsg is the constructor for [MsgListsFetched]
func listsFetchedMsg(lists []models.List, err error) Msg {
	return Msg{kind: MsgListsFetched, data: listsFetched{lists, err}}
}

// listFetchedMsg is the constructor for [MsgListFetched]
func listFetchedMsg(l *models.List, err error) Msg {
	return Msg{kind: MsgListFetched, data: listFetched{l, err}}
}

// mutatedMsg is the constructor for [MsgMutated]; status is shown in the footer.
func mutatedMsg(status string, err error) Msg {
	return Msg{kind: MsgMutated, data: mutated{status, err}}
}
