package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/reconcile"
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
	MsgNavigate MsgKind = iota
	MsgNotify
	MsgSavedLoaded
	MsgHeartDone
	MsgAuthDone
)

// navigateMsg is the constructor for [MsgNavigate]
func navigateMsg(to string) Msg {
	return Msg{kind: MsgNavigate, data: to}
}

// notifyMsg is the constructor for [MsgNotify]
func notifyMsg(n reconcile.Notification) Msg {
	return Msg{kind: MsgNotify, data: n}
}

type savedLoaded struct {
	set models.FavoriteSet
	err error
}

// savedLoadedMsg is the constructor for [MsgSavedLoaded]
func savedLoadedMsg(set models.FavoriteSet, err error) Msg {
	return Msg{kind: MsgSavedLoaded, data: savedLoaded{set, err}}
}

type heartDone struct {
	id    models.FavoriteID
	saved bool
	err   error
}

// heartDoneMsg is the constructor for [MsgHeartDone]
func heartDoneMsg(id models.FavoriteID, saved bool, err error) Msg {
	return Msg{kind: MsgHeartDone, data: heartDone{id, saved, err}}
}

// authDoneMsg is the constructor for [MsgAuthDone]
func authDoneMsg(out reconcile.Outcome) Msg {
	return Msg{kind: MsgAuthDone, data: out}
}
