// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [EventsView] : browse the catalog by category and toggle hearts
//  2. [ProfileView] : sign in, sign up or sign out; holds a [reconcile.AuthScreen] while visible
//  3. [FavoritesView] : the favorites of the current source (ledger or account)
//
// Entering [ProfileView] mounts an auth screen and leaving it unmounts it, so a heart tapped while signed out is
// kept only when the visit ended in a sign-in. Any view switch cancels a heart's scheduled navigation.
//
// Navigation and notifications raised by the reconcile package arrive on channels and are turned into messages
// by long-lived commands, the same way progress updates would be.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
