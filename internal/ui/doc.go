// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a small workflow over the signed-in user's lists:
//  1. [ListsView] : Browse lists with their done/total counts, add or delete lists
//  2. [TasksView] : Tick tasks off, add or delete tasks, cycle the all/active/completed filter
//  3. [InputView] : Single-line title prompt used when adding a list or a task
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Lists are loaded through the engine package so every list arrives with its tasks.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, space, a, d, f, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
