package tui

import "github.com/litescript/prowlarr-tui/internal/results"

// state is the screen the controller is on.
type state int

const (
	stateConnecting state = iota
	stateSetup
	stateMainMenu
	stateCategorySelect
	stateQueryInput
	stateResults
	stateDetail
	stateSettingsMenu
	stateSettingsForm
	stateStatus
)

var stateNames = map[state]string{
	stateConnecting:     "connecting",
	stateSetup:          "setup",
	stateMainMenu:       "main_menu",
	stateCategorySelect: "category_select",
	stateQueryInput:     "query_input",
	stateResults:        "results_list",
	stateDetail:         "item_detail",
	stateSettingsMenu:   "settings_menu",
	stateSettingsForm:   "settings_form",
	stateStatus:         "connection_status",
}

func (s state) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// snapshot is the results screen as it was before drilling into a result.
type snapshot struct {
	view   results.View
	cursor int
}

// navStack holds snapshots, newest last.
type navStack []snapshot

func (s *navStack) push(snap snapshot) {
	*s = append(*s, snap)
}

func (s *navStack) pop() (snapshot, bool) {
	if len(*s) == 0 {
		return snapshot{}, false
	}
	top := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return top, true
}

func (s *navStack) clear() {
	*s = nil
}

func (s navStack) depth() int {
	return len(s)
}
