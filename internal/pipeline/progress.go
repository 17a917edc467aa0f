package pipeline

import "github.com/On-Jun9/ShutterStamp/pkg/types"

type ProgressCallback func(update ProgressUpdate)

type ProgressUpdate struct {
	Type        string                 `json:"type"`
	Message     string                 `json:"message,omitempty"`
	Directory   string                 `json:"directory,omitempty"`
	ForceUpdate bool                   `json:"force_update,omitempty"`
	Current     int                    `json:"current,omitempty"`
	Total       int                    `json:"total,omitempty"`
	Filename    string                 `json:"filename,omitempty"`
	Outcome     types.Outcome          `json:"outcome,omitempty"`
	Timestamp   string                 `json:"timestamp,omitempty"`
	Summary     *types.DirectoryTally  `json:"summary,omitempty"`
	Tallies     []types.DirectoryTally `json:"tallies,omitempty"`
	Error       string                 `json:"error,omitempty"`
}
