package cli

import "database/sql"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ScanCommand archives unprocessed journal files into the session store.
type ScanCommand struct {
	ForceRescan bool   `long:"force-rescan" description:"Re-process files already in the store"`
	Timeout     string `long:"timeout" description:"Abandon the scan after this long (e.g., 2m, 30s); committed files are kept"`
	Quiet       bool   `long:"quiet" description:"Suppress per-file progress output"`

	globals *GlobalFlags
	version string
}

// SessionsCommand lists archived sessions, newest first.
type SessionsCommand struct {
	Commander string `long:"commander" description:"Only sessions for this commander"`
	Limit     int    `long:"limit" description:"Maximum sessions to list" default:"20"`

	globals *GlobalFlags
	version string
}

// ShowCommand prints one archived session summary.
type ShowCommand struct {
	ID     string `long:"id" description:"Session ID (journal file name, required)"`
	Events bool   `long:"events" description:"Include the retained raw event sample"`

	globals *GlobalFlags
	version string
}

// StatsCommand reports cross-session aggregate statistics.
type StatsCommand struct {
	Commander string `long:"commander" description:"Only sessions for this commander"`

	globals *GlobalFlags
	version string
}

// StatusCommand reports store health, database statistics, and configuration.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// CommandersCommand lists commanders detected in the journal directory.
type CommandersCommand struct {
	globals *GlobalFlags
	version string
}

// WatchCommand follows the newest journal file and print live session
// statistics as events arrive.
type WatchCommand struct {
	Interval string `long:"interval" description:"Poll interval (e.g., 2s)" default:""`
	Once     bool   `long:"once" description:"Poll once and exit (mainly for scripting)"`

	globals *GlobalFlags
	version string
}

// PurgeCommand deletes ALL stored session data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	db      *sql.DB // injectable for testing; nil means open default DB
}
