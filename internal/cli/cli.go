package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Scan       *ScanCommand
	Sessions   *SessionsCommand
	Show       *ShowCommand
	Stats      *StatsCommand
	Status     *StatusCommand
	Commanders *CommandersCommand
	Watch      *WatchCommand
	Purge      *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "edla"
	parser.LongDescription = "Elite Dangerous journal log analyzer: archives play sessions and tracks live statistics."

	cmds := &commands{
		Scan:       &ScanCommand{globals: &globals, version: version},
		Sessions:   &SessionsCommand{globals: &globals, version: version},
		Show:       &ShowCommand{globals: &globals, version: version},
		Stats:      &StatsCommand{globals: &globals, version: version},
		Status:     &StatusCommand{globals: &globals, version: version},
		Commanders: &CommandersCommand{globals: &globals, version: version},
		Watch:      &WatchCommand{globals: &globals, version: version},
		Purge:      &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("scan", "Archive journal files", "Scan the journal directory and archive every unprocessed file into the session store.", cmds.Scan)
	parser.AddCommand("sessions", "List archived sessions", "List archived sessions, newest first, optionally filtered by commander.", cmds.Sessions)
	parser.AddCommand("show", "Show one session", "Print the stored summary of a specific archived session.", cmds.Show)
	parser.AddCommand("stats", "Cross-session statistics", "Aggregate statistics across all archived sessions.", cmds.Stats)
	parser.AddCommand("status", "Show store health", "Show database statistics and configuration summary.", cmds.Status)
	parser.AddCommand("commanders", "List detected commanders", "List commander names found in the journal directory.", cmds.Commanders)
	parser.AddCommand("watch", "Follow the live session", "Follow the newest journal file and print live session statistics.", cmds.Watch)
	parser.AddCommand("purge", "Delete ALL session data", "Delete ALL archived session data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the EDLA CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the
// matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parsing (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("edla %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
