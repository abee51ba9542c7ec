// Command refhistory-repl is an interactive demo of the refhistory library.
//
// It tracks a single string cell with a ref-backed capacity and exposes
// set/undo/redo, capacity changes, and named snapshots as commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/pretty"
	"github.com/wader/readline"

	"github.com/dshills/refhistory"
)

type repl struct {
	cell    *refhistory.Ref[string]
	capRef  *refhistory.Ref[int]
	tracker *refhistory.Tracker[string]
}

func main() {
	os.Exit(run())
}

func run() int {
	fmt.Println("refhistory REPL - value history with undo/redo")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	rl, err := readline.New("refhistory> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init readline: %v\n", err)
		return 1
	}
	defer rl.Close()

	capRef := refhistory.NewRef(100)
	cell := refhistory.NewRef("")

	r := &repl{
		cell:    cell,
		capRef:  capRef,
		tracker: refhistory.Track(cell, refhistory.WithCapacityRef[string](capRef)),
	}
	defer r.tracker.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			fmt.Println("Goodbye!")
			return 0
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !r.handleCommand(line) {
			return 0
		}
	}
}

func (r *repl) handleCommand(input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Println("Goodbye!")
		return false

	case "set":
		if len(args) == 0 {
			fmt.Println("usage: set <text>")
			break
		}
		r.cell.Set(strings.Join(args, " "))
		fmt.Printf("cell = %q\n", r.cell.Get())

	case "get":
		fmt.Printf("cell = %q\n", r.cell.Get())

	case "undo":
		if !r.tracker.CanUndo() {
			fmt.Println("nothing to undo")
			break
		}
		r.tracker.Undo()
		fmt.Printf("cell = %q\n", r.cell.Get())

	case "redo":
		if !r.tracker.CanRedo() {
			fmt.Println("nothing to redo")
			break
		}
		r.tracker.Redo()
		fmt.Printf("cell = %q\n", r.cell.Get())

	case "history":
		r.printHistory()

	case "cap":
		if len(args) == 0 {
			fmt.Printf("capacity = %d\n", r.capRef.Get())
			break
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			fmt.Println("usage: cap [<non-negative number>]")
			break
		}
		r.capRef.Set(n)
		fmt.Printf("capacity = %d (history length %d)\n", n, r.tracker.UndoCount())

	case "snap":
		if len(args) == 0 {
			fmt.Println("usage: snap <name>")
			break
		}
		id := r.tracker.CreateSnapshot(args[0])
		fmt.Printf("snapshot %q created (%s)\n", args[0], id)

	case "restore":
		if len(args) == 0 {
			fmt.Println("usage: restore <name>")
			break
		}
		if err := r.tracker.RestoreSnapshotByName(args[0]); err != nil {
			fmt.Printf("restore failed: %v\n", err)
			break
		}
		fmt.Printf("cell = %q\n", r.cell.Get())

	case "snaps":
		snaps := r.tracker.Snapshots()
		if len(snaps) == 0 {
			fmt.Println("no snapshots")
			break
		}
		for _, s := range snaps {
			fmt.Printf("%-20s %q (%s ago)\n", s.Name, s.Value, s.Age().Round(time.Second))
		}

	case "clear":
		r.tracker.Clear()
		fmt.Println("history cleared")

	default:
		fmt.Printf("unknown command %q (try 'help')\n", cmd)
	}

	return true
}

func (r *repl) printHistory() {
	records := r.tracker.History()
	if len(records) == 0 {
		fmt.Println("history is empty")
		return
	}

	data, err := json.Marshal(records)
	if err != nil {
		fmt.Printf("failed to render history: %v\n", err)
		return
	}
	fmt.Print(string(pretty.Pretty(data)))

	if n := r.tracker.RedoCount(); n > 0 {
		fmt.Printf("(%d redo record(s) pending)\n", n)
	}
}

func (r *repl) printHelp() {
	fmt.Println(`Commands:
  set <text>      write a new value into the cell
  get             show the current value
  undo            revert to the previous value
  redo            re-apply an undone value
  history         dump history records as JSON (newest first)
  cap [<n>]       show or change the history capacity
  snap <name>     create a named snapshot of the current value
  restore <name>  restore a named snapshot
  snaps           list snapshots
  clear           drop all history and future records
  help            show this help
  quit            exit`)
}
