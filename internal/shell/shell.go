package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"eventreminder/internal/config"
	appLog "eventreminder/internal/log"
	"eventreminder/internal/model"
	"eventreminder/internal/store"
)

const (
	choiceAdd = iota + 1
	choiceRemove
	choiceView
	choiceSearch
	choiceEdit
	choiceExit
)

// Options configures a Shell.
type Options struct {
	// Prompts enables the welcome banner, the menu and per-field prompts.
	// Result messages are always written.
	Prompts bool
}

// Shell is the text menu in front of an EventStore. It reads one answer
// per line from in and writes everything user-facing to out.
type Shell struct {
	store   *store.EventStore
	in      *bufio.Reader
	out     io.Writer
	prompts bool

	// lines is fed by a single reader goroutine started on the first read,
	// so a blocked read never keeps Run from seeing ctx cancellation.
	lines chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// New constructs a Shell over the given store.
func New(st *store.EventStore, in io.Reader, out io.Writer, opts Options) *Shell {
	return &Shell{
		store:   st,
		in:      bufio.NewReader(in),
		out:     out,
		prompts: opts.Prompts,
	}
}

// PromptsEnabled resolves a config prompt mode. In auto mode prompts are
// shown only when in is a terminal.
func PromptsEnabled(mode string, in *os.File) bool {
	switch mode {
	case config.PromptsAlways:
		return true
	case config.PromptsNever:
		return false
	default:
		return in != nil && term.IsTerminal(int(in.Fd()))
	}
}

// errEndOfInput ends the session quietly when input runs out mid-dialog.
var errEndOfInput = errors.New("end of input")

// Run executes the menu loop until the user picks Exit, input ends or ctx
// is canceled. Only read failures and cancellation are returned as errors.
func (sh *Shell) Run(ctx context.Context) error {
	sh.promptln("Welcome to Event Reminder CLI!")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		sh.displayMenu()
		line, err := sh.readLine(ctx)
		if err != nil {
			return sh.finish(err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		choice, convErr := strconv.Atoi(line)
		if convErr != nil {
			sh.println("Invalid input! Please enter a number.")
			continue
		}

		switch choice {
		case choiceAdd:
			err = sh.addEvent(ctx)
		case choiceRemove:
			err = sh.removeEvent(ctx)
		case choiceView:
			sh.viewAllEvents()
		case choiceSearch:
			err = sh.searchEvent(ctx)
		case choiceEdit:
			err = sh.editEvent(ctx)
		case choiceExit:
			sh.println("Thank you for using Event Reminder CLI!")
			appLog.Debug("session exit requested", "events", sh.store.Len())
			return nil
		default:
			sh.println("Invalid choice! Please select 1-6.")
		}
		if err != nil {
			return sh.finish(err)
		}
	}
}

func (sh *Shell) finish(err error) error {
	if errors.Is(err, errEndOfInput) {
		appLog.Debug("input closed, ending session", "events", sh.store.Len())
		return nil
	}
	return err
}

func (sh *Shell) displayMenu() {
	sh.promptln("")
	sh.promptln("=== Event Reminder CLI ===")
	sh.promptln("1. Add Event")
	sh.promptln("2. Remove Event")
	sh.promptln("3. View All Events")
	sh.promptln("4. Search Event")
	sh.promptln("5. Edit Event")
	sh.promptln("6. Exit")
	sh.prompt("Choose an option (1-6): ")
}

func (sh *Shell) addEvent(ctx context.Context) error {
	sh.promptln("\n--- Add New Event ---")

	name, err := sh.ask(ctx, "Enter event name: ")
	if err != nil {
		return err
	}
	if name == "" {
		sh.println("Error: Event name cannot be empty!")
		return nil
	}
	// Reject duplicates before asking for anything else.
	if sh.store.EventExists(name) {
		sh.report("add", name, store.ErrDuplicateName)
		return nil
	}

	date, err := sh.ask(ctx, "Enter date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	if !store.IsValidDate(date) {
		sh.report("add", name, store.ErrInvalidDate)
		return nil
	}

	note, err := sh.ask(ctx, "Enter note (optional): ")
	if err != nil {
		return err
	}

	// Add re-validates; this branch only fires if the store disagrees with
	// the checks above.
	if err := sh.store.Add(name, date, note); err != nil {
		sh.report("add", name, err)
		return nil
	}
	appLog.Debug("event added", "name", name, "date", date, "events", sh.store.Len())
	sh.println("Event added successfully!")
	return nil
}

func (sh *Shell) removeEvent(ctx context.Context) error {
	if sh.store.Len() == 0 {
		sh.println("No events to remove!")
		return nil
	}
	sh.promptln("\n--- Remove Event ---")

	name, err := sh.ask(ctx, "Enter event name to remove: ")
	if err != nil {
		return err
	}
	if err := sh.store.Remove(name); err != nil {
		sh.report("remove", name, err)
		return nil
	}
	appLog.Debug("event removed", "name", name, "events", sh.store.Len())
	sh.println("Event removed successfully!")
	return nil
}

func (sh *Shell) viewAllEvents() {
	sh.println("\n--- All Events ---")
	entries, ok := sh.store.ListAll()
	if !ok {
		sh.println("No events scheduled!")
		return
	}
	for _, e := range entries {
		sh.printEntry(e)
	}
}

func (sh *Shell) printEntry(e model.Entry) {
	fmt.Fprintf(sh.out, "%d. %s\n", e.Rank, e.Name)
	fmt.Fprintf(sh.out, "   Date: %s\n", e.Date)
	if e.HasNote() {
		fmt.Fprintf(sh.out, "   Note: %s\n", e.Note)
	}
	fmt.Fprintln(sh.out)
}

func (sh *Shell) searchEvent(ctx context.Context) error {
	if sh.store.Len() == 0 {
		sh.println("No events to search!")
		return nil
	}
	sh.promptln("\n--- Search Event ---")

	name, err := sh.ask(ctx, "Enter event name to search: ")
	if err != nil {
		return err
	}
	ev, ok := sh.store.Search(name)
	if !ok {
		sh.report("search", name, store.ErrNotFound)
		return nil
	}

	sh.println("\nEvent Found:")
	fmt.Fprintf(sh.out, "Name: %s\n", ev.Name)
	fmt.Fprintf(sh.out, "Date: %s\n", ev.Date)
	if ev.HasNote() {
		fmt.Fprintf(sh.out, "Note: %s\n", ev.Note)
	}
	return nil
}

func (sh *Shell) editEvent(ctx context.Context) error {
	if sh.store.Len() == 0 {
		sh.println("No events to edit!")
		return nil
	}
	sh.promptln("\n--- Edit Event ---")

	name, err := sh.ask(ctx, "Enter event name to edit: ")
	if err != nil {
		return err
	}
	current, ok := sh.store.Search(name)
	if !ok {
		sh.report("edit", name, store.ErrNotFound)
		return nil
	}

	sh.println("\nCurrent details:")
	fmt.Fprintf(sh.out, "Name: %s\n", current.Name)
	fmt.Fprintf(sh.out, "Date: %s\n", current.Date)
	fmt.Fprintf(sh.out, "Note: %s\n", current.Note)

	newDate, err := sh.ask(ctx, "\nEnter new date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	if !store.IsValidDate(newDate) {
		sh.report("edit", name, store.ErrInvalidDate)
		return nil
	}

	newNote, err := sh.ask(ctx, "Enter new note: ")
	if err != nil {
		return err
	}

	// Edit re-validates name and date as well.
	if err := sh.store.Edit(name, newDate, newNote); err != nil {
		sh.report("edit", name, err)
		return nil
	}
	appLog.Debug("event updated", "name", name, "from", current.Date, "to", newDate)
	sh.println("Event updated successfully!")
	return nil
}

// report logs a rejected operation and prints the matching user message.
func (sh *Shell) report(op, name string, err error) {
	appLog.Info("operation rejected", "op", op, "name", name, "reason", err)
	sh.println(message(op, err))
}

func message(op string, err error) string {
	switch {
	case errors.Is(err, store.ErrDuplicateName):
		return "Error: Event with this name already exists!"
	case errors.Is(err, store.ErrInvalidDate):
		if op == "edit" {
			return "Error: Invalid date format!"
		}
		return "Error: Invalid date format! Use YYYY-MM-DD"
	case errors.Is(err, store.ErrNotFound):
		return "Event not found!"
	default:
		return "Error: " + err.Error()
	}
}

func (sh *Shell) ask(ctx context.Context, prompt string) (string, error) {
	sh.prompt(prompt)
	return sh.readLine(ctx)
}

// readLine returns the next input line without its line ending. Lines have
// no length limit.
func (sh *Shell) readLine(ctx context.Context) (string, error) {
	if sh.lines == nil {
		sh.lines = make(chan lineResult)
		go sh.readLoop()
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-sh.lines:
		if !ok {
			return "", errEndOfInput
		}
		return res.line, res.err
	}
}

func (sh *Shell) readLoop() {
	defer close(sh.lines)
	for {
		line, err := sh.in.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			sh.lines <- lineResult{line: line}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				sh.lines <- lineResult{err: fmt.Errorf("read input: %w", err)}
			}
			return
		}
	}
}

func (sh *Shell) println(s string) {
	fmt.Fprintln(sh.out, s)
}

func (sh *Shell) prompt(s string) {
	if sh.prompts {
		fmt.Fprint(sh.out, s)
	}
}

func (sh *Shell) promptln(s string) {
	if sh.prompts {
		fmt.Fprintln(sh.out, s)
	}
}
