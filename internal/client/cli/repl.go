package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	hasProject() bool
	SetUser(ctx context.Context, name string)
	Projects(ctx context.Context)
	Use(ctx context.Context, name string) error
	NewProject(ctx context.Context, name string) error
	Rename(ctx context.Context, newName string) error
	DeleteCurrentProject(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id, field string, value string) error
	Delete(ctx context.Context, ids []string) error
	Memo(ctx context.Context, id string) error
	Undo(ctx context.Context) error
	List(ctx context.Context) error
	Summary(ctx context.Context) error
	Sort(ctx context.Context, column string) error
	Export(ctx context.Context, format, path string) error
	Backup(ctx context.Context, path string) error
	Status(ctx context.Context)
}

// runREPL reads a line, parses the first token as the command and dispatches
// to methods on 'a'. The loop exits on scanner EOF or when the user types
// "exit" or "quit". Command handlers report their own errors; the loop only
// echoes them and keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	report := func(err error) {
		if err != nil {
			printlnFn("Error:", err)
		}
	}

	for {
		printlnFn(fmt.Sprintf("hv %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.hasProject() {
				printlnFn("Available commands: (l)ist, add, edit, del, memo, undo, sum, sort, export, rename, delproj, use, projects, user, backup, status, exit")
			} else {
				printlnFn("Available commands: projects, use <name>, newproj <name>, user <name>, backup, status, exit")
			}

		case "user":
			if len(args) == 0 {
				printlnFn("Usage: user <name>")
				continue
			}
			a.SetUser(ctx, strings.Join(args, " "))

		case "projects":
			a.Projects(ctx)

		case "use":
			if len(args) == 0 {
				printlnFn("Usage: use <name>")
				continue
			}
			report(a.Use(ctx, strings.Join(args, " ")))

		case "newproj":
			if len(args) == 0 {
				printlnFn("Usage: newproj <name>")
				continue
			}
			report(a.NewProject(ctx, strings.Join(args, " ")))

		case "rename":
			if len(args) == 0 {
				printlnFn("Usage: rename <new name>")
				continue
			}
			report(a.Rename(ctx, strings.Join(args, " ")))

		case "delproj":
			report(a.DeleteCurrentProject(ctx))

		case "add":
			report(a.Add(ctx))

		case "edit":
			if len(args) < 3 {
				printlnFn("Usage: edit <id> <field> <value>")
				continue
			}
			report(a.Edit(ctx, args[0], args[1], strings.Join(args[2:], " ")))

		case "del":
			if len(args) == 0 {
				printlnFn("Usage: del <id> [id...]")
				continue
			}
			report(a.Delete(ctx, args))

		case "memo":
			if len(args) == 0 {
				printlnFn("Usage: memo <id>")
				continue
			}
			report(a.Memo(ctx, args[0]))

		case "undo":
			report(a.Undo(ctx))

		case "l", "list":
			report(a.List(ctx))

		case "sum":
			report(a.Summary(ctx))

		case "sort":
			if len(args) == 0 {
				printlnFn("Usage: sort <author|date|process|name|material|labor|vat|total>")
				continue
			}
			report(a.Sort(ctx, args[0]))

		case "export":
			if len(args) < 2 {
				printlnFn("Usage: export <csv|xlsx> <path>")
				continue
			}
			report(a.Export(ctx, args[0], args[1]))

		case "backup":
			if len(args) == 0 {
				printlnFn("Usage: backup <path>")
				continue
			}
			report(a.Backup(ctx, args[0]))

		case "status":
			a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
