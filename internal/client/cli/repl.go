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
	isLoggedIn() bool
	isAdmin() bool
	Login(ctx context.Context) error
	SetPassword(ctx context.Context) error
	Logout(ctx context.Context) error

	Upload(ctx context.Context, paths []string) error
	Status(ctx context.Context) error
	Retry(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error

	Files(ctx context.Context, refresh bool) error
	Storage(ctx context.Context) error
	Destinations(ctx context.Context) error
	History(ctx context.Context) error

	Stats(ctx context.Context) error
	Activity(ctx context.Context) error
	Users(ctx context.Context, args []string) error
	UserAdd(ctx context.Context) error
	UserEdit(ctx context.Context, id string) error
	UserDelete(ctx context.Context, id string) error
	UserToggle(ctx context.Context, id string) error
	Accounts(ctx context.Context) error
	AccountAdd(ctx context.Context) error
	AccountEdit(ctx context.Context, id string) error
	AccountDelete(ctx context.Context, id string) error
	Containers(ctx context.Context) error
	ContainerAdd(ctx context.Context) error
	ContainerDelete(ctx context.Context, id string) error
}

const helpLoggedOut = "Available commands: login, exit"

const helpUser = `Available commands:
  upload <path>...   queue files for upload
  status             show upload queue
  retry <id>         retry a failed upload
  cancel <id>        cancel a queued or running upload
  files | refresh    list uploaded files (refresh bypasses the cache)
  storage            show the assigned storage destination
  destinations       list available containers
  history            show locally recorded uploads
  setpass            change password
  logout, exit`

const helpAdmin = helpUser + `
  stats              dashboard aggregates
  activity           recent activity feed
  users [page]       list users; useradd, useredit <id>, userdel <id>, usertoggle <id>
  accounts           list storage accounts; accountadd, accountedit <id>, accountdel <id>
  containers         list containers; containeradd, containerdel <id>`

// runREPL starts a read-eval-print loop: it reads a line from the scanner,
// parses the first token as the command, and dispatches to methods on 'a'.
// Unknown commands are reported back to the user. The loop exits on scanner
// EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("uplink %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			switch {
			case !a.isLoggedIn():
				printlnFn(helpLoggedOut)
			case a.isAdmin():
				printlnFn(helpAdmin)
			default:
				printlnFn(helpUser)
			}

		case "login":
			_ = a.Login(ctx)
		case "setpass":
			_ = a.SetPassword(ctx)
		case "logout":
			_ = a.Logout(ctx)

		case "upload", "up":
			if len(args) == 0 {
				printlnFn("Usage: upload <path> [path...]")
				continue
			}
			_ = a.Upload(ctx, args)
		case "status", "st":
			_ = a.Status(ctx)
		case "retry":
			if len(args) == 0 {
				printlnFn("Usage: retry <id>")
				continue
			}
			_ = a.Retry(ctx, args[0])
		case "cancel":
			if len(args) == 0 {
				printlnFn("Usage: cancel <id>")
				continue
			}
			_ = a.Cancel(ctx, args[0])

		case "files", "ls":
			_ = a.Files(ctx, false)
		case "refresh":
			_ = a.Files(ctx, true)
		case "storage":
			_ = a.Storage(ctx)
		case "destinations":
			_ = a.Destinations(ctx)
		case "history":
			_ = a.History(ctx)

		case "stats":
			_ = a.Stats(ctx)
		case "activity":
			_ = a.Activity(ctx)
		case "users":
			_ = a.Users(ctx, args)
		case "useradd":
			_ = a.UserAdd(ctx)
		case "useredit":
			if len(args) == 0 {
				printlnFn("Usage: useredit <id>")
				continue
			}
			_ = a.UserEdit(ctx, args[0])
		case "userdel":
			if len(args) == 0 {
				printlnFn("Usage: userdel <id>")
				continue
			}
			_ = a.UserDelete(ctx, args[0])
		case "usertoggle":
			if len(args) == 0 {
				printlnFn("Usage: usertoggle <id>")
				continue
			}
			_ = a.UserToggle(ctx, args[0])
		case "accounts":
			_ = a.Accounts(ctx)
		case "accountadd":
			_ = a.AccountAdd(ctx)
		case "accountedit":
			if len(args) == 0 {
				printlnFn("Usage: accountedit <id>")
				continue
			}
			_ = a.AccountEdit(ctx, args[0])
		case "accountdel":
			if len(args) == 0 {
				printlnFn("Usage: accountdel <id>")
				continue
			}
			_ = a.AccountDelete(ctx, args[0])
		case "containers":
			_ = a.Containers(ctx)
		case "containeradd":
			_ = a.ContainerAdd(ctx)
		case "containerdel":
			if len(args) == 0 {
				printlnFn("Usage: containerdel <id>")
				continue
			}
			_ = a.ContainerDelete(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
