package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isSignedIn() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Campaigns(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Donate(ctx context.Context, id string) error
	Checkout(ctx context.Context) error
	History(ctx context.Context) error

	Create(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	Admin(ctx context.Context) error
	NGOs(ctx context.Context) error
	ApproveNGO(ctx context.Context, id string) error
	RejectNGO(ctx context.Context, id string) error
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	AttendContact(ctx context.Context, id string) error
	DeleteContact(ctx context.Context, id string) error

	Contact(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: signup, signin, campaigns, show <id>, ngos, contact, help, exit"
	helpSignedIn  = "Available commands: whoami, campaigns, show <id>, donate <id>, checkout, history, " +
		"create, edit <id>, delete <id>, admin, approve <id>, reject <id>, " +
		"approve-ngo <id>, reject-ngo <id>, attend <id>, dismiss <id>, ngos, contact, logout, help, exit"
)

// runREPL reads one command per line from scanner and dispatches it to a.
// The prompt shows statusFn. The loop ends on EOF, "exit" or "quit".
//
// Errors returned by handlers are printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("donate> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		withID := func(fn func(context.Context, string) error) error {
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				return nil
			}
			return fn(ctx, args[0])
		}

		var err error
		switch cmd {
		case "help":
			if a.isSignedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "signup":
			err = a.SignUp(ctx)
		case "signin", "login":
			err = a.SignIn(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)

		case "campaigns", "l":
			err = a.Campaigns(ctx)
		case "show":
			err = withID(a.Show)
		case "donate":
			err = withID(a.Donate)
		case "checkout":
			err = a.Checkout(ctx)
		case "history":
			err = a.History(ctx)

		case "create":
			err = a.Create(ctx)
		case "edit":
			err = withID(a.Edit)
		case "delete":
			err = withID(a.Delete)

		case "admin":
			err = a.Admin(ctx)
		case "ngos":
			err = a.NGOs(ctx)
		case "approve-ngo":
			err = withID(a.ApproveNGO)
		case "reject-ngo":
			err = withID(a.RejectNGO)
		case "approve":
			err = withID(a.Approve)
		case "reject":
			err = withID(a.Reject)

		case "attend":
			err = withID(a.AttendContact)
		case "dismiss":
			err = withID(a.DeleteContact)

		case "contact":
			err = a.Contact(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", describe(err))
		}
	}
}
