package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Trip(ctx context.Context, args []string) error
	Categories(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Open(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: trip [id], (l)ist, upload [path], open <id>, rename <id>, delete <id>, categories, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the tripvault CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Document commands are refused until the user
// is logged in. The loop exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are only logged here; handlers print
// their own user-facing messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tv %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "logout", "trip", "categories", "upload", "l", "list", "open", "rename", "delete":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			cmdErr = dispatch(ctx, a, cmd, args)
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			log.Printf("%s: %v", cmd, cmdErr)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "trip":
		return a.Trip(ctx, args)
	case "categories":
		return a.Categories(ctx)
	case "upload":
		return a.Upload(ctx, args)
	case "l", "list":
		return a.List(ctx)
	case "open":
		return a.Open(ctx, args)
	case "rename":
		return a.Rename(ctx, args)
	case "delete":
		return a.Delete(ctx, args)
	}
	return nil
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.tripID != "" {
		s = s + "@" + a.tripID + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user, asks for credentials, starts the connectivity
// watcher and runs the REPL until exit.
func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to tripvault CLI (type 'help' for commands)")

	if err := a.Login(ctx); err != nil {
		fmt.Fprintln(a.w(), "Not logged in. Type 'login' to retry or 'register' to create an account.")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
