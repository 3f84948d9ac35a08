// Package shell is the interactive storefront front end. It reads one command
// per line, drives the session and cart stores and prints their state.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/client/apiclient"
	"github.com/aurawell/storefront/internal/client/cart"
	"github.com/aurawell/storefront/internal/client/checkout"
	"github.com/aurawell/storefront/internal/client/imageurl"
	"github.com/aurawell/storefront/internal/client/session"
)

const prompt = "aurawell> "

// errQuit ends the read loop.
var errQuit = errors.New("quit")

// API is the part of the API client used directly by shell commands. Cart and
// identity operations go through the stores instead.
type API interface {
	ListProducts(ctx context.Context, category string) ([]apiclient.Product, error)
	GetProduct(ctx context.Context, id string) (*apiclient.Product, error)
	ListOrders(ctx context.Context) ([]apiclient.Order, error)
	AdminListProducts(ctx context.Context) ([]apiclient.Product, error)
	AdminDeleteProduct(ctx context.Context, id string) (*apiclient.MessageResponse, error)
	AdminListOrders(ctx context.Context) ([]apiclient.Order, error)
	AdminUpdateOrderStatus(ctx context.Context, orderID, status string) (*apiclient.OrderResponse, error)
	UploadImage(ctx context.Context, filename string, size int64, content io.Reader) (*apiclient.UploadResponse, error)
}

// Deps are the collaborators a Shell drives.
type Deps struct {
	API      API
	Session  *session.Store
	Cart     *cart.Store
	Checkout *checkout.Service
	Images   *imageurl.Resolver
	Log      zerolog.Logger
}

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

type Shell struct {
	Deps
	in       *bufio.Scanner
	out      io.Writer
	commands map[string]command
}

func New(deps Deps, in io.Reader, out io.Writer) *Shell {
	sh := &Shell{
		Deps: deps,
		in:   bufio.NewScanner(in),
		out:  out,
	}
	sh.commands = sh.registry()
	return sh
}

// Run reads and executes commands until EOF, "quit" or ctx is cancelled.
func (sh *Shell) Run(ctx context.Context) error {
	sh.printf("AuraWell storefront. Type \"help\" for commands.\n")
	sh.whoami()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		sh.printf("%s", prompt)
		line, ok := sh.readLine()
		if !ok {
			sh.printf("\n")
			return sh.in.Err()
		}
		if err := sh.Exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			sh.printf("error: %s\n", err)
		}
	}
}

// Exec runs a single command line.
func (sh *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	cmd, ok := sh.commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	sh.Log.Debug().Str("command", name).Strs("args", args).Msg("exec")
	return cmd.run(ctx, args)
}

func (sh *Shell) help(context.Context, []string) error {
	names := make([]string, 0, len(sh.commands))
	for name := range sh.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := sh.commands[name]
		sh.printf("  %-34s %s\n", c.usage, c.help)
	}
	return nil
}

// ask prints label and reads one line of input.
func (sh *Shell) ask(label string) (string, error) {
	sh.printf("%s: ", label)
	line, ok := sh.readLine()
	if !ok {
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(line), nil
}

func (sh *Shell) readLine() (string, bool) {
	if !sh.in.Scan() {
		return "", false
	}
	return sh.in.Text(), true
}

func (sh *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(sh.out, format, args...)
}

func money(v float64) string {
	return fmt.Sprintf("RM%.2f", v)
}
