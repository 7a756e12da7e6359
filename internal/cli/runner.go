package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pindrop/internal/models"
	"pindrop/internal/pinclient"
	"pindrop/internal/tui"
)

// Deps carries what the subcommands need. NewClient builds a client on the
// configured store and relay with the extra options a subcommand asks for.
type Deps struct {
	NewClient func(opts ...pinclient.Option) *pinclient.Client
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, d Deps) int {
	if len(args) == 0 {
		PrintHelp(d.Out)
		return 2
	}
	cmd, a := args[0], args[1:]
	p := printer{out: d.Out, err: d.Err}

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(d.Out)
		return 0

	case "ls":
		return doList(d, p)

	case "add":
		if len(a) < 2 {
			p.fail("usage: pins add <lat> <lon> [remark...]")
			return 2
		}
		coords, err := tui.ParseCoordinates(a[0] + "," + a[1])
		if err != nil {
			p.fail("add: " + err.Error())
			return 2
		}
		return doAdd(ctx, d, p, coords, strings.Join(a[2:], " "))

	case "rm":
		n, ok := indexArg(p, a, "rm", "usage: pins rm <index>", 1)
		if !ok {
			return 2
		}
		return doRemove(ctx, d, p, n)

	case "edit":
		n, ok := indexArg(p, a, "edit", "usage: pins edit <index> <remark...>", 2)
		if !ok {
			return 2
		}
		return doEdit(ctx, d, p, n, strings.Join(a[1:], " "))

	case "show":
		n, ok := indexArg(p, a, "show", "usage: pins show <index>", 1)
		if !ok {
			return 2
		}
		return doShow(d, p, n)

	case "clear":
		fs := flag.NewFlagSet("clear", flag.ContinueOnError)
		fs.SetOutput(d.Err)
		assumeYes := fs.Bool("y", false, "do not ask for confirmation")
		if err := fs.Parse(a); err != nil {
			return 2
		}
		return doClear(ctx, d, p, *assumeYes)

	case "ui":
		mapView := tui.NewMapView()
		confirm := &tui.Confirmer{}
		client := d.NewClient(pinclient.WithMap(mapView), pinclient.WithConfirmer(confirm))
		if err := tui.Run(ctx, client, mapView, confirm); err != nil {
			p.fail("ui: " + err.Error())
			return 1
		}
		return 0
	}

	p.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(d.Err)
	PrintHelp(d.Out)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `pins - drop annotated pins on a map

Usage:
  pins <subcommand> [args]

Subcommands:
  ui                         Interactive terminal UI
  add <lat> <lon> [remark]   Save a pin; its address is looked up through the relay
  ls                         List saved pins
  show <index>               Focus the map on the pin at 1-based index
  edit <index> <remark...>   Replace the remark of the pin at 1-based index
  rm <index>                 Delete the pin at 1-based index
  clear [-y]                 Delete all pins (asks first unless -y)

Examples:
  pins add 12.97 77.59 "Lunch spot"
  pins ls
  pins edit 1 "Dinner spot"
  pins rm 1
`)
}

// indexArg parses a 1-based index from a[0] and returns it 0-based.
func indexArg(p printer, a []string, name, usage string, minArgs int) (int, bool) {
	if len(a) < minArgs {
		p.fail(usage)
		return 0, false
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		p.fail(name + ": not a number: " + a[0])
		return 0, false
	}
	return n - 1, true
}

// -------------- subcommand impls ----------------

func doList(d Deps, p printer) int {
	pins := d.NewClient().Pins()

	lines := []string{fmt.Sprintf("%s  %s %d", titleStyle.Render("Saved Pins"), accentStyle.Render("Total"), len(pins)), ""}
	if len(pins) == 0 {
		lines = append(lines, mutedStyle.Render("No pins saved yet."))
	}
	for i, pin := range pins {
		lines = append(lines, pinLines(i, pin)...)
	}
	p.panel(lines)
	return 0
}

func pinLines(i int, pin models.Pin) []string {
	return []string{
		fmt.Sprintf("%s %s", accentStyle.Render(fmt.Sprintf("%d.", i+1)), pin.DisplayRemark()),
		mutedStyle.Render(fmt.Sprintf("   %s (%.5f, %.5f)", pin.DisplayAddress(), pin.Latitude, pin.Longitude)),
	}
}

func doAdd(ctx context.Context, d Deps, p printer, coords models.Coordinates, remark string) int {
	client := d.NewClient()
	client.StartDraft(coords)
	pin, err := client.SubmitDraft(ctx, remark)
	if err != nil {
		p.fail("add: " + err.Error())
		return 1
	}
	p.ok(fmt.Sprintf("saved pin %d: %s", client.Len(), pin.DisplayAddress()))
	return 0
}

func doRemove(ctx context.Context, d Deps, p printer, index int) int {
	if err := d.NewClient().DeletePin(ctx, index); err != nil {
		p.fail("rm: " + describe(err))
		return 1
	}
	p.ok(fmt.Sprintf("removed pin %d", index+1))
	return 0
}

func doEdit(ctx context.Context, d Deps, p printer, index int, remark string) int {
	client := d.NewClient()
	if err := client.StartEdit(index); err != nil {
		p.fail("edit: " + describe(err))
		return 1
	}
	if err := client.SetEditRemark(remark); err != nil {
		p.fail("edit: " + describe(err))
		return 1
	}
	if err := client.SaveEdit(ctx); err != nil {
		p.fail("edit: " + describe(err))
		return 1
	}
	p.ok(fmt.Sprintf("updated pin %d", index+1))
	return 0
}

func doShow(d Deps, p printer, index int) int {
	mapView := tui.NewMapView()
	client := d.NewClient(pinclient.WithMap(mapView))
	if err := client.SelectPin(index); err != nil {
		p.fail("show: " + describe(err))
		return 1
	}
	pin, _, _ := client.Selected()
	lines := append(pinLines(index, pin), "", accentStyle.Render("map")+" "+mapView.String())
	p.panel(lines)
	return 0
}

func doClear(ctx context.Context, d Deps, p printer, assumeYes bool) int {
	confirm := &PromptConfirmer{In: bufio.NewReader(d.In), Out: d.Out, AssumeYes: assumeYes}
	cleared, err := d.NewClient(pinclient.WithConfirmer(confirm)).ClearAll(ctx)
	if err != nil {
		p.fail("clear: " + err.Error())
		return 1
	}
	if !cleared {
		p.info("kept all pins")
		return 0
	}
	p.ok("all pins deleted")
	return 0
}

func describe(err error) string {
	if errors.Is(err, pinclient.ErrIndexOutOfRange) {
		return "no pin at that index"
	}
	return err.Error()
}

// PromptConfirmer asks on Out and reads the answer from In. Anything but
// y/yes declines.
type PromptConfirmer struct {
	In        *bufio.Reader
	Out       io.Writer
	AssumeYes bool
}

// Confirm implements pinclient.Confirmer.
func (c *PromptConfirmer) Confirm(prompt string) bool {
	if c.AssumeYes {
		return true
	}
	fmt.Fprintf(c.Out, "%s [y/N] ", prompt)
	line, err := c.In.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
