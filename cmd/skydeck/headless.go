package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/litescript/skydeck/internal/clock"
	"github.com/litescript/skydeck/internal/sky"
	"github.com/litescript/skydeck/internal/state"
	"github.com/litescript/skydeck/internal/summary"
	"github.com/litescript/skydeck/internal/tasks"
)

func outputStyles() summary.Styles {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return summary.TerminalStyles()
	}
	return summary.PlainStyles()
}

// runTaskCommand applies -add, -toggle and -delete, then prints the list.
func runTaskCommand(list *tasks.List) error {
	items, err := list.Load()
	if err != nil {
		return err
	}

	if addText != "" {
		var added bool
		if items, added, err = list.Add(addText); err != nil {
			return err
		}
		if !added {
			fmt.Fprintln(os.Stderr, "Ignoring blank task")
		}
	}
	if toggleIndex >= 0 {
		if items, err = list.Toggle(toggleIndex); err != nil {
			return err
		}
	}
	if deleteIndex >= 0 {
		if items, err = list.Delete(deleteIndex); err != nil {
			return err
		}
	}

	summary.WriteTasks(os.Stdout, items, outputStyles())
	return nil
}

// runHeadless performs one sky refresh and prints the dashboard.
func runHeadless(ctx context.Context, svc *sky.Service, stateMgr *state.Manager, list *tasks.List, c clock.Clock) error {
	stateMgr.ApplySky(stateMgr.BeginRefresh(), svc.Refresh(ctx))

	items, err := list.Load()
	if err != nil {
		return err
	}

	e := summary.Build(time.Now(), c, stateMgr.Snapshot(), items)
	if jsonMode {
		return e.WriteJSON(os.Stdout)
	}
	summary.WriteText(os.Stdout, e, c, outputStyles())
	return nil
}
