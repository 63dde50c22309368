// Command turnctl works with game snapshots offline.
//
//	turnctl new     -out game.json.zst [-seed N] [-radius R] [-tribes N] [-ai N]
//	turnctl orders  -in game.json.zst -tribe ID -file orders.json [-out path]
//	turnctl process -in game.json.zst [-out path] [-seed N]
//	turnctl show    -in game.json.zst
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Platopotato/TRIBES-sub000/internal/ai"
	"github.com/Platopotato/TRIBES-sub000/internal/catalog"
	"github.com/Platopotato/TRIBES-sub000/internal/engine"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/persistence"
	"github.com/Platopotato/TRIBES-sub000/internal/protocol"
	"github.com/Platopotato/TRIBES-sub000/internal/social"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "new":
		err = runNew(args)
	case "orders":
		err = runOrders(args)
	case "process":
		err = runProcess(args)
	case "show":
		err = runShow(args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "turnctl:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: turnctl <new|orders|process|show> [flags]")
	names := make([]string, len(social.PlayerActions))
	for i, a := range social.PlayerActions {
		names[i] = string(a)
	}
	fmt.Fprintln(os.Stderr, "order types:", strings.Join(names, ", "))
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

func runNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	out := fs.String("out", "", "snapshot file to write")
	seed := fs.Int64("seed", 0, "map seed (0 = random)")
	radius := fs.Int("radius", 12, "map radius")
	tribes := fs.Int("tribes", 4, "number of tribes")
	aiTribes := fs.Int("ai", 3, "how many tribes are AI-controlled")
	catPath := fs.String("catalog", "", "catalog YAML (default embedded)")
	fs.Parse(args)
	if *out == "" {
		return fmt.Errorf("new: -out is required")
	}

	cat, err := loadCatalog(*catPath)
	if err != nil {
		return err
	}
	opts := engine.DefaultGameOptions()
	opts.Seed = *seed
	opts.Radius = *radius
	opts.Tribes = *tribes
	opts.AITribes = *aiTribes
	state, err := engine.NewGame(opts, cat)
	if err != nil {
		return err
	}
	if err := persistence.WriteSnapshot(*out, state); err != nil {
		return err
	}
	fmt.Printf("created %s: %d tribes on %d hexes\n", *out, len(state.Tribes), state.Map.HexCount())
	return nil
}

// runOrders queues a tribe's orders from a JSON batch file, replacing
// whatever it had queued.
func runOrders(args []string) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	in := fs.String("in", "", "snapshot file to read")
	out := fs.String("out", "", "snapshot file to write (default: overwrite -in)")
	tribeID := fs.String("tribe", "", "tribe id")
	file := fs.String("file", "", "orders batch JSON")
	fs.Parse(args)
	if *in == "" || *tribeID == "" || *file == "" {
		return fmt.Errorf("orders: -in, -tribe and -file are required")
	}
	if *out == "" {
		*out = *in
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	actions, err := protocol.DecodeActions(raw)
	if err != nil {
		return err
	}
	state, err := persistence.ReadSnapshot(*in)
	if err != nil {
		return err
	}

	runner := engine.NewRunner(nil, state)
	if err := runner.Submit(*tribeID, actions); err != nil {
		return err
	}
	state, err = runner.Snapshot()
	if err != nil {
		return err
	}
	if err := persistence.WriteSnapshot(*out, state); err != nil {
		return err
	}
	fmt.Printf("queued %d actions for %s\n", len(actions), *tribeID)
	return nil
}

func runProcess(args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	in := fs.String("in", "", "snapshot file to read")
	out := fs.String("out", "", "snapshot file to write (default: next turn beside -in)")
	seed := fs.Int64("seed", 0, "random seed for this turn (0 = random)")
	catPath := fs.String("catalog", "", "catalog YAML (default embedded)")
	fs.Parse(args)
	if *in == "" {
		return fmt.Errorf("process: -in is required")
	}

	cat, err := loadCatalog(*catPath)
	if err != nil {
		return err
	}
	state, err := persistence.ReadSnapshot(*in)
	if err != nil {
		return err
	}

	s := *seed
	if s == 0 {
		s = entropy.CryptoSeed()
	}
	src := entropy.NewSource(s)
	proc := engine.NewProcessor(cat, src)
	proc.AI = ai.New(cat, src)

	next, err := proc.ProcessTurn(context.Background(), state)
	if err != nil {
		return err
	}
	dest := *out
	if dest == "" {
		dest = filepath.Join(filepath.Dir(*in), persistence.SnapshotName(next.Turn))
	}
	if err := persistence.WriteSnapshot(dest, next); err != nil {
		return err
	}
	fmt.Printf("turn %d -> %d written to %s\n", state.Turn, next.Turn, dest)
	printSummary(next)
	return nil
}

func runShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	in := fs.String("in", "", "snapshot file to read")
	results := fs.Bool("results", false, "print each tribe's last turn results")
	fs.Parse(args)
	if *in == "" {
		return fmt.Errorf("show: -in is required")
	}

	h, err := persistence.ReadSnapshotHeader(*in)
	if err != nil {
		return err
	}
	state, err := persistence.ReadSnapshot(*in)
	if err != nil {
		return err
	}
	fmt.Printf("%s  saved %s\n", h.Format, h.SavedAt.Format("2006-01-02 15:04:05"))
	printSummary(state)
	if *results {
		for _, t := range state.Tribes {
			fmt.Printf("\n[%s] %s\n", t.ID, t.Name)
			for _, r := range t.LastTurnResults {
				fmt.Printf("  %-16s %s\n", r.ActionType, r.Result)
			}
		}
	}
	return nil
}

func printSummary(s *engine.GameState) {
	st := s.Summarize()
	fmt.Printf("turn %d: %d tribes, %d troops, %d journeys, %d outposts\n",
		st.Turn, st.Tribes, st.Troops, st.Journeys, st.Outposts)
	for _, t := range s.Tribes {
		troops, weapons, chiefs := t.Totals()
		status := "active"
		switch {
		case t.Eliminated:
			status = "eliminated"
		case t.TurnSubmitted:
			status = "submitted"
		}
		kind := "player"
		if t.IsAI {
			kind = "ai"
		}
		fmt.Printf("  %-10s %-22s %-6s %-10s troops=%-4d weapons=%-4d chiefs=%d food=%d scrap=%d morale=%d score=%d\n",
			t.ID, t.Name, kind, status, troops, weapons, chiefs,
			t.GlobalResources.Food, t.GlobalResources.Scrap, t.GlobalResources.Morale, social.Score(t))
	}
}
