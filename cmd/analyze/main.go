// Command analyze plays seeded games of snake with a shortest-path
// autopilot and prints how far it gets. It summarizes scores, game length
// and causes of death, which makes it a quick check that food placement
// and collisions behave across many boards.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/terminal-snake/game/engine"
)

// Death causes reported per game
const (
	CauseWall      = "wall"
	CauseSelf      = "self"
	CauseTickLimit = "tick limit"
)

// GameStats is the outcome of one autopilot game
type GameStats struct {
	Seed  uint64
	Score int
	Ticks int
	Cause string
	Board string
}

// Summary aggregates GameStats over several games
type Summary struct {
	Games     int
	MinScore  int
	MaxScore  int
	MeanScore float64
	MeanTicks float64
	Causes    map[string]int
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "play seeded snake games with an autopilot and report scores",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "games", Value: 10, Usage: "number of games to play"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "seed of the first game; later games use seed+1, seed+2, ..."},
			&cli.IntFlag{Name: "max-ticks", Value: 5000, Usage: "ticks after which a game is stopped"},
			&cli.BoolFlag{Name: "board", Usage: "print the final board of each game"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			games := int(cmd.Int("games"))
			if games <= 0 {
				return fmt.Errorf("games must be positive, got %d", games)
			}
			stats := make([]GameStats, 0, games)
			for i := 0; i < games; i++ {
				stats = append(stats, playGame(uint64(cmd.Int("seed"))+uint64(i), int(cmd.Int("max-ticks"))))
			}
			printReport(os.Stdout, stats, cmd.Bool("board"))
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// playGame runs one game on the standard board until the snake dies or
// maxTicks is reached
func playGame(seed uint64, maxTicks int) GameStats {
	eng, err := engine.NewEngine(engine.DefaultConfig(), engine.DefaultWidth, engine.DefaultHeight, engine.NewRandSource(seed))
	if err != nil {
		panic(fmt.Sprintf("analyze: default engine rejected: %v", err))
	}

	pilot := &Autopilot{}
	stats := GameStats{Seed: seed, Cause: CauseTickLimit}
	for stats.Ticks < maxTicks {
		entry := eng.Tick(pilot.NextInput(eng.GetState()))
		stats.Ticks = entry.TickNumber
		if entry.Died {
			stats.Cause = deathCause(eng.GetState(), entry.To)
			break
		}
	}

	stats.Score = eng.GetScore()
	stats.Board = eng.View().String()
	return stats
}

func deathCause(gs *engine.GameState, at engine.Position) string {
	if at.X <= 0 || at.Y <= 0 || at.X >= gs.Width-1 || at.Y >= gs.Height-1 {
		return CauseWall
	}
	return CauseSelf
}

func summarize(stats []GameStats) Summary {
	s := Summary{Games: len(stats), Causes: make(map[string]int)}
	if len(stats) == 0 {
		return s
	}

	s.MinScore = stats[0].Score
	totalScore, totalTicks := 0, 0
	for _, g := range stats {
		if g.Score < s.MinScore {
			s.MinScore = g.Score
		}
		if g.Score > s.MaxScore {
			s.MaxScore = g.Score
		}
		totalScore += g.Score
		totalTicks += g.Ticks
		s.Causes[g.Cause]++
	}
	s.MeanScore = float64(totalScore) / float64(len(stats))
	s.MeanTicks = float64(totalTicks) / float64(len(stats))
	return s
}

func printReport(w io.Writer, stats []GameStats, showBoard bool) {
	for _, g := range stats {
		fmt.Fprintf(w, "\n=== Game seed %d ===\n", g.Seed)
		fmt.Fprintf(w, "Score: %d\n", g.Score)
		fmt.Fprintf(w, "Ticks: %d\n", g.Ticks)
		if g.Cause == CauseTickLimit {
			fmt.Fprintf(w, "✅ Still alive at the tick limit\n")
		} else {
			fmt.Fprintf(w, "⚠️  Died: hit %s\n", g.Cause)
		}
		if showBoard {
			fmt.Fprintln(w, g.Board)
		}
	}

	s := summarize(stats)
	fmt.Fprintf(w, "\n=== Summary of %d games ===\n", s.Games)
	fmt.Fprintf(w, "Score: min %d, max %d, mean %.1f\n", s.MinScore, s.MaxScore, s.MeanScore)
	fmt.Fprintf(w, "Mean ticks: %.1f\n", s.MeanTicks)
	for _, cause := range []string{CauseWall, CauseSelf, CauseTickLimit} {
		if n := s.Causes[cause]; n > 0 {
			fmt.Fprintf(w, "Ended by %s: %d\n", cause, n)
		}
	}
}
