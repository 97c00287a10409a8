package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/getsentry/sentry-go"
	"github.com/samber/lo"
	"github.com/smell-of-curry/dicebox/dicebox"
	"github.com/smell-of-curry/dicebox/dicebox/random"
	"github.com/smell-of-curry/dicebox/dicebox/stats"
)

// main ...
func main() {
	simulate := flag.Int("simulate", 0, "roll the dice `n` times without serving and print the results")
	flag.Parse()

	conf, err := dicebox.ReadConfig()
	if err != nil {
		panic(err)
	}
	level, err := dicebox.ParseLogLevel(conf.DiceBox.LogLevel)
	if err != nil {
		panic(err)
	}
	slog.SetLogLoggerLevel(level)
	log := slog.Default()

	if conf.DiceBox.SentryDsn != "" {
		if err = sentry.Init(sentry.ClientOptions{Dsn: conf.DiceBox.SentryDsn}); err != nil {
			log.Error("failed to initialise sentry", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if conf.DiceBox.AskDiceCount {
		if conf.Dice.Count, err = askDiceCount(conf.Dice.Count, conf.Dice.MaxCount); err != nil {
			fatal(log, "failed to ask for the dice count", err)
		}
	}

	if *simulate > 0 {
		runSimulation(log, conf, *simulate)
		return
	}

	box, err := dicebox.New(log, conf)
	if err != nil {
		fatal(log, "failed to create dice box", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		box.Close()
	}()

	if err = box.Start(); err != nil {
		fatal(log, "dice box stopped", err)
	}
}

// askDiceCount prompts for the number of dice to roll.
func askDiceCount(current, limit int) (int, error) {
	prompt := &survey.Select{
		Message: "How many dice do you want to roll?",
		Options: lo.Map(lo.RangeFrom(1, limit), func(n int, _ int) string { return strconv.Itoa(n) }),
		Default: strconv.Itoa(current),
	}
	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		return 0, err
	}
	return strconv.Atoi(answer)
}

// runSimulation rolls the dice headlessly and prints the distribution.
func runSimulation(log *slog.Logger, conf dicebox.Config, n int) {
	rng, seed, err := random.New(conf.DiceBox.Seed)
	if err != nil {
		fatal(log, "failed to seed the dice", err)
	}
	log.Info("Simulating rolls", "rolls", n, "dice", conf.Dice.Count, "seed", seed)

	report, err := stats.Simulate(conf.SimulationConfig(), n, rng, os.Stderr)
	if err != nil {
		fatal(log, "simulation failed", err)
	}
	printReport(os.Stdout, report)
}

// printReport ...
func printReport(w io.Writer, r stats.Report) {
	var faces int
	for _, c := range r.Faces[1:] {
		faces += c
	}
	_, _ = fmt.Fprintf(w, "\n%d rolls, %d rethrows, mean %.3f\n", r.Rolls, r.Rethrows, r.Mean())
	for face := 1; face <= 6; face++ {
		_, _ = fmt.Fprintf(w, "%d: %6d  %5.2f%%\n", face, r.Faces[face], 100*float64(r.Faces[face])/float64(max(faces, 1)))
	}
}

// fatal reports err and exits.
func fatal(log *slog.Logger, msg string, err error) {
	sentry.CaptureException(err)
	sentry.Flush(2 * time.Second)
	log.Error(msg, "error", err)
	os.Exit(1)
}
