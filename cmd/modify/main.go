package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/strotlog/smmusic/internal/modify"
)

var mode string

var rootCmd = &cobra.Command{
	Use:          "modify <rom-path>",
	Short:        "rewrite a Super Metroid ROM's note bytes from music.json",
	Args:         cobra.ExactArgs(1),
	RunE:         runModify,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&mode, "mode", string(modify.ModeInterval), "rewrite rule: interval|reverse")
}

func runModify(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	data, err := os.ReadFile("music.json")
	if err != nil {
		return fmt.Errorf("reading music.json: %w", err)
	}
	doc, err := modify.ParseDocument(data)
	if err != nil {
		return fmt.Errorf("parsing music.json: %w", err)
	}

	romPath := args[0]
	romFile, err := os.OpenFile(romPath, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("opening ROM: %w", err)
	}

	log.WithFields(logrus.Fields{"rom": romPath, "mode": mode}).Info("rewriting notes")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	applyErr := modify.Apply(modify.Mode(mode), doc, romFile, rng)
	closeErr := romFile.Close()
	if applyErr != nil {
		return fmt.Errorf("applying %s rule: %w", mode, applyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing ROM: %w", closeErr)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
