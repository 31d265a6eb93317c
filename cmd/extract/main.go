package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/strotlog/smmusic/internal/extract"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:          "extract <rom-path>",
	Short:        "extract the decoded song tree from a Super Metroid ROM as JSON",
	Args:         cobra.ExactArgs(1),
	RunE:         runExtract,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each extraction step to stderr")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	romPath := args[0]
	log.WithField("rom", romPath).Debug("reading ROM")
	data, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	doc, err := extract.Run(data, filepath.Base(romPath))
	if err != nil {
		return fmt.Errorf("extracting: %w", err)
	}
	log.WithField("songsets", len(doc.SongSets)).Debug("extraction complete")

	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(doc)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
