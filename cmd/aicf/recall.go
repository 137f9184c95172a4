package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aicf-dev/aicf/internal/recall"
)

var recallLimit int

func init() {
	rootCmd.AddCommand(recallCmd)
	recallCmd.AddCommand(recallReindexCmd)
	recallCmd.Flags().IntVar(&recallLimit, "limit", 5, "maximum number of hits to print")
}

var recallCmd = &cobra.Command{
	Use:   "recall <query>",
	Short: "Search past sessions by decision, title and summary text",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecall,
}

var recallReindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the recall index from sessions/, medium/ and old/",
	Args:  cobra.NoArgs,
	RunE:  runRecallReindex,
}

func openRecallIndex() (*recall.Index, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	return recall.NewIndex(root)
}

func runRecall(cmd *cobra.Command, args []string) error {
	index, err := openRecallIndex()
	if err != nil {
		return fmt.Errorf("opening recall index: %w", err)
	}
	defer index.Close()

	hits, err := index.Query(context.Background(), args[0], recallLimit)
	if err != nil {
		return fmt.Errorf("querying recall index: %w", err)
	}
	if len(hits) == 0 {
		cmd.Println("No hits. Has the index been built yet? Try: aicf recall reindex")
		return nil
	}
	for _, h := range hits {
		cmd.Printf("%.3f\t%s\t%s\t%s\n", h.Score, h.Timestamp.Format("2006-01-02T15:04:05Z07:00"), h.SessionFile, h.Title)
	}
	return nil
}

func runRecallReindex(cmd *cobra.Command, args []string) error {
	index, err := openRecallIndex()
	if err != nil {
		return fmt.Errorf("opening recall index: %w", err)
	}
	defer index.Close()

	stats, err := index.Reindex(context.Background())
	if err != nil {
		return fmt.Errorf("reindexing: %w", err)
	}
	cmd.Printf("Read %d file(s), indexed %d row(s), skipped %d row(s) with no indexable text\n",
		stats.FilesRead, stats.RowsIndexed, stats.RowsSkipped)
	return nil
}
