package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/genolite/genolite/internal/duckdb"
)

func newRunsCmd() *cobra.Command {
	var (
		storePath string
		limit     int
		chroms    bool
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded conversion runs",
		Long:  "List conversion runs recorded with 'convert --store', newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("store") {
				storePath = viper.GetString("convert.store")
			}
			if storePath == "" {
				return fmt.Errorf("no run store configured (use --store or set convert.store)")
			}
			return runRuns(storePath, limit, chroms)
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "DuckDB run history file")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list")
	cmd.Flags().BoolVar(&chroms, "chromosomes", false, "include per-chromosome record counts")

	return cmd
}

func runRuns(storePath string, limit int, chroms bool) error {
	store, err := duckdb.Open(storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no conversion runs recorded")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("#%d  %s  %s -> %s\n", r.ID,
			r.StartedAt.Format("2006-01-02 15:04:05"), r.InputPath, r.OutputPath)
		fmt.Printf("     format=%s sample=%s records=%d/%d\n",
			r.Format, r.SampleName, r.ValidRecords, r.TotalRecords)

		if !chroms {
			continue
		}
		counts, err := store.ChromosomeCounts(r.ID)
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(counts))
		for c := range counts {
			keys = append(keys, c)
		}
		sort.Strings(keys)
		for _, c := range keys {
			fmt.Printf("     chr %-3s %d\n", c, counts[c])
		}
	}

	return nil
}
