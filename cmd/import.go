package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/happykids/kidsdiag/internal/ingest"
	"github.com/happykids/kidsdiag/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import game result exports (JSON array or JSONL, optionally .zst)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		childID, _ := cmd.Flags().GetString("child")
		name, _ := cmd.Flags().GetString("name")
		birth, _ := cmd.Flags().GetString("birth")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if childID != "" {
			if err := registerChild(ctx, e, childID, name, birth); err != nil {
				return err
			}
		}

		reader, err := ingest.NewReader(ingest.Options{ChildID: childID})
		if err != nil {
			return err
		}

		var total, rejected int
		for _, path := range args {
			st, err := importFile(ctx, e, reader, path)
			if err != nil {
				return err
			}
			total += st.imported
			rejected += st.rejected
			fmt.Printf("%-40s  %5d imported  %5d rejected  batch %d\n",
				truncate(path, 40), st.imported, st.rejected, st.batch)
		}
		if len(args) > 1 {
			fmt.Printf("%-40s  %5d imported  %5d rejected\n", "TOTAL", total, rejected)
		}
		return nil
	},
}

func registerChild(ctx context.Context, e *env, id, name, birth string) error {
	c := store.Child{ID: id, Name: name}
	if birth != "" {
		t, err := time.Parse(time.DateOnly, birth)
		if err != nil {
			return fmt.Errorf("invalid --birth %q (want YYYY-MM-DD): %w", birth, err)
		}
		c.BirthDate = t
	}
	if err := e.store.ChildRepo().Upsert(ctx, c); err != nil {
		return fmt.Errorf("register child: %w", err)
	}
	return nil
}

type importStats struct {
	imported int
	rejected int
	batch    int64
	children []string
}

// importFile reads one export and stores the valid records. Rejected
// objects are reported on stderr and do not fail the import.
func importFile(ctx context.Context, e *env, reader *ingest.Reader, path string) (importStats, error) {
	res, err := reader.ReadFile(path)
	if err != nil {
		return importStats{}, err
	}
	for _, verr := range res.Errors {
		fmt.Fprintln(os.Stderr, "skip:", verr)
	}

	st := importStats{imported: len(res.Records), rejected: len(res.Errors)}
	if len(res.Records) == 0 {
		return st, nil
	}

	seen := make(map[string]bool)
	for _, rec := range res.Records {
		if seen[rec.ChildID] {
			continue
		}
		seen[rec.ChildID] = true
		st.children = append(st.children, rec.ChildID)
		if err := e.store.ChildRepo().Upsert(ctx, store.Child{ID: rec.ChildID}); err != nil {
			return st, fmt.Errorf("register child %s: %w", rec.ChildID, err)
		}
	}

	st.batch, err = e.store.ResultRepo().Append(ctx, res.Records)
	if err != nil {
		return st, fmt.Errorf("store %s: %w", path, err)
	}
	e.logger.Info("export imported", "file", path, "records", st.imported,
		"rejected", st.rejected, "batch", st.batch)
	return st, nil
}

func init() {
	importCmd.Flags().StringP("child", "c", "", "Child ID for records without child_id")
	importCmd.Flags().String("name", "", "Child display name (with --child)")
	importCmd.Flags().String("birth", "", "Child birth date YYYY-MM-DD (with --child)")
}
