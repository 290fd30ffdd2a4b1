package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/happykids/kidsdiag/internal/diagnosis"
	"github.com/happykids/kidsdiag/internal/narrative"
	"github.com/happykids/kidsdiag/internal/profile"
	"github.com/happykids/kidsdiag/internal/render"
	"github.com/happykids/kidsdiag/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report [child]",
	Short: "Compute and print a child's diagnostic profile",
	Args: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		noJitter, _ := cmd.Flags().GetBool("no-jitter")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		engine, err := e.engine(noJitter)
		if err != nil {
			return err
		}
		if all {
			return reportAll(cmd, e, engine)
		}
		return reportOne(cmd, e, engine, args[0])
	},
}

func subjectOf(c store.Child) profile.Subject {
	return profile.Subject{ID: c.ID, Name: c.Name, Birth: c.BirthDate}
}

func reportOne(cmd *cobra.Command, e *env, engine *profile.Engine, childID string) error {
	ctx := cmd.Context()
	asJSON, _ := cmd.Flags().GetBool("json")
	narrate, _ := cmd.Flags().GetBool("narrate")
	save, _ := cmd.Flags().GetBool("save")
	width, _ := cmd.Flags().GetInt("width")

	child, err := e.store.ChildRepo().Get(ctx, childID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("unknown child %q (import results first)", childID)
	}
	if err != nil {
		return err
	}

	records, err := e.store.RecordsFor(ctx, childID, engine.Config().MaxRecords)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	r := engine.BuildFor(subjectOf(*child), records)

	var n *narrative.Narrative
	if svc := e.narrator(cmd, narrate); svc != nil {
		n = svc.Describe(ctx, r)
	}

	if save {
		if err := saveProfile(ctx, e, r); err != nil {
			return err
		}
	}

	if asJSON {
		return render.JSON(os.Stdout, r, n)
	}
	fmt.Print(render.New(engine.Config().Quality, width).Report(r, n))
	return nil
}

func reportAll(cmd *cobra.Command, e *env, engine *profile.Engine) error {
	ctx := cmd.Context()
	asJSON, _ := cmd.Flags().GetBool("json")

	children, err := e.store.ChildRepo().List(ctx)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}
	subjects := make([]profile.Subject, len(children))
	for i, c := range children {
		subjects[i] = subjectOf(c.Child)
	}

	outcomes, err := engine.BuildAll(ctx, e.store, subjects, e.cfg.Engine.Workers)
	if err != nil {
		return err
	}

	var (
		docs   []render.Document
		failed int
	)
	if !asJSON {
		fmt.Printf("%-20s  %7s  %-24s  %s\n", "Child", "Records", "Style", "Diagnoses")
		fmt.Println(strings.Repeat("─", 80))
	}
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			e.logger.Warn("report failed", "child", o.Subject.ID, "err", o.Err)
			continue
		}
		r := o.Report
		if !r.Insufficient() {
			if err := saveProfile(ctx, e, r); err != nil {
				return err
			}
		}
		if asJSON {
			docs = append(docs, render.Document{Report: r})
			continue
		}
		diag := strings.Join(diagnosis.Codes(r.Matches), ", ")
		if diag == "" {
			diag = "-"
		}
		fmt.Printf("%-20s  %7d  %-24s  %s\n",
			truncate(o.Subject.ID, 20), r.Records, truncate(r.Profile.CognitiveStyle.Label(), 24), diag)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(docs); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(outcomes))
	}
	return nil
}

// saveProfile persists the profile part of r and prunes old snapshots.
func saveProfile(ctx context.Context, e *env, r *profile.Report) error {
	data, err := json.Marshal(r.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	snap := &store.ProfileSnapshot{
		ChildID:   r.ChildID,
		CreatedAt: r.GeneratedAt,
		Records:   r.Records,
		Data:      data,
	}
	repo := e.store.ProfileRepo()
	if err := repo.Save(ctx, snap); err != nil {
		return err
	}
	if keep := e.cfg.Storage.KeepProfiles; keep > 0 {
		if err := repo.Prune(ctx, r.ChildID, keep); err != nil {
			return err
		}
	}
	e.logger.Debug("profile saved", "child", r.ChildID, "id", snap.ID)
	return nil
}

func init() {
	reportCmd.Flags().Bool("all", false, "Report every child and save their profiles")
	reportCmd.Flags().Bool("json", false, "Print the report as JSON")
	reportCmd.Flags().Bool("narrate", false, "Add an LLM narrative even if disabled in config")
	reportCmd.Flags().Bool("no-jitter", false, "Disable the illustrative heatmap perturbation")
	reportCmd.Flags().Bool("save", false, "Save the profile snapshot")
	reportCmd.Flags().Int("width", render.DefaultWidth, "Output width in columns")
}
