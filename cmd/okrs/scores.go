package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arnold/okrs-api/internal/config"
	"github.com/arnold/okrs-api/internal/middleware"
	"github.com/arnold/okrs-api/internal/services"
	"github.com/arnold/okrs-api/internal/store"
)

// resolveCycle parses --cycle, or falls back to the organisation's active
// cycle.
func resolveCycle(ctx context.Context, cycles store.CycleStore, orgID uuid.UUID, raw string) (uuid.UUID, error) {
	if raw != "" {
		return uuid.Parse(raw)
	}
	active, err := cycles.GetActiveCycle(ctx, orgID)
	if err != nil {
		return uuid.Nil, err
	}
	if active == nil {
		return uuid.Nil, errors.New("organisation has no active cycle, pass --cycle")
	}
	return active.ID, nil
}

func recalculateCmd() *cobra.Command {
	var orgFlag, cycleFlag string
	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Recompute every objective score in a cycle",
		Long:  "Re-runs score propagation for every objective in the cycle and lists the scores that were stale.",
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := uuid.Parse(orgFlag)
			if err != nil {
				return fmt.Errorf("--org: %w", err)
			}
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			cycleID, err := resolveCycle(ctx, e.store, orgID, cycleFlag)
			if err != nil {
				return err
			}
			repairs, err := e.okrService(nil).RecalculateCycle(ctx, orgID, cycleID)
			if err != nil {
				return err
			}
			if len(repairs) == 0 {
				fmt.Println("All objective scores are up to date")
				return nil
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Objective", "Title", "Before", "After"})
			for _, r := range repairs {
				tw.AppendRow(table.Row{r.ObjectiveID, r.Title, r.Before, r.After})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&orgFlag, "org", "", "organisation id")
	cmd.Flags().StringVar(&cycleFlag, "cycle", "", "cycle id (defaults to the active cycle)")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

func scoresCmd() *cobra.Command {
	var orgFlag, cycleFlag string
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show objective scores and health for a cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := uuid.Parse(orgFlag)
			if err != nil {
				return fmt.Errorf("--org: %w", err)
			}
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			cycleID, err := resolveCycle(ctx, e.store, orgID, cycleFlag)
			if err != nil {
				return err
			}
			summary, err := e.okrService(nil).CycleHealth(ctx, orgID, cycleID)
			if err != nil {
				return err
			}
			renderHealth(summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&orgFlag, "org", "", "organisation id")
	cmd.Flags().StringVar(&cycleFlag, "cycle", "", "cycle id (defaults to the active cycle)")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

func renderHealth(summary *services.HealthSummary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Objective", "Score", "Score RAG", "Status", "Key results"})
	for _, o := range summary.Objectives {
		tw.AppendRow(table.Row{o.Title, fmt.Sprintf("%.2f", o.Score), o.ScoreRAG, o.Status, o.KeyResults})
	}
	d := summary.KeyResults
	tw.AppendFooter(table.Row{
		"Average",
		fmt.Sprintf("%.2f", summary.AverageScore),
		"",
		fmt.Sprintf("%d%% on / %d%% at risk / %d%% off", d.PctOnTrack, d.PctAtRisk, d.PctOffTrack),
		d.Total,
	})
	tw.Render()
}

func tokenCmd() *cobra.Command {
	var userFlag, orgFlag, email string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			orgID, err := uuid.Parse(orgFlag)
			if err != nil {
				return fmt.Errorf("--org: %w", err)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, err := middleware.GenerateToken(cfg.JWTSecret, userID, orgID, email, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userFlag, "user", "", "user id")
	cmd.Flags().StringVar(&orgFlag, "org", "", "organisation id")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 7*24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}
