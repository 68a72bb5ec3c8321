package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/teamportal/internal/app"
	"github.com/rpggio/teamportal/internal/auth"
	"github.com/rpggio/teamportal/internal/config"
	"github.com/rpggio/teamportal/internal/domain/identity"
)

type output struct {
	Command    string `json:"command"`
	DurationMS int64  `json:"duration_ms"`
	Result     any    `json:"result"`
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "portalctl",
		Short:         "Team portal maintenance tools",
		SilenceUsage:  true,
	}
	cmd.AddCommand(newMigrateCmd(), newReconcileCmd(), newRecomputeHoursCmd(), newTokenCmd())
	return cmd
}

// openApp loads configuration and opens the database, applying migrations.
func openApp() (*app.App, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	logger, _, err := app.NewLogger(config.LogConfig{Level: cfg.Log.Level}, os.Stderr)
	if err != nil {
		return nil, config.Config{}, err
	}
	a, err := app.Open(cfg, logger)
	if err != nil {
		return nil, config.Config{}, err
	}
	return a, cfg, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()
			a, cfg, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			return writeJSON(cmd.OutOrStdout(), output{
				Command:    "migrate",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     map[string]string{"db": cfg.DB.Path, "status": "ok"},
			})
		},
	}
}

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild client project rosters from project client references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			start := time.Now()
			report, err := a.Projects.ReconcileClientLinks(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), output{
				Command:    "reconcile",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     report,
			})
		},
	}
}

func newRecomputeHoursCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-hours [project-id]",
		Short: "Recompute total hours for one project, or all projects when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			start := time.Now()
			var result any
			if len(args) == 1 {
				p, err := a.Projects.RecomputeHours(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				result = map[string]any{"project": p.ID, "totalHoursSpent": p.TotalHoursSpent}
			} else {
				n, err := a.Projects.RecomputeAllHours(cmd.Context())
				if err != nil {
					return err
				}
				result = map[string]int{"projects": n}
			}
			return writeJSON(cmd.OutOrStdout(), output{
				Command:    "recompute-hours",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     result,
			})
		},
	}
}

func newTokenCmd() *cobra.Command {
	var claim identity.Claim
	var role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			claim.Role = identity.Role(role)
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}
			token, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, ttl).Sign(claim)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&claim.Subject, "sub", "", "Subject (required)")
	cmd.Flags().StringVar(&role, "role", string(identity.RoleAdmin), "Role: admin, employee, client or applicant")
	cmd.Flags().StringVar(&claim.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&claim.Email, "email", "", "Email")
	cmd.Flags().StringVar(&claim.EmployeeRef, "employee-ref", "", "Employee record ID")
	cmd.Flags().StringVar(&claim.ClientRef, "client-ref", "", "Client record ID")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to auth.token_ttl)")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
