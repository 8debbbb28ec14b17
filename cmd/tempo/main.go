package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tempo/internal/bootstrap"
	hookdto "tempo/internal/modules/hook/dto"
	sessiondto "tempo/internal/modules/session/dto"
	"tempo/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataPath string

	root := &cobra.Command{
		Use:           "tempo",
		Short:         "Terminal deep-work timer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataPath, "data", "", "data directory (default ~/.tempo)")

	root.AddCommand(newTUICmd(&dataPath))
	root.AddCommand(newSessionCmd(&dataPath))
	root.AddCommand(newActivityCmd(&dataPath))
	root.AddCommand(newGoalCmd(&dataPath))
	root.AddCommand(newReportCmd(&dataPath))
	root.AddCommand(newHookCmd(&dataPath))
	return root
}

func loadApp(dataPath string) (*bootstrap.App, error) {
	cfg, err := config.New(dataPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the tempo terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newSessionCmd(dataPath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Track work sessions"}

	var goalID string
	start := &cobra.Command{
		Use:   "start <activity>",
		Short: "Start tracking an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Start(context.Background(), args[0], goalID)
			if err != nil {
				return err
			}
			if out.AlreadyActive {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "already tracking %s (started %s)\n",
					out.ActivityName, out.StartedAt.Format("15:04:05"))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tracking %s\n", out.ActivityName)
			return nil
		},
	}
	start.Flags().StringVar(&goalID, "goal", "", "goal to credit (defaults to the activity's goal)")

	session.AddCommand(start)

	session.AddCommand(&cobra.Command{
		Use:   "pause",
		Short: "Pause the running session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sessionOp(cmd, *dataPath, "pause")
		},
	})
	session.AddCommand(&cobra.Command{
		Use:   "resume",
		Short: "Resume a paused session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sessionOp(cmd, *dataPath, "resume")
		},
	})
	session.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "End the running session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sessionOp(cmd, *dataPath, "end")
		},
	})

	var mood int
	var notes string
	save := &cobra.Command{
		Use:   "save",
		Short: "Save the ended session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Save(context.Background(), mood, notes)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s across %d day(s), record %s\n",
				out.Duration, out.Segments, out.RecordID)
			if out.GoalID != "" && !out.GoalApplied {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "note: goal progress was not updated; run goal recompute")
			}
			if out.JournalPath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "journal: %s\n", out.JournalPath)
			}
			return nil
		},
	}
	save.Flags().IntVar(&mood, "mood", 0, "mood rating 1-5")
	save.Flags().StringVar(&notes, "notes", "", "session notes")
	session.AddCommand(save)

	session.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			status, err := app.SessionCLI.Status(context.Background())
			if err != nil {
				return err
			}
			if !status.HasSession {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no session")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", status.ActivityName, status.State, status.Elapsed)
			return nil
		},
	})

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent saved sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			sessions, err := app.SessionCLI.ListRecent(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range sessions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", s.Date, s.ActivityName, s.Duration, s.Notes)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "max sessions to show")
	session.AddCommand(list)

	return session
}

func sessionOp(cmd *cobra.Command, dataPath, op string) error {
	app, err := loadApp(dataPath)
	if err != nil {
		return err
	}
	ctx := context.Background()
	var (
		status sessiondto.StatusOutput
		label  string
	)
	switch op {
	case "pause":
		status, err = app.SessionCLI.Pause(ctx)
		label = "paused"
	case "resume":
		status, err = app.SessionCLI.Resume(ctx)
		label = "resumed"
	case "end":
		status, err = app.SessionCLI.End(ctx)
		label = "ended"
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s at %s\n", label, status.Elapsed)
	return nil
}

func newActivityCmd(dataPath *string) *cobra.Command {
	activity := &cobra.Command{Use: "activity", Short: "Manage activities"}

	var goalID string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an activity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.ActivityCLI.Add(context.Background(), strings.Join(args, " "), goalID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", out.Name, out.ID)
			return nil
		},
	}
	add.Flags().StringVar(&goalID, "goal", "", "default goal for this activity")
	activity.AddCommand(add)

	var includeArchived bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			activities, err := app.ActivityCLI.List(context.Background(), includeArchived)
			if err != nil {
				return err
			}
			if len(activities) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no activities")
				return nil
			}
			for _, a := range activities {
				goal := a.GoalID
				if goal == "" {
					goal = "-"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tgoal=%s\n", a.ID, a.Name, goal)
			}
			return nil
		},
	}
	list.Flags().BoolVar(&includeArchived, "all", false, "include archived activities")
	activity.AddCommand(list)

	activity.AddCommand(&cobra.Command{
		Use:   "archive <id>",
		Short: "Archive an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			if err := app.ActivityCLI.Archive(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "archived %s\n", args[0])
			return nil
		},
	})

	return activity
}

func newGoalCmd(dataPath *string) *cobra.Command {
	goal := &cobra.Command{Use: "goal", Short: "Manage goals"}

	var hours float64
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.GoalCLI.Add(context.Background(), strings.Join(args, " "), int64(hours*3600))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added goal %s (%s)\n", out.Name, out.ID)
			return nil
		},
	}
	add.Flags().Float64Var(&hours, "hours", 0, "target hours")
	goal.AddCommand(add)

	goal.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List goals with progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			goals, err := app.GoalCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no goals")
				return nil
			}
			for _, g := range goals {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.1fh / %.1fh\t%.1f%%\n",
					g.ID, g.Name, float64(g.ProgressSeconds)/3600, float64(g.TargetSeconds)/3600, g.PercentComplete)
			}
			return nil
		},
	})

	goal.AddCommand(&cobra.Command{
		Use:   "recompute <id>",
		Short: "Rebuild a goal's progress from saved session history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			total, err := app.SessionUC.TotalByGoal(context.Background(), args[0])
			if err != nil {
				return err
			}
			out, err := app.GoalCLI.Recompute(context.Background(), args[0], total)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %.1fh (%.1f%%)\n",
				out.Name, float64(out.ProgressSeconds)/3600, out.PercentComplete)
			return nil
		},
	})

	return goal
}

func newReportCmd(dataPath *string) *cobra.Command {
	var days int
	report := &cobra.Command{
		Use:   "report",
		Short: "Per-day totals for recent days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			totals, err := app.SessionCLI.ReportDaily(context.Background(), days)
			if err != nil {
				return err
			}
			if len(totals) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing logged")
				return nil
			}
			for _, t := range totals {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d session(s)\n", t.Date, t.Total, t.Sessions)
			}
			return nil
		},
	}
	report.Flags().IntVar(&days, "days", 7, "days to cover")
	return report
}

func newHookCmd(dataPath *string) *cobra.Command {
	hook := &cobra.Command{Use: "hook", Short: "Manage hooks"}

	hook.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installed hooks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			hooks, err := app.HookCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(hooks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hooks")
				return nil
			}
			for _, h := range hooks {
				state := "disabled"
				if h.Enabled {
					state = "enabled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
					h.Name, h.Version, state, strings.Join(h.Capabilities, ","))
			}
			return nil
		},
	})

	hook.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check hook binaries, checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			results, err := app.HookCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			for _, r := range results {
				status := "ok"
				if r.Error != "" {
					status = r.Error
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tbinary=%t checksum=%t lifecycle=%t\t%s\n",
					r.Name, r.BinaryReachable, r.ChecksumValid, r.LifecycleOK, status)
			}
			return nil
		},
	})

	hook.AddCommand(&cobra.Command{
		Use:   "commands <hook>",
		Short: "List a hook's commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			commands, err := app.HookCLI.ListCommands(context.Background(), args[0])
			if err != nil {
				return err
			}
			for _, c := range commands {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", c.ID, c.Kind, c.Title)
			}
			return nil
		},
	})

	var inputJSON string
	run := &cobra.Command{
		Use:   "run <hook> <command>",
		Short: "Run a hook command",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			out, err := app.HookCLI.Run(context.Background(), hookdto.ExecuteInput{
				HookName:  args[0],
				CommandID: args[1],
				InputJSON: inputJSON,
				DataPath:  app.Cfg.DataPath,
				Cwd:       cwd,
			})
			if err != nil {
				return err
			}
			if out.Stdout != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Stdout)
			}
			if out.OutputJSON != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.OutputJSON)
			}
			if out.ExitCode != 0 {
				return fmt.Errorf("hook exited with code %d: %s", out.ExitCode, out.Stderr)
			}
			return nil
		},
	}
	run.Flags().StringVar(&inputJSON, "input-json", "", "JSON payload for the command")
	hook.AddCommand(run)

	return hook
}
