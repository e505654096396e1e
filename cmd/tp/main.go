// TaskPulse CLI - predict task priorities from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskpulse/taskpulse/internal/core"
	"github.com/taskpulse/taskpulse/internal/inference"
)

var (
	serverURL string

	version = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tp",
		Short: "TaskPulse - task priority prediction",
		Long: `TaskPulse predicts a priority (HIGH/MEDIUM/LOW) for a task from
its type, time of day, and urgency, and explains the prediction.

Commands talk to a running taskpulse daemon. Prediction works
offline too: when the daemon is unreachable, the built-in rule
engine answers instead.`,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "prediction server URL (default http://localhost:8080 or TASKPULSE_SERVER)")

	rootCmd.AddCommand(predictCmd())
	rootCmd.AddCommand(analyticsCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(patternsCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *inference.Client {
	cfg := inference.DefaultConfig()
	if serverURL != "" {
		cfg.BaseURL = serverURL
	}
	return inference.NewClient(cfg)
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func predictCmd() *cobra.Command {
	var taskType, timeOfDay, urgency string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the priority of a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			input := core.TaskInput{
				TaskType:  core.TaskType(taskType),
				TimeOfDay: core.TimeOfDay(timeOfDay),
				Urgency:   core.Urgency(urgency),
			}
			if err := input.Validate(); err != nil {
				return err
			}

			ctx, cancel := cmdContext()
			defer cancel()

			pred := newClient().Predict(ctx, input)

			source := ""
			if pred.Source != core.SourceRemote {
				source = " (local)"
			}

			fmt.Printf("Priority:   %s%s\n", pred.Priority, source)
			fmt.Printf("Confidence: %.0f%%\n", pred.Confidence*100)
			fmt.Printf("Reasoning:  %s\n", pred.Reasoning)
			return nil
		},
	}

	cmd.Flags().StringVar(&taskType, "type", "", "task type (email, coding, meeting, personal, research, review)")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "time of day (morning, afternoon, evening)")
	cmd.Flags().StringVar(&urgency, "urgency", "", "urgency (high, medium, low)")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("time")
	cmd.MarkFlagRequired("urgency")

	return cmd
}

func analyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show distribution summaries of the task history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			s := newClient().Analytics(ctx)

			fmt.Printf("Total tasks: %d\n", s.TotalTasks)
			if s.TotalTasks == 0 {
				fmt.Println("No history yet. Is the daemon running?")
				return nil
			}

			fmt.Println("\nPriority distribution:")
			printCounts(priorityCounts(s.PriorityDistribution))
			fmt.Println("\nTime distribution:")
			printCounts(timeCounts(s.TimeDistribution))
			fmt.Println("\nTask type distribution:")
			printCounts(typeCounts(s.TaskTypeDistribution))
			fmt.Println("\nUrgency distribution:")
			printCounts(urgencyCounts(s.UrgencyDistribution))
			return nil
		},
	}
}

func tasksCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List recent tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			tasks, err := newClient().Tasks(ctx, limit)
			if err != nil {
				return err
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks recorded.")
				return nil
			}

			for _, task := range tasks {
				fmt.Printf("%-8s  %-10s %-10s %-7s  %s\n",
					task.Priority, task.TaskType, task.TimeOfDay, task.Urgency,
					task.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of tasks to show")
	return cmd
}

func patternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Show learned priority patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			patterns, err := newClient().Patterns(ctx)
			if err != nil {
				return err
			}

			if len(patterns) == 0 {
				fmt.Println("No patterns learned yet.")
				return nil
			}

			for _, p := range patterns {
				fmt.Printf("%s / %s / %s (%d observed):\n", p.TaskType, p.TimeOfDay, p.Urgency, p.SampleCount)
				for _, prio := range core.Priorities {
					if count, ok := p.Counts[prio]; ok {
						fmt.Printf("  %-8s %d\n", prio, count)
					}
				}
			}
			return nil
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the prediction server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			status, err := newClient().Health(ctx)
			if err != nil {
				return fmt.Errorf("server unreachable: %w", err)
			}

			fmt.Printf("Status:      %s\n", status.Status)
			fmt.Printf("Total tasks: %d\n", status.TotalTasks)
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the server's history to fresh sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			total, err := newClient().Reset(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("History reset: %d sample tasks seeded.\n", total)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tp %s\n", version)
		},
	}
}

// --- Output helpers ---

type countRow struct {
	label string
	count int
}

func printCounts(rows []countRow) {
	for _, row := range rows {
		fmt.Printf("  %-10s %d\n", row.label, row.count)
	}
}

func priorityCounts(m map[core.Priority]int) []countRow {
	rows := make([]countRow, 0, len(m))
	for _, p := range core.Priorities {
		if c, ok := m[p]; ok {
			rows = append(rows, countRow{string(p), c})
		}
	}
	return rows
}

func timeCounts(m map[core.TimeOfDay]int) []countRow {
	rows := make([]countRow, 0, len(m))
	for _, tod := range core.TimesOfDay {
		if c, ok := m[tod]; ok {
			rows = append(rows, countRow{string(tod), c})
		}
	}
	return rows
}

func typeCounts(m map[core.TaskType]int) []countRow {
	rows := make([]countRow, 0, len(m))
	for _, tt := range core.TaskTypes {
		if c, ok := m[tt]; ok {
			rows = append(rows, countRow{string(tt), c})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].count > rows[j].count })
	return rows
}

func urgencyCounts(m map[core.Urgency]int) []countRow {
	rows := make([]countRow, 0, len(m))
	for _, u := range core.Urgencies {
		if c, ok := m[u]; ok {
			rows = append(rows, countRow{string(u), c})
		}
	}
	return rows
}
