// Command fintrack-dash prints a terminal dashboard of users, their
// financial summaries, and average spending per category. It reads from
// the API and degrades to bundled sample data when the API is down.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"fintrack/internal/cli"
	"fintrack/internal/client"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentClient)

	cfg := cli.LoadAndValidateConfig(logger.Logger)

	c := client.New(client.Options{
		BaseURL:        cfg.APIBaseURL,
		AllowFallback:  cfg.ClientAllowFallback,
		SimulateWrites: cfg.ClientSimulateWrites,
		Timeout:        cfg.ClientTimeout,
	})

	res, err := c.ListUsersWithSummary(context.Background())
	if err != nil {
		logger.Error("Failed to load users", applog.FieldError, err)
		os.Exit(1)
	}

	switch res.Source {
	case client.SourceLive:
		fmt.Println("Data source: live")
	case client.SourceFallback:
		fmt.Printf("Data source: sample data (%s)\n", res.Reason)
	}
	fmt.Println()

	printUsers(res.Data)
	printAverages(res.Data)
}

func printUsers(users []core.UserWithSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tINCOME\tEXPENSES\tNET")
	for _, u := range users {
		net := u.TotalIncome.Cents - u.TotalExpense.Cents
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.Name, u.Email,
			core.FormatCents(u.TotalIncome.Cents),
			core.FormatCents(u.TotalExpense.Cents),
			core.FormatCents(net))
	}
	w.Flush()
}

func printAverages(users []core.UserWithSummary) {
	averages := core.AverageExpenseByCategory(users)
	if len(averages) == 0 {
		return
	}

	categories := make([]string, 0, len(averages))
	for cat := range averages {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	fmt.Println()
	fmt.Println("Average expense per user by category:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, cat := range categories {
		fmt.Fprintf(w, "  %s\t%.2f\n", cat, averages[cat]/100)
	}
	w.Flush()
}
