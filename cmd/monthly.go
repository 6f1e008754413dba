package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Timur0895/Monthly-reports-bot/internal/utils"
	"github.com/Timur0895/Monthly-reports-bot/pkg/catalog"
	"github.com/Timur0895/Monthly-reports-bot/pkg/period"
)

const clientCacheTTL = 60 * time.Second

// monthlyCmd runs the report for every catalog client.
var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Generate reports for every client in the master index",
	Long: `Runs the report pipeline for each client listed in the master index.
Without --period the previous calendar month is used. Failures for one
client are logged and the run continues with the next one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		periodText, _ := cmd.Flags().GetString("period")

		var dr period.DateRange
		var err error
		if periodText == "" {
			dr = previousMonth(time.Now())
		} else if dr, err = period.ParseDayMonth(periodText, time.Now()); err != nil {
			// Strict day.month grammar first (direct invocation format),
			// then the full grammar set.
			if dr, err = period.Parse(periodText, time.Now()); err != nil {
				return err
			}
		}

		ctx := context.Background()
		deps, err := buildDeps(ctx)
		if err != nil {
			return err
		}

		cache := catalog.NewCache(deps.index, clientCacheTTL)
		clients, err := cache.GetOrRefresh(ctx)
		if err != nil {
			return err
		}
		if len(clients) == 0 {
			return fmt.Errorf("master index has no clients")
		}

		var failed int
		for _, client := range clients {
			url, err := runClientReport(ctx, deps, client, dr)
			if err != nil {
				failed++
				utils.Log.Errorf("%s: %v", client.AdName, err)
				continue
			}
			fmt.Printf("%s\t%s\n", client.AdName, url)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d reports failed", failed, len(clients))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
	monthlyCmd.Flags().StringP("period", "p", "", "Report period (default: previous calendar month)")
}

func previousMonth(now time.Time) period.DateRange {
	firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	first := firstOfThis.AddDate(0, -1, 0)
	last := firstOfThis.AddDate(0, 0, -1)
	return period.DateRange{Since: first.Format("2006-01-02"), Until: last.Format("2006-01-02")}
}
