package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Timur0895/Monthly-reports-bot/internal/utils"
	"github.com/Timur0895/Monthly-reports-bot/pkg/catalog"
	"github.com/Timur0895/Monthly-reports-bot/pkg/history"
	"github.com/Timur0895/Monthly-reports-bot/pkg/period"
)

// reportCmd generates one report for one client.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report for a single client",
	Long: `Generates an advertising-performance report for one master-index client.
Accepted period formats: "last 30 days", "01.10-20.10",
"2025-10-01..2025-10-20", "october 2025".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		clientName, _ := cmd.Flags().GetString("client")
		periodText, _ := cmd.Flags().GetString("period")
		if clientName == "" {
			return fmt.Errorf("please provide the client name (-c flag)")
		}
		if periodText == "" {
			return fmt.Errorf("please provide the report period (-p flag)")
		}

		dr, err := period.Parse(periodText, time.Now())
		if err != nil {
			return err
		}

		ctx := context.Background()
		deps, err := buildDeps(ctx)
		if err != nil {
			return err
		}

		client, err := deps.index.FindClientByName(ctx, clientName)
		if err != nil {
			return err
		}

		url, err := runClientReport(ctx, deps, client, dr)
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("client", "c", "", "Client name as listed in the master index")
	reportCmd.Flags().StringP("period", "p", "", "Report period")
}

// runClientReport validates the catalog row, generates the report and logs
// the run to the local history. A history failure never fails the run.
func runClientReport(ctx context.Context, deps *appDeps, client catalog.Client, dr period.DateRange) (string, error) {
	if client.AdAccountID == "" || client.SpreadsheetID == "" {
		return "", fmt.Errorf("client %q has no ad_account_id or spreadsheet_id in the master index", client.AdName)
	}

	url, err := deps.report.Generate(ctx, client.AdName, client.AdAccountID, client.SpreadsheetID, dr)
	if err != nil {
		return "", err
	}

	if db, err := history.Open(viper.GetString("history_db")); err != nil {
		utils.Log.Warnf("run history unavailable: %v", err)
	} else {
		defer db.Close()
		if err := db.Record(ctx, history.RunRecord{
			Client:    client.AdName,
			AccountID: client.AdAccountID,
			Since:     dr.Since,
			Until:     dr.Until,
			URL:       url,
		}); err != nil {
			utils.Log.Warnf("recording run history: %v", err)
		}
	}
	return url, nil
}
