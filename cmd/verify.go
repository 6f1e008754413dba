package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Timur0895/Monthly-reports-bot/internal/utils"
)

// pingCell sits far outside the report layout so a write-check never
// touches real data.
const pingCell = "ZZ1000"

// verifyCmd checks that the service account can reach the master index and
// every client spreadsheet.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify access to the master index and all client spreadsheets",
	RunE: func(cmd *cobra.Command, args []string) error {
		writeCheck, _ := cmd.Flags().GetBool("write-check")

		ctx := context.Background()
		deps, err := buildDeps(ctx)
		if err != nil {
			return err
		}

		clients, err := deps.index.LoadClients(ctx)
		if err != nil {
			return fmt.Errorf("master index not reachable: %w", err)
		}
		fmt.Printf("master index ok, %d clients\n", len(clients))

		var warned, failed int
		for _, c := range clients {
			if c.SpreadsheetID == "" {
				warned++
				utils.Log.Warnf("%s: empty spreadsheet_id", c.AdName)
				continue
			}

			worksheets, err := deps.sheets.ListWorksheets(ctx, c.SpreadsheetID)
			if err != nil || len(worksheets) == 0 {
				failed++
				utils.Log.Errorf("%s: cannot open %s: %v", c.AdName, c.SpreadsheetID, err)
				continue
			}

			if writeCheck {
				if err := pingWrite(ctx, deps, c.SpreadsheetID, worksheets[0].Title); err != nil {
					failed++
					utils.Log.Errorf("%s: write check failed: %v", c.AdName, err)
					continue
				}
				fmt.Printf("%s: ok, writable (sheet: %s)\n", c.AdName, worksheets[0].Title)
			} else {
				fmt.Printf("%s: ok (sheet: %s)\n", c.AdName, worksheets[0].Title)
			}
		}

		fmt.Printf("checked=%d warnings=%d failures=%d\n", len(clients), warned, failed)
		if failed > 0 {
			return fmt.Errorf("%d spreadsheets not accessible", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().Bool("write-check", false, "Also write and restore a far-away cell")
}

// pingWrite writes a marker into a remote cell and restores the previous
// value right away.
func pingWrite(ctx context.Context, deps *appDeps, spreadsheetID, sheetTitle string) error {
	cell := fmt.Sprintf("'%s'!%s", sheetTitle, pingCell)

	old := ""
	if values, err := deps.sheets.GetRange(ctx, spreadsheetID, cell); err == nil && len(values) > 0 && len(values[0]) > 0 {
		old = values[0][0]
	}
	if err := deps.sheets.UpdateCell(ctx, spreadsheetID, cell, "__ping__"); err != nil {
		return err
	}
	return deps.sheets.UpdateCell(ctx, spreadsheetID, cell, old)
}
