package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Timur0895/Monthly-reports-bot/pkg/history"
)

// historyCmd prints recent report runs from the local log.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently generated reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("limit")

		db, err := history.Open(viper.GetString("history_db"))
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.Recent(context.Background(), n)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no report runs recorded yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tCLIENT\tPERIOD\tURL")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s..%s\t%s\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.Client, r.Since, r.Until, r.URL)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
}
