package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/Timur0895/Monthly-reports-bot/internal/utils"
	"github.com/Timur0895/Monthly-reports-bot/pkg/catalog"
	"github.com/Timur0895/Monthly-reports-bot/pkg/fbads"
	"github.com/Timur0895/Monthly-reports-bot/pkg/gsheets"
	"github.com/Timur0895/Monthly-reports-bot/pkg/report"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "adsreport",
	Short: "Monthly advertising-performance reports for Meta Ads accounts.",
	Long: `adsreport pulls campaign insights from the Meta Graph API, classifies each
campaign's result metric by objective, and writes a formatted report into the
client's Google Spreadsheet. Clients live in a master-index spreadsheet.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.adsreport.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".adsreport")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.adsreport.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("fb_access_token", "")
	viper.SetDefault("fb_api_version", fbads.DefaultVersion)
	viper.SetDefault("google_credentials", "")
	viper.SetDefault("monthly_sheet_id", "")
	viper.SetDefault("monthly_sheet_name", catalog.DefaultTab)
	viper.SetDefault("template_sheet_name", gsheets.DefaultTemplateSheet)
	viper.SetDefault("history_db", "adsreport.sqlite")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// appDeps bundles the collaborators every runner command needs.
type appDeps struct {
	sheets *gsheets.Service
	fb     *fbads.Client
	index  *catalog.Index
	report report.Deps
}

func buildDeps(ctx context.Context) (*appDeps, error) {
	token := viper.GetString("fb_access_token")
	if token == "" {
		return nil, fmt.Errorf("fb_access_token is not set (config file or FB_ACCESS_TOKEN)")
	}
	masterID := viper.GetString("monthly_sheet_id")
	if masterID == "" {
		return nil, fmt.Errorf("monthly_sheet_id is not set (config file or MONTHLY_SHEET_ID)")
	}

	svc, err := gsheets.NewService(ctx, viper.GetString("google_credentials"))
	if err != nil {
		return nil, fmt.Errorf("google sheets auth: %w", err)
	}

	fb := fbads.NewClient(token, viper.GetString("fb_api_version"))
	if proxy, _ := rootCmd.PersistentFlags().GetString("proxy"); proxy != "" {
		if err := fb.SetProxy(proxy); err != nil {
			return nil, err
		}
	}

	return &appDeps{
		sheets: svc,
		fb:     fb,
		index:  catalog.New(svc, masterID, viper.GetString("monthly_sheet_name")),
		report: report.Deps{
			Insights: fb,
			Extras:   fb,
			Writer: &gsheets.Writer{
				API:           svc,
				TemplateSheet: viper.GetString("template_sheet_name"),
			},
		},
	}, nil
}
