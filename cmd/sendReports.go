/*
Copyright 2025 The setlist-tools Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamband/setlist-tools/internal/store"
)

type SendReportsConfig struct {
	DbPath string
	From   string
	ApiKey string
	DryRun bool
}

// sendReportsCmd represents the send-reports command
var sendReportsCmd = &cobra.Command{
	Use:   "send-reports",
	Short: "Emails the newest stored prediction to each subscriber",
	Long:  `Each subscriber receives at most one email per prediction run.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" && !viper.GetBool("dry_run") {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SendReportsConfig{
			DbPath: viper.GetString("database"),
			From:   viper.GetString("from"),
			ApiKey: viper.GetString("sendgrid_api_key"),
			DryRun: viper.GetBool("dry_run"),
		}
		err := sendReports(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendReportsCmd)

	var dryRun bool
	sendReportsCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dry_run", sendReportsCmd.Flags().Lookup("dry_run"))
}

func sendReports(config SendReportsConfig) error {
	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	reports, err := db.ListReports()
	if err != nil {
		db.Close()
		return err
	}

	type pendingReport struct {
		email store.ReportSubscription
		run   store.PredictionRun
	}
	var pending []pendingReport
	for _, r := range reports {
		runs, err := db.ListPredictions(r.BandName)
		if err != nil {
			db.Close()
			return fmt.Errorf("listing predictions for %s: %w", r.BandName, err)
		}
		if len(runs) == 0 {
			fmt.Printf("No predictions for %s, skipping %s\n", r.BandName, r.Email)
			continue
		}

		newest := runs[0]
		if !r.Sent.IsZero() && r.Sent.After(newest.GeneratedAt) {
			fmt.Printf("Newest %s run was already sent to %s on %s, not sending.\n",
				r.BandName, r.Email, r.Sent.Format("2006-01-02"))
			continue
		}
		pending = append(pending, pendingReport{email: r, run: newest})
	}
	// sendPredictionEmail opens its own handle.
	db.Close()

	errOccurred := false
	for _, p := range pending {
		fmt.Printf("Sending %s prediction for %s to %s\n", p.run.BandName, p.run.ShowDate, p.email.Email)
		err := sendPredictionEmail(SendEmailConfig{
			DbPath:    config.DbPath,
			Band:      p.run.BandName,
			Algorithm: p.run.AlgorithmName,
			ShowDate:  p.run.ShowDate,
			From:      config.From,
			To:        p.email.Email,
			ApiKey:    config.ApiKey,
			DryRun:    config.DryRun,
		})
		if err != nil {
			errOccurred = true
			fmt.Printf("sendPredictionEmail: %v\n", err)
			continue
		}
		if !config.DryRun {
			if err := markSent(config.DbPath, p.email.Email); err != nil {
				errOccurred = true
				fmt.Printf("recording send: %v\n", err)
			}
		}
	}

	if errOccurred {
		return fmt.Errorf("Error occurred while sending reports")
	}
	return nil
}

func markSent(dbPath, email string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.MarkReportSent(email, time.Now())
}
