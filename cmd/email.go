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

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamband/setlist-tools/internal/store"
)

type SendEmailConfig struct {
	DbPath    string
	Band      string
	Algorithm string
	ShowDate  string
	From      string
	To        string
	ApiKey    string
	DryRun    bool
}

// emailCmd represents the email command
var emailCmd = &cobra.Command{
	Use:   "email <address> <date>",
	Short: "Emails a stored setlist prediction",
	Long:  `Sends the stored prediction run for the given show date to the specified address.`,
	Args:  cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SendEmailConfig{
			DbPath:    viper.GetString("database"),
			Band:      viper.GetString("band"),
			Algorithm: viper.GetString("algorithm"),
			ShowDate:  args[1],
			From:      viper.GetString("from"),
			To:        args[0],
			ApiKey:    viper.GetString("sendgrid_api_key"),
			DryRun:    viper.GetBool("dry_run"),
		}
		err := sendPredictionEmail(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dry_run", emailCmd.Flags().Lookup("dry_run"))

	var algorithm string
	emailCmd.Flags().StringVar(&algorithm, "algorithm", "goldilocks_v9.0", "Algorithm name of the stored run")
	viper.BindPFlag("algorithm", emailCmd.Flags().Lookup("algorithm"))
}

func sendPredictionEmail(config SendEmailConfig) error {
	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	songs, err := db.GetPredictedSongs(config.Band, config.Algorithm, config.ShowDate)
	if err != nil {
		return err
	}
	if len(songs) == 0 {
		return fmt.Errorf("no stored %s prediction for %s on %s - run predict --save first",
			config.Algorithm, config.Band, config.ShowDate)
	}

	subject, body := generatePredictionEmail(config.Band, config.ShowDate, songs)

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}

	if config.ApiKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("setlist-tools", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(config.ApiKey)
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	fmt.Printf("Sent prediction for %s to %s\n", config.ShowDate, config.To)
	return nil
}

func generatePredictionEmail(band, showDate string, songs []store.StoredPrediction) (subject string, body string) {
	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`
	out += fmt.Sprintf("<h2>Setlist prediction for %s on %s:</h2>\n", band, showDate)
	out += `
<table>
	<thead>
		<tr><th>Rank</th><th>Song</th><th>Confidence</th><th>Slot</th><th>Reasoning</th></tr>
	</thead>
	<tbody>
`
	for _, song := range songs {
		out += fmt.Sprintf("<tr><td>%d</td><td>%s</td><td>%.1f%%</td><td>%s</td><td>%s</td></tr>\n",
			song.Rank, song.SongName, song.Confidence*100, song.SlotType, song.Reasoning)
	}
	out += `
	</tbody>
</table>
  </body>
</html>
`

	subject = fmt.Sprintf("Setlist prediction: %s on %s", band, showDate)
	return subject, out
}
