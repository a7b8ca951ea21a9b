package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/db"
	"github.com/jsphweid/mpusynth/model"
	"github.com/spf13/cobra"
)

var sessionsEndpoint string

func init() {
	sessionsCmd.Flags().StringVar(&sessionsEndpoint, "dynamo-endpoint", constants.GetDynamoEndpoint(), "DynamoDB endpoint")
	rootCmd.AddCommand(sessionsCmd)
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions <id>...",
	Short: "Looks up stored session summaries",
	Long:  `Prints the stored summaries of the given sessions.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionsEndpoint == "" {
			return fmt.Errorf("no DynamoDB endpoint, set --dynamo-endpoint or MPUSYNTH_DYNAMO_ENDPOINT")
		}
		ids := make([]uuid.UUID, 0, len(args))
		for _, a := range args {
			id, err := uuid.Parse(a)
			if err != nil {
				return fmt.Errorf("session id %q: %w", a, err)
			}
			ids = append(ids, id)
		}
		store, err := db.New(sessionsEndpoint)
		if err != nil {
			return err
		}
		found, err := store.GetSessions(cmd.Context(), ids)
		if err != nil {
			return err
		}
		printSessions(os.Stdout, ids, found)
		return nil
	},
}

func printSessions(w io.Writer, ids []uuid.UUID, found map[uuid.UUID]model.Session) {
	for _, id := range ids {
		s, ok := found[id]
		if !ok {
			fmt.Fprintf(w, "%s: not found\n", id)
			continue
		}
		fmt.Fprintf(w, "%s: seed %d, %v, %d melody notes, %d bass notes\n",
			id, s.Seed, s.Ended.Sub(s.Started).Round(time.Second), s.MelodyNotes, s.BassNotes)
	}
}
