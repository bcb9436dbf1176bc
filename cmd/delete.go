package cmd

import (
	"context"
	"log"

	"github.com/resumatch/resumatch/internal/logger"
	"github.com/resumatch/resumatch/internal/resume"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <record-id>",
	Short: "Delete a stored analysis record",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		deleteRecord(args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func deleteRecord(recordID string) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	recordStore, err := newStore(config)
	if err != nil {
		logg.Fatal("creating record store", zap.Error(err))
	}

	manager := resume.NewManager(recordStore, nil, logg)

	if err := manager.Delete(ctx, recordID); err != nil {
		logg.Fatal("deleting resume record", zap.Error(err))
	}
}
