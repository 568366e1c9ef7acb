package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-dataset-sync/internal/client"
	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
	"github.com/MKhiriev/go-dataset-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("datasync-client")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	app, err := client.NewApp(cfg, staticCredentials(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}
	defer app.Close()

	ctx := context.Background()
	datasetName := getenv("DATASYNC_DATASET", "default_dataset")

	dataset, err := app.Manager().OpenOrCreateDataset(ctx, datasetName)
	if err != nil {
		log.Fatal().Err(err).Msg("open dataset error")
	}

	done := make(chan struct{})
	if err = dataset.Synchronize(ctx, &loggingCallback{log: log, done: done}); err != nil {
		log.Fatal().Err(err).Msg("start synchronize error")
	}
	<-done

	app.SyncJob().Start(ctx, dataset, &loggingCallback{log: log}, cfg.Workers.SyncInterval)
	select {}
}

// staticCredentials builds a refresh function from environment variables;
// useful for development against a stub backend.
func staticCredentials() func(context.Context) (string, string, error) {
	identityID := os.Getenv("DATASYNC_IDENTITY_ID")
	token := os.Getenv("DATASYNC_SESSION_TOKEN")

	return func(_ context.Context) (string, string, error) {
		return identityID, token, nil
	}
}

// loggingCallback logs every session outcome and accepts all remote-driven
// transitions.
type loggingCallback struct {
	log  *logger.Logger
	done chan struct{}
}

func (c *loggingCallback) OnSuccess(_ service.Dataset, updatedRecords []models.Record) {
	c.log.Info().Int("applied_records", len(updatedRecords)).Msg("synchronized")
	c.finish()
}

func (c *loggingCallback) OnFailure(err error) {
	c.log.Err(err).Msg("synchronize failed")
	c.finish()
}

func (c *loggingCallback) OnConflict(dataset service.Dataset, conflicts []models.SyncConflict) bool {
	// last writer wins: keep the remote version for every conflict
	resolved := make([]models.Record, 0, len(conflicts))
	for _, conflict := range conflicts {
		resolved = append(resolved, conflict.ResolveWithRemoteRecord())
	}
	if err := dataset.Resolve(context.Background(), resolved); err != nil {
		c.log.Err(err).Msg("conflict resolution failed")
		return false
	}
	return true
}

func (c *loggingCallback) OnDatasetDeleted(_ service.Dataset, datasetName string) bool {
	c.log.Info().Str("dataset", datasetName).Msg("dataset deleted remotely, dropping local copy")
	return true
}

func (c *loggingCallback) OnDatasetsMerged(_ service.Dataset, datasetNames []string) bool {
	c.log.Info().Strs("datasets", datasetNames).Msg("datasets merged remotely")
	return true
}

func (c *loggingCallback) finish() {
	if c.done != nil {
		select {
		case <-c.done:
		default:
			close(c.done)
		}
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
