package commands

import (
	"fmt"
	"sigahorarios/internal/catalog"
	"sigahorarios/internal/checkpoint"
	"sigahorarios/internal/importer"
	"sigahorarios/internal/notify"
	"sigahorarios/internal/pipeline"
	"sigahorarios/internal/portal"
	"sigahorarios/internal/snapshot"
	configlibsql "sigahorarios/lib/configutil/libsql"
	"time"
)

type PortalConfig struct {
	BaseUrl        string `json:"base_url"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Headless       *bool  `json:"headless"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type ScrapeConfig struct {
	Campus string `json:"campus"`
	// Period defaults to the current one when empty.
	Period          string `json:"period"`
	Shift           string `json:"shift"`
	Limit           int    `json:"limit"`
	MaxAttempts     int    `json:"max_attempts"`
	CooldownSeconds int    `json:"cooldown_seconds"`
	OutputDir       string `json:"output_dir"`
	CheckpointFile  string `json:"checkpoint_file"`
	LastImportFile  string `json:"last_import_file"`
}

type Config struct {
	Portal   PortalConfig        `json:"portal"`
	Scrape   ScrapeConfig        `json:"scrape"`
	Database configlibsql.Struct `json:"database"`
	Notify   notify.SmtpConfig   `json:"notify"`
	Cron     string              `json:"cron"`
}

func defaultConfig() Config {
	headless := true
	return Config{
		Portal: PortalConfig{
			BaseUrl:        portal.DefaultBaseURL,
			Headless:       &headless,
			TimeoutSeconds: 30,
		},
		Scrape: ScrapeConfig{
			Campus:          catalog.CasaCentral.Name,
			Shift:           catalog.Diurno.Name,
			MaxAttempts:     5,
			CooldownSeconds: 5,
			OutputDir:       snapshot.DefaultDir,
			CheckpointFile:  checkpoint.DefaultFile,
			LastImportFile:  importer.DefaultLastImportFile,
		},
		Cron: "0 4 * * *",
	}
}

func (c PortalConfig) options() portal.Options {
	return portal.Options{
		BaseURL:  c.BaseUrl,
		Username: c.Username,
		Password: c.Password,
		Headless: c.Headless == nil || *c.Headless,
		Timeout:  time.Duration(c.TimeoutSeconds) * time.Second,
	}
}

// pipelineOptions resolves the names in the config into the values the
// portal expects.
func (c ScrapeConfig) pipelineOptions(now time.Time) (pipeline.Options, error) {
	campus, err := catalog.LookupCampus(c.Campus)
	if err != nil {
		return pipeline.Options{}, err
	}
	shift, err := catalog.LookupShift(c.Shift)
	if err != nil {
		return pipeline.Options{}, err
	}
	period := catalog.CurrentPeriod(now)
	if c.Period != "" {
		period, err = catalog.ParsePeriodCode(c.Period)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("period: %w", err)
		}
	}
	if c.Limit < 0 {
		return pipeline.Options{}, fmt.Errorf("limit must not be negative, got %d", c.Limit)
	}

	return pipeline.Options{
		Campus:         campus,
		Period:         period,
		Shift:          shift,
		Limit:          c.Limit,
		MaxAttempts:    c.MaxAttempts,
		Cooldown:       time.Duration(c.CooldownSeconds) * time.Second,
		OutputDir:      c.OutputDir,
		CheckpointFile: c.CheckpointFile,
	}, nil
}
