// Package config provides configuration loading and path utilities.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/elaraway/tradeflow/internal/common"
	"github.com/elaraway/tradeflow/internal/model"
)

// Defaults for the acquisition loop. The timeouts mirror the remote report
// tool's observed behavior: the form renders quickly, the export button can
// lag well behind query completion, and downloads of large months take the
// longest.
const (
	DefaultStartYear       = 2018
	DefaultFormTimeout     = 10 * time.Second
	DefaultExportTimeout   = 20 * time.Second
	DefaultDownloadTimeout = 60 * time.Second
	DefaultPollInterval    = time.Second
	DefaultSettleDelay     = time.Second
)

// Form holds the element selectors for one flow's report page. The import
// and export pages are near-identical templates with distinct field IDs.
type Form struct {
	URL          string
	CodeInput    string
	MonthSelect  string
	YearSelect   string
	SubmitButton string
	ExportButton string
}

// Config is the explicit configuration threaded into each component. One
// Config describes one flow's run; import and export runs are independent
// invocations sharing the same code paths.
type Config struct {
	Flow model.Flow

	// DataDir is the root of the data tree. Artifacts live at
	// <DataDir>/<flow>/<code>/<MonthName>_<Year>.xlsx.
	DataDir string
	// StagingDir is where the browser drops in-progress downloads.
	StagingDir string
	// CodesFile is the plain-text HS code catalog.
	CodesFile string
	// LookupFile is the xlsx workbook mapping codes to descriptions.
	LookupFile string
	// DatabasePath is the sqlite record store.
	DatabasePath string

	StartYear int
	Form      Form

	FormTimeout     time.Duration
	ExportTimeout   time.Duration
	DownloadTimeout time.Duration
	PollInterval    time.Duration
	SettleDelay     time.Duration

	Headless bool
}

// ArtifactRoot returns the per-flow root of the canonical artifact tree.
func (c *Config) ArtifactRoot() string {
	return filepath.Join(c.DataDir, string(c.Flow))
}

// ArtifactDir returns the directory holding one code's monthly artifacts.
func (c *Config) ArtifactDir(code string) string {
	return filepath.Join(c.ArtifactRoot(), code)
}

func defaultForm(flow model.Flow) Form {
	switch flow {
	case model.FlowExport:
		return Form{
			URL:          "https://tradestat.commerce.gov.in/meidb/commodity_wise_all_countries_export",
			CodeInput:    "#cwacexHSCODE",
			MonthSelect:  "#cwacexMonth",
			YearSelect:   "#cwacexYear",
			SubmitButton: `button[type='submit']`,
			ExportButton: ".buttons-excel",
		}
	default:
		return Form{
			URL:          "https://tradestat.commerce.gov.in/meidb/commodity_wise_all_countries_import",
			CodeInput:    "#cwacimHSCODE",
			MonthSelect:  "#cwacimMonth",
			YearSelect:   "#cwacimYear",
			SubmitButton: `button[type='submit']`,
			ExportButton: ".buttons-excel",
		}
	}
}

// Load assembles the configuration for one flow from viper (config file,
// environment, bound flags), applying defaults for anything unset.
func Load(flow model.Flow) (*Config, error) {
	dataDir := viper.GetString("data.dir")
	if dataDir == "" {
		dataDir = "data"
	}
	dataDir = ExpandPath(dataDir)

	cfg := &Config{
		Flow:            flow,
		DataDir:         dataDir,
		CodesFile:       ExpandPath(viper.GetString("catalog.codes_file")),
		LookupFile:      ExpandPath(viper.GetString("catalog.lookup_file")),
		DatabasePath:    ExpandPath(viper.GetString("database.path")),
		StartYear:       viper.GetInt("crawl.start_year"),
		FormTimeout:     viper.GetDuration("crawl.form_timeout"),
		ExportTimeout:   viper.GetDuration("crawl.export_timeout"),
		DownloadTimeout: viper.GetDuration("crawl.download_timeout"),
		PollInterval:    viper.GetDuration("crawl.poll_interval"),
		SettleDelay:     viper.GetDuration("crawl.settle_delay"),
		Headless:        true,
	}

	if viper.IsSet("crawl.headless") {
		cfg.Headless = viper.GetBool("crawl.headless")
	}
	if cfg.CodesFile == "" {
		cfg.CodesFile = filepath.Join(dataDir, "hscodes", "hscodes.txt")
	}
	if cfg.LookupFile == "" {
		cfg.LookupFile = filepath.Join(dataDir, "hscodes", "cleaned_HS_Codes_for_processing.xlsx")
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(dataDir, "tradeflow.db")
	}
	if cfg.StartYear == 0 {
		cfg.StartYear = DefaultStartYear
	}
	if cfg.StartYear < 1990 || cfg.StartYear > 2100 {
		return nil, fmt.Errorf("%w: crawl.start_year %d out of range", common.ErrInvalidConfig, cfg.StartYear)
	}
	if cfg.FormTimeout <= 0 {
		cfg.FormTimeout = DefaultFormTimeout
	}
	if cfg.ExportTimeout <= 0 {
		cfg.ExportTimeout = DefaultExportTimeout
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = DefaultDownloadTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}

	cfg.StagingDir = ExpandPath(viper.GetString("crawl.staging_dir"))
	if cfg.StagingDir == "" {
		cfg.StagingDir = filepath.Join(cfg.ArtifactRoot(), "temp_downloads")
	}

	cfg.Form = defaultForm(flow)
	if u := viper.GetString(fmt.Sprintf("crawl.%s.url", flow)); u != "" {
		cfg.Form.URL = u
	}

	return cfg, nil
}
