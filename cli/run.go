package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/customeros/namesherpa/firstnames"
	"github.com/customeros/namesherpa/internal/config"
	"github.com/customeros/namesherpa/internal/jsonout"
	"github.com/customeros/namesherpa/internal/names"
	"github.com/customeros/namesherpa/internal/report"
	"github.com/customeros/namesherpa/surnames"
)

// ExportFirstNames runs the first name pipeline. Failures are reported on log
// and never returned.
func ExportFirstNames(cfg config.Config, log logrus.FieldLogger) {
	guard(log, "export", func() error {
		return exportFirstNames(cfg, log)
	})
}

// ExportSurnames runs the surname pipeline. Failures are reported on log and
// never returned.
func ExportSurnames(cfg config.Config, log logrus.FieldLogger) {
	guard(log, "scraping", func() error {
		return exportSurnames(cfg, log)
	})
}

func Lookup(cfg config.Config, name string) {
	dict, err := names.LoadDictionary(cfg.FirstNames.OutputPath, cfg.Surnames.OutputPath)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, path := range dict.Missing() {
		fmt.Printf("Name list not found: %s\n", path)
	}
	printOutput(dict.Lookup(name))
}

func exportFirstNames(cfg config.Config, log logrus.FieldLogger) error {
	if cfg.FirstNames.SourceDir == "" {
		return errors.New("no source directory configured for first names")
	}

	extractor := firstnames.NewExtractor(cfg.FirstNames.Pattern, log)
	extractor.Progress = progressWriter(cfg)

	found, err := extractor.Extract(cfg.FirstNames.SourceDir)
	if err != nil {
		return err
	}

	if len(found) == 0 {
		log.Warn("No names were found. Check if your source folder contains valid .txt files.")
		return nil
	}

	if err := jsonout.WriteNames(cfg.FirstNames.OutputPath, found); err != nil {
		return err
	}
	report.Success(log, "Extracted %d names to %s", len(found), cfg.FirstNames.OutputPath)
	return nil
}

func exportSurnames(cfg config.Config, log logrus.FieldLogger) error {
	scraper := surnames.New(cfg.Surnames, log)
	scraper.Progress = progressWriter(cfg)

	found, err := scraper.Scrape()
	if err != nil {
		return err
	}

	if len(found) == 0 {
		log.Warn("No surnames were found. Check the site structure or your connection.")
		return nil
	}

	if err := jsonout.WriteNames(cfg.Surnames.OutputPath, found); err != nil {
		return err
	}
	report.Success(log, "Extracted %d surnames to %s", len(found), cfg.Surnames.OutputPath)
	return nil
}

// guard reports both returned errors and panics of run as a single failure.
func guard(log logrus.FieldLogger, task string, run func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Failed to complete the %s: %v", task, r)
		}
	}()

	if err := run(); err != nil {
		log.Errorf("Failed to complete the %s: %v", task, err)
	}
}

func progressWriter(cfg config.Config) io.Writer {
	if !cfg.Progress {
		return nil
	}
	return os.Stderr
}
