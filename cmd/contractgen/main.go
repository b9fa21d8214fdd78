// Command contractgen renders a rental contract from a JSON description without a
// database, for previewing layout and terms changes.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/spf13/afero"

	"rental-backoffice/internal/config"
	"rental-backoffice/internal/contract"
	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/logger"
)

func main() {
	fs := ff.NewFlagSet("contractgen")
	var (
		input      = fs.StringLong("input", "", "JSON file with the contract data (required)")
		output     = fs.StringLong("output", "contract.pdf", "Output PDF path")
		configPath = fs.StringLong("config", "", "Optional configuration file for company and contract settings")
		timezone   = fs.StringLong("timezone", "Europe/Rome", "Time zone dates are printed in")
		diagram    = fs.StringLong("diagram", "", "Vehicle outline image for the damage sections")
		termsPath  = fs.StringLong("terms", "", "YAML file replacing the built-in terms and conditions")
		logLevel   = fs.StringLong("log-level", "warn", "Log level")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("CONTRACTGEN")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *input == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: --input is required")
		os.Exit(2)
	}

	logger.Initialize(*logLevel, "text")

	if err := run(*input, *output, *configPath, *timezone, *diagram, *termsPath); err != nil {
		logger.Error("Contract generation failed", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output, configPath, timezone, diagram, termsPath string) error {
	fsys := afero.NewOsFs()

	data, err := afero.ReadFile(fsys, input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	var in domain.ContractInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}

	opts := contract.Options{Company: contract.DefaultCompany()}
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		opts = cfg.ContractOptions()
	} else {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", timezone, err)
		}
		opts.Location = loc
	}
	if diagram != "" {
		opts.DamageDiagramPath = diagram
	}
	if termsPath != "" {
		raw, err := afero.ReadFile(fsys, termsPath)
		if err != nil {
			return fmt.Errorf("failed to read terms: %w", err)
		}
		terms, err := contract.ParseTerms(raw)
		if err != nil {
			return err
		}
		opts.Terms = terms
	}

	path, err := contract.NewGenerator(fsys, opts).Generate(context.Background(), &in, output)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
