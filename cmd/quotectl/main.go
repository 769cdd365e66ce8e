// quotectl - landscaping quote pipeline CLI
//
// Usage:
//   quotectl quote "45 sq ft triple ground mulch and 3 feet metal edging"
//   quotectl serve --port 8080
//   quotectl catalog list
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"landscape-quote/api"
	"landscape-quote/internal/catalog"
	"landscape-quote/internal/pipeline"
	"landscape-quote/internal/pricing"
	"landscape-quote/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	app := &cli.App{
		Name:    "quotectl",
		Usage:   "Staged text-to-quote pipeline for landscaping services",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"QUOTE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "mode",
				Value:   "mock",
				Usage:   "Pipeline mode (production, mock, hybrid)",
				EnvVars: []string{"QUOTE_MODE"},
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Path to a YAML service catalog (defaults to built-in)",
				EnvVars: []string{"QUOTE_CATALOG"},
			},
			&cli.StringFlag{
				Name:    "cost-table",
				Usage:   "Path to a YAML cost table for offline pricing",
				EnvVars: []string{"QUOTE_COST_TABLE"},
			},
			&cli.StringFlag{
				Name:    "oracle-url",
				Usage:   "Base URL of the pricing oracle (production mode)",
				EnvVars: []string{"QUOTE_ORACLE_URL"},
			},
			&cli.StringFlag{
				Name:    "oracle-tenant",
				Value:   "default",
				Usage:   "Tenant identifier for the pricing oracle",
				EnvVars: []string{"QUOTE_ORACLE_TENANT"},
			},
			&cli.StringFlag{
				Name:    "classifier-url",
				Usage:   "Base URL of the category-hint classifier",
				EnvVars: []string{"QUOTE_CLASSIFIER_URL"},
			},
		},

		Commands: []*cli.Command{
			quoteCommand(),
			serveCommand(),
			catalogCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func quoteCommand() *cli.Command {
	return &cli.Command{
		Name:      "quote",
		Usage:     "Produce a quote (or clarification questions) for a customer message",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (text, json)",
			},
			&cli.BoolFlag{
				Name:  "full-trace",
				Usage: "Run every stage even after an incomplete verdict and print the trace",
			},
		},
		Action: func(c *cli.Context) error {
			message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			platform.InitLogger(platform.ParseLevel(c.String("log-level")), true)

			pipe, _, err := buildPipeline(c, c.Bool("full-trace"))
			if err != nil {
				return err
			}

			result := pipe.Process(c.Context, pipeline.Input{Text: message})

			if c.String("format") == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printResult(result, c.Bool("full-trace"))
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the quote HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "Listen port",
				EnvVars: []string{"QUOTE_PORT"},
			},
		},
		Action: func(c *cli.Context) error {
			console := platform.GetEnvBool("QUOTE_LOG_CONSOLE", false)
			logger := platform.InitLogger(platform.ParseLevel(c.String("log-level")), console)

			pipe, cat, err := buildPipeline(c, false)
			if err != nil {
				return err
			}

			cfg := api.DefaultConfig()
			cfg.Port = c.Int("port")
			if origins := platform.GetEnv("QUOTE_CORS_ORIGINS", ""); origins != "" {
				cfg.CORSOrigins = strings.Split(origins, ",")
			}
			cfg.MaxRequestSize = int64(platform.GetEnvInt("QUOTE_MAX_REQUEST_BYTES", int(cfg.MaxRequestSize)))

			if err := api.NewServer(pipe, cat, cfg, logger).StartWithGracefulShutdown(); err != nil {
				platform.LogFatal(logger, "server failed", err)
			}
			return nil
		},
	}
}

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect or validate the service catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print catalog entries",
				Action: func(c *cli.Context) error {
					cat, err := loadCatalog(c)
					if err != nil {
						return err
					}
					for _, e := range cat.Entries() {
						special := ""
						if e.Special {
							special = " (special)"
						}
						fmt.Printf("%-24s %-12s %-12s %s%s\n",
							e.CanonicalName, e.LookupKey, e.Unit, e.Category, special)
					}
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "Validate a YAML catalog file",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected exactly one catalog file")
					}
					cat, err := catalog.Load(c.Args().First())
					if err != nil {
						return err
					}
					fmt.Printf("OK: %d services\n", len(cat.Entries()))
					return nil
				},
			},
		},
	}
}

func buildPipeline(c *cli.Context, fullTrace bool) (*pipeline.Pipeline, *catalog.Catalog, error) {
	cat, err := loadCatalog(c)
	if err != nil {
		return nil, nil, err
	}

	var table *pricing.CostTable
	if path := c.String("cost-table"); path != "" {
		table, err = pricing.LoadCostTable(path)
		if err != nil {
			return nil, nil, err
		}
	}

	factory, err := pipeline.NewFactory(pipeline.FactoryConfig{
		Mode:          pipeline.Mode(c.String("mode")),
		Catalog:       cat,
		CostTable:     table,
		OracleBaseURL: c.String("oracle-url"),
		OracleTenant:  c.String("oracle-tenant"),
		ClassifierURL: c.String("classifier-url"),
		FullPipeline:  fullTrace,
	})
	if err != nil {
		return nil, nil, err
	}
	return factory.Build(), cat, nil
}

func loadCatalog(c *cli.Context) (*catalog.Catalog, error) {
	if path := c.String("catalog"); path != "" {
		return catalog.Load(path)
	}
	return catalog.Default(), nil
}
