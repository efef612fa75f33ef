package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finops-gateway/internal/config"
	"github.com/dvloznov/finops-gateway/internal/gateway/cards"
	"github.com/dvloznov/finops-gateway/internal/gateway/documents"
	"github.com/dvloznov/finops-gateway/internal/gateway/operations"
	"github.com/dvloznov/finops-gateway/internal/gateway/users"
	"github.com/dvloznov/finops-gateway/internal/httpclient"
	"github.com/dvloznov/finops-gateway/internal/logger"
	"github.com/dvloznov/finops-gateway/internal/schema"
)

// env is what every subcommand gets: resolved config, a logger and the
// gateway clients.
type env struct {
	cfg        *config.Config
	log        zerolog.Logger
	http       *httpclient.Client
	users      *users.Client
	cards      *cards.Client
	documents  *documents.Client
	operations *operations.Client
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	commands := map[string]func(context.Context, *env, []string) error{
		"user":      runUser,
		"card":      runCard,
		"document":  runDocument,
		"operation": runOperation,
		"fixture":   runFixture,
		"export":    runExport,
		"archive":   runArchive,
		"health":    runHealth,
	}
	run, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	e, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer e.http.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, e.log)

	if err := run(ctx, e, os.Args[2:]); err != nil {
		e.log.Error().Err(err).Str("command", cmd).Msg("Command failed")
		cancel()
		os.Exit(1)
	}
}

func setup() (*env, error) {
	cfg, err := config.Load(os.Getenv("FINOPS_CONFIG"))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.NewWithLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{}
	if cfg.GatewayToken != "" {
		headers["Authorization"] = "Bearer " + cfg.GatewayToken
	}
	hc, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.GatewayURL,
		Timeout: cfg.GatewayTimeout,
		Headers: headers,
	}, logger.Component(log, "httpclient"))
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:        cfg,
		log:        log,
		http:       hc,
		users:      users.New(hc),
		cards:      cards.New(hc),
		documents:  documents.New(hc),
		operations: operations.New(hc),
	}, nil
}

// printJSON writes msg to stdout in its wire form.
func printJSON(msg any) error {
	data, err := schema.Render(msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

func printUsage() {
	fmt.Println("Finops Gateway CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  gatewayctl <command> [subcommand] [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  user       create | get")
	fmt.Println("  card       issue a virtual or physical card")
	fmt.Println("  document   tariff | contract")
	fmt.Println("  operation  get | list | summary | receipt | make")
	fmt.Println("  fixture    Print a generated message of a given type")
	fmt.Println("  export     Copy an account's operations into BigQuery")
	fmt.Println("  archive    put | get | list account documents in Cloud Storage")
	fmt.Println("  health     Check the gateway's gRPC health service")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nSettings come from FINOPS_* variables, ./gateway.yaml and ./.env;")
	fmt.Println("FINOPS_CONFIG points at another config file.")
	fmt.Println("\nRun 'gatewayctl <command> -h' for more information on a command.")
}
