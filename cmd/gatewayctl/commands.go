package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/dvloznov/finops-gateway/internal/archive"
	"github.com/dvloznov/finops-gateway/internal/domain"
	"github.com/dvloznov/finops-gateway/internal/export"
	"github.com/dvloznov/finops-gateway/internal/gateway/operations"
	"github.com/dvloznov/finops-gateway/internal/grpcclient"
	"github.com/dvloznov/finops-gateway/internal/logger"
	"github.com/dvloznov/finops-gateway/internal/schema"
	"github.com/dvloznov/finops-gateway/internal/schema/fakers"
)

const userAgent = "finops-gateway/gatewayctl"

// subcommand splits "create -email x" into ("create", ["-email", "x"]).
func subcommand(args []string, name string, valid ...string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, fmt.Errorf("%s: expected one of %s", name, strings.Join(valid, ", "))
	}
	for _, v := range valid {
		if args[0] == v {
			return v, args[1:], nil
		}
	}
	return "", nil, fmt.Errorf("%s: unknown subcommand %q, expected one of %s", name, args[0], strings.Join(valid, ", "))
}

// overrides collects repeated -set key=value flags.
type overrides map[string]any

func (o overrides) String() string { return fmt.Sprint(map[string]any(o)) }

func (o overrides) Set(s string) error {
	key, val, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	o[key] = val
	return nil
}

func runUser(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "user", "create", "get")
	if err != nil {
		return err
	}

	switch sub {
	case "create":
		fs := flag.NewFlagSet("user create", flag.ExitOnError)
		set := overrides{}
		fs.Var(set, "set", "Field override key=value, repeatable (email, firstName, ...); other fields are generated")
		seed := fs.Uint64("seed", e.cfg.FakerSeed, "Seed for generated fields (0 = random)")
		fs.Parse(rest)

		req, err := schema.WithDefaults[domain.CreateUserRequest](fakers.New(*seed), set)
		if err != nil {
			return err
		}
		resp, err := e.users.CreateUser(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(resp)
	default:
		fs := flag.NewFlagSet("user get", flag.ExitOnError)
		id := fs.String("id", "", "User ID")
		fs.Parse(rest)
		if *id == "" {
			return fmt.Errorf("user get: -id is required")
		}

		resp, err := e.users.GetUser(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(resp)
	}
}

func runCard(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("card", flag.ExitOnError)
	cardType := fs.String("type", "virtual", "Card type: virtual or physical")
	userID := fs.String("user", "", "Owner user ID")
	accountID := fs.String("account", "", "Account ID")
	fs.Parse(args)

	if *userID == "" || *accountID == "" {
		return fmt.Errorf("card: -user and -account are required")
	}

	switch *cardType {
	case "virtual":
		resp, err := e.cards.IssueVirtualCard(ctx, *userID, *accountID)
		if err != nil {
			return err
		}
		return printJSON(resp)
	case "physical":
		resp, err := e.cards.IssuePhysicalCard(ctx, *userID, *accountID)
		if err != nil {
			return err
		}
		return printJSON(resp)
	}
	return fmt.Errorf("card: unknown type %q", *cardType)
}

// fetchDocument returns the tariff or contract of an account.
func fetchDocument(ctx context.Context, e *env, kind, accountID string) (domain.Document, error) {
	switch kind {
	case "tariff":
		resp, err := e.documents.GetTariffDocument(ctx, accountID)
		return resp.Tariff, err
	case "contract":
		resp, err := e.documents.GetContractDocument(ctx, accountID)
		return resp.Contract, err
	}
	return domain.Document{}, fmt.Errorf("unknown document kind %q", kind)
}

func runDocument(ctx context.Context, e *env, args []string) error {
	kind, rest, err := subcommand(args, "document", "tariff", "contract")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("document "+kind, flag.ExitOnError)
	accountID := fs.String("account", "", "Account ID")
	fs.Parse(rest)
	if *accountID == "" {
		return fmt.Errorf("document %s: -account is required", kind)
	}

	doc, err := fetchDocument(ctx, e, kind, *accountID)
	if err != nil {
		return err
	}
	return printJSON(doc)
}

func runOperation(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "operation", "get", "list", "summary", "receipt", "make")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("operation "+sub, flag.ExitOnError)
	id := fs.String("id", "", "Operation ID (get, receipt)")
	accountID := fs.String("account", "", "Account ID (list, summary, make)")
	opType := fs.String("type", "", "Operation type for make: "+strings.Join(makeTypes(), ", "))
	cardID := fs.String("card", "", "Card ID (make)")
	amount := fs.String("amount", "", "Amount (make)")
	status := fs.String("status", string(domain.OperationStatusCompleted), "Operation status (make)")
	category := fs.String("category", "", "Purchase category (make -type purchase)")
	fs.Parse(rest)

	var resp any
	switch sub {
	case "get":
		resp, err = e.operations.GetOperation(ctx, *id)
	case "receipt":
		resp, err = e.operations.GetOperationReceipt(ctx, *id)
	case "list":
		resp, err = e.operations.GetOperations(ctx, *accountID)
	case "summary":
		resp, err = e.operations.GetOperationsSummary(ctx, *accountID)
	case "make":
		var amt decimal.Decimal
		amt, err = decimal.NewFromString(*amount)
		if err != nil {
			return fmt.Errorf("operation make: -amount: %w", err)
		}
		p := operations.OperationParams{
			CardID:    *cardID,
			AccountID: *accountID,
			Amount:    amt,
			Status:    domain.OperationStatus(*status),
		}
		resp, err = makeOperation(ctx, e.operations, *opType, p, *category)
	}
	if err != nil {
		return err
	}
	return printJSON(resp)
}

type maker func(context.Context, *operations.Client, operations.OperationParams, string) (domain.OperationResponse, error)

var makers = map[string]maker{
	"fee": func(ctx context.Context, c *operations.Client, p operations.OperationParams, _ string) (domain.OperationResponse, error) {
		return c.MakeFeeOperation(ctx, p)
	},
	"top-up": func(ctx context.Context, c *operations.Client, p operations.OperationParams, _ string) (domain.OperationResponse, error) {
		return c.MakeTopUpOperation(ctx, p)
	},
	"cashback": func(ctx context.Context, c *operations.Client, p operations.OperationParams, _ string) (domain.OperationResponse, error) {
		return c.MakeCashbackOperation(ctx, p)
	},
	"transfer": func(ctx context.Context, c *operations.Client, p operations.OperationParams, _ string) (domain.OperationResponse, error) {
		return c.MakeTransferOperation(ctx, p)
	},
	"purchase": func(ctx context.Context, c *operations.Client, p operations.OperationParams, category string) (domain.OperationResponse, error) {
		return c.MakePurchaseOperation(ctx, p, category)
	},
	"bill-payment": func(ctx context.Context, c *operations.Client, p operations.OperationParams, _ string) (domain.OperationResponse, error) {
		return c.MakeBillPaymentOperation(ctx, p)
	},
	"cash-withdrawal": func(ctx context.Context, c *operations.Client, p operations.OperationParams, _ string) (domain.OperationResponse, error) {
		return c.MakeCashWithdrawalOperation(ctx, p)
	},
}

func makeTypes() []string {
	names := make([]string, 0, len(makers))
	for name := range makers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func makeOperation(ctx context.Context, c *operations.Client, opType string, p operations.OperationParams, category string) (domain.OperationResponse, error) {
	m, ok := makers[opType]
	if !ok {
		return domain.OperationResponse{}, fmt.Errorf("operation make: unknown -type %q", opType)
	}
	return m(ctx, c, p, category)
}

// fixtureTypes maps a message name to its generator.
var fixtureTypes = map[string]func(*fakers.Faker, map[string]any) (any, error){
	"user":              generate[domain.User],
	"create-user":       generate[domain.CreateUserRequest],
	"card":              generate[domain.Card],
	"issue-card":        generate[domain.IssueCardRequest],
	"document":          generate[domain.Document],
	"operation":         generate[domain.Operation],
	"operations":        generate[domain.GetOperationsResponse],
	"summary":           generate[domain.OperationsSummary],
	"make-operation":    generate[domain.MakeOperationRequest],
	"make-purchase":     generate[domain.MakePurchaseOperationRequest],
	"operations-query":  generate[domain.GetOperationsQuery],
	"operation-receipt": generate[domain.GetOperationReceiptResponse],
}

func generate[T any](f *fakers.Faker, set map[string]any) (any, error) {
	return schema.WithDefaults[T](f, set)
}

func runFixture(_ context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("fixture", flag.ExitOnError)
	name := fs.String("type", "operation", "Message type")
	seed := fs.Uint64("seed", e.cfg.FakerSeed, "Seed (0 = random)")
	set := overrides{}
	fs.Var(set, "set", "Field override key=value, repeatable")
	fs.Parse(args)

	gen, ok := fixtureTypes[*name]
	if !ok {
		names := make([]string, 0, len(fixtureTypes))
		for n := range fixtureTypes {
			names = append(names, n)
		}
		sort.Strings(names)
		return fmt.Errorf("fixture: unknown -type %q, expected one of %s", *name, strings.Join(names, ", "))
	}

	msg, err := gen(fakers.New(*seed), set)
	if err != nil {
		return err
	}
	return printJSON(msg)
}

func runExport(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	accountID := fs.String("account", "", "Account whose operations are exported")
	createTable := fs.Bool("create-table", true, "Create the operations table when missing")
	fs.Parse(args)

	if *accountID == "" {
		return fmt.Errorf("export: -account is required")
	}
	if err := e.cfg.RequireExport(); err != nil {
		return err
	}

	resp, err := e.operations.GetOperations(ctx, *accountID)
	if err != nil {
		return err
	}

	exp, err := export.New(ctx, e.cfg.BQProject, e.cfg.BQDataset, logger.Component(e.log, "export"), option.WithUserAgent(userAgent))
	if err != nil {
		return err
	}
	defer exp.Close()

	if *createTable {
		if err := exp.EnsureTable(ctx); err != nil {
			return err
		}
	}

	n, err := exp.Export(ctx, resp.Operations)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d operations of account %s to %s.%s.%s\n", n, *accountID, e.cfg.BQProject, e.cfg.BQDataset, export.OperationsTable)
	return nil
}

func runArchive(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "archive", "put", "get", "list")
	if err != nil {
		return err
	}
	if err := e.cfg.RequireArchive(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("archive "+sub, flag.ExitOnError)
	accountID := fs.String("account", "", "Account ID (put, list)")
	kind := fs.String("kind", "", "Document kind: tariff or contract")
	uri := fs.String("uri", "", "gs:// URI (get)")
	fs.Parse(rest)

	store, err := archive.NewGCSStore(ctx, e.cfg.GCSBucket, option.WithUserAgent(userAgent))
	if err != nil {
		return err
	}
	defer store.Close()
	a := archive.New(store)

	switch sub {
	case "put":
		doc, err := fetchDocument(ctx, e, *kind, *accountID)
		if err != nil {
			return err
		}
		stored, err := a.Put(ctx, *accountID, *kind, doc)
		if err != nil {
			return err
		}
		fmt.Println(stored)
	case "get":
		doc, err := a.Get(ctx, *uri)
		if err != nil {
			return err
		}
		return printJSON(doc)
	case "list":
		uris, err := a.List(ctx, *accountID, *kind)
		if err != nil {
			return err
		}
		for _, u := range uris {
			fmt.Println(u)
		}
	}
	return nil
}

func runHealth(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	service := fs.String("service", "", "Service name; empty checks the server as a whole")
	addr := fs.String("addr", e.cfg.GRPCAddr, "gRPC address")
	fs.Parse(args)

	c, err := grpcclient.New(*addr)
	if err != nil {
		return err
	}
	defer c.Close()

	status, err := c.Health(ctx, *service)
	if err != nil {
		return err
	}
	fmt.Println(status)
	if status != "SERVING" {
		return fmt.Errorf("health: %q is %s", *service, status)
	}
	return nil
}
