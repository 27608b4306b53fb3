// Command deliveryctl runs the delivery note workflow from the terminal:
// it submits a scan, waits for recognition, prints the extracted items,
// applies optional edits, and confirms the delivery.
//
// Usage:
//
//	deliveryctl -project <uuid> -file scan.pdf [-lat 55.75 -lon 37.61] \
//	    [-set 0:quantity=12,5] [-yes]
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/client"
	"github.com/KoTeHok22/Locus-sub001/internal/config"
	"github.com/KoTeHok22/Locus-sub001/internal/geo"
	"github.com/KoTeHok22/Locus-sub001/internal/workflow"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// fixedSource reports a position given on the command line.
type fixedSource struct {
	lat, lon float64
}

func (s fixedSource) Position(context.Context) (*geo.Position, error) {
	return &geo.Position{Latitude: s.lat, Longitude: s.lon}, nil
}

func run() error {
	var (
		projectFlag = flag.String("project", "", "project id (required)")
		fileFlag    = flag.String("file", "", "scan file to submit (required)")
		latFlag     = flag.Float64("lat", 0, "delivery latitude")
		lonFlag     = flag.Float64("lon", 0, "delivery longitude")
		yesFlag     = flag.Bool("yes", false, "confirm without prompting")
	)
	var edits editList
	flag.Var(&edits, "set", "edit an item before confirming, e.g. -set 0:quantity=12,5 (repeatable)")
	flag.Parse()

	if *projectFlag == "" || *fileFlag == "" {
		flag.Usage()
		os.Exit(2)
	}
	projectID, err := uuid.Parse(*projectFlag)
	if err != nil {
		return fmt.Errorf("invalid project id: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := os.ReadFile(*fileFlag)
	if err != nil {
		return fmt.Errorf("reading scan: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(*fileFlag))
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(cfg.Client.BaseURL, cfg.Client.Token)

	opts := []workflow.Option{
		workflow.WithTransitionHook(func(from, to workflow.State) {
			log.Printf("state: %s -> %s", from, to)
		}),
	}
	if *latFlag != 0 || *lonFlag != 0 {
		opts = append(opts, workflow.WithLocator(
			geo.NewProvider(fixedSource{lat: *latFlag, lon: *lonFlag})))
	}

	ctrl := workflow.NewController(api, projectID, workflow.PollerConfig{
		Interval:    time.Duration(cfg.Workflow.PollIntervalSecs) * time.Second,
		MaxAttempts: cfg.Workflow.MaxPollAttempts,
	}, opts...)

	if err := ctrl.SelectFile(workflow.ScanFile{
		Name:        filepath.Base(*fileFlag),
		ContentType: contentType,
		Data:        data,
	}); err != nil {
		return err
	}

	log.Printf("submitting %s for recognition...", *fileFlag)
	if err := ctrl.Recognize(ctx); err != nil {
		return fmt.Errorf("recognition: %w", err)
	}

	items := ctrl.Items()
	fmt.Printf("Recognized %d items (document %s):\n", len(items), ctrl.DocumentID())
	for i, item := range items {
		fmt.Printf("  [%d] %-40s %8s %s\n", i, item.Name, item.Quantity, item.Unit)
	}

	for _, e := range edits {
		if err := ctrl.SetItemField(e.index, e.field, e.value); err != nil {
			return fmt.Errorf("applying -set %d:%s: %w", e.index, e.field, err)
		}
	}

	if !*yesFlag {
		fmt.Print("Confirm delivery? [y/N] ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			_ = ctrl.Discard()
			fmt.Println("discarded")
			return nil
		}
	}

	delivery, err := ctrl.Confirm(ctx)
	if err != nil {
		return fmt.Errorf("confirming delivery: %w", err)
	}
	fmt.Printf("delivery %s registered for %s\n", delivery.ID, delivery.DeliveryDate.Format("02.01.2006"))
	return nil
}

type edit struct {
	index int
	field workflow.ItemField
	value string
}

type editList []edit

func (l *editList) String() string { return fmt.Sprintf("%d edits", len(*l)) }

// Set parses "index:field=value".
func (l *editList) Set(raw string) error {
	head, value, ok := strings.Cut(raw, "=")
	if !ok {
		return fmt.Errorf("expected index:field=value, got %q", raw)
	}
	idxStr, fieldStr, ok := strings.Cut(head, ":")
	if !ok {
		return fmt.Errorf("expected index:field=value, got %q", raw)
	}
	index, err := strconv.Atoi(idxStr)
	if err != nil {
		return fmt.Errorf("invalid item index %q", idxStr)
	}
	field := workflow.ItemField(fieldStr)
	switch field {
	case workflow.FieldName, workflow.FieldQuantity, workflow.FieldUnit:
	default:
		return fmt.Errorf("unknown field %q (name, quantity, unit)", fieldStr)
	}
	*l = append(*l, edit{index: index, field: field, value: value})
	return nil
}
