package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"pindrop/internal/config"
	"pindrop/internal/logging"
	"pindrop/internal/models"
	"pindrop/internal/pinclient"
	"pindrop/internal/repository"
)

// PinRecord is one CSV row: lat,lon,remark
type PinRecord struct {
	Lat    float64
	Lon    float64
	Remark string
}

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	configDir := flag.String("config", "configs", "directory holding app.env")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	records, err := parseCSV(*file)
	if err != nil {
		fmt.Printf("Error parsing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(records))

	// Load config
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty, os.Stderr)

	ctx := context.Background()

	// Open store
	store, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	client := pinclient.New(ctx, store, pinclient.NewRelayClient(cfg.RelayURL, &http.Client{}))
	before := client.Len()

	// Insert records
	if err := importRecords(ctx, client, records); err != nil {
		fmt.Printf("Error importing records: %v\n", err)
		os.Exit(1)
	}

	// Verify data
	if err := verifyImport(ctx, store, before+len(records)); err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d records\n", len(records))
}

func parseCSV(filePath string) ([]PinRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return readRecords(file)
}

func readRecords(r io.Reader) ([]PinRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // remark column is optional

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []PinRecord
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(record) < 2 {
			return nil, fmt.Errorf("invalid record length: %d, expected at least 2 columns", len(record))
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude: %s", record[0])
		}

		lon, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude: %s", record[1])
		}

		rec := PinRecord{Lat: lat, Lon: lon}
		if len(record) > 2 {
			rec.Remark = record[2]
		}
		records = append(records, rec)
	}

	return records, nil
}

// importRecords saves each record the same way a map click followed by a
// submit would, one relay lookup per pin.
func importRecords(ctx context.Context, client *pinclient.Client, records []PinRecord) error {
	for i, r := range records {
		client.StartDraft(models.Coordinates{Latitude: r.Lat, Longitude: r.Lon})
		pin, err := client.SubmitDraft(ctx, r.Remark)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		fmt.Printf("  %d. %s\n", i+1, pin.DisplayAddress())
	}
	return nil
}

func verifyImport(ctx context.Context, store pinclient.Store, expectedCount int) error {
	raw, ok, err := store.Get(ctx, pinclient.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to read pins: %w", err)
	}
	if !ok {
		raw = "[]"
	}

	var pins []models.Pin
	if err := json.Unmarshal([]byte(raw), &pins); err != nil {
		return fmt.Errorf("failed to decode pins: %w", err)
	}

	if count := len(pins); count != expectedCount {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expectedCount, count)
	}
	return nil
}
