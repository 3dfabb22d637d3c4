package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/helpintl/aid-cluster/infra/config"
	aid "github.com/helpintl/aid-cluster/internal"
	"github.com/helpintl/aid-cluster/internal/feature"
	"github.com/helpintl/aid-cluster/internal/model"
	"github.com/helpintl/aid-cluster/internal/storage"
	json_storage "github.com/helpintl/aid-cluster/internal/storage/file/json"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	data := flag.String("data", "file-storage/data/countries.csv", "path to the countries csv")
	engineer := flag.Bool("engineer", false, "derive the engineered indicators before clustering")
	top := flag.Int("top", 10, "number of priority entries to print")
	flag.Parse()

	var cfg aid.Config
	config.MustLoad("engine", &cfg)

	records, err := readRecords(*data)
	if err != nil {
		panic(fmt.Sprintf("could not read records: %+v", err))
	}

	if *engineer {
		records, err = feature.Engineer(records)
		if err != nil {
			panic(fmt.Sprintf("could not engineer features: %+v", err))
		}
	}

	matrix, err := feature.Standardize(records, cfg.Features)
	if err != nil {
		panic(fmt.Sprintf("could not standardize records: %+v", err))
	}

	engine := aid.NewEngine(json_storage.NewJsonBlob(storage.ModelDir, "engine", false))
	report, err := engine.Run(matrix, cfg)
	if err != nil {
		panic(fmt.Sprintf("could not run engine: %+v", err))
	}

	store := json_storage.NewCompressedBlob(storage.ReportDir, "engine")
	err = store.Store(storage.Key{Hash: matrix.Fingerprint(), Name: "report", Label: report.ID}, report)
	if err != nil {
		log.Error().Err(err).Msg("could not store report")
	}

	if err := writePriorities(report.Priorities); err != nil {
		log.Error().Err(err).Msg("could not export priority list")
	}

	for _, warning := range report.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
	fmt.Printf("k = %d | agreement = %.3f | noise = %d\n", report.K, report.Agreement, report.Density.NoiseCount())
	for i, entry := range report.Priorities {
		if i >= *top {
			break
		}
		fmt.Printf("%3d. %-30s cluster=%2d score=%.3f tier=%s\n", i+1, entry.Name, entry.Cluster, entry.Score, entry.Tier)
	}
}

// readRecords parses the raw indicator table.
// The first column carries the record name, every other column is numeric.
func readRecords(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open '%s': %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse '%s': %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows in '%s'", path)
	}

	header := rows[0]
	records := make([]model.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", i+1, len(row), len(header))
		}
		values := make(map[string]float64, len(header)-1)
		for j := 1; j < len(row); j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column '%s': %w", i+1, header[j], err)
			}
			values[header[j]] = v
		}
		records = append(records, model.Record{Name: row[0], Values: values})
	}
	return records, nil
}

func writePriorities(entries []model.PriorityEntry) error {
	dir := filepath.Join(storage.DefaultDir, storage.ReportDir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not make dir: %s: %w", dir, err)
	}

	path := filepath.Join(dir, "priorities.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"name", "cluster", "score", "tier"}); err != nil {
		return err
	}
	for _, e := range entries {
		err := w.Write([]string{
			e.Name,
			strconv.Itoa(e.Cluster),
			strconv.FormatFloat(e.Score, 'f', 4, 64),
			string(e.Tier),
		})
		if err != nil {
			return err
		}
	}

	log.Info().Str("path", path).Int("entries", len(entries)).Msg("exported priority list")
	return nil
}
