// Command validate performs integrity checks on a normalized shelter JSON
// file: uniqueness, validation rules, classification consistency, and
// address normalization. With -raw-dir it also re-runs the pipeline over the
// source directory and checks the file matches the fresh output.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -json data/mock/shelters.json \
//	  -raw-dir data/mock/raw
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/shelter-data-etl/internal/adapter/jsonfile"
	"github.com/couchcryptid/shelter-data-etl/internal/domain"
	"github.com/couchcryptid/shelter-data-etl/internal/observability"
	"github.com/couchcryptid/shelter-data-etl/internal/parser"
	"github.com/couchcryptid/shelter-data-etl/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	jsonPath := flag.String("json", "", "path to normalized shelter JSON")
	rawDir := flag.String("raw-dir", "", "optional source directory to re-run the pipeline over")
	flag.Parse()

	if *jsonPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*jsonPath, *rawDir))
}

func run(jsonPath, rawDir string) int {
	fmt.Println("=== Shelter Data Integrity Validation ===")
	fmt.Println()

	shelters, err := jsonfile.Load(jsonPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load shelter JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateUniqueness(shelters),
		validateRules(shelters),
		validateClassification(shelters),
		validateNormalization(shelters),
	}

	if rawDir != "" {
		fresh, err := rerunPipeline(rawDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: re-run pipeline: %v\n", err)
			return 1
		}
		phases = append(phases, validateParity(shelters, fresh))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d shelters\n", len(shelters))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateUniqueness checks that IDs and dedup keys are unique.
func validateUniqueness(shelters []domain.Shelter) *phase {
	p := &phase{name: "Uniqueness (id, address+name)"}
	ids := make(map[string]int, len(shelters))
	keys := make(map[string]int, len(shelters))
	for i := range shelters {
		s := &shelters[i]
		if s.ID == "" {
			p.errorf("record %d: empty id", i)
		} else if prev, ok := ids[s.ID]; ok {
			p.errorf("record %d: id %s already used by record %d", i, s.ID, prev)
		} else {
			ids[s.ID] = i
		}

		key, ok := domain.DedupKey(*s)
		if !ok {
			continue
		}
		if prev, dup := keys[key]; dup {
			p.errorf("record %d: duplicate of record %d (%s)", i, prev, key)
			continue
		}
		keys[key] = i
	}
	return p
}

// validateRules checks every record passes output validation.
func validateRules(shelters []domain.Shelter) *phase {
	p := &phase{name: "Validation rules"}
	for i := range shelters {
		if err := domain.Validate(shelters[i]); err != nil {
			p.errorf("record %d (%s): %v", i, shelters[i].Name, err)
		}
	}
	return p
}

// validateClassification recomputes type and region.
func validateClassification(shelters []domain.Shelter) *phase {
	p := &phase{name: "Classification (type, region)"}
	for i := range shelters {
		s := &shelters[i]
		if !s.Type.Valid() {
			p.errorf("record %d: unknown type %q", i, s.Type)
		}
		if want := domain.ClassifyType(s.Source.OriginalFile); s.Type != want {
			p.errorf("record %d: type %q, file %q implies %q", i, s.Type, s.Source.OriginalFile, want)
		}
		if want := domain.ClassifyRegion(s.Address); s.Source.Region != want {
			p.errorf("record %d: region %q, address implies %q", i, s.Source.Region, want)
		}
	}
	return p
}

// validateNormalization checks text cleanup, timestamps, and geo provenance.
func validateNormalization(shelters []domain.Shelter) *phase {
	p := &phase{name: "Normalization (text, timestamps, geo)"}
	for i := range shelters {
		s := &shelters[i]
		if s.Name != strings.TrimSpace(s.Name) {
			p.errorf("record %d: name %q not trimmed", i, s.Name)
		}
		if s.Address != domain.NormalizeAddress(s.Address) {
			p.errorf("record %d: address %q not normalized", i, s.Address)
		}
		if s.Details.LastUpdated.IsZero() || s.Source.LastUpdated.IsZero() {
			p.errorf("record %d: missing lastUpdated", i)
		}
		switch {
		case s.HasLocation() && s.Source.GeoSource != domain.GeoSourceOriginal && s.Source.GeoSource != domain.GeoSourceForward:
			p.errorf("record %d: has location but geoSource %q", i, s.Source.GeoSource)
		case !s.HasLocation() && (s.Source.GeoSource == domain.GeoSourceOriginal || s.Source.GeoSource == domain.GeoSourceForward):
			p.errorf("record %d: no location but geoSource %q", i, s.Source.GeoSource)
		}
		if s.Details.Capacity != nil && *s.Details.Capacity < 0 {
			p.errorf("record %d: negative capacity %d", i, *s.Details.Capacity)
		}
	}
	return p
}

// validateParity compares the file against a fresh pipeline run by dedup key.
// IDs are generated per run and are not compared.
func validateParity(got, fresh []domain.Shelter) *phase {
	p := &phase{name: "Parity with fresh pipeline run"}
	if len(got) != len(fresh) {
		p.errorf("record count: file has %d, fresh run has %d", len(got), len(fresh))
	}

	gotKeys := keySet(got)
	freshKeys := keySet(fresh)
	for _, k := range sortedDiff(freshKeys, gotKeys) {
		p.errorf("missing from file: %s", k)
	}
	for _, k := range sortedDiff(gotKeys, freshKeys) {
		p.errorf("not produced by fresh run: %s", k)
	}
	return p
}

func rerunPipeline(dir string) ([]domain.Shelter, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pipeline.New(
		parser.New(logger),
		domain.NewNormalizer(nil, logger),
		nil,
		logger,
		observability.NewMetricsForTesting(),
		4,
	)
	res, err := p.Run(context.Background(), dir)
	if err != nil {
		return nil, err
	}
	return res.Shelters, nil
}

func keySet(shelters []domain.Shelter) map[string]bool {
	out := make(map[string]bool, len(shelters))
	for i := range shelters {
		if key, ok := domain.DedupKey(shelters[i]); ok {
			out[key] = true
		}
	}
	return out
}

// sortedDiff returns the keys of a that are not in b, sorted.
func sortedDiff(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
