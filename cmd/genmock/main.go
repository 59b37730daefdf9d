// Command genmock writes a directory of mock shelter source files covering
// every supported format and encoding, then runs the real pipeline over it
// and writes the normalized output as a JSON fixture.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -raw-dir data/mock/raw \
//	  -out data/mock/shelters.json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/shelter-data-etl/internal/adapter/jsonfile"
	"github.com/couchcryptid/shelter-data-etl/internal/domain"
	"github.com/couchcryptid/shelter-data-etl/internal/observability"
	"github.com/couchcryptid/shelter-data-etl/internal/parser"
	"github.com/couchcryptid/shelter-data-etl/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
)

// fixedNow is stamped on every record so fixtures diff cleanly.
var fixedNow = time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rawDir := flag.String("raw-dir", "", "directory to write mock source files into")
	out := flag.String("out", "", "output path for the normalized JSON fixture")
	flag.Parse()

	if *rawDir == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-dir, -out")
	}

	if err := os.MkdirAll(*rawDir, 0o755); err != nil {
		return fmt.Errorf("create raw dir: %w", err)
	}

	writers := []struct {
		name  string
		write func(path string) error
	}{
		{"1_earthquake_seoul.csv", writeEarthquakeCSV},
		{"2_수해대피소_경기.csv", writeFloodCP949},
		{"3_landslide_gangwon.xlsx", writeLandslideXLSX},
		{"4_tsunami_busan.tsv", writeTsunamiTSV},
		{"5_README.txt", writeReadme},
		{"6_earthquake_malformed.CSV", writeMalformedCSV},
	}
	for _, w := range writers {
		path := filepath.Join(*rawDir, w.name)
		if err := w.write(path); err != nil {
			return fmt.Errorf("writing %s: %w", w.name, err)
		}
		log.Printf("wrote %s", path)
	}

	// Set a fixed clock for reproducible lastUpdated timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(fixedNow))
	defer domain.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pipeline.New(
		parser.New(logger),
		domain.NewNormalizer(nil, logger),
		nil,
		logger,
		observability.NewMetricsForTesting(),
		4,
	)
	res, err := p.Run(context.Background(), *rawDir)
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}

	if err := jsonfile.NewWriter(*out, logger).Save(context.Background(), res.Shelters); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	printStats(res)
	return nil
}

func writeEarthquakeCSV(path string) error {
	content := "\ufeff대피소명,주소,위도,경도,수용인원,연락처\n" +
		"종로구민회관,서울특별시 종로구 삼일대로 1,37.5700,126.9850,\"1,200\",02-123-4567\n" +
		"\"광화문 광장, 북측\",서울특별시 종로구 세종대로 172,37.5759,126.9769,500명,\n" +
		"중구청 지하주차장,\"서울특별시  중구 (창경궁로) 17\",37.5636,126.9976,300,02-3396-4114\n" +
		"강남역 대피소,서울특별시 강남구 강남대로 396,,,800,\n" +
		"X,서울특별시 마포구 월드컵로 1,37.5663,126.9019,,\n" +
		",서울특별시 용산구 이태원로 29,37.5349,126.9770,,\n"
	return os.WriteFile(path, []byte(content), 0o600)
}

func writeFloodCP949(path string) error {
	content := "시설명,소재지,위도,경도,수용능력,부대시설\n" +
		"수원체육관,경기도 수원시 팔달구 효원로 1,37.2636,127.0286,2000,화장실\n" +
		"성남시청,경기도 성남시 중원구 성남대로 997,37.4200,127.1265,1500,\n" +
		"종로구민회관,서울특별시 종로구 삼일대로 1,37.5700,126.9850,1200,\n" +
		"해외 대피소,도쿄도 신주쿠구 1,35.6895,139.6917,100,\n"
	encoded, err := korean.EUCKR.NewEncoder().String(content)
	if err != nil {
		return fmt.Errorf("encode cp949: %w", err)
	}
	return os.WriteFile(path, []byte(encoded), 0o600)
}

func writeLandslideXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"명칭", "도로명주소", "latitude", "longitude", "최대수용인원"},
		{"춘천시민체육관", "강원도 춘천시 영서로 3017", 37.8813, 127.7298, 900},
		{"강릉아레나", "강원도 강릉시 수리골길 88", 37.7726, 128.8969, 1100},
		{},
		{"원주종합운동장", "강원도 원주시 서원대로 279", "", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	// Only the first sheet is read; this one must not appear in the output.
	if _, err := f.NewSheet("notes"); err != nil {
		return err
	}
	if err := f.SetSheetRow("notes", "A1", &[]any{"명칭", "주소"}); err != nil {
		return err
	}
	if err := f.SetSheetRow("notes", "A2", &[]any{"무시될 대피소", "강원도 속초시 중앙로 1"}); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeTsunamiTSV(path string) error {
	content := "대피소_명칭\t대피소_위치\t대피소_위도\t대피소_경도\t대피소_연락처\n" +
		"해운대 해수욕장 고지대\t부산광역시 해운대구 해운대해변로 264\t35.1587\t129.1604\t051-749-7601\n" +
		"광안리 대피소\t부산광역시 수영구 광안해변로 219\t35.1532\t129.1186\t\n"
	return os.WriteFile(path, []byte(content), 0o600)
}

func writeReadme(path string) error {
	return os.WriteFile(path, []byte("mock shelter source files; not parsed\n"), 0o600)
}

func writeMalformedCSV(path string) error {
	content := "대피소명,주소,위도,경도\n" +
		"포항체육관,경상북도 포항시 북구 양학천로 1,36.0320,129.3650\n" +
		"너무,많은,열,이,있는,행\n" +
		"경주실내체육관,경상북도 경주시 알천북로 1,35.8562,129.2247\n"
	return os.WriteFile(path, []byte(content), 0o600)
}

func printStats(res pipeline.Result) {
	st := res.Stats
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Files: %d (failed %d)\n", st.FilesFound, st.FilesFailed)
	fmt.Printf("Records: parsed=%d dropped=%d duplicates=%d invalid=%d produced=%d\n",
		st.RecordsParsed, st.RecordsDropped, st.Duplicates, st.Invalid, st.Produced)

	byType := map[string]int{}
	byRegion := map[string]int{}
	withLocation := 0
	for i := range res.Shelters {
		s := &res.Shelters[i]
		byType[string(s.Type)]++
		byRegion[s.Source.Region]++
		if s.HasLocation() {
			withLocation++
		}
	}
	fmt.Printf("With location: %d\n", withLocation)
	fmt.Printf("By type: %s\n", formatCounts(byType))
	fmt.Printf("By region: %s\n", formatCounts(byRegion))
}

func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}
