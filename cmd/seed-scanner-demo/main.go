package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/mmdatafocus/ffbaudit_backend/config"
	"github.com/mmdatafocus/ffbaudit_backend/models"
)

// Seeds one estate database with a demo month of scanner rows: kerani loads
// with a partial mandor/asisten re-scan coverage, including a few forced
// count mismatches. Intended for local development against an empty MySQL.
func main() {
	estate := flag.String("estate", "BSKE", "Estate code to seed")
	month := flag.String("month", time.Now().Format("2006-01"), "Month to seed (YYYY-MM)")
	loads := flag.Int("loads", 200, "Number of kerani loads to generate")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	monthStart, err := time.Parse("2006-01", *month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -month %q: %v\n", *month, err)
		os.Exit(2)
	}

	if failures := config.ConnectEstateDatabases([]string{*estate}); len(failures) > 0 {
		fmt.Fprintf(os.Stderr, "estate %s unreachable: %v\n", *estate, failures[*estate])
		os.Exit(1)
	}
	db := config.GetEstateDB(*estate)

	table := models.ScannerTableForMonth(monthStart)
	if err := db.Table(table).AutoMigrate(&models.ScannerTransaction{}); err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", table, err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&models.DivisionMaster{}, &models.EmployeeMaster{}); err != nil {
		fmt.Fprintf(os.Stderr, "create master tables: %v\n", err)
		os.Exit(1)
	}

	divisions := []models.DivisionMaster{
		{FieldID: "DIV01", FieldName: "Division 1"},
		{FieldID: "DIV02", FieldName: "Division 2"},
	}
	employees := []models.EmployeeMaster{
		{EmpID: "1001", EmpName: "KERANI A"},
		{EmpID: "1002", EmpName: "KERANI B"},
		{EmpID: "2001", EmpName: "MANDOR A"},
		{EmpID: "3001", EmpName: "ASISTEN A"},
	}
	for _, d := range divisions {
		db.Where("fieldid = ?", d.FieldID).FirstOrCreate(&d)
	}
	for _, e := range employees {
		db.Where("empid = ?", e.EmpID).FirstOrCreate(&e)
	}

	rng := rand.New(rand.NewSource(*seed))
	keranis := []string{"1001", "1002"}

	var rows []models.ScannerTransaction
	for i := 0; i < *loads; i++ {
		day := monthStart.AddDate(0, 0, rng.Intn(28))
		transNo := fmt.Sprintf("%s%s%05d", *estate, monthStart.Format("0601"), i)
		division := divisions[i%len(divisions)].FieldID
		ripe := rng.Intn(40) + 1

		base := models.ScannerTransaction{
			TransNo:     transNo,
			TransDate:   day.Format("2006-01-02"),
			TransTime:   fmt.Sprintf("%02d:%02d", 6+rng.Intn(10), rng.Intn(60)),
			OperatorID:  keranis[i%len(keranis)],
			RecordTag:   "PM",
			TransStatus: "704",
			FieldID:     division,

			RipeBch:       strconv.Itoa(ripe),
			UnripeBch:     strconv.Itoa(rng.Intn(5)),
			BlackBch:      strconv.Itoa(rng.Intn(3)),
			RottenBch:     strconv.Itoa(rng.Intn(2)),
			LongStalkBch:  strconv.Itoa(rng.Intn(2)),
			RatDmgBch:     strconv.Itoa(rng.Intn(2)),
			LooseFruitBch: strconv.Itoa(rng.Intn(8)),
		}
		rows = append(rows, base)

		// ~60% of loads get re-scanned, mostly by the mandor; ~1 in 8
		// re-scans disagrees on the ripe count.
		if rng.Intn(10) < 6 {
			rescan := base
			rescan.RecordTag = "P1"
			rescan.OperatorID = "2001"
			if rng.Intn(3) == 0 {
				rescan.RecordTag = "P5"
				rescan.OperatorID = "3001"
			}
			if rng.Intn(8) == 0 {
				rescan.RipeBch = strconv.Itoa(ripe + 1 + rng.Intn(3))
			}
			rows = append(rows, rescan)
		}
	}

	if err := db.Table(table).CreateInBatches(rows, 200).Error; err != nil {
		fmt.Fprintf(os.Stderr, "insert demo rows: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d rows into %s.%s\n", len(rows), *estate, table)
}
