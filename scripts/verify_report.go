//go:build ignore

// verify_report checks that every row of the Queries sheet in a generated
// report names its query and carries an outcome.
//
//	go run scripts/verify_report.go output/excel-handler-report.xlsx
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

func main() {
	filename := "output/excel-handler-report.xlsx"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Queries")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== REPORT CHECK: %s ===\n", filename)
	fmt.Printf("Query rows: %d\n\n", len(rows)-1)

	bad := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		// B: Name, H: Detail
		if len(row) < 8 || strings.TrimSpace(row[1]) == "" || strings.TrimSpace(row[7]) == "" {
			fmt.Printf("❌ Row %d is incomplete: %v\n", i+1, row)
			bad++
		}
	}

	if bad > 0 {
		fmt.Printf("\n❌ %d incomplete row(s)\n", bad)
		os.Exit(1)
	}
	fmt.Println("✅ All query rows complete")
}
