//go:build ignore

// make_sample writes the demo workbook the default configuration reads.
//
//	go run scripts/make_sample.go [path]
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

func main() {
	path := "sample/sample.xlsx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, name := range []string{"Sheet2", "Sheet3"} {
		if _, err := f.NewSheet(name); err != nil {
			log.Fatal(err)
		}
	}

	cells := []struct {
		sheet, ref string
		value any
	}{
		{"Sheet1", "H4", "foo"},
		{"Sheet1", "B2", "Hoge"},
		{"Sheet2", "E4", "Foo"},
		{"Sheet2", "C5", 8},
		{"Sheet3", "G9", "foo"},
	}
	for _, c := range cells {
		if err := f.SetCellValue(c.sheet, c.ref, c.value); err != nil {
			log.Fatal(err)
		}
	}

	// Numbers for the column walk: columns F and G on rows 1..9, H left blank
	for row := 1; row <= 9; row++ {
		f.SetCellValue("Sheet1", fmt.Sprintf("F%d", row), row*10)
		f.SetCellValue("Sheet1", fmt.Sprintf("G%d", row), float64(row)/2)
	}
	f.SetCellValue("Sheet1", "J1", "end")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("✅ Wrote %s\n", path)
}
