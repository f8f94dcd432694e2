// Package export writes recipe collections as spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"recipebox/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Recipes"

var header = []string{"ID", "Name", "Category", "Author", "Servings", "Ingredients", "Favorites"}

func row(r models.Recipe) []string {
	ings := make([]string, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ings = append(ings, i.String())
	}
	return []string{
		r.ID,
		r.Name,
		r.Category,
		r.CreatedBy,
		strconv.Itoa(r.Servings),
		strings.Join(ings, "; "),
		strconv.Itoa(len(r.FavoritedBy)),
	}
}

// WriteCSV writes a header row and one row per recipe in collection order.
func WriteCSV(w io.Writer, c *models.Collection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	var err error
	c.Each(func(r models.Recipe) bool {
		err = cw.Write(row(r))
		return err == nil
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX saves the collection to path as a single-sheet workbook.
func WriteXLSX(path string, c *models.Collection) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	line := 2
	c.Each(func(r models.Recipe) bool {
		cells := row(r)
		values := make([]interface{}, len(cells))
		for i, v := range cells {
			values[i] = v
		}
		// numeric columns as numbers so they sort and sum in a spreadsheet
		values[4] = r.Servings
		values[6] = len(r.FavoritedBy)
		err = f.SetSheetRow(sheetName, fmt.Sprintf("A%d", line), &values)
		line++
		return err == nil
	})
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "B", "B", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "F", "F", 60); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// WriteFile picks CSV or XLSX from format, or from path's extension when
// format is empty.
func WriteFile(path, format string, c *models.Collection) error {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "xlsx":
		return WriteXLSX(path, c)
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := WriteCSV(f, c); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return fmt.Errorf("unsupported export format %q (use csv or xlsx)", format)
}
