package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// LoadMedicines ingests a medicine catalog CSV into the medicines table,
// ignoring duplicates. Expected columns: name, generic_name, batch_number,
// quantity, expiry_date (epoch ms), manufacturer, location, minimum_stock,
// unit_price, category, dosage_form, strength.
func LoadMedicines(db *sqlx.DB, csvPath string) {
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load medicine catalog %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read medicine header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start medicine transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT INTO medicines
		(name, generic_name, batch_number, quantity, expiry_date, manufacturer, location, minimum_stock, unit_price, category, dosage_form, strength)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (name, batch_number) DO NOTHING`)
	if err != nil {
		log.Printf("unable to prepare medicine insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read medicine row: %v", err)
			continue
		}
		if len(record) < 12 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		quantity, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		if err != nil || quantity < 0 {
			continue
		}
		expiry, err := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)
		if err != nil || expiry <= 0 {
			continue
		}
		minStock, err := strconv.ParseInt(strings.TrimSpace(record[7]), 10, 64)
		if err != nil || minStock < 0 {
			continue
		}
		unitPrice, err := strconv.ParseFloat(strings.TrimSpace(record[8]), 64)
		if err != nil || unitPrice < 0 {
			continue
		}

		if _, err := stmt.Exec(name, strings.TrimSpace(record[1]), strings.TrimSpace(record[2]),
			quantity, expiry, strings.TrimSpace(record[5]), strings.TrimSpace(record[6]),
			minStock, unitPrice, strings.TrimSpace(record[9]), strings.TrimSpace(record[10]),
			strings.TrimSpace(record[11])); err != nil {
			log.Printf("unable to insert medicine %s: %v", name, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit medicine seed: %v", err)
	} else {
		log.Printf("seeded medicine catalog with %d rows", rows)
	}
}
