package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"
)

// loadHosts reads the monitored host list from a header-bearing CSV file. The
// name and address columns are located by header label regardless of column
// order; rows missing either value are skipped with a warning. An empty list
// after parsing is an error: there is nothing to monitor.
func loadHosts(filename string) ([]Host, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open host list %s: %w", filename, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse host list %s: %w", filename, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("host list %s is empty", filename)
	}

	nameCol, addrCol, err := resolveColumns(records[0])
	if err != nil {
		return nil, fmt.Errorf("host list %s: %w", filename, err)
	}

	hosts := make([]Host, 0, len(records)-1)
	for i, row := range records[1:] {
		name, address := columnValue(row, nameCol), columnValue(row, addrCol)
		if name == "" || address == "" {
			log.Printf("⚠️  Skipping host list row %d: missing name or address", i+2)
			continue
		}
		hosts = append(hosts, Host{Name: name, Address: address})
	}

	if len(hosts) == 0 {
		return nil, fmt.Errorf("host list %s contains no usable hosts", filename)
	}
	return hosts, nil
}

// resolveColumns finds the name and address column indexes from the header
// row. The leading cell may carry a UTF-8 BOM, which is stripped before
// matching.
func resolveColumns(header []string) (nameCol, addrCol int, err error) {
	nameCol, addrCol = -1, -1
	for i, label := range header {
		if i == 0 {
			label = strings.TrimPrefix(label, "\ufeff")
		}
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "name", "hostname", "host":
			if nameCol < 0 {
				nameCol = i
			}
		case "address", "ip", "ip address":
			if addrCol < 0 {
				addrCol = i
			}
		}
	}
	if nameCol < 0 || addrCol < 0 {
		return 0, 0, fmt.Errorf("header must contain name and address columns, got %v", header)
	}
	return nameCol, addrCol, nil
}

func columnValue(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
