// Copyright (c) 2025 BVK Chaitanya

package addon

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wowtools/pricer/item"
)

// Listing duration codes as minutes remaining.
var timeRemaining = map[int64]time.Duration{
	1: 30 * time.Minute,
	2: 2 * time.Hour,
	3: 12 * time.Hour,
	4: 24 * time.Hour,
}

// ReadListings parses the Auc-ScanData "ropes": oversized strings of
// concatenated listing records that the scanner addon serializes below
// a ["ropes"] key. The records are not well-formed lua, so this is a
// line-oriented scan rather than a full parse. Records that fail to
// parse are skipped.
//
// The scan timestamps drift a little between pages; all listings are
// stamped with the newest one seen, which is close enough to the pull
// time.
func ReadListings(path string) ([]*item.Listing, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open scan data file: %w", err)
	}
	defer fp.Close()

	var ropes []string
	sc := bufio.NewScanner(fp)
	sc.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	inRopes := false
	for sc.Scan() {
		line := sc.Text()
		if inRopes && strings.Contains(line, "return") {
			ropes = append(ropes, line)
		} else if strings.Contains(line, `["ropes"]`) {
			inRopes = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("could not scan data file %q: %w", path, err)
	}

	var listings []*item.Listing
	var newest time.Time
	for _, rope := range ropes {
		for _, record := range splitRope(rope) {
			l, ok := parseListing(record)
			if !ok {
				continue
			}
			if l.Timestamp.After(newest) {
				newest = l.Timestamp
			}
			listings = append(listings, l)
		}
	}
	for _, l := range listings {
		l.Timestamp = newest
	}
	return listings, nil
}

// splitRope cuts one rope line into per-listing records. The payload
// sits between "{{" and "},}" with records separated by "},{".
func splitRope(rope string) []string {
	if len(rope) < 10 {
		return nil
	}
	parts := strings.Split(rope, "},{")
	if len(parts) == 0 {
		return nil
	}
	if _, after, ok := strings.Cut(parts[0], "{{"); ok {
		parts[0] = after
	} else {
		return nil
	}
	last := len(parts) - 1
	parts[last], _, _ = strings.Cut(parts[last], "},}")
	return parts
}

// parseListing extracts the fields we use from one record. A record is
// an item hyperlink followed by comma-separated values; the values sit
// after the link's last "|".
func parseListing(record string) (*item.Listing, bool) {
	i := strings.LastIndexByte(record, '|')
	fields := strings.Split(record[i+1:], ",")
	if len(fields) < 20 {
		return nil, false
	}

	count, err := strconv.ParseInt(fields[10], 10, 64)
	if err != nil || count <= 0 {
		return nil, false
	}
	price, err := strconv.ParseInt(fields[16], 10, 64)
	if err != nil {
		return nil, false
	}
	ts, err := strconv.ParseInt(fields[7], 10, 64)
	if err != nil {
		return nil, false
	}
	remain, err := strconv.ParseInt(fields[6], 10, 64)
	if err != nil {
		return nil, false
	}
	name, ok := stringField(fields[8])
	if !ok {
		return nil, false
	}
	seller, _ := stringField(fields[19])

	total := decimal.NewFromInt(price)
	return &item.Listing{
		Item:      name,
		Count:     count,
		Price:     total,
		PricePer:  total.Div(decimal.NewFromInt(count)),
		Seller:    seller,
		TimeLeft:  timeRemaining[remain],
		Timestamp: time.Unix(ts, 0).UTC(),
	}, true
}

// stringField unwraps a string field from a raw rope line, where it
// appears with escaped quotes as \"Name\".
func stringField(s string) (string, bool) {
	s = strings.Trim(s, `\"`)
	if len(s) == 0 {
		return "", false
	}
	return s, true
}
