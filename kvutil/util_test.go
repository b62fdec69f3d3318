// Copyright (c) 2025 BVK Chaitanya

package kvutil

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/bvkgo/kv/kvmemdb"
)

func TestDeleteDB(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	value := "peacebloom"
	if err := SetDB(ctx, db, "/stats/Peacebloom", &value); err != nil {
		t.Fatal(err)
	}
	if err := DeleteDB(ctx, db, "/stats/Peacebloom"); err != nil {
		t.Fatal(err)
	}
	if _, err := GetDB[string](ctx, db, "/stats/Peacebloom"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("deleted key must not exist, got %v", err)
	}
}

func TestFirstAndLast(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	for _, k := range []string{"/snapshots/2025-03-03", "/snapshots/2025-03-01", "/snapshots/2025-03-02"} {
		v := k
		if err := SetDB(ctx, db, k, &v); err != nil {
			t.Fatal(err)
		}
	}
	begin, end := PathRange("/snapshots")

	key, value, err := FirstDB[string](ctx, db, begin, end)
	if err != nil {
		t.Fatal(err)
	}
	if key != "/snapshots/2025-03-01" || *value != key {
		t.Errorf("first: got %q %v", key, value)
	}

	key, value, err = LastDB[string](ctx, db, begin, end)
	if err != nil {
		t.Fatal(err)
	}
	if key != "/snapshots/2025-03-03" || *value != key {
		t.Errorf("last: got %q %v", key, value)
	}

	// An empty range reports no key and no error.
	begin, end = PathRange("/policies")
	key, value, err = FirstDB[string](ctx, db, begin, end)
	if err != nil {
		t.Fatal(err)
	}
	if key != "" || value != nil {
		t.Errorf("empty range: got %q %v", key, value)
	}
}
