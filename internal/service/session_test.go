package service_test

import (
	"testing"

	"github.com/prikhi/bodyweight-client/internal/service"
)

func TestSessionValues(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, ok, err := service.GetSessionValue(db, "authToken"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := service.SetSessionValue(db, "authToken", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := service.SetSessionValue(db, "authToken", "xyz"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := service.GetSessionValue(db, "authToken")
	if err != nil || !ok || v != "xyz" {
		t.Fatalf("unexpected value %q ok=%v err=%v", v, ok, err)
	}
	all, err := service.ListSession(db)
	if err != nil || len(all) != 1 {
		t.Fatalf("unexpected list %v err=%v", all, err)
	}
	if err := service.DeleteSessionValue(db, "authToken"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := service.GetSessionValue(db, "authToken"); ok {
		t.Fatalf("expected key to be gone")
	}
	if err := service.SetSessionValue(db, " ", "x"); err == nil {
		t.Fatalf("expected blank key to be rejected")
	}
}
