package model

import (
	"errors"
	"testing"

	"vpnshop/internal/apperr"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "completed", "cancelled", "simulated"} {
		if _, err := ParseOrderStatus(s); err != nil {
			t.Errorf("ParseOrderStatus(%q) failed: %v", s, err)
		}
	}

	_, err := ParseOrderStatus("refunded")
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("Expected invalid argument for unknown status, got %v", err)
	}
}

func TestOrderStatusScanRejectsUnknown(t *testing.T) {
	var st OrderStatus
	if err := st.Scan([]byte("completed")); err != nil || st != OrderStatusCompleted {
		t.Fatalf("Expected completed, got %q (%v)", st, err)
	}
	if err := st.Scan("paid"); err == nil {
		t.Fatal("Expected scan of unknown stored status to fail")
	}
}

func TestProductIDsDedupAndScan(t *testing.T) {
	ids := NewProductIDs("vpn-germany-1m", "vpn-russia-3m", "vpn-germany-1m")
	if len(ids) != 2 {
		t.Fatalf("Expected duplicates dropped, got %v", ids)
	}

	v, err := ids.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != `["vpn-germany-1m","vpn-russia-3m"]` {
		t.Errorf("Unexpected encoding %v", v)
	}

	var scanned ProductIDs
	if err := scanned.Scan(`["a","b","a"]`); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(scanned) != 2 || scanned[0] != "a" || scanned[1] != "b" {
		t.Errorf("Unexpected scanned ids %v", scanned)
	}

	if got := scanned.Without("a"); len(got) != 1 || got[0] != "b" {
		t.Errorf("Without returned %v", got)
	}
	if len(scanned) != 2 {
		t.Error("Without must not modify the receiver")
	}
}

func TestNilProductIDsEncodeAsEmptyArray(t *testing.T) {
	var ids ProductIDs
	v, err := ids.Value()
	if err != nil || v != "[]" {
		t.Errorf("Expected [], got %v (%v)", v, err)
	}
}
