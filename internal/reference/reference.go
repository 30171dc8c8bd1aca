// Package reference builds and parses gateway order references of the form
// <prefix>-<unix millis>-<ledger order id>.
package reference

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vpnshop/internal/apperr"
)

func Build(prefix string, at time.Time, orderID uint) string {
	return fmt.Sprintf("%s-%d-%d", prefix, at.UnixMilli(), orderID)
}

// Parse extracts the ledger order id from the third hyphen-delimited segment.
func Parse(ref string) (uint, error) {
	parts := strings.Split(ref, "-")
	if len(parts) < 3 {
		return 0, apperr.E(apperr.ErrInvalidArgument, "invalid order reference format")
	}
	id, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.E(apperr.ErrInvalidArgument, "invalid order reference format")
	}
	return uint(id), nil
}
