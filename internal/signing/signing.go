// Package signing implements the gateway's payload signature: keys sorted
// lexicographically, "key:value;" pairs for every non-null field except "signature",
// the raw shared secret appended, SHA-256 hex digest of the result.
//
// Values are rendered the way the gateway's reference client stringifies them, so
// webhook payloads decoded with json.Decoder.UseNumber verify bit-for-bit.
package signing

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const Field = "signature"

// Canonical returns the string that is hashed for payload, secret included.
func Canonical(payload map[string]any, secret string) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := payload[k]
		if k == Field || v == nil {
			continue
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(render(v))
		b.WriteByte(';')
	}
	b.WriteString(secret)
	return b.String()
}

func Sign(payload map[string]any, secret string) string {
	sum := sha256.Sum256([]byte(Canonical(payload, secret)))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the signature over payload and compares it with the signature
// field. A missing or non-string signature never verifies.
func Verify(payload map[string]any, secret string) bool {
	got, ok := payload[Field].(string)
	if !ok || got == "" {
		return false
	}
	want := Sign(payload, secret)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(got)), []byte(want)) == 1
}

func render(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return formatFloat(f)
		}
		return x.String()
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case fmt.Stringer:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = render(e)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(x, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return fmt.Sprint(x)
	}
}

// formatFloat renders f the way a JavaScript template literal does: plain
// decimals in [1e-6, 1e21), exponent form with an unpadded exponent outside.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}
