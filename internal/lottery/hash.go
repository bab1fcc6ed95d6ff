package lottery

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
)

// DomainDistribution is the domain prefix for distribution fingerprints.
// Version suffix enables future algorithm migration.
const DomainDistribution = "lottery/distribution/v1"

// fingerprintDigits is the number of decimals probabilities are rounded to
// before hashing, so float noise from reduction does not change identity.
const fingerprintDigits = 12

// Fingerprint returns a content-addressed identity for the distribution l
// describes. Lotteries that are Equivalent up to rounding of probabilities at
// 1e-12 share a fingerprint.
//
// Format: hex(SHA256(domain + 0x00 + canonical)), where canonical is one
// "payoff:prob\n" line per event of Canonical(l).
func Fingerprint(l Lottery) string {
	canonical := Canonical(l)
	buf := make([]byte, 0, 32*len(canonical))
	scale := math.Pow10(fingerprintDigits)
	for _, ev := range canonical {
		x := float64(ev.Out.(Payoff))
		p := math.Round(ev.Prob*scale) / scale
		buf = strconv.AppendFloat(buf, x, 'g', -1, 64)
		buf = append(buf, ':')
		buf = strconv.AppendFloat(buf, p, 'f', fingerprintDigits, 64)
		buf = append(buf, '\n')
	}
	return hashWithDomain(DomainDistribution, buf)
}

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
