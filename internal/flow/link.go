package flow

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/diewo77/qrsona/internal/apperr"
)

// ProfileLink builds the URL a profile's QR code encodes.
func ProfileLink(appBaseURL string, profileID uint) string {
	return strings.TrimRight(appBaseURL, "/") + "/exchange?profileId=" + strconv.FormatUint(uint64(profileID), 10)
}

// ParseScanned extracts a profile id from scanned QR content: an
// exchange link, a /profile/{id} URL, or a bare id.
func ParseScanned(raw string) (uint, error) {
	const op = "parse scanned code"
	raw = strings.TrimSpace(raw)
	if id, ok := parseID(raw); ok {
		return id, nil
	}

	u, err := url.Parse(raw)
	if err == nil {
		if id, ok := parseID(u.Query().Get("profileId")); ok {
			return id, nil
		}
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		if n := len(segs); n >= 2 && segs[n-2] == "profile" {
			if id, ok := parseID(segs[n-1]); ok {
				return id, nil
			}
		}
	}
	return 0, apperr.Validation(op, map[string]string{"code": "invalid_id"})
}

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
