// Package auth loads Beacon session credentials from a Netscape format
// cookies.txt export. The session is read once per run; an absent or
// expired cookie jar halts the whole batch rather than failing items one
// by one.
package auth

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Postmodum37/beacon-dl/internal/services"
)

// Session holds the cookies exported from an authenticated browser
// session together with the earliest expiry among them.
type Session struct {
	Cookies    []*http.Cookie
	CookieFile string
	ExpiresAt  time.Time
}

// Valid reports whether the session can still authenticate requests at
// the given instant. Sessions with no recorded expiry are treated as
// valid until proven otherwise by the remote service.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || len(s.Cookies) == 0 {
		return false
	}
	if s.ExpiresAt.IsZero() {
		return true
	}
	return now.Before(s.ExpiresAt)
}

// Header renders the cookies as a single Cookie request header value.
func (s *Session) Header() string {
	if s == nil {
		return ""
	}
	pairs := make([]string, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// Load reads and validates the cookie jar at path. Missing, unreadable,
// empty, or expired jars all surface as ErrAuthUnavailable so callers can
// stop before any network work begins.
func Load(path string, now time.Time) (*Session, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrAuthUnavailable, "auth", "load", "no cookie file configured", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrAuthUnavailable, "auth", "load", fmt.Sprintf("open cookie file %s", path), err)
	}
	defer f.Close()

	cookies, err := ParseNetscape(f)
	if err != nil {
		return nil, services.Wrap(services.ErrAuthUnavailable, "auth", "load", "parse cookie file", err)
	}
	if len(cookies) == 0 {
		return nil, services.Wrap(services.ErrAuthUnavailable, "auth", "load", fmt.Sprintf("cookie file %s contains no cookies", path), nil)
	}

	session := &Session{Cookies: cookies, CookieFile: path, ExpiresAt: earliestExpiry(cookies)}
	if !session.Valid(now) {
		return nil, services.Wrap(services.ErrAuthUnavailable, "auth", "load", fmt.Sprintf("session expired at %s", session.ExpiresAt.Format(time.RFC3339)), nil)
	}
	return session, nil
}

// earliestExpiry ignores session cookies (zero expiry) since those carry
// no usable deadline in an exported jar.
func earliestExpiry(cookies []*http.Cookie) time.Time {
	var earliest time.Time
	for _, c := range cookies {
		if c.Expires.IsZero() || c.Expires.Unix() <= 0 {
			continue
		}
		if earliest.IsZero() || c.Expires.Before(earliest) {
			earliest = c.Expires
		}
	}
	return earliest
}

// ParseNetscape parses the Netscape cookies.txt format: one cookie per
// line with tab separated fields domain, flag, path, secure, expiration,
// name, value. Comment and blank lines are skipped; malformed lines are
// ignored rather than failing the whole jar.
func ParseNetscape(r io.Reader) ([]*http.Cookie, error) {
	var cookies []*http.Cookie
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 7 {
			continue
		}

		secure := strings.EqualFold(parts[3], "TRUE")
		expiresUnix, _ := strconv.ParseInt(parts[4], 10, 64)

		cookie := &http.Cookie{
			Name:   parts[5],
			Value:  parts[6],
			Domain: parts[0],
			Path:   parts[2],
			Secure: secure,
		}
		if expiresUnix > 0 {
			cookie.Expires = time.Unix(expiresUnix, 0)
		}
		cookies = append(cookies, cookie)
	}

	return cookies, scanner.Err()
}
