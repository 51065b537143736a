package domain

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidVideoRef is returned when a string cannot be reduced to a YouTube video ID.
var ErrInvalidVideoRef = fmt.Errorf("invalid video reference: %w", ErrValidation)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

type videoHost int

const (
	hostOther videoHost = iota
	hostShort
	hostMain
)

// IsVideoID reports whether s is a bare 11-character YouTube video ID.
func IsVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}

// NormalizeVideoRef reduces a YouTube URL or bare video ID to the canonical 11-character ID.
//
// Accepted forms: bare ID, youtu.be/<id>, youtube.com/watch?v=<id>, and
// youtube.com/{embed,shorts,live,v}/<id>. The extracted token must itself be a valid ID.
func NormalizeVideoRef(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("empty reference: %w", ErrInvalidVideoRef)
	}
	if IsVideoID(s) {
		return s, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", s, ErrInvalidVideoRef)
	}

	var token string
	switch classifyHost(u.Host) {
	case hostShort:
		token = firstSegment(u.Path)
	case hostMain:
		if strings.TrimSuffix(u.Path, "/") == "/watch" {
			token = u.Query().Get("v")
		} else {
			token = lastSegment(u.Path)
		}
	default:
		return "", fmt.Errorf("host %q: %w", u.Host, ErrInvalidVideoRef)
	}

	if !IsVideoID(token) {
		return "", fmt.Errorf("no video id in %q: %w", s, ErrInvalidVideoRef)
	}
	return token, nil
}

// CanonicalVideoURL returns the watch URL for a video ID.
func CanonicalVideoURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func classifyHost(host string) videoHost {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))

	switch {
	case host == "youtu.be" || host == "www.youtu.be":
		return hostShort
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		return hostMain
	case host == "youtube-nocookie.com" || host == "www.youtube-nocookie.com":
		return hostMain
	}
	return hostOther
}

func firstSegment(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

func lastSegment(path string) string {
	segs := strings.Split(path, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" {
			return segs[i]
		}
	}
	return ""
}
