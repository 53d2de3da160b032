package snippet

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Permalink is a parsed GitHub permalink of the form
// https://github.com/<user>/<repo>/blob/<commit>/path/to/file#L<start>-L<end>.
type Permalink struct {
	URL       string
	RawURL    string
	Author    string
	StartLine int
	EndLine   int
}

// ParsePermalink extracts author, raw download URL, and line range from a
// GitHub permalink.
func ParsePermalink(url string) (Permalink, error) {
	const blobMarker = "/blob/"
	const hostMarker = "github.com/"

	hostIdx := strings.Index(url, hostMarker)
	blobIdx := strings.Index(url, blobMarker)
	if hostIdx < 0 || blobIdx < 0 || blobIdx < hostIdx {
		return Permalink{}, fmt.Errorf("not a github permalink: %s", url)
	}
	author := url[hostIdx+len(hostMarker) : blobIdx]

	fragIdx := strings.LastIndex(url, "#")
	if fragIdx < 0 {
		return Permalink{}, fmt.Errorf("permalink has no line range: %s", url)
	}
	start, end, err := parseLineRange(url[fragIdx+1:])
	if err != nil {
		return Permalink{}, fmt.Errorf("permalink %s: %w", url, err)
	}

	raw := strings.Replace(url[:fragIdx], blobMarker, "/raw/", 1)
	return Permalink{
		URL:       url,
		RawURL:    raw,
		Author:    author,
		StartLine: start,
		EndLine:   end,
	}, nil
}

func parseLineRange(frag string) (int, int, error) {
	parts := strings.Split(frag, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid line range %q", frag)
	}
	nums := make([]int, 2)
	for i, part := range parts {
		if !strings.HasPrefix(part, "L") {
			return 0, 0, fmt.Errorf("invalid line range %q", frag)
		}
		n, err := strconv.Atoi(part[1:])
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("invalid line range %q", frag)
		}
		nums[i] = n
	}
	if nums[1] < nums[0] {
		return 0, 0, fmt.Errorf("invalid line range %q", frag)
	}
	return nums[0], nums[1], nil
}

// Fetch downloads the snippet a permalink points at and normalizes its
// lines for typing.
func Fetch(ctx context.Context, id int, url, language string) (Snippet, error) {
	link, err := ParsePermalink(url)
	if err != nil {
		return Snippet{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.RawURL, http.NoBody)
	if err != nil {
		return Snippet{}, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return Snippet{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort close after full read.
			_ = cerr
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return Snippet{}, fmt.Errorf("unexpected status for %s: %s", link.RawURL, resp.Status)
	}

	var raw []string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw = append(raw, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Snippet{}, fmt.Errorf("failed to read %s: %w", link.RawURL, err)
	}
	if link.EndLine > len(raw) {
		return Snippet{}, fmt.Errorf("line range %d-%d out of bounds for %s (%d lines)",
			link.StartLine, link.EndLine, link.RawURL, len(raw))
	}

	lines := NormalizeLines(raw[link.StartLine-1 : link.EndLine])
	if len(lines) == 0 {
		return Snippet{}, fmt.Errorf("snippet from %s is empty after normalization", url)
	}
	return Snippet{
		ID:       id,
		Lines:    lines,
		URL:      url,
		Author:   link.Author,
		Language: language,
	}, nil
}
