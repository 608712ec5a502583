package structure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	RCSB_DOWNLOAD_ENDPOINT = "https://files.rcsb.org/download"
	RCSB_ENTRY_ENDPOINT    = "https://data.rcsb.org/rest/v1/core/entry"
	FETCH_MAX_RETRIES      = 4
)

var patternPDBID = regexp.MustCompile(`^[0-9][A-Za-z0-9]{3}$`)

// IsPDBID reports whether s looks like a 4-character PDB identifier.
func IsPDBID(s string) bool {
	return patternPDBID.MatchString(s)
}

// EntryInfo is the RCSB metadata logged for a fetched entry.
type EntryInfo struct {
	ID         string
	Title      string
	Method     string
	Resolution float64
}

// Fetcher downloads entries from the RCSB.
type Fetcher struct {
	DownloadURL string
	EntryURL    string
	Log         logrus.FieldLogger
	client      *retryablehttp.Client
}

// NewFetcher returns a Fetcher using the public RCSB endpoints.
func NewFetcher(log logrus.FieldLogger) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = FETCH_MAX_RETRIES
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = leveledLogger{log}
	return &Fetcher{
		DownloadURL: RCSB_DOWNLOAD_ENDPOINT,
		EntryURL:    RCSB_ENTRY_ENDPOINT,
		Log:         log,
		client:      client,
	}
}

// Fetch downloads the PDB file of id into dir, unless it is already there,
// and returns its path.
func (f *Fetcher) Fetch(ctx context.Context, id, dir string) (string, error) {
	if !IsPDBID(id) {
		return "", fmt.Errorf("invalid PDB identifier: %q", id)
	}
	id = strings.ToUpper(id)
	out := filepath.Join(dir, id+".pdb")
	if _, err := os.Stat(out); err == nil {
		f.Log.Debugf("%s already downloaded: %s", id, out)
		return out, nil
	}

	body, err := f.get(ctx, f.DownloadURL+"/"+id+".pdb")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return "", err
	}
	f.Log.Infof("structure %s downloaded: %s", id, out)
	return out, nil
}

// Info reads the title, method and resolution of an entry.
func (f *Fetcher) Info(ctx context.Context, id string) (EntryInfo, error) {
	if !IsPDBID(id) {
		return EntryInfo{}, fmt.Errorf("invalid PDB identifier: %q", id)
	}
	id = strings.ToUpper(id)
	body, err := f.get(ctx, f.EntryURL+"/"+id)
	if err != nil {
		return EntryInfo{}, err
	}
	return parseEntryInfo(id, string(body)), nil
}

func parseEntryInfo(id, body string) EntryInfo {
	fields := gjson.GetMany(body, "struct.title", "exptl.0.method", "rcsb_entry_info.resolution_combined.0")
	return EntryInfo{
		ID:         id,
		Title:      fields[0].Str,
		Method:     fields[1].Str,
		Resolution: fields[2].Float(),
	}
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "pmcontacts")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// leveledLogger routes retryablehttp messages to logrus.
type leveledLogger struct {
	log logrus.FieldLogger
}

func (l leveledLogger) fields(keysAndValues []interface{}) logrus.FieldLogger {
	entry := l.log
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		entry = entry.WithField(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}
	return entry
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Warn(msg)
}
