// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads site credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: site-cookie, index-token.
package secrets

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Key names understood by Apply.
const (
	// SiteCookie is sent verbatim as the Cookie header, for staging sites
	// behind a login wall.
	SiteCookie = "site-cookie"

	// IndexToken is sent as a bearer token.
	IndexToken = "index-token"
)

// Secrets maps key file names to their trimmed contents.
type Secrets map[string]string

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on log but do not abort.
func Load(dir string, log io.Writer) (Secrets, error) {
	if log == nil {
		log = io.Discard
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(log, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}

	return s, nil
}

// Apply attaches the site credentials present in s to req.
func (s Secrets) Apply(req *http.Request) {
	if v := s[SiteCookie]; v != "" {
		req.Header.Set("Cookie", v)
	}
	if v := s[IndexToken]; v != "" {
		req.Header.Set("Authorization", "Bearer "+v)
	}
}
