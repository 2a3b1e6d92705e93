// Package siderparser provides functionality for downloading and parsing
// the SIDER adverse-event dumps and the disease prescription dataset into
// one immutable dataset snapshot.
package siderparser

import (
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Icyfire18/sider-prediction/logging"
	"golang.org/x/text/encoding/charmap"
)

const (
	sideEffectsFile = "SideEffects.tsv"
	drugNamesFile   = "DrugNames.tsv"
	diseaseFile     = "DiseaseIndications.csv"
)

// downloadAndConvertFile fetches one source file into dataDir, transparently
// unwrapping gzip and zip containers and normalizing the text to UTF-8.
func (p *SiderParser) downloadAndConvertFile(name string, url string) error {
	cleanPath := filepath.Clean(filepath.Join(p.dataDir, name))
	if !strings.HasPrefix(cleanPath, filepath.Clean(p.dataDir)+string(os.PathSeparator)) {
		return fmt.Errorf("invalid filepath: %s", name)
	}

	client := &http.Client{
		Timeout: 5 * time.Minute,
	}
	response, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err = response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: status %d", url, response.StatusCode)
	}

	bodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	bodyBytes, err = unwrapContainer(bodyBytes, url)
	if err != nil {
		return fmt.Errorf("failed to unpack %s: %w", url, err)
	}

	// Some dumps are iso-8859-1 and some utf8, so sniff the content first
	var reader io.Reader
	if utf8.Valid(bodyBytes) {
		reader = bytes.NewReader(bodyBytes)
	} else {
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	}

	outFile, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", cleanPath, err)
	}
	defer func() {
		if err = outFile.Close(); err != nil {
			logging.Warn("Failed to close output file", "error", err)
		}
	}()

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0), 1*1024*1024)

	for scanner.Scan() {
		_, err = io.WriteString(outFile, scanner.Text()+"\n")
		if err != nil {
			return fmt.Errorf("failed to write to file %s: %w", cleanPath, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error in %s: %w", name, err)
	}

	logging.Debug(fmt.Sprintf("%s downloaded and converted without errors", name))
	return nil
}

// unwrapContainer decompresses gzip bodies and extracts the first tabular
// entry of zip bodies. Plain text passes through untouched.
func unwrapContainer(body []byte, url string) ([]byte, error) {
	// gzip magic
	if len(body) > 2 && body[0] == 0x1f && body[1] == 0x8b {
		gz, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip open: %w", err)
		}
		defer gz.Close()

		unpacked, err := io.ReadAll(gz)
		if err != nil {
			return nil, fmt.Errorf("gzip read: %w", err)
		}
		return unpacked, nil
	}

	// zip magic (the disease dataset is served as a zip archive)
	if len(body) > 4 && bytes.Equal(body[:4], []byte("PK\x03\x04")) {
		archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
		if err != nil {
			return nil, fmt.Errorf("zip open: %w", err)
		}

		for _, entry := range archive.File {
			if !strings.HasSuffix(entry.Name, ".csv") && !strings.HasSuffix(entry.Name, ".tsv") {
				continue
			}
			rc, err := entry.Open()
			if err != nil {
				return nil, fmt.Errorf("zip entry %s: %w", entry.Name, err)
			}
			unpacked, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("zip entry %s: %w", entry.Name, err)
			}
			return unpacked, nil
		}
		return nil, fmt.Errorf("no tabular entry in zip archive from %s", url)
	}

	return body, nil
}

// downloadAll fetches all configured sources concurrently
func (p *SiderParser) downloadAll() error {
	files := map[string]string{
		sideEffectsFile: p.sideEffectsURL,
		drugNamesFile:   p.drugNamesURL,
	}
	if p.diseaseDataURL != "" {
		files[diseaseFile] = p.diseaseDataURL
	}

	// Create the data directory if it doesn't exist
	if err := os.MkdirAll(p.dataDir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	for fileName, url := range files {
		wg.Add(1)

		go func(file string, url string) {
			defer wg.Done()
			if err := p.downloadAndConvertFile(file, url); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(fileName, url)
	}
	wg.Wait()

	if len(errs) > 0 {
		logging.Error("Download errors occurred", "errors", errs)
		return fmt.Errorf("download errors: %v", errs)
	}

	return nil
}
