// Package fetch downloads the juicity-server release archive into the
// workstation and unpacks it.
package fetch

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/internal/config"
)

const maxAttempts = 3

// ServiceStopper frees the executable before a retry: a running service
// holds the binary open and makes the overwrite fail with an I/O error.
type ServiceStopper interface {
	Stop(ctx context.Context)
}

// Downloader installs the server executable into the workstation.
type Downloader struct {
	client   *http.Client
	settings *config.Settings
	logger   *zap.Logger
}

func NewDownloader(settings *config.Settings, logger *zap.Logger) *Downloader {
	return &Downloader{
		client:   &http.Client{Timeout: 5 * time.Minute},
		settings: settings,
		logger:   logger,
	}
}

// Install downloads the release archive, extracts it into the workstation
// and marks the server binary executable. On an OS-level failure the whole
// download is retried after stopping the service, up to maxAttempts in
// total.
func (d *Downloader) Install(ctx context.Context, stopper ServiceStopper) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = d.install(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		d.logger.Info("service appears busy, stopping it before retry",
			zap.Int("attempt", attempt), zap.Error(lastErr))
		stopper.Stop(ctx)
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("download failed after %d attempts: %w", maxAttempts, lastErr)
}

func (d *Downloader) install(ctx context.Context) error {
	archive := d.settings.ArchivePath()
	if err := d.download(ctx, d.settings.DownloadURL, archive); err != nil {
		return err
	}
	d.logger.Info("download finished", zap.String("zip_path", archive))

	if err := extractAll(archive, d.settings.Workstation); err != nil {
		return err
	}

	executable := d.settings.Executable()
	if err := os.Chmod(executable, 0755); err != nil {
		return fmt.Errorf("failed to mark server binary executable: %w", err)
	}
	d.logger.Info("granted execute permission", zap.String("ex_path", executable))
	return nil
}

func (d *Downloader) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned %s", resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to save archive: %w", err)
	}
	return nil
}

// extractAll unpacks every entry of the zip archive into destDir, refusing
// paths that escape it.
func extractAll(archive, destDir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		target := filepath.Join(destDir, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes destination: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return nil
}
