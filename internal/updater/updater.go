// Package updater checks GitHub Releases for newer vaultic builds,
// verifies them (minisign signature over the checksum manifest, then
// SHA-256 of the binary), and swaps the running executable.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-github/v67/github"

	"github.com/SoftDryzz/vaultic/internal/vaulterr"
)

// Version is the compiled-in vaultic version.
const Version = "1.0.0"

const (
	releaseOwner = "SoftDryzz"
	releaseRepo  = "vaultic"

	checksumsAsset = "SHA256SUMS.txt"
	signatureAsset = "SHA256SUMS.txt.minisig"

	// checkTimeout bounds the passive startup version check.
	checkTimeout = 3 * time.Second
	// downloadTimeout bounds the explicit `vaultic update` download.
	downloadTimeout = 120 * time.Second
	// cacheTTL is how long a version check result stays fresh.
	cacheTTL = 86400 * time.Second
)

// UpdateInfo describes an available newer release.
type UpdateInfo struct {
	Version      *semver.Version
	AssetURL     string
	AssetName    string
	ChecksumsURL string
	SignatureURL string
	ReleaseURL   string
}

// checkCache is the on-disk record of the last version check.
type checkCache struct {
	CheckedAt     string `json:"checked_at"`
	LatestVersion string `json:"latest_version,omitempty"`
}

// CurrentVersion returns the compiled-in version.
func CurrentVersion() *semver.Version {
	return semver.MustParse(Version)
}

// PlatformAsset returns the release asset name for this OS/arch, or an
// UnsupportedPlatformError when no binary is published for it.
func PlatformAsset() (string, error) {
	var osName string
	switch runtime.GOOS {
	case "linux":
		osName = "linux"
	case "darwin":
		osName = "darwin"
	case "windows":
		osName = "windows"
	default:
		return "", &vaulterr.UnsupportedPlatformError{
			Platform: runtime.GOOS + "-" + runtime.GOARCH,
		}
	}

	var arch string
	switch runtime.GOARCH {
	case "amd64":
		arch = "amd64"
	case "arm64":
		arch = "arm64"
	default:
		return "", &vaulterr.UnsupportedPlatformError{
			Platform: runtime.GOOS + "-" + runtime.GOARCH,
		}
	}

	name := fmt.Sprintf("vaultic-%s-%s", osName, arch)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name, nil
}

func cachePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "vaultic", "last_update_check.json"), nil
}

func readCache() *checkCache {
	path, err := cachePath()
	if err != nil {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var cache checkCache
	if err := json.Unmarshal(content, &cache); err != nil {
		return nil
	}
	return &cache
}

func cacheFresh(cache *checkCache) bool {
	if cache == nil {
		return false
	}
	checkedAt, err := time.Parse(time.RFC3339, cache.CheckedAt)
	if err != nil {
		return false
	}
	return time.Since(checkedAt) < cacheTTL
}

func saveCache(latestVersion string) {
	path, err := cachePath()
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	data, err := json.Marshal(checkCache{
		CheckedAt:     time.Now().UTC().Format(time.RFC3339),
		LatestVersion: latestVersion,
	})
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0o644)
}

func githubClient(timeout time.Duration) *github.Client {
	return github.NewClient(&http.Client{Timeout: timeout})
}

// CheckLatestVersion returns the newer available version string, or ""
// when up to date. Never errors: any network, parse, or IO failure is
// downgraded to "no update".
func CheckLatestVersion() string {
	if cache := readCache(); cacheFresh(cache) {
		return newerThanCurrent(cache.LatestVersion)
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	release, _, err := githubClient(checkTimeout).Repositories.GetLatestRelease(ctx, releaseOwner, releaseRepo)
	if err != nil {
		return ""
	}

	versionStr := stripV(release.GetTagName())
	saveCache(versionStr)

	return newerThanCurrent(versionStr)
}

func newerThanCurrent(versionStr string) string {
	if versionStr == "" {
		return ""
	}
	latest, err := semver.NewVersion(versionStr)
	if err != nil {
		return ""
	}
	if latest.GreaterThan(CurrentVersion()) {
		return versionStr
	}
	return ""
}

func stripV(tag string) string {
	if len(tag) > 0 && tag[0] == 'v' {
		return tag[1:]
	}
	return tag
}

// FetchUpdateInfo fetches the latest release and locates the three
// required assets. Returns nil when already up to date.
func FetchUpdateInfo() (*UpdateInfo, error) {
	assetName, err := PlatformAsset()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
	defer cancel()

	release, _, err := githubClient(downloadTimeout).Repositories.GetLatestRelease(ctx, releaseOwner, releaseRepo)
	if err != nil {
		return nil, &vaulterr.UpdateCheckError{Reason: "GitHub API request failed: " + err.Error()}
	}

	versionStr := stripV(release.GetTagName())
	latest, err := semver.NewVersion(versionStr)
	if err != nil {
		return nil, &vaulterr.UpdateCheckError{
			Reason: fmt.Sprintf("invalid version '%s': %v", versionStr, err),
		}
	}

	if !latest.GreaterThan(CurrentVersion()) {
		return nil, nil
	}

	findAsset := func(name string) *github.ReleaseAsset {
		for _, a := range release.Assets {
			if a.GetName() == name {
				return a
			}
		}
		return nil
	}

	binary := findAsset(assetName)
	if binary == nil {
		return nil, &vaulterr.UpdateCheckError{
			Reason: fmt.Sprintf("no binary for your platform (%s) in release %s", assetName, versionStr),
		}
	}
	checksums := findAsset(checksumsAsset)
	if checksums == nil {
		return nil, &vaulterr.UpdateCheckError{
			Reason: "release is missing SHA256SUMS.txt — cannot verify download",
		}
	}
	signature := findAsset(signatureAsset)
	if signature == nil {
		return nil, &vaulterr.UpdateCheckError{
			Reason: "release is missing SHA256SUMS.txt.minisig — cannot verify download",
		}
	}

	return &UpdateInfo{
		Version:      latest,
		AssetURL:     binary.GetBrowserDownloadURL(),
		AssetName:    binary.GetName(),
		ChecksumsURL: checksums.GetBrowserDownloadURL(),
		SignatureURL: signature.GetBrowserDownloadURL(),
		ReleaseURL:   release.GetHTMLURL(),
	}, nil
}

// DownloadBytes fetches a release asset.
func DownloadBytes(url string) ([]byte, error) {
	client := &http.Client{Timeout: downloadTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, &vaulterr.UpdateError{Reason: "download failed: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &vaulterr.UpdateError{
			Reason: fmt.Sprintf("download returned status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &vaulterr.UpdateError{Reason: "failed to read download: " + err.Error()}
	}
	return data, nil
}

// InstallBinary replaces the running executable with the verified
// binary via rename-from-temp, so a failure at any point leaves the
// installed binary intact.
func InstallBinary(data []byte) error {
	exe, err := os.Executable()
	if err != nil {
		return &vaulterr.UpdateError{Reason: "cannot locate running binary: " + err.Error()}
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return &vaulterr.UpdateError{Reason: "cannot resolve running binary: " + err.Error()}
	}

	dir := filepath.Dir(exe)
	tmp, err := os.CreateTemp(dir, ".vaultic-update-*")
	if err != nil {
		return &vaulterr.UpdateError{Reason: "cannot create temp file: " + err.Error()}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &vaulterr.UpdateError{Reason: "cannot write temp file: " + err.Error()}
	}
	if err := tmp.Chmod(0o755); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &vaulterr.UpdateError{Reason: "cannot set permissions: " + err.Error()}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &vaulterr.UpdateError{Reason: "cannot finish temp file: " + err.Error()}
	}

	if err := os.Rename(tmpName, exe); err != nil {
		os.Remove(tmpName)
		return &vaulterr.UpdateError{Reason: "cannot replace binary: " + err.Error()}
	}
	return nil
}
