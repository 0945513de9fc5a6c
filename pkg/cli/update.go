package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/SoftDryzz/vaultic/internal/updater"
)

func getUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Check for, verify, and install the latest release",
		Action: func(ctx *cli.Context) error {
			return runUpdate()
		},
	}
}

// runUpdate performs the full update flow. Verification order matters:
// the minisign signature authenticates the checksum manifest first,
// and only then is the binary hash checked against the now-trusted
// manifest. Any failure leaves the installed binary in place.
func runUpdate() error {
	header("Vaultic — Update")

	detail("Checking for updates...")
	info, err := updater.FetchUpdateInfo()
	if err != nil {
		return err
	}
	if info == nil {
		success(fmt.Sprintf("Already up to date (v%s)", updater.Version))
		return nil
	}
	success(fmt.Sprintf("New version available: %s → %s", updater.Version, info.Version))

	detail("Downloading " + info.AssetName + "...")
	binaryData, err := updater.DownloadBytes(info.AssetURL)
	if err != nil {
		return err
	}
	success(fmt.Sprintf("Downloaded %d bytes", len(binaryData)))

	checksumsData, err := updater.DownloadBytes(info.ChecksumsURL)
	if err != nil {
		return err
	}
	signatureData, err := updater.DownloadBytes(info.SignatureURL)
	if err != nil {
		return err
	}
	success("Verification files downloaded")

	if err := updater.VerifySignature(checksumsData, signatureData); err != nil {
		return err
	}
	success("Signature valid (minisign Ed25519)")

	if err := updater.VerifySha256(binaryData, info.AssetName, string(checksumsData)); err != nil {
		return err
	}
	success("Checksum verified")

	if err := updater.InstallBinary(binaryData); err != nil {
		return err
	}
	success(fmt.Sprintf("Updated to v%s", info.Version))

	success("Release notes: " + info.ReleaseURL)
	success("Restart vaultic to use the new version.")

	return nil
}
