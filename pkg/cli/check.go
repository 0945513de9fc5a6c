package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/SoftDryzz/vaultic/internal/audit"
	"github.com/SoftDryzz/vaultic/internal/dotenv"
	"github.com/SoftDryzz/vaultic/internal/secrets"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

func getCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Compare the local .env against the template",
		Action: func(ctx *cli.Context) error {
			return runCheck()
		},
	}
}

func runCheck() error {
	const envPath = ".env"

	if _, err := os.Stat(envPath); err != nil {
		return &vaulterr.FileNotFoundError{Path: envPath}
	}

	// Config is optional here: check works before init as long as a
	// template can be discovered.
	cfg, _ := config.Load(vaulticDir)

	templatePath, err := secrets.ResolveGlobalTemplate(cfg, ".")
	if err != nil {
		return err
	}

	envContent, err := os.ReadFile(envPath)
	if err != nil {
		return err
	}
	templateContent, err := os.ReadFile(templatePath)
	if err != nil {
		return err
	}

	envFile, err := dotenv.Parse(string(envContent))
	if err != nil {
		return err
	}
	templateFile, err := dotenv.Parse(string(templateContent))
	if err != nil {
		return &vaulterr.ParseError{File: templatePath, Detail: err.Error()}
	}

	result := secrets.Check(envFile, templateFile)

	totalTemplate := len(templateFile.Keys())
	present := totalTemplate - len(result.Missing)

	header("vaultic check")
	detail("Template: " + templatePath)

	if len(result.Missing) > 0 {
		warning(fmt.Sprintf("Missing variables (%d):", len(result.Missing)))
		for _, key := range result.Missing {
			fmt.Println("    • " + key)
		}
	}

	if len(result.Extra) > 0 {
		warning(fmt.Sprintf("Extra variables not in template (%d):", len(result.Extra)))
		for _, key := range result.Extra {
			fmt.Println("    • " + key)
		}
	}

	if len(result.EmptyValues) > 0 {
		warning(fmt.Sprintf("Variables with empty values (%d):", len(result.EmptyValues)))
		for _, key := range result.EmptyValues {
			fmt.Println("    • " + key)
		}
	}

	if result.IsOK() {
		success(fmt.Sprintf("%d/%d variables present — all good", present, totalTemplate))
	} else {
		fmt.Println()
		success(fmt.Sprintf("%d/%d variables present", present, totalTemplate))
	}

	logAudit(audit.ActionCheck, []string{envPath}, fmt.Sprintf("%d issue(s)", result.IssueCount()))

	return nil
}
