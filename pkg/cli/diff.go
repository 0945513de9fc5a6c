package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/SoftDryzz/vaultic/internal/audit"
	"github.com/SoftDryzz/vaultic/internal/dotenv"
	"github.com/SoftDryzz/vaultic/internal/resolver"
	"github.com/SoftDryzz/vaultic/internal/secrets"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

func getDiffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Compare secret files or resolved environments",
		ArgsUsage: "[file1] [file2]",
		Description: `File mode compares two dotenv files:
   vaultic diff .env .env.backup

Environment mode compares two resolved environments when --env is
given at least twice:
   vaultic diff --env dev --env prod`,
		Action: func(ctx *cli.Context) error {
			envs := ctx.StringSlice("env")
			if len(envs) >= 2 {
				return runDiffEnvs(envs[0], envs[1], ctx.String("cipher"))
			}
			return runDiffFiles(ctx.Args().Get(0), ctx.Args().Get(1))
		},
	}
}

// runDiffFiles compares two dotenv files on disk.
func runDiffFiles(file1, file2 string) error {
	if file1 == "" {
		file1 = ".env"
	}
	if file2 == "" {
		return &vaulterr.InvalidConfigError{
			Detail: "diff needs two inputs.\n\n  Compare files:        vaultic diff <file1> <file2>\n  Compare environments: vaultic diff --env dev --env prod",
		}
	}

	left, err := parseDotenvFile(file1)
	if err != nil {
		return err
	}
	right, err := parseDotenvFile(file2)
	if err != nil {
		return err
	}

	result := secrets.Diff(left, right, file1, file2)
	renderDiff(result)

	logAudit(audit.ActionDiff, []string{file1, file2}, fmt.Sprintf("%d difference(s)", len(result.Entries)))
	return nil
}

// runDiffEnvs resolves both environments (decrypting layers in memory)
// and compares the results.
func runDiffEnvs(leftEnv, rightEnv, cipherFlag string) error {
	if err := requireInitialized(); err != nil {
		return err
	}
	cfg, err := config.Load(vaulticDir)
	if err != nil {
		return err
	}

	backend, err := backendFor(resolveCipher(cipherFlag, cfg), cfg, "", true)
	if err != nil {
		return err
	}

	resolveOne := func(name string) (*dotenv.SecretFile, error) {
		chain, err := resolver.BuildChain(name, cfg)
		if err != nil {
			return nil, err
		}
		files, err := loadEnvFiles(chain, backend, false)
		if err != nil {
			return nil, err
		}
		env, err := resolver.Resolve(name, cfg, files)
		if err != nil {
			return nil, err
		}
		return env.Resolved, nil
	}

	left, err := resolveOne(leftEnv)
	if err != nil {
		return err
	}
	right, err := resolveOne(rightEnv)
	if err != nil {
		return err
	}

	result := secrets.Diff(left, right, leftEnv, rightEnv)
	renderDiff(result)

	logAudit(audit.ActionDiff, []string{leftEnv, rightEnv}, fmt.Sprintf("%d difference(s)", len(result.Entries)))
	return nil
}

func parseDotenvFile(path string) (*dotenv.SecretFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &vaulterr.FileNotFoundError{Path: path}
	}
	file, err := dotenv.Parse(string(content))
	if err != nil {
		return nil, &vaulterr.ParseError{File: path, Detail: err.Error()}
	}
	return file, nil
}

func renderDiff(result *secrets.DiffResult) {
	header("vaultic diff")

	if result.IsEmpty() {
		success("No differences found")
		return
	}

	keyWidth := 8
	for _, e := range result.Entries {
		if len(e.Key) > keyWidth {
			keyWidth = len(e.Key)
		}
	}

	dim := color.New(color.Faint)
	fmt.Printf("  %-*s   %-12s   %s\n", keyWidth, "Variable", result.LeftName, result.RightName)

	for _, entry := range result.Entries {
		switch entry.Kind {
		case secrets.DiffAdded:
			fmt.Printf("  %-*s   %-12s   %s\n",
				keyWidth, color.GreenString(entry.Key), dim.Sprint("—"), color.GreenString("(added)"))
		case secrets.DiffRemoved:
			fmt.Printf("  %-*s   %-12s   %s\n",
				keyWidth, color.RedString(entry.Key), color.RedString("(removed)"), dim.Sprint("—"))
		case secrets.DiffModified:
			fmt.Printf("  %-*s   %-12s   %s\n",
				keyWidth, color.YellowString(entry.Key),
				truncateValue(entry.OldValue, 12),
				color.YellowString(truncateValue(entry.NewValue, 12)))
		}
	}

	added, removed, modified := result.Counts()
	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", removed))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", modified))
	}

	fmt.Println()
	success(joinComma(parts))
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// truncateValue shortens long values on rune boundaries for display.
func truncateValue(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	limit := maxLen - 3
	if limit < 0 {
		limit = 0
	}
	return string(runes[:limit]) + "..."
}
