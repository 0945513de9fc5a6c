package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/SoftDryzz/vaultic/internal/audit"
	"github.com/SoftDryzz/vaultic/internal/vaulterr"
	"github.com/SoftDryzz/vaultic/pkg/config"
)

func getLogCommand() *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "Show operation history from the audit log",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "author",
				Usage: "Filter by author name or email (substring match)",
			},
			&cli.StringFlag{
				Name:  "since",
				Usage: "Filter entries since this date (YYYY-MM-DD)",
			},
			&cli.IntFlag{
				Name:  "last",
				Usage: "Show only the last N entries",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text, json, or yaml",
				Value: "text",
			},
		},
		Action: func(ctx *cli.Context) error {
			return runLog(ctx.String("author"), ctx.String("since"), ctx.Int("last"), ctx.String("format"))
		},
	}
}

func runLog(author, since string, last int, format string) error {
	if err := requireInitialized(); err != nil {
		return err
	}
	cfg, err := config.Load(vaulticDir)
	if err != nil {
		return err
	}

	logger := audit.NewLogger(vaulticDir, cfg.AuditLogFile())

	var sinceTime *time.Time
	if since != "" {
		t, err := parseSince(since)
		if err != nil {
			return err
		}
		sinceTime = &t
	}

	entries, err := logger.Query(author, sinceTime)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		header("vaultic log")
		warning("No audit entries found")
		if author != "" || since != "" {
			fmt.Println("  Try removing filters to see all entries.")
		}
		return nil
	}

	if last > 0 && len(entries) > last {
		entries = entries[len(entries)-last:]
	}

	switch format {
	case "text":
		header(fmt.Sprintf("vaultic log (%d entries)", len(entries)))
		fmt.Println()
		for _, entry := range entries {
			printLogEntry(entry)
		}
	case "json":
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(entries)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	default:
		return &vaulterr.InvalidConfigError{
			Detail: fmt.Sprintf("unknown log format: '%s'. Use 'text', 'json', or 'yaml'.", format),
		}
	}

	return nil
}

// parseSince parses YYYY-MM-DD as midnight UTC.
func parseSince(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, &vaulterr.InvalidConfigError{
			Detail: fmt.Sprintf("invalid date format: '%s'. Expected ISO 8601 (YYYY-MM-DD), e.g. 2026-01-15", s),
		}
	}
	return t.UTC(), nil
}

func printLogEntry(entry audit.Entry) {
	dim := color.New(color.Faint)

	files := strings.Join(entry.Files, ", ")
	if files == "" {
		files = dim.Sprint("—")
	}

	fmt.Printf("  %s %s %-10s %s %s\n",
		dim.Sprint(entry.Timestamp.Format("2006-01-02 15:04:05")),
		dim.Sprint("│"),
		formatAction(entry.Action),
		files,
		dim.Sprint(entry.Detail),
	)
}

func formatAction(action audit.Action) string {
	switch action {
	case audit.ActionInit:
		return color.CyanString("init")
	case audit.ActionEncrypt:
		return color.GreenString("encrypt")
	case audit.ActionDecrypt:
		return color.BlueString("decrypt")
	case audit.ActionKeyAdd:
		return color.GreenString("key add")
	case audit.ActionKeyRemove:
		return color.RedString("key rm")
	case audit.ActionCheck:
		return color.YellowString("check")
	case audit.ActionDiff:
		return color.YellowString("diff")
	case audit.ActionResolve:
		return color.BlueString("resolve")
	case audit.ActionHookInstall:
		return color.CyanString("hook on")
	case audit.ActionHookUninstall:
		return color.CyanString("hook off")
	default:
		return string(action)
	}
}
