// cistat reports test stability for a Jenkins job.
//
// Usage:
//
//	JENKINS_USER=alice JENKINS_TOKEN=... cistat -job https://jenkins.example.com/job/QA/job/APITests
//	cistat -config team.yaml -builds 25 -out reports/
//
// cistat polls the job's most recent builds, extracts scenario and step
// counts from each console log, aggregates them by calendar date and
// deployment environment, writes jenkins_summary.{csv,html,xlsx} and
// prints a styled summary for the latest date. With email configured it
// also mails the report with the files attached.
//
// Exit codes:
//
//	0  report produced
//	1  no data in the requested window, or a report file failed to write
//	2  usage or configuration error
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/skarev/cistat/internal/aggregate"
	"github.com/skarev/cistat/internal/config"
	"github.com/skarev/cistat/internal/jenkins"
	"github.com/skarev/cistat/internal/mail"
	"github.com/skarev/cistat/internal/report"
)

const (
	csvName   = "jenkins_summary.csv"
	htmlName  = "jenkins_summary.html"
	excelName = "jenkins_summary.xlsx"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cistat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", config.DefaultPath, "Path to the YAML config file")
	jobURL := fs.String("job", "", "Jenkins job URL (overrides config)")
	builds := fs.Int("builds", 0, "Number of recent builds to aggregate (overrides config)")
	outDir := fs.String("out", "", "Directory for report files (overrides config)")
	themeName := fs.String("theme", "", "Terminal theme: default, mono (overrides config)")
	noEmail := fs.Bool("no-email", false, "Skip sending the report email")
	debug := fs.Bool("debug", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logrus.SetOutput(stderr)
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "cistat: %v\n", err)
		return 2
	}
	applyOverrides(cfg, *jobURL, *builds, *outDir, *themeName)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "cistat: %v\n", err)
		return 2
	}

	client := jenkins.NewClient(cfg.JobURL, cfg.JenkinsUser, cfg.JenkinsToken)
	buckets := aggregate.New(client).LastN(cfg.Builds)
	if len(buckets) == 0 {
		fmt.Fprintf(stderr, "cistat: no Jenkins data found in the last %d builds\n", cfg.Builds)
		return 1
	}

	date := report.LatestDate(buckets)
	rows := report.BuildRows(buckets, date)

	paths, err := writeReports(cfg.OutDir, rows)
	if err != nil {
		fmt.Fprintf(stderr, "cistat: %v\n", err)
		return 1
	}

	fmt.Fprint(stdout, report.RenderTerminal(rows, resolveTheme(cfg.Theme, stdout), termWidth(stdout)))

	if *noEmail {
		return 0
	}
	if !cfg.EmailConfigured() {
		logrus.Warn("email not configured (EMAIL_USER, EMAIL_PASS, recipients); skipping report email")
		return 0
	}
	sendEmail(cfg, date, rows, paths)
	return 0
}

// applyOverrides layers non-empty flag values over the loaded config.
func applyOverrides(cfg *config.Config, jobURL string, builds int, outDir, theme string) {
	if jobURL != "" {
		cfg.JobURL = jobURL
	}
	if builds > 0 {
		cfg.Builds = builds
	}
	if outDir != "" {
		cfg.OutDir = outDir
	}
	if theme != "" {
		cfg.Theme = theme
	}
}

// writeReports writes the CSV, HTML and XLSX report files and returns the
// paths of the two email attachments (CSV and HTML, matching the original
// report distribution).
func writeReports(dir string, rows []report.Row) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	csvPath := filepath.Join(dir, csvName)
	if err := writeFile(csvPath, func(w io.Writer) error { return report.WriteCSV(w, rows) }); err != nil {
		return nil, fmt.Errorf("writing %s: %w", csvPath, err)
	}

	htmlPath := filepath.Join(dir, htmlName)
	if err := writeFile(htmlPath, func(w io.Writer) error { return report.WriteHTML(w, rows) }); err != nil {
		return nil, fmt.Errorf("writing %s: %w", htmlPath, err)
	}

	excelPath := filepath.Join(dir, excelName)
	if err := report.WriteExcel(excelPath, rows); err != nil {
		return nil, fmt.Errorf("writing %s: %w", excelPath, err)
	}
	logrus.WithField("dir", dir).Info("report files written")

	return []string{csvPath, htmlPath}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// sendEmail is best-effort: a delivery failure is logged, never fatal.
func sendEmail(cfg *config.Config, date string, rows []report.Row, attachments []string) {
	mailCfg := mail.Config{
		Host:       cfg.Email.SMTPHost,
		Port:       cfg.Email.SMTPPort,
		Username:   cfg.EmailUser,
		Password:   cfg.EmailPass,
		From:       cfg.EmailUser,
		Recipients: cfg.Email.Recipients,
		CC:         cfg.Email.CC,
	}
	subject := "Jenkins Daily Report - " + date
	if err := mail.Send(mailCfg, subject, mail.HTMLBody(rows), attachments); err != nil {
		logrus.WithError(err).Warn("failed to send report email")
		return
	}
	logrus.WithField("recipients", len(mailCfg.Recipients)).Info("report email sent")
}

// resolveTheme picks the terminal theme, falling back to mono when the
// output is not a TTY or NO_COLOR is set.
func resolveTheme(name string, w io.Writer) report.Theme {
	if os.Getenv("NO_COLOR") != "" || !isTTYWriter(w) {
		return report.MonoTheme()
	}
	return report.ThemeByName(name)
}

func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}
