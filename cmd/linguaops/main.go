package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"linguaops/internal"
	"linguaops/internal/bank"
	"linguaops/internal/config"
	"linguaops/internal/export"
	"linguaops/internal/recon"
	"linguaops/internal/sheets"
	"linguaops/internal/storage"
	"linguaops/internal/woo"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log := newLogger(cfg.LogLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx := context.Background()

	cmd := os.Args[1]
	switch cmd {
	case "orders:sync":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		window := fs.Int("window", cfg.BankOrderWindow, "how many recent orders to cache")
		_ = fs.Parse(os.Args[2:])
		svc := woo.NewSyncService(db, cfg, log)
		count, err := svc.SyncRecent(ctx, *window)
		must(err)
		fmt.Printf("order sync complete: %d orders\n", count)

	case "orders:reconcile":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		examID := fs.Int("examId", 0, "stored exam id")
		kind := fs.String("kind", "", "exam level, e.g. B1")
		date := fs.String("date", "", "exam date, DD.MM.YYYY")
		out := fs.String("out", "", "optional xlsx output path")
		_ = fs.Parse(os.Args[2:])
		exam, err := resolveExam(db, *examID, *kind, *date)
		must(err)

		engine := recon.NewEngine(woo.NewClient(cfg), cfg, log)
		rows, err := engine.FindForExam(ctx, exam)
		must(err)
		fmt.Printf("reconciled %d orders for %s %s\n", len(rows), exam.Kind, exam.Date)
		if strings.TrimSpace(*out) != "" {
			must(export.ParticipantsToXLSX(rows, *out))
			fmt.Printf("written to %s\n", *out)
		} else {
			printJSON(rows)
		}

	case "orders:scan":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		examID := fs.Int("examId", 0, "stored exam id")
		kind := fs.String("kind", "", "exam level, e.g. B1")
		date := fs.String("date", "", "exam date, DD.MM.YYYY")
		cutoff := fs.Int("cutoff", 0, "order id cutoff between recent and older batch")
		older := fs.Bool("older", false, "also scan the older batch")
		_ = fs.Parse(os.Args[2:])
		exam, err := resolveExam(db, *examID, *kind, *date)
		must(err)

		client := woo.NewClient(cfg)
		ids, err := client.ListOrderIDs(ctx)
		must(err)
		recent, rest := recon.SplitIDs(ids, *cutoff)

		engine := recon.NewEngine(client, cfg, log)
		result := engine.Scan(ctx, recent, exam)
		fmt.Printf("recent batch: %d matches, %d ids examined (early stop: %v)\n",
			len(result.Rows), result.Examined, result.EarlyStopped)
		rows := result.Rows

		if *older {
			olderResult := engine.Scan(ctx, rest, exam)
			fmt.Printf("older batch: %d matches, %d ids examined (early stop: %v)\n",
				len(olderResult.Rows), olderResult.Examined, olderResult.EarlyStopped)
			rows = append(rows, olderResult.Rows...)
		}
		printJSON(rows)

	case "bank:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		pdfPath := fs.String("pdf", "", "statement pdf path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*pdfPath) == "" {
			must(fmt.Errorf("--pdf is required"))
		}

		data, err := os.ReadFile(*pdfPath)
		must(err)
		text, err := bank.ExtractText(data)
		must(err)

		runID := uuid.NewString()
		must(db.InsertBankPDF(runID, filepath.Base(*pdfPath), len(text)))

		txs, err := db.InsertTransactions(bank.SplitStatement(text, runID))
		must(err)

		orders, err := db.ListRecentOrders(cfg.BankOrderWindow)
		must(err)
		if len(orders) == 0 {
			log.Warn("order cache is empty, run orders:sync first")
		}

		candidateCount := 0
		for _, tx := range txs {
			candidates := bank.MatchTransaction(tx, orders, cfg.NameMatchThreshold)
			must(db.InsertMatchCandidates(candidates))
			candidateCount += len(candidates)
		}
		fmt.Printf("imported %s: %d transactions, %d match candidates (pdf id %s)\n",
			filepath.Base(*pdfPath), len(txs), candidateCount, runID)

	case "bank:matches":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		pdfID := fs.String("pdfId", "", "statement upload id")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*pdfID) == "" {
			must(fmt.Errorf("--pdfId is required"))
		}
		grouped, err := db.ListCandidatesByPDF(*pdfID)
		must(err)
		printJSON(grouped)

	case "bank:unmatched":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		pdfID := fs.String("pdfId", "", "statement upload id")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*pdfID) == "" {
			must(fmt.Errorf("--pdfId is required"))
		}
		txs, err := db.ListUnmatchedTransactions(*pdfID)
		must(err)
		printJSON(txs)

	case "sheets:check-duplicate":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		code := fs.String("code", "", "4-digit order code")
		_ = fs.Parse(os.Args[2:])
		api, err := sheets.NewClient(ctx, cfg)
		must(err)
		must(cfg.Require("SPREADSHEET_ID", cfg.SpreadsheetID))
		checker := sheets.NewChecker(api, log)
		result := checker.CheckDuplicate(ctx, cfg.SpreadsheetID, *code)
		printJSON(result)

	case "sheets:file":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		examID := fs.Int("examId", 0, "stored exam id")
		kind := fs.String("kind", "", "exam level, e.g. B1")
		date := fs.String("date", "", "exam date, DD.MM.YYYY")
		staff := fs.String("staff", "", "staff initials for the Mitarbeiter column")
		_ = fs.Parse(os.Args[2:])
		exam, err := resolveExam(db, *examID, *kind, *date)
		must(err)
		must(cfg.Require("SPREADSHEET_ID", cfg.SpreadsheetID))

		engine := recon.NewEngine(woo.NewClient(cfg), cfg, log)
		rows, err := engine.FindForExam(ctx, exam)
		must(err)

		api, err := sheets.NewClient(ctx, cfg)
		must(err)
		filer := sheets.NewFiler(api, log)
		report, err := filer.FileRows(ctx, cfg.SpreadsheetID, rows, *staff)
		must(err)
		fmt.Printf("filed %d rows", report.Filed)
		if len(report.Unresolved) > 0 {
			fmt.Printf(", unresolved months: %s", strings.Join(report.Unresolved, ", "))
		}
		fmt.Println()

	case "exams:add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		kind := fs.String("kind", "", "exam level, e.g. B1")
		date := fs.String("date", "", "exam date, DD.MM.YYYY")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*kind) == "" || strings.TrimSpace(*date) == "" {
			must(fmt.Errorf("--kind and --date are required"))
		}
		exam, err := db.AddExam(*kind, *date)
		must(err)
		fmt.Printf("exam added: id=%d %s %s\n", exam.ID, exam.Kind, exam.Date)

	case "exams:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		kind := fs.String("kind", "", "optional level filter")
		_ = fs.Parse(os.Args[2:])
		exams, err := db.ListExams(*kind)
		must(err)
		printJSON(exams)

	case "exams:remove":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		idList := fs.String("ids", "", "comma-separated exam ids")
		_ = fs.Parse(os.Args[2:])
		ids, err := parseIDList(*idList)
		must(err)
		if len(ids) == 0 {
			must(fmt.Errorf("--ids is required"))
		}
		must(db.RemoveExams(ids))
		fmt.Printf("%d exam(s) removed\n", len(ids))

	case "export:addresses":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		examID := fs.Int("examId", 0, "stored exam id")
		kind := fs.String("kind", "", "exam level, e.g. B1")
		date := fs.String("date", "", "exam date, DD.MM.YYYY")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		exam, err := resolveExam(db, *examID, *kind, *date)
		must(err)

		engine := recon.NewEngine(woo.NewClient(cfg), cfg, log)
		rows, err := engine.FindForExam(ctx, exam)
		must(err)
		must(export.AddressesToXLSX(rows, *out))
		fmt.Printf("exported %d addresses to %s\n", len(rows), *out)

	default:
		usage()
		os.Exit(1)
	}
}

func resolveExam(db *storage.DB, examID int, kind, date string) (internal.ExamDefinition, error) {
	if examID != 0 {
		exam, err := db.GetExam(examID)
		if err != nil {
			return internal.ExamDefinition{}, err
		}
		if exam == nil {
			return internal.ExamDefinition{}, fmt.Errorf("exam not found: id=%d", examID)
		}
		return *exam, nil
	}
	if strings.TrimSpace(kind) == "" || strings.TrimSpace(date) == "" {
		return internal.ExamDefinition{}, fmt.Errorf("--examId or both --kind and --date are required")
	}
	return internal.ExamDefinition{Kind: kind, Date: date}, nil
}

func parseIDList(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid exam id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

func printJSON(v any) {
	blob, err := json.MarshalIndent(v, "", "  ")
	must(err)
	fmt.Println(string(blob))
}

func usage() {
	fmt.Println("usage: linguaops <command>")
	fmt.Println("commands:")
	fmt.Println("  orders:sync [--window=150]")
	fmt.Println("  orders:reconcile --examId=1 | --kind=B1 --date=14.06.2025 [--out=./out/list.xlsx]")
	fmt.Println("  orders:scan --examId=1 | --kind=B1 --date=14.06.2025 --cutoff=4000 [--older]")
	fmt.Println("  bank:import --pdf=./statement.pdf")
	fmt.Println("  bank:matches --pdfId=...")
	fmt.Println("  bank:unmatched --pdfId=...")
	fmt.Println("  sheets:check-duplicate --code=4821")
	fmt.Println("  sheets:file --examId=1 | --kind=B1 --date=14.06.2025 [--staff=MB]")
	fmt.Println("  exams:add --kind=B1 --date=14.06.2025")
	fmt.Println("  exams:list [--kind=B1]")
	fmt.Println("  exams:remove --ids=1,2")
	fmt.Println("  export:addresses --examId=1 --out=./out/addresses.xlsx")
	fmt.Println()
	fmt.Println("  reconcile/file/export select postal-delivery orders of the exam's level and date")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
