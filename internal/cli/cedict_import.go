package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/hanzi/internal/audit"
	"github.com/mrlokans/hanzi/internal/config"
	"github.com/mrlokans/hanzi/internal/database"
	auditrepo "github.com/mrlokans/hanzi/internal/database/audit"
	"github.com/mrlokans/hanzi/internal/database/vocabulary"
	"github.com/mrlokans/hanzi/internal/importers"
	"github.com/mrlokans/hanzi/internal/logging"
)

// maxPrintedErrors bounds the item errors printed per file.
const maxPrintedErrors = 10

// fileList collects repeated -file flags.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

// CedictImportCommand imports CC-CEDICT JSON files from the local filesystem.
type CedictImportCommand struct {
	Files        fileList
	DatabasePath string
	Verbose      bool
	DryRun       bool

	out io.Writer
}

func NewCedictImportCommand() *CedictImportCommand {
	return &CedictImportCommand{out: os.Stdout}
}

func (cmd *CedictImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cedict-import", flag.ContinueOnError)

	fs.Var(&cmd.Files, "file", "Path to a CC-CEDICT JSON file (repeatable, required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the vocabulary database")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Log every entry")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the files without writing to the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cedict-import -file <path> [-file <path> ...] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import vocabulary from CC-CEDICT JSON files. Each file must hold a JSON\n")
		fmt.Fprintf(os.Stderr, "array of entries. Files are processed in the order given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s cedict-import -file hsk1.json -file hsk2.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s cedict-import -file hsk1.json -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if len(cmd.Files) == 0 {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *CedictImportCommand) Run() error {
	logLevel := "warn"
	if cmd.Verbose {
		logLevel = "debug"
	}
	logger, err := logging.New(config.Log{Level: logLevel, Development: true})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	files, err := readFiles(cmd.Files)
	if err != nil {
		return err
	}

	db, err := database.NewDatabase(cmd.DatabasePath, "silent")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := vocabulary.NewRepository(db.DB)
	ctx := context.Background()

	if cmd.DryRun {
		return cmd.validate(ctx, repo, files)
	}

	auditService := audit.NewService(auditrepo.NewRepository(db.DB), nil, logger)
	defer auditService.Wait()

	started := time.Now()
	res, err := importers.NewImporter(repo, logger).RunFiles(ctx, files)
	if err != nil {
		return err
	}
	auditService.LogImport(0, "cli", importers.NewMultiImportLog(res, started, time.Since(started)), nil)

	cmd.printMulti(res)
	if res.TotalFailed > 0 {
		return fmt.Errorf("%d entries failed", res.TotalFailed)
	}
	return nil
}

func (cmd *CedictImportCommand) validate(ctx context.Context, repo *vocabulary.Repository, files []importers.File) error {
	validator, err := importers.NewValidator(repo)
	if err != nil {
		return err
	}

	failed := 0
	for _, f := range files {
		res, err := validator.ValidateBatch(ctx, f.Content)
		if err != nil {
			fmt.Fprintf(cmd.out, "%s: %v\n", f.Name, err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.out, "%s: %s\n", f.Name, res.Summary())
		cmd.printErrors(res.Errors)
		failed += res.Failed
	}

	if failed > 0 {
		return fmt.Errorf("%d entries failed validation", failed)
	}
	return nil
}

func (cmd *CedictImportCommand) printMulti(res importers.MultiFileResult) {
	fmt.Fprintln(cmd.out, res.Summary())
	for _, fr := range res.FilesResults {
		if fr.Status == importers.FileStatusError {
			fmt.Fprintf(cmd.out, "  %s: error: %s\n", fr.FileName, fr.Error)
			continue
		}
		fmt.Fprintf(cmd.out, "  %s: %s\n", fr.FileName, fr.Results.Summary())
		cmd.printErrors(fr.Results.Errors)
	}
}

func (cmd *CedictImportCommand) printErrors(errs []importers.ItemError) {
	for i, e := range errs {
		if i == maxPrintedErrors {
			fmt.Fprintf(cmd.out, "    ... and %d more\n", len(errs)-maxPrintedErrors)
			return
		}
		fmt.Fprintf(cmd.out, "    #%d %s: %s\n", e.Index, e.Word, e.Error)
	}
}

func readFiles(paths []string) ([]importers.File, error) {
	files := make([]importers.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", p)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, importers.File{Name: filepath.Base(p), Size: int64(len(data)), Content: data})
	}
	return files, nil
}

