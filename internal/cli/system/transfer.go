package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/shiftledger/internal/backup"
	"github.com/julianstephens/shiftledger/internal/cli"
)

type ExportCmd struct {
	Output string `short:"o" help:"File to write. Defaults to stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	doc, err := backup.Export(ctx.Store)
	if err != nil {
		return err
	}

	if c.Output == "" {
		return backup.Encode(os.Stdout, doc)
	}

	f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := backup.Encode(f, doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Exported %d income entries to %s\n", len(doc.IncomeEntries), c.Output)
	return nil
}

type ImportCmd struct {
	File    string `arg:"" help:"Export document to import." type:"existingfile"`
	Replace bool   `help:"Remove every existing record before importing."`
	Yes     bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	doc, err := backup.Decode(f)
	if err != nil {
		return err
	}
	if err := backup.Validate(doc); err != nil {
		return fmt.Errorf("import file is invalid: %w", err)
	}

	if c.Replace {
		ok, err := cli.Confirm(
			"Replace all data?",
			"Every existing record is removed before the import. A backup is taken first.",
			c.Yes,
		)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	var report backup.ImportReport
	if c.Replace {
		report, err = ctx.Backups().Replace(ctx.Store, doc)
	} else {
		ctx.PerformAutomaticBackup()
		report, err = backup.Import(ctx.Store, doc, false)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("✓ Imported %s: %d added, %d updated", c.File, report.Added, report.Updated)
	if c.Replace {
		fmt.Printf(", %d replaced", report.Replaced)
	}
	fmt.Println()
	return nil
}
