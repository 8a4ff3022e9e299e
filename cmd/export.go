package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathmentor/internal/config"
	"github.com/abhisek/mathmentor/internal/docstore"
	"github.com/abhisek/mathmentor/internal/export"
	"github.com/abhisek/mathmentor/internal/session"
	"github.com/abhisek/mathmentor/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export practice problems to an Excel workbook",
	Long: `Write every recorded problem of the given students to an .xlsx file.

--guardian accepts a guardian ID or the email the account was created
with. Problems from the terminal client are recorded under "local".`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("guardian", localGuardian, "Guardian ID or email")
	exportCmd.Flags().StringSlice("student", []string{session.DefaultStudentID}, "Student IDs to include")
	exportCmd.Flags().StringP("output", "o", "problems.xlsx", "Output file")
	exportCmd.Flags().Bool("mongo", false, "Read from the MongoDB document store")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	var docs docstore.Store = st.DocumentRepo()
	if useMongo, _ := cmd.Flags().GetBool("mongo"); useMongo || cfg.Docstore == config.DocstoreMongo {
		client, db, err := docstore.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer client.Disconnect(ctx)
		if docs, err = docstore.NewMongoStore(ctx, db); err != nil {
			return err
		}
	}

	guardian, _ := cmd.Flags().GetString("guardian")
	guardianID, err := resolveGuardian(cmd, docs, guardian)
	if err != nil {
		return err
	}

	students, _ := cmd.Flags().GetStringSlice("student")
	rows, err := export.Collect(ctx, docs, guardianID, students)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if err := store.EnsureDir(out); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := export.WriteXLSX(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}

	fmt.Printf("Exported %d problems to %s\n", len(rows), out)
	return nil
}

// resolveGuardian maps an email to its account ID through the email index.
// Anything that is not an indexed email is taken as an ID.
func resolveGuardian(cmd *cobra.Command, docs docstore.Store, val string) (string, error) {
	rec, err := docs.Read(cmd.Context(), docstore.GuardianEmailPath(val))
	switch {
	case errors.Is(err, docstore.ErrNotFound), errors.Is(err, docstore.ErrInvalidPath):
		return val, nil
	case err != nil:
		return "", fmt.Errorf("look up guardian: %w", err)
	}

	var idx docstore.EmailIndexRecord
	if err := docstore.Decode(rec, &idx); err != nil {
		return "", err
	}
	return idx.UID, nil
}
