package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"notebooklm-be/internal/config"
	"notebooklm-be/internal/migration"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/repository/unitofwork"
	"notebooklm-be/internal/service"
	"notebooklm-be/pkg/database"
	"notebooklm-be/pkg/notebooklm"
	"notebooklm-be/pkg/sshexec"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}
	return database.NewGormDBFromDSN(cfg.Database.Connection, true)
}

// --- migrate ---

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the notebooks, sources, queries and citations tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(config.Load())
		if err != nil {
			return err
		}
		return migration.Run(db)
	},
}

// --- refresh-auth ---

var refreshAuthCmd = &cobra.Command{
	Use:   "refresh-auth",
	Short: "Extract a fresh storage state from the browser host",
	Long: `Extract a fresh storage state from the browser host over SSH and
validate it. With --out the state is written to a file suitable for
NOTEBOOKLM_AUTH_JSON; with --check the engine is asked to list notebooks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		check, _ := cmd.Flags().GetBool("check")

		cfg := config.Load()
		if !cfg.Refresh.Enabled() {
			return fmt.Errorf("REFRESH_SSH_HOST and REFRESH_SSH_PRIVATE_KEY are required")
		}

		runner, err := sshexec.NewRunner(sshexec.Config{
			Host:        cfg.Refresh.Host,
			User:        cfg.Refresh.User,
			PrivateKey:  cfg.Refresh.PrivateKey,
			HostKey:     cfg.Refresh.HostKey,
			DialTimeout: cfg.Refresh.DialTimeout,
		})
		if err != nil {
			return err
		}

		extractor := service.NewSSHStateExtractor(runner, cfg.Refresh.ExtractCommand, cfg.Refresh.CommandTimeout)
		raw, err := extractor.Extract(cmd.Context())
		if err != nil {
			return err
		}

		state, err := notebooklm.ParseStorageState(raw)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d cookies\n", len(state.Cookies))

		if out != "" {
			if err := os.WriteFile(out, raw, 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
		}

		if check {
			client := notebooklm.NewClient(cfg.NotebookLM.BridgeURL, state, cfg.NotebookLM.RequestTimeout)
			notebooks, err := client.ListNotebooks(cmd.Context())
			if err != nil {
				return fmt.Errorf("session check failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session OK, %d notebooks visible\n", len(notebooks))
		}
		return nil
	},
}

// --- sync-notebooks ---

var syncNotebooksCmd = &cobra.Command{
	Use:   "sync-notebooks",
	Short: "Mirror the engine's notebooks and sources into the database",
	Long: `List every notebook the engine session can see and upsert it, with its
sources, into the database so the query endpoints accept it. The session
comes from --auth-file, or NOTEBOOKLM_AUTH_JSON when the flag is empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		authFile, _ := cmd.Flags().GetString("auth-file")

		cfg := config.Load()
		raw := []byte(cfg.NotebookLM.AuthJSON)
		if authFile != "" {
			data, err := os.ReadFile(authFile)
			if err != nil {
				return fmt.Errorf("reading %s: %w", authFile, err)
			}
			raw = data
		}
		if len(raw) == 0 {
			return fmt.Errorf("no session: pass --auth-file or set NOTEBOOKLM_AUTH_JSON")
		}

		state, err := notebooklm.ParseStorageState(raw)
		if err != nil {
			return err
		}

		db, err := openDB(cfg)
		if err != nil {
			return err
		}

		handle := notebooklm.NewSessionHandle(
			notebooklm.NewClient(cfg.NotebookLM.BridgeURL, state, cfg.NotebookLM.RequestTimeout),
		)
		notebookService := service.NewNotebookService(unitofwork.NewRepositoryFactory(db), handle, logger.NewConsoleLogger())
		res, err := notebookService.Sync(cmd.Context())
		if err != nil {
			return err
		}

		for _, nb := range res.Notebooks {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d sources\n", nb.Id, nb.Title, nb.SourceCount)
		}
		for _, id := range res.Failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\tsources could not be listed\n", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d notebooks, %d sources\n", len(res.Notebooks), res.Sources)
		return nil
	},
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export <notebook-id> <query-id>",
	Short: "Print the viewer export document for a stored query",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		queryId, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid query id %q", args[1])
		}

		cfg := config.Load()
		db, err := openDB(cfg)
		if err != nil {
			return err
		}

		exportService := service.NewExportService(
			unitofwork.NewRepositoryFactory(db),
			nil,
			cfg.NotebookLM.NotebookBaseURL,
			logger.NewConsoleLogger(),
		)
		res, err := exportService.Export(cmd.Context(), args[0], uint(queryId))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	},
}

func init() {
	refreshAuthCmd.Flags().String("out", "", "write the storage state JSON to this file")
	refreshAuthCmd.Flags().Bool("check", false, "verify the new session by listing notebooks")
	syncNotebooksCmd.Flags().String("auth-file", "", "storage state JSON file to authenticate with")
}
