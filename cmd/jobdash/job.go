package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdash/internal/model"
)

var jobCmd = &cobra.Command{
	Use:   "job <id>",
	Short: "Print one job by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runJob,
}

func init() {
	rootCmd.AddCommand(jobCmd)
}

func runJob(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	b, closeBackend, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	job, err := b.GetJob(ctx, args[0])
	if model.IsNotFound(err) {
		return fmt.Errorf("job %s not found", args[0])
	}
	if err != nil {
		return err
	}
	printJob(job)
	return nil
}

func printJob(j model.Job) {
	field := func(label, value string) {
		if value != "" {
			fmt.Printf("%-10s %s\n", label+":", value)
		}
	}
	fmt.Println(j.Title)
	field("ID", j.ID)
	field("Company", j.CompanyName)
	field("Location", j.LocationLabel())
	field("Salary", j.SalaryLabel())
	if j.Modality != model.ModalityAny {
		field("Modality", j.Modality.Label())
	}
	if j.WorkType != model.WorkTypeAny {
		field("Type", j.WorkType.Label())
	}
	if !j.ListedAt.IsZero() {
		field("Listed", j.ListedAt.Local().Format(time.DateTime))
	}
	field("URL", j.URL)
	if j.Description != "" {
		fmt.Printf("\n%s\n", j.Description)
	}
}
