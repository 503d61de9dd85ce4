package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OldStager01/sales-forecaster/internal/client"
	"github.com/OldStager01/sales-forecaster/internal/controller"
	"github.com/OldStager01/sales-forecaster/internal/metadata"
	"github.com/OldStager01/sales-forecaster/internal/modules"
	"github.com/OldStager01/sales-forecaster/internal/orchestrator"
	"github.com/OldStager01/sales-forecaster/internal/page"
	"github.com/OldStager01/sales-forecaster/pkg/models"
)

func newPageCmd(opts *rootOptions) *cobra.Command {
	var (
		region, product, subcat, date, model string
		csvFile                              string
	)

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Load the page modules, fill the prediction form and submit it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			orch := orchestrator.New(cfg, orchestrator.Options{})
			defer orch.Stop()

			ctx := cmd.Context()
			if err := orch.Start(ctx); err != nil {
				return err
			}

			p := orch.Page()
			out := cmd.OutOrStdout()

			if csvFile != "" {
				// The status output already carries the failure text.
				_ = orch.UploadCSV(ctx, csvFile)
				fmt.Fprintln(out, p.Output(page.OutputUpload).Text())
				fmt.Fprintln(out, p.Output(page.OutputForecast).Text())
			}
			fmt.Fprintln(out, p.Output(page.OutputMetrics).Text())

			if orch.Fields().State() != controller.StateReady {
				return fmt.Errorf("prediction form not ready: %s", p.Output(page.OutputError).Text())
			}

			choices := []struct {
				id, value string
			}{
				{page.SelectRegion, region},
				{page.SelectProduct, product},
				{page.SelectSubcat, subcat},
				{page.SelectModel, model},
			}
			for _, ch := range choices {
				if ch.value == "" {
					continue
				}
				if !p.Select(ch.id).Choose(ch.value) {
					return fmt.Errorf("%q is not an option of %s (have %s)",
						ch.value, ch.id, strings.Join(p.Select(ch.id).Options(), ", "))
				}
			}
			p.Input(page.InputDate).Set(date)

			p.Form(page.FormPrediction).Submit(ctx)

			if msg := p.Output(page.OutputError).Text(); msg != "" {
				return fmt.Errorf("%s", msg)
			}
			fmt.Fprintln(out, p.Output(page.OutputResult).Text())
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "region (defaults to the first option)")
	cmd.Flags().StringVar(&product, "product", "", "product name (defaults to the first option)")
	cmd.Flags().StringVar(&subcat, "subcategory", "", "sub-category (defaults to the first option)")
	cmd.Flags().StringVar(&date, "date", "", "order date, YYYY-MM-DD")
	cmd.Flags().StringVar(&model, "model", "", "model selector")
	cmd.Flags().StringVar(&csvFile, "csv", "", "upload this CSV for batch predictions first")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newManualCmd(opts *rootOptions) *cobra.Command {
	var (
		features []string
		model    string
	)

	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Predict from a raw feature vector",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			orch := orchestrator.New(cfg, orchestrator.Options{})
			defer orch.Stop()

			manual := orch.Manual()
			if model != "" {
				mt, err := models.ParseModelType(model)
				if err != nil {
					return err
				}
				if err := manual.SetModel(mt); err != nil {
					return err
				}
			}

			if len(features) != len(manual.Features()) {
				return fmt.Errorf("expected %d features (%s), got %d",
					len(manual.Features()), strings.Join(manual.Labels(), ", "), len(features))
			}
			for i, v := range features {
				if err := manual.SetFeature(i, v); err != nil {
					return err
				}
			}

			if err := manual.Submit(cmd.Context()); err != nil {
				return fmt.Errorf("%s", manual.Err())
			}
			fmt.Fprintln(cmd.OutOrStdout(), manual.ResultText())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&features, "features", nil, "comma-separated feature values")
	cmd.Flags().StringVar(&model, "model", "", "profit or quantity")
	return cmd
}

func newUploadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Upload a CSV through the page and print one prediction per row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			orch := orchestrator.New(cfg, orchestrator.Options{})
			defer orch.Stop()

			ctx := cmd.Context()
			if err := orch.Start(ctx); err != nil && !errors.Is(err, metadata.ErrUnavailable) {
				return err
			}

			p := orch.Page()
			if err := orch.UploadCSV(ctx, args[0]); err != nil {
				return fmt.Errorf("%s", p.Output(page.OutputUpload).Text())
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Output(page.OutputUpload).Text())
			fmt.Fprintln(cmd.OutOrStdout(), p.Output(page.OutputForecast).Text())
			return nil
		},
	}
}

func newMetricsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print the model evaluation metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			c := client.New(client.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout})
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Backend.Timeout)
			defer cancel()

			metrics, err := c.Metrics(ctx)
			if err != nil {
				return fmt.Errorf("%s", client.UserMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), modules.FormatMetrics(metrics))
			return nil
		},
	}
}
