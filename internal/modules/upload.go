package modules

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/OldStager01/sales-forecaster/internal/client"
	"github.com/OldStager01/sales-forecaster/internal/events"
	"github.com/OldStager01/sales-forecaster/internal/loader"
	"github.com/OldStager01/sales-forecaster/internal/logger"
	"github.com/OldStager01/sales-forecaster/internal/page"
)

var ErrNoFile = errors.New("no CSV file selected")

// Upload binds the CSV upload form and sends files to /predict_csv.
type Upload struct {
	page      *page.Page
	predictor CSVPredictor
	forecasts *Forecasts
	publisher *events.Publisher
	open      func(name string) (io.ReadCloser, error)

	input  *page.Input
	status *page.Output
}

func NewUpload(deps Deps) *Upload {
	return &Upload{
		page:      deps.Page,
		predictor: deps.CSV,
		forecasts: deps.Forecasts,
		publisher: deps.Publisher,
		open:      deps.Open,
	}
}

func (u *Upload) Name() string { return NameUpload }

func (u *Upload) Load(ctx context.Context, registry *loader.Registry) error {
	form := u.page.Form(page.FormUpload)
	u.input = u.page.Input(page.InputCSVFile)
	u.status = u.page.Output(page.OutputUpload)
	if form == nil || u.input == nil || u.status == nil {
		return errors.New("upload form elements not found")
	}

	if err := registry.Provide(CapabilityPredictCSV, u.Upload); err != nil {
		return err
	}

	form.OnSubmit(func(ctx context.Context, ev *page.SubmitEvent) {
		ev.PreventDefault()
		// The outcome is already rendered into the status output.
		_ = u.Upload(ctx)
	})
	return nil
}

// Upload sends the file named by the upload input and stores the predictions.
func (u *Upload) Upload(ctx context.Context) error {
	name := strings.TrimSpace(u.input.Value())
	if name == "" {
		u.status.SetText("Select a CSV file first")
		return ErrNoFile
	}

	f, err := u.open(name)
	if err != nil {
		u.status.SetText(err.Error())
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	u.status.SetText("Uploading…")
	predictions, err := u.predictor.PredictCSV(ctx, filepath.Base(name), f)
	if err != nil {
		logger.WithModule(NameUpload).Errorf("CSV prediction failed: %v", err)
		u.status.SetText(client.UserMessage(err))
		return err
	}

	u.forecasts.Set(predictions)
	u.status.SetText(fmt.Sprintf("%d predictions received", len(predictions)))
	u.publisher.CSVPredicted(NameUpload, predictions)
	return nil
}
