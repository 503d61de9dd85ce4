package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sales-forecaster/internal/simulator"
	"github.com/OldStager01/sales-forecaster/pkg/models"
)

// Forecaster scores prediction requests.
type Forecaster interface {
	PredictFields(req models.FieldsPredictionRequest) (float64, error)
	PredictFeatures(model string, features []float64) (float64, error)
	PredictCSV(r io.Reader) ([]float64, error)
	Metrics() map[string]interface{}
}

// PredictionRecorder counts served predictions. It may be nil.
type PredictionRecorder interface {
	IncPrediction(model string)
	IncPredictionError(route string)
	AddCSVRows(n int)
}

type PredictHandler struct {
	forecaster Forecaster
	recorder   PredictionRecorder
}

func NewPredictHandler(forecaster Forecaster, recorder PredictionRecorder) *PredictHandler {
	return &PredictHandler{forecaster: forecaster, recorder: recorder}
}

func (h *PredictHandler) failed(c *gin.Context, status int, msg string) {
	if h.recorder != nil {
		h.recorder.IncPredictionError(c.FullPath())
	}
	detail(c, status, msg)
}

type ByFieldsRequest struct {
	Region      string `json:"region" binding:"required" example:"West"`
	ProductName string `json:"product_name" binding:"required"`
	SubCategory string `json:"sub_category" binding:"required" example:"Chairs"`
	OrderDate   string `json:"order_date" binding:"required" example:"2017-11-08"`
	Model       string `json:"model" binding:"required,oneof=profit quantity" example:"profit"`
}

type FeaturesRequest struct {
	Features []float64 `json:"features" binding:"required"`
}

func detail(c *gin.Context, status int, msg string) {
	c.JSON(status, models.ErrorResponse{Detail: msg})
}

func (h *PredictHandler) ByFields(c *gin.Context) {
	var req ByFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failed(c, http.StatusBadRequest, err.Error())
		return
	}

	prediction, err := h.forecaster.PredictFields(models.FieldsPredictionRequest{
		Region:      req.Region,
		ProductName: req.ProductName,
		SubCategory: req.SubCategory,
		OrderDate:   req.OrderDate,
		Model:       req.Model,
	})
	if err != nil {
		h.failed(c, http.StatusBadRequest, err.Error())
		return
	}

	if h.recorder != nil {
		h.recorder.IncPrediction(req.Model)
	}
	c.JSON(http.StatusOK, models.PredictionResponse{Prediction: prediction})
}

func (h *PredictHandler) ByModel(c *gin.Context) {
	modelType := c.Param("model_type")

	var req FeaturesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failed(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if len(req.Features) == 0 {
		h.failed(c, http.StatusUnprocessableEntity, "features must not be empty")
		return
	}

	prediction, err := h.forecaster.PredictFeatures(modelType, req.Features)
	switch {
	case errors.Is(err, simulator.ErrUnknownModel):
		h.failed(c, http.StatusNotFound, err.Error())
		return
	case err != nil:
		h.failed(c, http.StatusBadRequest, err.Error())
		return
	}

	if h.recorder != nil {
		h.recorder.IncPrediction(modelType)
	}
	c.JSON(http.StatusOK, models.PredictionResponse{Prediction: prediction})
}

func (h *PredictHandler) CSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		detail(c, http.StatusBadRequest, "file is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	predictions, err := h.forecaster.PredictCSV(f)
	if err != nil {
		h.failed(c, http.StatusBadRequest, err.Error())
		return
	}

	if h.recorder != nil {
		h.recorder.AddCSVRows(len(predictions))
	}
	c.JSON(http.StatusOK, models.CSVPredictionResponse{Predictions: predictions})
}

func (h *PredictHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, models.MetricsResponse{Metrics: h.forecaster.Metrics()})
}
