package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/awidars/stock-forecast-api/internal/api/handler"
	"github.com/awidars/stock-forecast-api/internal/api/handler/router"
	"github.com/awidars/stock-forecast-api/internal/domain"
	"github.com/awidars/stock-forecast-api/internal/forecast/timeseries"
	"github.com/awidars/stock-forecast-api/internal/session"
	"github.com/awidars/stock-forecast-api/internal/usecases/forecasting"
	"github.com/awidars/stock-forecast-api/internal/usecases/forecasting/mocks"
	"github.com/awidars/stock-forecast-api/internal/usecases/ingesting"
)

const sampleCSV = "Tanggal;Produk;Jumlah Terjual\n" +
	"2024-01;Produk A;120\n" +
	"2024-02;Produk A;135\n" +
	"2024-03;Produk A;110\n" +
	"2024-01;Produk B;40\n"

type testAPI struct {
	router   http.Handler
	sessions *session.Store
	pipeline *mocks.MockPipeline
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	pipeline := mocks.NewMockPipeline(ctrl)
	sessions := session.NewStore(time.Hour)
	loader := ingesting.NewLoader(ingesting.Options{})

	routes := router.New(router.WithRoutes(
		handler.Uploads(loader, sessions, nil, pipeline)...,
	))

	return &testAPI{router: routes, sessions: sessions, pipeline: pipeline}
}

func (a *testAPI) uploadCSV(t *testing.T, csv string) handler.UploadResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", strings.NewReader(csv))
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp handler.UploadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Code
}

func TestUpload_RawBody(t *testing.T) {
	api := newTestAPI(t)

	resp := api.uploadCSV(t, sampleCSV)
	assert.NotEmpty(t, resp.UploadID)
	assert.Equal(t, []string{"Produk A", "Produk B"}, resp.Products)
	assert.Equal(t, 4, resp.Rows)
	assert.Equal(t, 0, resp.DroppedRows)
	assert.Equal(t, "2024-01", resp.FirstMonth)
	assert.Equal(t, "2024-03", resp.LastMonth)
}

func TestUpload_Multipart(t *testing.T) {
	api := newTestAPI(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestUpload_MissingColumns(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads",
		strings.NewReader("Date;Item;Qty\n2024-01;Produk A;10\n"))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "DATA_001", errorCode(t, rec))
}

func TestListProducts(t *testing.T) {
	api := newTestAPI(t)
	upload := api.uploadCSV(t, sampleCSV)

	req := httptest.NewRequest(http.MethodGet, "/v1/uploads/"+upload.UploadID+"/products", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		UploadID string   `json:"upload_id"`
		Products []string `json:"products"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, upload.UploadID, body.UploadID)
	assert.Equal(t, []string{"Produk A", "Produk B"}, body.Products)
}

func TestListProducts_UnknownUpload(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/uploads/nope/products", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "DATA_003", errorCode(t, rec))
}

func TestGetSeries(t *testing.T) {
	api := newTestAPI(t)
	upload := api.uploadCSV(t, sampleCSV)

	series := &timeseries.MonthlySeries{
		Product: "Produk A",
		Months: []time.Time{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		Values: []float64{120, 135},
	}
	api.pipeline.EXPECT().BuildSeries(gomock.Any(), "Produk A").Return(series, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/v1/uploads/"+upload.UploadID+"/products/Produk%20A/series", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.SeriesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Produk A", body.Product)
	assert.Equal(t, []string{"2024-01", "2024-02"}, body.Months)
	assert.Equal(t, []float64{120, 135}, body.Values)
}

func TestGetSeries_EmptySeries(t *testing.T) {
	api := newTestAPI(t)
	upload := api.uploadCSV(t, sampleCSV)

	api.pipeline.EXPECT().BuildSeries(gomock.Any(), "Produk C").
		Return(nil, forecasting.ErrEmptySeries)

	req := httptest.NewRequest(http.MethodGet,
		"/v1/uploads/"+upload.UploadID+"/products/Produk%20C/series", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "DATA_002", errorCode(t, rec))
}

func TestGetStationarity_ShortSeries(t *testing.T) {
	api := newTestAPI(t)
	upload := api.uploadCSV(t, sampleCSV)

	series := &timeseries.MonthlySeries{Product: "Produk A"}
	api.pipeline.EXPECT().BuildSeries(gomock.Any(), "Produk A").Return(series, nil)
	api.pipeline.EXPECT().CheckStationarity(series).Return(nil, forecasting.ErrSeriesTooShort)

	req := httptest.NewRequest(http.MethodGet,
		"/v1/uploads/"+upload.UploadID+"/products/Produk%20A/stationarity", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL_002", errorCode(t, rec))
}

func TestTrain_DefaultsEvaluate(t *testing.T) {
	api := newTestAPI(t)
	upload := api.uploadCSV(t, sampleCSV)

	series := &timeseries.MonthlySeries{Product: "Produk A"}
	api.pipeline.EXPECT().BuildSeries(gomock.Any(), "Produk A").Return(series, nil)
	api.pipeline.EXPECT().Train(series, gomock.Any()).
		DoAndReturn(func(_ *timeseries.MonthlySeries, opts forecasting.TrainOptions) (*domain.TrainingResult, error) {
			assert.True(t, opts.Auto)
			assert.True(t, opts.Evaluate)
			return &domain.TrainingResult{Product: "Produk A"}, nil
		})

	req := httptest.NewRequest(http.MethodPost,
		"/v1/uploads/"+upload.UploadID+"/products/Produk%20A/train",
		strings.NewReader(`{"auto": true}`))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestTrain_InvalidBody(t *testing.T) {
	api := newTestAPI(t)
	upload := api.uploadCSV(t, sampleCSV)

	api.pipeline.EXPECT().BuildSeries(gomock.Any(), "Produk A").
		Return(&timeseries.MonthlySeries{Product: "Produk A"}, nil)

	req := httptest.NewRequest(http.MethodPost,
		"/v1/uploads/"+upload.UploadID+"/products/Produk%20A/train",
		strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL_001", errorCode(t, rec))
}

func TestForecast(t *testing.T) {
	api := newTestAPI(t)
	upload := api.uploadCSV(t, sampleCSV)

	series := &timeseries.MonthlySeries{Product: "Produk A"}
	api.pipeline.EXPECT().BuildSeries(gomock.Any(), "Produk A").Return(series, nil)
	api.pipeline.EXPECT().Forecast(series, 6).Return(&domain.ForecastResult{
		Product: "Produk A",
		Horizon: 6,
		Points:  []domain.ForecastPoint{{Month: "2024-04", Quantity: 118.2}},
	}, nil)

	req := httptest.NewRequest(http.MethodPost,
		"/v1/uploads/"+upload.UploadID+"/products/Produk%20A/forecast",
		strings.NewReader(`{"horizon": 6}`))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body domain.ForecastResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 6, body.Horizon)
	require.Len(t, body.Points, 1)
	assert.Equal(t, "2024-04", body.Points[0].Month)
}

func TestForecast_Untrained(t *testing.T) {
	api := newTestAPI(t)
	upload := api.uploadCSV(t, sampleCSV)

	series := &timeseries.MonthlySeries{Product: "Produk A"}
	api.pipeline.EXPECT().BuildSeries(gomock.Any(), "Produk A").Return(series, nil)
	api.pipeline.EXPECT().Forecast(series, 6).Return(nil, forecasting.ErrUntrained)

	req := httptest.NewRequest(http.MethodPost,
		"/v1/uploads/"+upload.UploadID+"/products/Produk%20A/forecast",
		strings.NewReader(`{"horizon": 6}`))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "MODEL_004", errorCode(t, rec))
}
