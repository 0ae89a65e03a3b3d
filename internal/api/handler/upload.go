package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/awidars/stock-forecast-api/infrastructure/repository"
	"github.com/awidars/stock-forecast-api/internal/session"
	"github.com/awidars/stock-forecast-api/internal/usecases/ingesting"
	"github.com/awidars/stock-forecast-api/pkg/apiErrors"
	"github.com/awidars/stock-forecast-api/pkg/utils"
)

const maxUploadBytes = 16 << 20 // 16 MiB

type UploadResponse struct {
	UploadID    string   `json:"upload_id"`
	Products    []string `json:"products"`
	Rows        int      `json:"rows"`
	DroppedRows int      `json:"dropped_rows"`
	FirstMonth  string   `json:"first_month,omitempty"`
	LastMonth   string   `json:"last_month,omitempty"`
}

// Upload ingests a sales CSV, registers it as a session and, when Postgres
// is enabled, upserts the rows into the sales history.
func Upload(
	loader *ingesting.Loader,
	sessions *session.Store,
	salesRepo repository.SalesHistoryRepository,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := uploadReader(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "expected a CSV file upload", nil)
			return
		}
		defer body.Close()

		table, err := loader.Load(io.LimitReader(body, maxUploadBytes))
		if err != nil {
			writeLoadError(w, err)
			return
		}

		upload, err := sessions.Put(table)
		if err != nil {
			logrus.WithError(err).Error("registering upload session")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "could not register upload", nil)
			return
		}

		if salesRepo != nil {
			// History is best-effort; the session is already usable.
			if err := salesRepo.SaveTable(upload.ID, table); err != nil {
				logrus.WithError(err).WithField("upload_id", upload.ID).
					Error("persisting sales history")
			}
		}

		resp := UploadResponse{
			UploadID:    upload.ID,
			Products:    table.Products(),
			Rows:        len(table.Records),
			DroppedRows: table.DroppedRows,
		}
		if first, last := table.MonthRange(); !first.IsZero() {
			resp.FirstMonth = utils.FormatMonth(first)
			resp.LastMonth = utils.FormatMonth(last)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(resp)
	}
}

// uploadReader accepts either a multipart "file" field or a raw CSV body.
func uploadReader(r *http.Request) (io.ReadCloser, error) {
	if file, _, err := r.FormFile("file"); err == nil {
		return file, nil
	}
	if r.Body == nil {
		return nil, errors.New("empty request body")
	}
	return r.Body, nil
}

func writeLoadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingesting.ErrMissingColumns):
		apiErrors.WriteError(w, apiErrors.ErrMissingColumns, err.Error(), nil)
	case errors.Is(err, ingesting.ErrEmptyFile), errors.Is(err, ingesting.ErrBadRow):
		apiErrors.WriteError(w, apiErrors.ErrUnparsableUpload, err.Error(), nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrUnparsableUpload, "could not parse the uploaded file", nil)
	}
}
