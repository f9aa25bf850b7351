package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ginjaninja78/in1888-converter/internal/converter"
	"github.com/ginjaninja78/in1888-converter/internal/logging"
	"github.com/ginjaninja78/in1888-converter/internal/txtwriter"
	"github.com/ginjaninja78/in1888-converter/internal/validation"
	"github.com/ginjaninja78/in1888-converter/internal/workbook"
	"github.com/sirupsen/logrus"
)

// multipartOverhead is allowed on top of the file size limit for the form
// boundaries and the sheet field.
const multipartOverhead = 64 << 10

// sendJSONError writes {"error": message} with the given status.
func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// statusFor maps a pipeline error to an HTTP status. Problems with the
// uploaded spreadsheet are client errors.
func statusFor(err error) int {
	var encErr *txtwriter.EncodingError
	switch {
	case errors.Is(err, validation.ErrMissingColumn),
		errors.Is(err, workbook.ErrUnsupportedFormat),
		errors.Is(err, workbook.ErrNoSheets),
		errors.Is(err, workbook.ErrUnreadable),
		errors.As(err, &encErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleGenerate converts the uploaded spreadsheet and returns the ZIP
// bundle. The upload is read fully into memory; the bundle is built in a
// buffer so that a failure still produces a JSON error.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := RequestIDFromContext(r.Context())
	log := s.logger.WithField(logging.FieldRequestID, requestID)

	limit := s.cfg.Server.MaxUploadBytes()
	tooLarge := fmt.Sprintf("File too large, max %d MB", s.cfg.Server.MaxUploadMB)
	if r.ContentLength > limit+multipartOverhead {
		log.WithField("size", r.ContentLength).Warn("Upload rejected, request too large")
		sendJSONError(w, tooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			log.WithError(err).Warn("Upload rejected, request too large")
			sendJSONError(w, tooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		log.WithError(err).Warn("Failed to parse multipart form")
		sendJSONError(w, "Failed to parse form. Send the spreadsheet as multipart/form-data.", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		log.WithError(err).Warn("Failed to retrieve file from request")
		sendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > limit {
		sendJSONError(w, tooLarge, http.StatusRequestEntityTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.WithError(err).Error("Failed to read upload")
		sendJSONError(w, "Failed to read uploaded file.", http.StatusInternalServerError)
		return
	}

	sheet := strings.TrimSpace(r.FormValue("sheet"))
	if sheet == "" {
		sheet = s.cfg.Input.Sheet
	}
	log = log.WithFields(logrus.Fields{
		logging.FieldInputFile: header.Filename,
		"requested_sheet":      sheet,
	})

	bundle, err := s.generate(data, header.Filename, sheet, requestID, log)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.WithError(err).Error("Internal error generating reports")
			sendJSONError(w, "An internal error occurred while generating the reports.", status)
			return
		}
		log.WithError(err).Warn("Upload rejected")
		sendJSONError(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.Output.ArchiveFile))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := bundle.WriteTo(w); err != nil {
		log.WithError(err).Error("Failed to send archive")
	}
}

// generate runs the pipeline on an in-memory spreadsheet and returns the
// finished ZIP.
func (s *Server) generate(data []byte, name, sheet, runID string, log logrus.FieldLogger) (*bytes.Buffer, error) {
	wb, err := workbook.OpenReader(bytes.NewReader(data), name)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	report, err := converter.BuildReport(wb, s.cfg, sheet, log)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		logging.FieldSheet:   report.SheetName,
		"count_0110":         len(report.Purchases),
		"count_0120":         len(report.Sales),
		logging.FieldIgnored: report.Ignored,
	}).Info("Reports generated")

	names := txtwriter.ArchiveNames{
		Purchase: s.cfg.Output.PurchaseFile,
		Sale:     s.cfg.Output.SaleFile,
		Meta:     s.cfg.Output.MetaFile,
	}
	var buf bytes.Buffer
	if err := txtwriter.WriteArchive(&buf, names, txtwriter.MetaFor(runID, report), report); err != nil {
		return nil, err
	}
	return &buf, nil
}
