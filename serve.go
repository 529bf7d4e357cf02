package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vokalize/emotion-detection-service/audioproc"
	"github.com/vokalize/emotion-detection-service/config"
	"github.com/vokalize/emotion-detection-service/inference"
	"github.com/vokalize/emotion-detection-service/models"
)

const maxUploadBytes = 10 << 20

// emotionClassifier is the seam between the HTTP layer and the pipeline so
// handler tests can substitute a stub.
type emotionClassifier interface {
	Classify(ctx context.Context, data []byte, source Source) (*Result, error)
}

type AppState struct {
	cfg        *config.Config
	classifier emotionClassifier
	assets     *inference.Assets
	loadErr    error
	log        *logrus.Logger
}

type DetectionResponse struct {
	Emotion        string              `json:"emotion"`
	Message        string              `json:"message"`
	Confidences    []models.Confidence `json:"confidences"`
	SpectrogramPNG string              `json:"spectrogram_png,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the emotion detection HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	state := &AppState{cfg: cfg, log: log}

	// A failed asset load keeps the server up with detection disabled so
	// the UI can show what went wrong.
	assets, err := inference.LoadAssets(assetConfig(cfg))
	if err != nil {
		log.WithError(err).Warn("model assets unavailable, detection disabled")
		state.loadErr = err
	} else {
		defer assets.Destroy()
		state.assets = assets
		state.classifier = NewClassifier(cfg, assets, log)
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/detect", handleDetect(state)).Methods("POST")
	r.HandleFunc("/api/health", state.handleHealth).Methods("GET")
	r.HandleFunc("/api/metrics", state.handleMetrics).Methods("GET")
	r.PathPrefix("/").Handler(uiHandler())

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Addr,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	log.WithField("addr", srv.Addr).Info("starting server")
	return srv.ListenAndServe()
}

func assetConfig(cfg *config.Config) inference.AssetConfig {
	return inference.AssetConfig{
		ModelPath:      cfg.ModelPath,
		LabelsPath:     cfg.LabelsPath,
		OrtLibraryPath: cfg.OrtLibraryPath,
		InputName:      cfg.InputName,
		OutputName:     cfg.OutputName,
		PoolSize:       cfg.PoolSize,
		NumMels:        cfg.Features.NumMels,
		NumFrames:      cfg.Features.FrameCount(cfg.Audio.WindowSamples()),
	}
}

func handleDetect(state *AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if state.classifier == nil {
			sendErrorResponse(w, "assets_unavailable", MsgAssetsUnavailable, http.StatusServiceUnavailable)
			return
		}

		source := SourceUpload
		if r.URL.Query().Get("source") == "recording" {
			source = SourceRecording
		}

		audioBytes, err := readAudioBytes(r)
		if err != nil {
			sendErrorResponse(w, "invalid_request", err.Error(), http.StatusBadRequest)
			return
		}

		result, err := state.classifier.Classify(r.Context(), audioBytes, source)
		if err != nil {
			writeClassifyError(w, err)
			return
		}

		response := DetectionResponse{
			Emotion:     result.Prediction.Label,
			Message:     emotionMessage(result.Prediction.Label),
			Confidences: result.Prediction.Confidences,
		}
		if len(result.SpectrogramPNG) > 0 {
			response.SpectrogramPNG = base64.StdEncoding.EncodeToString(result.SpectrogramPNG)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// writeClassifyError maps pipeline failures onto the API error taxonomy.
func writeClassifyError(w http.ResponseWriter, err error) {
	var durErr *audioproc.DurationError
	switch {
	case errors.As(err, &durErr):
		sendErrorResponse(w, "duration_exceeded", durErr.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, audioproc.ErrUnsupportedFormat),
		errors.Is(err, audioproc.ErrNotDecodable),
		errors.Is(err, audioproc.ErrEmptyWaveform):
		sendErrorResponse(w, "undecodable_audio", MsgUndecodableAudio, http.StatusBadRequest)
	case errors.Is(err, errNoSession):
		sendErrorResponse(w, "session_error", err.Error(), http.StatusServiceUnavailable)
	default:
		sendErrorResponse(w, "processing_error", err.Error(), http.StatusInternalServerError)
	}
}

func (s *AppState) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response := map[string]interface{}{"status": "ok"}
	if s.classifier == nil {
		response["status"] = "degraded"
		response["detail"] = MsgAssetsUnavailable
		if s.loadErr != nil {
			response["error"] = s.loadErr.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (s *AppState) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	if s.assets == nil {
		sendErrorResponse(w, "assets_unavailable", MsgAssetsUnavailable, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.assets.Pool.Metrics())
}

func readAudioBytes(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return readJSONRequest(r)
	case "multipart/form-data":
		return readMultipartRequest(r)
	default:
		return io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	}
}

func readJSONRequest(r *http.Request) ([]byte, error) {
	var req struct {
		Audio string `json:"audio"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(req.Audio)
}

func readMultipartRequest(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

func sendErrorResponse(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	})
}
