package server

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"transmate/internal/apperrors"
	"transmate/internal/config"
	"transmate/internal/extract"
	"transmate/internal/job"
	"transmate/internal/progress"
	"transmate/internal/prompt"
	"github.com/gin-gonic/gin"
)

type translateRequest struct {
	Text       string `json:"text"`
	Model      string `json:"model"`
	TargetLang string `json:"target_lang"`
	Mode       string `json:"mode"`
	Tone       string `json:"tone"`
	KeepFormat bool   `json:"keep_format"`
}

type translateResponse struct {
	job.Result
	Summary string `json:"summary"`
}

func registerTranslateRoutes(api *gin.RouterGroup, deps Dependencies) {
	api.POST("/translate", func(c *gin.Context) { handleTranslateText(c, deps) })
	api.POST("/translate/file", func(c *gin.Context) { handleTranslateFile(c, deps) })
	api.POST("/translate/image", func(c *gin.Context) { handleTranslateImage(c, deps) })
}

// resolveOptions normalizes and validates the prompt options and the model
// choice against the current configuration.
func resolveOptions(cfg *config.FileConfig, model, targetLang, mode, tone string, keepFormat bool) (prompt.Options, string, error) {
	opts := prompt.Options{
		TargetLang: targetLang,
		Mode:       prompt.Mode(strings.TrimSpace(mode)),
		Tone:       tone,
		KeepFormat: keepFormat,
	}
	opts.Normalize(cfg.DefaultTargetLang, cfg.DefaultTone)
	if err := opts.Validate(); err != nil {
		return opts, "", err
	}

	model = strings.TrimSpace(model)
	if model == "" {
		model = cfg.DefaultModel
	}
	if !cfg.ModelAllowed(model) {
		return opts, "", apperrors.InvalidArgument("model " + model + " is not in the configured model list")
	}
	return opts, model, nil
}

// runTranslation executes a chunked job and records it in the session.
func runTranslation(c *gin.Context, deps Dependencies, opts prompt.Options, model, text string) {
	cfg := deps.Config.Get()
	sess := currentSession(c, deps)

	r := &job.Runner{
		Budget: cfg.ChunkBudget,
		Prompt: opts,
		Transform: func(ctx context.Context, promptText string) (string, error) {
			return deps.Model.GenerateText(ctx, model, promptText)
		},
		OnProgress: func(ev progress.Event) { deps.Progress.Publish(ev) },
	}

	res, err := r.Run(c.Request.Context(), text)
	if err != nil {
		apperrors.AbortErr(c, err)
		return
	}

	sess.RecordTranslation(opts.Summary(), text, res.Output)
	c.JSON(http.StatusOK, translateResponse{Result: res, Summary: opts.Summary()})
}

func handleTranslateText(c *gin.Context, deps Dependencies) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.InvalidArgument("invalid request body: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		apperrors.Abort(c, apperrors.InvalidArgument("text is required"))
		return
	}

	cfg := deps.Config.Get()
	opts, model, err := resolveOptions(cfg, req.Model, req.TargetLang, req.Mode, req.Tone, req.KeepFormat)
	if err != nil {
		apperrors.AbortErr(c, err)
		return
	}
	runTranslation(c, deps, opts, model, req.Text)
}

func handleTranslateFile(c *gin.Context, deps Dependencies) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.Abort(c, apperrors.InvalidArgument("file field is required"))
		return
	}

	cfg := deps.Config.Get()
	if max := int64(cfg.MaxUploadMB) << 20; fileHeader.Size > max {
		apperrors.Abort(c, apperrors.New(http.StatusRequestEntityTooLarge, apperrors.TypeInvalidArgument,
			"upload_too_large", "uploaded file exceeds the size limit"))
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		apperrors.AbortErr(c, err)
		return
	}

	text, err := extract.FromUpload(fileHeader.Filename, data)
	if err != nil {
		apperrors.AbortErr(c, err)
		return
	}
	if strings.TrimSpace(text) == "" {
		apperrors.Abort(c, apperrors.Extraction("file contains no text", nil))
		return
	}

	opts, model, err := resolveOptions(cfg,
		c.PostForm("model"), c.PostForm("target_lang"), c.PostForm("mode"), c.PostForm("tone"),
		c.PostForm("keep_format") == "true")
	if err != nil {
		apperrors.AbortErr(c, err)
		return
	}
	runTranslation(c, deps, opts, model, text)
}

func handleTranslateImage(c *gin.Context, deps Dependencies) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		apperrors.Abort(c, apperrors.InvalidArgument("image field is required"))
		return
	}

	cfg := deps.Config.Get()
	if max := int64(cfg.MaxUploadMB) << 20; fileHeader.Size > max {
		apperrors.Abort(c, apperrors.New(http.StatusRequestEntityTooLarge, apperrors.TypeInvalidArgument,
			"upload_too_large", "uploaded image exceeds the size limit"))
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		apperrors.AbortErr(c, err)
		return
	}

	opts, model, err := resolveOptions(cfg,
		c.PostForm("model"), c.PostForm("target_lang"), c.PostForm("mode"), c.PostForm("tone"), false)
	if err != nil {
		apperrors.AbortErr(c, err)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	out, err := deps.Model.GenerateImage(c.Request.Context(), model, opts.BuildImage(), data, mimeType)
	if err != nil {
		apperrors.AbortErr(c, err)
		return
	}

	sess := currentSession(c, deps)
	sess.RecordTranslation(opts.Summary(), "[image] "+fileHeader.Filename, out)
	c.JSON(http.StatusOK, gin.H{"output": out, "summary": opts.Summary()})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.Extraction("cannot open uploaded file", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.Extraction("cannot read uploaded file", err)
	}
	return data, nil
}
