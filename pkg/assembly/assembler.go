package assembly

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-intake/pkg/answers"
	"github.com/goliatone/go-intake/pkg/document"
	"github.com/goliatone/go-intake/pkg/pathway"
)

// Renderer names the assembler dispatches to. The root package registers
// the default implementations under these names.
const (
	RendererPDFForm   = "pdfform"
	RendererDOCXMerge = "docxmerge"
	RendererHTML      = "htmlpreview"
)

// Assembler runs the document generation pipeline for one pathway: fill the
// main court form, stamp certified copies of every upload, merge the
// financial disclosure when the pathway asks for one, and build the HTML
// review copy. A run either produces its full artifact set or nothing.
type Assembler struct {
	cache    *TemplateCache
	registry *Registry
	logger   *zap.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRegistry replaces the renderer registry. Tests use this to install
// fakes.
func WithRegistry(registry *Registry) Option {
	return func(a *Assembler) {
		if registry != nil {
			a.registry = registry
		}
	}
}

// NewAssembler builds an assembler over the given template cache.
func NewAssembler(cache *TemplateCache, opts ...Option) *Assembler {
	a := &Assembler{
		cache:    cache,
		registry: NewRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry exposes the renderer registry for wiring.
func (a *Assembler) Registry() *Registry { return a.registry }

// CleanupCache drops every cached template. Called when a wizard session
// ends.
func (a *Assembler) CleanupCache() {
	if a.cache != nil {
		a.cache.Clear()
	}
}

// Assemble produces the complete artifact set for a submission: the filled
// main form, one stamped certified copy per upload, the financial
// disclosure when required, and an HTML review copy, in that order. On any
// pipeline failure it returns a typed *Error and no artifacts. Per-field
// problems are logged and never abort the run.
func (a *Assembler) Assemble(ctx context.Context, cfg pathway.Config, model answers.Model, uploads []document.Upload) ([]document.Generated, error) {
	warn := func(field, reason string) {
		a.logger.Warn("field skipped during assembly",
			zap.String("pathway", cfg.ID),
			zap.String("field", field),
			zap.String("reason", reason))
	}

	values := PrepareValues(cfg, model, warn)
	flat := answers.Flatten(model)

	ids := []string{cfg.Templates.MainForm}
	if cfg.Templates.RequiresFinancialDisclosure {
		ids = append(ids, cfg.Templates.FinancialDisclosure)
	}
	if err := a.cache.Preload(ctx, ids...); err != nil {
		return nil, stepError(StepTemplate, "", err)
	}

	job := Job{
		Pathway: cfg,
		Values:  values,
		Flat:    flat,
		Answers: model,
		Uploads: uploads,
		Warn:    warn,
	}

	// Fixed slot layout keeps artifact order deterministic under
	// concurrency: main form, certified copies in upload order, disclosure,
	// review copy.
	slots := make([]document.Generated, len(uploads)+3)
	now := time.Now().UTC()
	stamp := now.Format("20060102-150405")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		renderer, err := a.registry.Get(RendererPDFForm)
		if err != nil {
			return stepError(StepMainForm, cfg.Templates.MainForm, err)
		}
		template, err := a.cache.GetOrLoad(ctx, cfg.Templates.MainForm)
		if err != nil {
			return stepError(StepTemplate, cfg.Templates.MainForm, err)
		}
		formJob := job
		formJob.Template = template
		content, err := renderer.Render(ctx, formJob)
		if err != nil {
			return stepError(StepMainForm, cfg.Templates.MainForm, err)
		}
		slots[0] = generated(fmt.Sprintf("%s_%s.pdf", cfg.ID, stamp), content, renderer.ContentType(), now)
		return nil
	})

	for i, upload := range uploads {
		slot := i + 1
		g.Go(func() error {
			content, err := WatermarkUpload(upload)
			if err != nil {
				return stepError(StepWatermark, upload.Name, err)
			}
			slots[slot] = generated("Certified_"+upload.Name, content, upload.MimeType, now)
			return nil
		})
	}

	if cfg.Templates.RequiresFinancialDisclosure {
		slot := len(uploads) + 1
		g.Go(func() error {
			renderer, err := a.registry.Get(RendererDOCXMerge)
			if err != nil {
				return stepError(StepDisclosure, cfg.Templates.FinancialDisclosure, err)
			}
			template, err := a.cache.GetOrLoad(ctx, cfg.Templates.FinancialDisclosure)
			if err != nil {
				return stepError(StepTemplate, cfg.Templates.FinancialDisclosure, err)
			}
			mergeJob := job
			mergeJob.Template = template
			content, err := renderer.Render(ctx, mergeJob)
			if err != nil {
				return stepError(StepDisclosure, cfg.Templates.FinancialDisclosure, err)
			}
			slots[slot] = generated(fmt.Sprintf("%s_financial-disclosure_%s.docx", cfg.ID, stamp), content, renderer.ContentType(), now)
			return nil
		})
	}

	g.Go(func() error {
		renderer, err := a.registry.Get(RendererHTML)
		if err != nil {
			return stepError(StepPreview, "", err)
		}
		content, err := renderer.Render(ctx, job)
		if err != nil {
			return stepError(StepPreview, "", err)
		}
		slots[len(slots)-1] = generated(fmt.Sprintf("%s_review_%s.html", cfg.ID, stamp), content, renderer.ContentType(), now)
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("assembly failed", zap.String("pathway", cfg.ID), zap.Error(err))
		return nil, err
	}

	artifacts := make([]document.Generated, 0, len(slots))
	for _, slot := range slots {
		if slot.Name != "" {
			artifacts = append(artifacts, slot)
		}
	}
	a.logger.Info("assembly complete",
		zap.String("pathway", cfg.ID),
		zap.Int("artifacts", len(artifacts)))
	return artifacts, nil
}

func generated(name string, content []byte, mimeType string, at time.Time) document.Generated {
	return document.Generated{
		Name:       name,
		Content:    content,
		MimeType:   mimeType,
		PreviewURL: "memory://" + uuid.NewString(),
		Size:       int64(len(content)),
		CreatedAt:  at,
	}
}
