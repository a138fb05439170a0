// Package intake wires the court-filing intake engine together: pathway
// configuration, answer merging, document tracking, submission validation,
// and document assembly behind a single session facade.
package intake

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/analysis"
	"github.com/goliatone/go-intake/pkg/answers"
	"github.com/goliatone/go-intake/pkg/assembly"
	"github.com/goliatone/go-intake/pkg/document"
	"github.com/goliatone/go-intake/pkg/pathway"
	"github.com/goliatone/go-intake/pkg/renderers/docxmerge"
	"github.com/goliatone/go-intake/pkg/renderers/htmlpreview"
	"github.com/goliatone/go-intake/pkg/renderers/pdfform"
	"github.com/goliatone/go-intake/pkg/validation"
)

// Config aliases the validated pathway configuration.
type Config = pathway.Config

// Model aliases the nested answer model.
type Model = answers.Model

// Upload aliases a user-supplied supporting document.
type Upload = document.Upload

// Generated aliases one assembled artifact.
type Generated = document.Generated

// Result aliases the submission validation outcome.
type Result = validation.Result

// Analyzer aliases the external document-analysis collaborator.
type Analyzer = analysis.Analyzer

// LoadPathway parses and validates a pathway config from JSON or YAML.
func LoadPathway(raw []byte) (Config, error) {
	return pathway.Load(raw)
}

// LoadPathwayFile reads and parses a pathway config file.
func LoadPathwayFile(path string) (Config, error) {
	return pathway.LoadFile(path)
}

// ErrSubmissionInvalid is returned by GenerateDocuments when validation
// still reports blocking errors.
var ErrSubmissionInvalid = errors.New("intake: submission has validation errors")

// generateFailedMessage is the user-facing wrapper for any assembly
// failure. The typed cause stays wrapped underneath for operators.
const generateFailedMessage = "Failed to generate documents. Please check your inputs."

// Session holds one filer's pass through a pathway: the answers saved so
// far, the uploads attached, and the assembler that turns both into filed
// documents. Sessions are not safe for concurrent use.
//
// Answer sources are kept apart so precedence holds no matter the order
// events arrive in: saved is the baseline from a prior session, extraction
// output lives on the uploads, and entered accumulates what the filer typed
// this session. The merged view is recomputed from all three on demand;
// an extraction attached after an edit still lands underneath it.
type Session struct {
	cfg       Config
	saved     Model
	entered   Model
	uploads   []Upload
	analyzer  Analyzer
	assembler *assembly.Assembler
	logger    *zap.Logger
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	templates assembly.TemplateSource
	analyzer  Analyzer
	registry  *assembly.Registry
	logger    *zap.Logger
	saved     Model
}

// WithTemplates sets the template source documents are assembled from.
func WithTemplates(source assembly.TemplateSource) SessionOption {
	return func(c *sessionConfig) { c.templates = source }
}

// WithTemplateDir loads templates from a directory of a filesystem.
func WithTemplateDir(fsys fs.FS, dir string) SessionOption {
	return func(c *sessionConfig) { c.templates = assembly.FSSource{FS: fsys, Dir: dir} }
}

// WithAnalyzer sets the document-analysis collaborator. Without one,
// uploads are classified from their filename alone.
func WithAnalyzer(analyzer Analyzer) SessionOption {
	return func(c *sessionConfig) { c.analyzer = analyzer }
}

// WithRegistry replaces the default renderer set.
func WithRegistry(registry *assembly.Registry) SessionOption {
	return func(c *sessionConfig) { c.registry = registry }
}

// WithLogger sets the structured logger for the session and its assembler.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(c *sessionConfig) { c.logger = logger }
}

// WithSavedAnswers seeds the session with answers persisted from a prior
// session. They form the lowest-precedence layer of the merged model.
func WithSavedAnswers(saved Model) SessionOption {
	return func(c *sessionConfig) { c.saved = saved }
}

// New starts a session for a validated pathway config. The default renderer
// registry fills PDF forms, merges DOCX disclosures, and renders the HTML
// review copy.
func New(cfg Config, opts ...SessionOption) *Session {
	sc := sessionConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&sc)
	}

	registry := sc.registry
	if registry == nil {
		registry = assembly.NewRegistry()
		registry.MustRegister(pdfform.New())
		registry.MustRegister(docxmerge.New())
		registry.MustRegister(htmlpreview.New())
	}

	cache := assembly.NewTemplateCache(sc.templates, 0)
	assembler := assembly.NewAssembler(cache,
		assembly.WithRegistry(registry),
		assembly.WithLogger(sc.logger))

	saved := sc.saved
	if saved == nil {
		saved = answers.Model{}
	}

	return &Session{
		cfg:       cfg,
		saved:     saved,
		entered:   answers.Model{},
		analyzer:  sc.analyzer,
		assembler: assembler,
		logger:    sc.logger,
	}
}

// Pathway returns the session's pathway config.
func (s *Session) Pathway() Config { return s.cfg }

// Answers returns the current merged view: saved baseline, extraction
// output in upload order, and this session's entered answers on top.
func (s *Session) Answers() Model { return s.merged() }

func (s *Session) merged() Model {
	extracted := make([]map[string]any, 0, len(s.uploads))
	for _, upload := range s.uploads {
		if upload.Analysis != nil && len(upload.Analysis.FormFields) > 0 {
			extracted = append(extracted, upload.Analysis.FormFields)
		}
	}
	return answers.Merge(s.saved, s.entered, extracted...)
}

// Uploads returns the supporting documents attached so far.
func (s *Session) Uploads() []Upload { return s.uploads }

// MergeAnswers folds a step's answers into what the filer has entered this
// session and returns the merged view. Entered answers are kept apart from
// the saved baseline and from extraction output, so an upload analysed
// after an edit can never overwrite it; the edit stays on top of every
// later auto-fill.
func (s *Session) MergeAnswers(step Model) Model {
	s.entered = answers.Merge(s.entered, step)
	return s.merged()
}

// AddUpload runs analysis when a collaborator is configured, classifies the
// upload against the pathway's document requirements, and attaches it to
// the session. Analysis timing out leaves the upload without extraction
// output; it never fails the attach.
func (s *Session) AddUpload(ctx context.Context, upload Upload) (Upload, error) {
	if s.analyzer != nil && upload.Analysis == nil {
		result, err := s.analyzer.Analyze(ctx, upload)
		if err != nil {
			return Upload{}, fmt.Errorf("intake: analyzing %s: %w", upload.Name, err)
		}
		if result.DocumentType != "" || len(result.FormFields) > 0 {
			upload.Analysis = &result
		}
	}
	upload.Type = document.ClassifyUpload(upload, s.cfg.DocumentRequirements)
	if upload.Size == 0 {
		upload.Size = int64(len(upload.Content))
	}
	s.uploads = append(s.uploads, upload)
	s.logger.Info("upload attached",
		zap.String("pathway", s.cfg.ID),
		zap.String("name", upload.Name),
		zap.String("type", upload.Type))
	return upload, nil
}

// Checklist reports the status of every document requirement.
func (s *Session) Checklist() map[string]document.Status {
	return document.ComputeStatus(s.cfg.DocumentRequirements, s.uploads)
}

// Progress summarises the checklist into counts.
func (s *Session) Progress() document.ProgressReport {
	return document.Progress(s.cfg.DocumentRequirements, s.uploads)
}

// Validate checks the session's merged answers and uploads against the
// pathway's submission rules.
func (s *Session) Validate() Result {
	return validation.Validate(s.cfg, s.merged(), s.uploads)
}

// GenerateDocuments validates and, when the submission is clean, runs the
// assembly pipeline. It returns ErrSubmissionInvalid while blocking errors
// remain, and wraps any pipeline failure in a user-facing message with the
// typed cause underneath.
func (s *Session) GenerateDocuments(ctx context.Context) ([]Generated, error) {
	result := s.Validate()
	if !result.Valid {
		return nil, fmt.Errorf("%w: %d issue(s)", ErrSubmissionInvalid, len(result.Errors))
	}

	artifacts, err := s.assembler.Assemble(ctx, s.cfg, s.merged(), s.uploads)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", generateFailedMessage, err)
	}
	return artifacts, nil
}

// CleanupCache drops the session's cached templates. Call when the wizard
// session ends.
func (s *Session) CleanupCache() {
	s.assembler.CleanupCache()
}
