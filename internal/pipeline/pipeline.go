// Package pipeline coordinates extraction, classification, matching and
// comparison for a single validation run.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"invoice-recon/constants"
	"invoice-recon/internal/azure"
	"invoice-recon/internal/batch"
	"invoice-recon/internal/common"
	"invoice-recon/internal/comparator"
	"invoice-recon/internal/docnum"
	"invoice-recon/internal/entity"
	"invoice-recon/internal/matcher"
)

type Pipeline struct {
	log       *slog.Logger
	runner    *batch.Runner
	tolerance float64
}

func New(client azure.FieldExtractor, cfg common.BatchConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	tolerance := cfg.Tolerance
	if tolerance <= 0 {
		tolerance = comparator.DefaultTolerance
	}
	runner := batch.NewRunner(azureExtractor{client: client}, batch.Config{
		ChunkSize: cfg.ChunkSize,
		InMemory:  cfg.InMemoryMode,
		TempDir:   cfg.TempDir,
	}, logger)
	return &Pipeline{log: logger, runner: runner, tolerance: tolerance}
}

// Execute runs the full validation pipeline over an upload set and returns
// the run-scoped report. Per-document problems are collected in the report;
// the returned error is non-nil only for an empty upload set or cancellation.
func (p *Pipeline) Execute(ctx context.Context, uploads []entity.RawUpload, onProgress batch.ProgressFunc) (*entity.RunReport, error) {
	report := &entity.RunReport{
		ID:        uuid.New(),
		Status:    constants.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	ctx = common.WithRunID(ctx, report.ID.String())

	p.log.Info("pipeline.run.start", "run_id", report.ID, "files", len(uploads))

	docs, failures, err := p.runner.Run(ctx, uploads, onProgress)
	if err != nil {
		p.log.Error("pipeline.run.failed", "run_id", report.ID, "error", err)
		return nil, common.WrapError(err, "batch extraction")
	}

	invoices, purchaseOrders, unclassified := partition(docs)
	pairs, unmatched := matcher.Match(invoices, purchaseOrders)
	for _, d := range unclassified {
		unmatched = append(unmatched, entity.UnmatchedDocument{
			Document: d,
			Reason:   entity.ReasonUnclassified,
		})
	}

	results := make([]entity.ComparisonResult, 0, len(pairs))
	passed := 0
	for _, pair := range pairs {
		res := comparator.Compare(pair, p.tolerance)
		if res.Verdict == entity.VerdictPass {
			passed++
		}
		results = append(results, res)
	}

	report.Results = results
	report.Unmatched = unmatched
	report.Failures = failures
	report.Stats = entity.RunStats{
		TotalFiles:     len(uploads),
		Extracted:      len(docs),
		ExtractionErrs: len(failures),
		Pairs:          len(pairs),
		Unmatched:      len(unmatched),
		Passed:         passed,
		Failed:         len(pairs) - passed,
	}
	report.Status = constants.RunStatusDone
	report.FinishedAt = time.Now().UTC()

	p.log.Info("pipeline.run.ok",
		"run_id", report.ID,
		"extracted", report.Stats.Extracted,
		"extraction_errors", report.Stats.ExtractionErrs,
		"pairs", report.Stats.Pairs,
		"unmatched", report.Stats.Unmatched,
		"passed", report.Stats.Passed,
		"failed", report.Stats.Failed,
		"elapsed_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	)
	return report, nil
}

// partition splits extracted documents into invoices and purchase orders by
// filename convention. Documents matching neither convention get a second
// pass: they join the side that does not already hold their key. What remains
// is reported unclassified rather than guessed at.
func partition(docs []entity.ExtractedDocument) (invoices, purchaseOrders, unclassified []entity.ExtractedDocument) {
	var unknown []entity.ExtractedDocument
	for _, d := range docs {
		d.Type = docnum.ClassifyFilename(d.Filename)
		switch d.Type {
		case entity.DocTypeInvoice:
			invoices = append(invoices, d)
		case entity.DocTypePurchaseOrder:
			purchaseOrders = append(purchaseOrders, d)
		default:
			unknown = append(unknown, d)
		}
	}
	if len(unknown) == 0 {
		return invoices, purchaseOrders, nil
	}

	invKeys := keySet(invoices)
	poKeys := keySet(purchaseOrders)
	for _, d := range unknown {
		k, err := docnum.FromDocument(d)
		if err != nil {
			unclassified = append(unclassified, d)
			continue
		}
		switch {
		case invKeys[k.Value] && !poKeys[k.Value]:
			d.Type = entity.DocTypePurchaseOrder
			purchaseOrders = append(purchaseOrders, d)
		case poKeys[k.Value] && !invKeys[k.Value]:
			d.Type = entity.DocTypeInvoice
			invoices = append(invoices, d)
		default:
			unclassified = append(unclassified, d)
		}
	}
	return invoices, purchaseOrders, unclassified
}

func keySet(docs []entity.ExtractedDocument) map[int64]bool {
	set := make(map[int64]bool, len(docs))
	for _, d := range docs {
		if k, err := docnum.FromDocument(d); err == nil {
			set[k.Value] = true
		}
	}
	return set
}
