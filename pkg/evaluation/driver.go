// Package evaluation runs the question table against the loaded documents.
package evaluation

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrew/page-eval/pkg/llm"
	"github.com/andrew/page-eval/pkg/models"
	"github.com/andrew/page-eval/pkg/prompt"
)

const separator = "--------------------------------------"

// Driver asks every table question against its page and prints the transcript
type Driver struct {
	documents []models.Document
	client    llm.Client
	out       io.Writer
	logger    *zap.Logger

	rule     *color.Color
	question *color.Color
	answer   *color.Color
}

// NewDriver creates a Driver writing its transcript to out
func NewDriver(documents []models.Document, client llm.Client, out io.Writer, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		documents: documents,
		client:    client,
		out:       out,
		logger:    logger.With(zap.String("run", uuid.New().String())),
		rule:      color.New(color.FgHiBlack),
		question:  color.New(color.FgGreen, color.Bold),
		answer:    color.New(color.FgCyan, color.Bold),
	}
}

// Run evaluates rows in order. The first failing row stops the run and its error is returned.
func (d *Driver) Run(ctx context.Context, rows []models.EvaluationRow) error {
	d.logger.Info("evaluation started", zap.Int("rows", len(rows)), zap.Int("documents", len(d.documents)))

	for i, row := range rows {
		if err := d.evaluate(ctx, i+1, row); err != nil {
			return err
		}
	}

	d.logger.Info("evaluation finished", zap.Int("rows", len(rows)))
	return nil
}

func (d *Driver) evaluate(ctx context.Context, idx int, row models.EvaluationRow) error {
	if row.Page < 1 || row.Page > len(d.documents) {
		return fmt.Errorf("row %d (line %d): %w: page %d, %d documents loaded",
			idx, row.Line, ErrPageOutOfRange, row.Page, len(d.documents))
	}
	doc := d.documents[row.Page-1]
	text := prompt.Build(doc.Text, row.Question)

	d.rule.Fprintf(d.out, "(%d)%s\n", idx, separator)
	d.question.Fprint(d.out, "Q:")
	fmt.Fprintf(d.out, " %s\n", row.Question)

	start := time.Now()
	answer, err := d.client.Complete(ctx, text)
	if err != nil {
		return fmt.Errorf("row %d (line %d): %w", idx, row.Line, err)
	}
	d.logger.Debug("row answered",
		zap.Int("row", idx),
		zap.Int("page", row.Page),
		zap.String("source", doc.Source),
		zap.Int("prompt_len", len(text)),
		zap.Duration("took", time.Since(start)))

	d.answer.Fprint(d.out, "A:")
	fmt.Fprintf(d.out, " %s\n", answer)
	return nil
}
