package genapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"mysql-beangen/internal/config"
	"mysql-beangen/internal/descriptor"
	"mysql-beangen/internal/introspection"
	"mysql-beangen/internal/junction"
	"mysql-beangen/internal/logging"
	"mysql-beangen/internal/naming"
	"mysql-beangen/internal/schemafilter"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Run executes one generation pass: introspect the schema, build the bean
// model, and write the document to the configured output. It requires Init
// to have completed.
func (a *App) Run(ctx context.Context) error {
	a.stateMu.Lock()
	if !a.initialized {
		a.stateMu.Unlock()
		return fmt.Errorf("app is not initialized")
	}
	db := a.db
	a.stateMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	runID := uuid.New().String()
	logger := a.logger.WithRunID(runID)
	ctx = logging.WithRunIDContext(ctx, runID)
	ctx = logging.WithLogger(ctx, logger)

	ctx, span := otel.Tracer("mysql-beangen").Start(ctx, "beangen.run")
	span.SetAttributes(attribute.String("run.id", runID))
	defer span.End()

	started := time.Now()
	logger.Info("starting generation run",
		slog.String("database", a.effectiveDatabase),
	)

	schema, err := introspection.Introspect(ctx, db, a.effectiveDatabase)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("schema introspection failed: %w", err)
	}
	logger.Info("schema introspected", slog.Int("tables", len(schema.Tables)))

	schemafilter.Apply(schema, a.cfg.SchemaFilters)
	if len(schema.Tables) == 0 {
		return fmt.Errorf("no tables remain after schema filtering in database %q", a.effectiveDatabase)
	}

	junctions := junction.Classify(schema)
	logger.Info("junction tables classified",
		slog.Int("count", len(junctions)),
		slog.Any("tables", junctions.Names()),
	)

	namer := naming.New(a.cfg.Naming, logger.Logger)
	model, err := descriptor.Build(ctx, schema, junctions, namer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("bean model construction failed: %w", err)
	}

	doc := model.Document(runID)
	if err := writeDocument(doc, a.cfg.Output); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	logger.Info("generation run complete",
		slog.Int("beans", len(doc.Beans)),
		slog.Duration("elapsed", time.Since(started)),
		slog.String("output", a.cfg.Output.Path),
	)
	span.SetAttributes(attribute.Int("beans.count", len(doc.Beans)))
	return nil
}

func writeDocument(doc descriptor.Document, cfg config.OutputConfig) error {
	if cfg.Path == "-" {
		return encodeDocument(os.Stdout, doc, cfg.Pretty)
	}

	f, err := os.Create(cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	if err := encodeDocument(f, doc, cfg.Pretty); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to finalize output file: %w", err)
	}
	return nil
}

func encodeDocument(w io.Writer, doc descriptor.Document, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write model document: %w", err)
	}
	return nil
}
