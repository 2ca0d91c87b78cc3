package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-retrieval-engine/internal/engine"
	"github.com/gcbaptista/go-retrieval-engine/internal/feedback"
	"github.com/gcbaptista/go-retrieval-engine/internal/loader"
	"github.com/gcbaptista/go-retrieval-engine/internal/pipeline"
	"github.com/gcbaptista/go-retrieval-engine/internal/report"
	"github.com/gcbaptista/go-retrieval-engine/internal/vectorize"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

const runLongDesc = `Run a batch of queries against a corpus and write the ranked results.

Documents and queries are read from .FRQ files, one item per line:
  <id> <term>-<count> <term>-<count> ...
Judgments are read from a .REL file, one line per query:
  <query-id> <doc-id> <doc-id> ...

Queries with judgments are evaluated with precision, recall, F-measure and
average precision. With --feedback each query is refined by Rocchio rounds
before the final ranking.`

type runCommander struct {
	global *globalFlags

	documents  string
	queries    string
	judgments  string
	strategy   string
	embeddings string
	name       string
	limit      int

	topK    int
	workers int

	feedback     bool
	rounds       int
	relevant     int
	useJudgments bool
	alpha        float64
	beta         float64
	gamma        float64

	format string
	output string
}

func newRunCmd(global *globalFlags) *cobra.Command {
	cmder := &runCommander{global: global}
	defaults := feedback.DefaultParams()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate a query batch from .FRQ and .REL files",
		Long:  runLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.documents, "documents", "d", "", "Document frequencies file (.FRQ)")
	cmd.Flags().StringVarP(&cmder.queries, "queries", "q", "", "Query frequencies file (.FRQ)")
	cmd.Flags().StringVarP(&cmder.judgments, "judgments", "j", "", "Relevance judgments file (.REL)")
	cmd.Flags().StringVarP(&cmder.strategy, "strategy", "s", vectorize.StrategyTFIDF, "Vectorization strategy (tfidf, embedding)")
	cmd.Flags().StringVar(&cmder.embeddings, "embeddings", "", "Word embedding table, required by the embedding strategy")
	cmd.Flags().StringVar(&cmder.name, "name", "", "Name reported for the corpus (defaults to the documents file name)")
	cmd.Flags().IntVar(&cmder.limit, "limit", 0, "Only run the first N queries (0 runs all)")
	cmd.Flags().IntVarP(&cmder.topK, "top-k", "k", 0, "Hits kept per query (overrides pipeline.top_k)")
	cmd.Flags().IntVarP(&cmder.workers, "workers", "w", 0, "Queries processed concurrently (overrides pipeline.workers)")
	cmd.Flags().BoolVar(&cmder.feedback, "feedback", false, "Apply Rocchio feedback rounds (overrides pipeline.feedback_enabled)")
	cmd.Flags().IntVar(&cmder.rounds, "rounds", 0, "Feedback rounds per query (overrides pipeline.feedback_rounds)")
	cmd.Flags().IntVar(&cmder.relevant, "relevant", 0, "Top hits treated as relevant in pseudo feedback (overrides pipeline.feedback_relevant)")
	cmd.Flags().BoolVar(&cmder.useJudgments, "use-judgments", false, "Select feedback documents from the judgments instead of the ranking")
	cmd.Flags().Float64Var(&cmder.alpha, "alpha", defaults.Alpha, "Rocchio weight of the original query")
	cmd.Flags().Float64Var(&cmder.beta, "beta", defaults.Beta, "Rocchio weight of the relevant centroid")
	cmd.Flags().Float64Var(&cmder.gamma, "gamma", defaults.Gamma, "Rocchio weight of the irrelevant centroid")
	cmd.Flags().StringVarP(&cmder.format, "format", "f", string(report.FormatREL), "Output format (rel, csv, json)")
	cmd.Flags().StringVarP(&cmder.output, "output", "o", "", "Output file (defaults to stdout)")

	_ = cmd.MarkFlagRequired("documents")
	_ = cmd.MarkFlagRequired("queries")

	return cmd
}

func (r *runCommander) run(cmd *cobra.Command) error {
	cfg, log, err := r.global.load()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	format, err := report.ParseFormat(r.format)
	if err != nil {
		return err
	}
	if r.useJudgments && r.judgments == "" {
		return fmt.Errorf("--use-judgments requires --judgments")
	}

	docs, err := loader.LoadFrequencies(r.documents)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	queries, err := loader.LoadFrequencies(r.queries)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}
	if r.limit > 0 && r.limit < len(queries) {
		queries = queries[:r.limit]
	}
	var judgments model.Judgments
	if r.judgments != "" {
		if judgments, err = loader.LoadJudgments(r.judgments); err != nil {
			return fmt.Errorf("failed to load judgments: %w", err)
		}
	}

	retriever, err := r.retriever(docs)
	if err != nil {
		return err
	}

	opts := r.options(cmd, cfg.Pipeline.TopK, cfg.Pipeline.Workers)
	opts.Feedback.Enabled = cfg.Pipeline.FeedbackEnabled
	opts.Feedback.Rounds = cfg.Pipeline.FeedbackRounds
	relevant := cfg.Pipeline.FeedbackRelevant
	if cmd.Flags().Changed("feedback") {
		opts.Feedback.Enabled = r.feedback
	}
	if cmd.Flags().Changed("rounds") {
		opts.Feedback.Rounds = r.rounds
	}
	if cmd.Flags().Changed("relevant") {
		relevant = r.relevant
	}
	if r.useJudgments {
		opts.Feedback.Selector = feedback.Judged{Judgments: judgments}
	} else {
		opts.Feedback.Selector = feedback.RankSplit{Relevant: relevant}
	}

	log.Info("Starting evaluation run",
		zap.Int("documents", len(docs)),
		zap.Int("queries", len(queries)),
		zap.Int("judged_queries", len(judgments)),
		zap.String("strategy", r.strategy),
		zap.Bool("feedback", opts.Feedback.Enabled),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.NewRunner(retriever, opts, log).Run(ctx, queries, judgments)
	if err != nil {
		return err
	}

	log.Info("Evaluation run finished",
		zap.String("run_id", result.RunID),
		zap.Int64("took_ms", result.TookMs),
		zap.Int("evaluated_queries", result.Summary.EvaluatedQueries),
		zap.Float64("mean_average_precision", result.Summary.MeanAveragePrecision),
	)

	return r.write(cmd.OutOrStdout(), format, result)
}

func (r *runCommander) retriever(docs []model.Document) (pipeline.Retriever, error) {
	name := r.name
	if name == "" {
		name = filepath.Base(r.documents)
	}

	switch r.strategy {
	case vectorize.StrategyTFIDF:
		session, err := engine.NewTFIDFSession(name, docs)
		if err != nil {
			return nil, err
		}
		return session, nil
	case vectorize.StrategyEmbedding:
		if r.embeddings == "" {
			return nil, fmt.Errorf("the %s strategy requires --embeddings", vectorize.StrategyEmbedding)
		}
		table, err := loader.LoadEmbeddings(r.embeddings)
		if err != nil {
			return nil, fmt.Errorf("failed to load embeddings: %w", err)
		}
		session, err := engine.NewEmbeddingSession(name, docs, table)
		if err != nil {
			return nil, err
		}
		return session, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", r.strategy)
	}
}

func (r *runCommander) options(cmd *cobra.Command, topK, workers int) pipeline.Options {
	if cmd.Flags().Changed("top-k") {
		topK = r.topK
	}
	if cmd.Flags().Changed("workers") {
		workers = r.workers
	}
	return pipeline.Options{
		TopK:    topK,
		Workers: workers,
		Feedback: pipeline.FeedbackOptions{
			Params: feedback.Params{Alpha: r.alpha, Beta: r.beta, Gamma: r.gamma},
		},
	}
}

func (r *runCommander) write(stdout io.Writer, format report.Format, result *model.RunReport) (err error) {
	if r.output == "" {
		return report.Write(stdout, format, result)
	}

	f, err := os.Create(filepath.Clean(r.output))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.output, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return report.Write(f, format, result)
}
