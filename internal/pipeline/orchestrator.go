// Package pipeline composes classification, retrieval, generation and
// formatting into the end-to-end query-handling sequence.
package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kgavrilov/pravobot/internal/llm"
	"github.com/kgavrilov/pravobot/internal/memory"
	"github.com/kgavrilov/pravobot/internal/prompt"
	"github.com/kgavrilov/pravobot/internal/telemetry"
	"github.com/kgavrilov/pravobot/internal/topic"
)

// MsgApology is the single user-facing text for any failure that
// escapes a pipeline stage.
const MsgApology = "⚠️ Произошла ошибка. Попробуйте позже."

// ReferenceLookup resolves a category to bounded statute text.
type ReferenceLookup interface {
	Lookup(category topic.Category) string
}

// SearchService retrieves and renders web context; it degrades to ""
// on any provider trouble.
type SearchService interface {
	Retrieve(ctx context.Context, query string, category topic.Category) string
}

// AnswerProvider runs the model fallback chain. It never errors; chain
// exhaustion and missing credentials come back as answer text.
type AnswerProvider interface {
	Answer(ctx context.Context, prompt string, images []string) (string, []llm.Attempt)
}

// Orchestrator owns one request's journey from query text to outbound
// chunks. All mutable cross-request state lives in the injected session
// store.
type Orchestrator struct {
	classifier *topic.Classifier
	corpus     ReferenceLookup
	search     SearchService
	chain      AnswerProvider
	store      *memory.Store
	telemetry  *telemetry.Telemetry
	logger     *log.Logger

	searchTimeout   time.Duration
	generateTimeout time.Duration
}

// New wires the orchestrator. Zero timeouts fall back to the bounds the
// assistant was tuned with.
func New(
	classifier *topic.Classifier,
	corpus ReferenceLookup,
	search SearchService,
	chain AnswerProvider,
	store *memory.Store,
	tel *telemetry.Telemetry,
	logger *log.Logger,
	searchTimeout, generateTimeout time.Duration,
) *Orchestrator {
	if logger == nil {
		logger = telemetry.Logger("PIPELINE")
	}
	if searchTimeout <= 0 {
		searchTimeout = 20 * time.Second
	}
	if generateTimeout <= 0 {
		generateTimeout = 90 * time.Second
	}
	return &Orchestrator{
		classifier:      classifier,
		corpus:          corpus,
		search:          search,
		chain:           chain,
		store:           store,
		telemetry:       tel,
		logger:          logger,
		searchTimeout:   searchTimeout,
		generateTimeout: generateTimeout,
	}
}

// Handle answers one query for one session. It always returns at least
// one outbound message: a failure escaping any stage collapses into the
// fixed apology, never a crash. The sink is released on every path.
func (o *Orchestrator) Handle(ctx context.Context, sessionID, query string, sink ProgressSink) []string {
	if sink == nil {
		sink = NopSink{}
	}
	start := time.Now()
	reqID := uuid.NewString()

	chunks, failed := o.run(ctx, reqID, sessionID, query, sink)
	sink.Done()
	o.telemetry.RecordRequest(time.Since(start), failed)
	return chunks
}

func (o *Orchestrator) run(ctx context.Context, reqID, sessionID, query string, sink ProgressSink) (chunks []string, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Printf("req %s: recovered: %v", reqID, r)
			chunks, failed = []string{MsgApology}, true
		}
	}()

	category := o.classifier.Classify(query)
	referenceText := o.corpus.Lookup(category)

	webText := ""
	if topic.NeedsSearch(query) {
		sink.Update(pick(searchStatuses))
		sctx, cancel := context.WithTimeout(ctx, o.searchTimeout)
		webText = o.search.Retrieve(sctx, query, category)
		timedOut := errors.Is(sctx.Err(), context.DeadlineExceeded)
		cancel()
		o.telemetry.RecordSearch(timedOut)
		if timedOut {
			o.logger.Printf("req %s: search timed out, continuing without web context", reqID)
		}
	}

	historyText := o.store.FormatHistory(sessionID)
	if doc := o.store.Document(sessionID); doc != "" {
		block := "Контекст из документа:\n" + doc
		if historyText != "" {
			historyText = historyText + "\n\n" + block
		} else {
			historyText = block
		}
	}

	promptText := prompt.Build(query, referenceText, webText, historyText)
	images := o.store.Images(sessionID)

	sink.Update(pick(generatingStatuses))
	answer := o.generate(ctx, reqID, promptText, images)

	answer = InjectSources(answer, ExtractURLs(webText))

	// Delivered answers become context even when degraded; only a
	// pipeline-level failure skips the log.
	o.store.Add(sessionID, memory.RoleUser, query)
	o.store.Add(sessionID, memory.RoleAssistant, answer)

	return Split(answer, MessageLimit), false
}

// generate runs the fallback chain under the overall generation bound.
// On expiry the pipeline stops waiting and substitutes the fixed
// timeout message; the chain finishes or fails in the background
// unobserved.
func (o *Orchestrator) generate(ctx context.Context, reqID, promptText string, images []string) string {
	done := make(chan string, 1)
	go func() {
		answer, attempts := o.chain.Answer(ctx, promptText, images)
		for _, a := range attempts {
			o.telemetry.RecordLLMAttempt(a.Model, true)
		}
		switch {
		case answer == llm.MsgNoAPIKey:
			o.logger.Printf("req %s: generation skipped, no credential configured", reqID)
		case llm.IsSoftFailure(answer):
			o.telemetry.RecordChainExhausted()
		case len(attempts) > 0:
			o.logger.Printf("req %s: %d model attempt(s) failed before success", reqID, len(attempts))
		}
		done <- answer
	}()

	select {
	case answer := <-done:
		return answer
	case <-time.After(o.generateTimeout):
		o.logger.Printf("req %s: generation exceeded %s", reqID, o.generateTimeout)
		return llm.MsgTimeout
	}
}

// Reset clears the session: conversation log, pending document text
// and pending images.
func (o *Orchestrator) Reset(sessionID string) {
	o.store.Reset(sessionID)
}

// AttachDocument stores extracted document text as pending context for
// the session's next questions.
func (o *Orchestrator) AttachDocument(sessionID, text string) {
	o.store.SetDocument(sessionID, text)
}

// AttachImage stores an inline-encoded image for the session's next
// questions.
func (o *Orchestrator) AttachImage(sessionID, dataURL string) {
	o.store.AddImage(sessionID, dataURL)
}
