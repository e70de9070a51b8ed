// Package llm sends assembled prompts to a generative-language provider
// through an ordered model fallback chain. Provider failures are data,
// not control flow: every attempt produces a typed outcome and the
// chain is a plain loop over them.
package llm

import (
	"context"
	"log"
	"strings"
)

// Generator issues one generation call against one model identifier.
// images are inline-encoded data URLs attached as image content blocks.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, images []string) (string, error)
}

// Fixed user-facing texts. These are delivered as ordinary answers, so
// the pipeline treats them like any generated output.
const (
	MsgNoAPIKey = "❌ Ошибка: API ключ OpenRouter не найден."
	MsgTimeout  = "⚠️ Модель не успела ответить вовремя. Попробуйте упростить вопрос."
)

// Attempt records the outcome of one model try in the chain.
type Attempt struct {
	Model string
	Err   error
}

// Chain tries each model in order until one succeeds. The model list is
// fixed per process: primary first, fallbacks after, deduplicated by
// the configuration layer.
type Chain struct {
	generator Generator
	models    []string
	hasKey    bool
	logger    *log.Logger
}

// NewChain builds a fallback chain. hasKey=false short-circuits every
// call into the fixed configuration-error message.
func NewChain(generator Generator, models []string, hasKey bool, logger *log.Logger) *Chain {
	if logger == nil {
		logger = log.New(log.Writer(), "[LLM] ", log.LstdFlags)
	}
	return &Chain{generator: generator, models: models, hasKey: hasKey, logger: logger}
}

// Answer runs the fallback chain. It never returns an error: exhausting
// the chain yields a soft-failure message embedding the last failure,
// returned as a normal answer string. The recorded attempts are for
// diagnostics only.
func (c *Chain) Answer(ctx context.Context, prompt string, images []string) (string, []Attempt) {
	if !c.hasKey {
		return MsgNoAPIKey, nil
	}

	var attempts []Attempt
	for _, model := range c.models {
		text, err := c.generator.Generate(ctx, model, prompt, images)
		if err == nil {
			return text, attempts
		}
		attempts = append(attempts, Attempt{Model: model, Err: err})
		c.logger.Printf("model %s failed, trying next: %v", model, err)
		if ctx.Err() != nil {
			break
		}
	}

	last := "нет доступных моделей"
	if len(attempts) > 0 {
		last = attempts[len(attempts)-1].Err.Error()
	}
	return softFailurePrefix + last, attempts
}

const softFailurePrefix = "⚠️ Ошибка генерации (возможно, модель перегружена): "

// IsSoftFailure reports whether an answer is the chain-exhaustion
// message rather than model output.
func IsSoftFailure(answer string) bool {
	return strings.HasPrefix(answer, softFailurePrefix)
}
