package llm

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
)

type scriptedGenerator struct {
	outcomes map[string]error
	answer   string
	calls    []string
}

func (g *scriptedGenerator) Generate(_ context.Context, model, _ string, _ []string) (string, error) {
	g.calls = append(g.calls, model)
	if err, ok := g.outcomes[model]; ok && err != nil {
		return "", err
	}
	return g.answer, nil
}

func testChain(g Generator, models []string, hasKey bool) *Chain {
	return NewChain(g, models, hasKey, log.New(io.Discard, "", 0))
}

func TestAnswerFallsBackInOrder(t *testing.T) {
	g := &scriptedGenerator{
		answer: "ответ от C",
		outcomes: map[string]error{
			"model-a": errors.New("status 429"),
			"model-b": errors.New("status 502"),
		},
	}
	chain := testChain(g, []string{"model-a", "model-b", "model-c"}, true)

	answer, attempts := chain.Answer(context.Background(), "вопрос", nil)
	if answer != "ответ от C" {
		t.Fatalf("expected third model's answer, got %q", answer)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected two recorded failures, got %d", len(attempts))
	}
	if attempts[0].Model != "model-a" || attempts[1].Model != "model-b" {
		t.Fatalf("attempts recorded out of order: %v", attempts)
	}
	if want := []string{"model-a", "model-b", "model-c"}; strings.Join(g.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("models tried in wrong order: %v", g.calls)
	}
}

func TestAnswerExhaustedChainSoftFails(t *testing.T) {
	g := &scriptedGenerator{outcomes: map[string]error{
		"model-a": errors.New("status 500"),
		"model-b": errors.New("connection refused"),
	}}
	chain := testChain(g, []string{"model-a", "model-b"}, true)

	answer, attempts := chain.Answer(context.Background(), "вопрос", nil)
	if !strings.Contains(answer, "connection refused") {
		t.Fatalf("soft failure must embed the last error, got %q", answer)
	}
	if !IsSoftFailure(answer) {
		t.Fatalf("soft failure must be detectable, got %q", answer)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected two attempts, got %d", len(attempts))
	}
}

func TestAnswerNoAPIKeyShortCircuits(t *testing.T) {
	g := &scriptedGenerator{answer: "должно не вызываться"}
	chain := testChain(g, []string{"model-a"}, false)

	answer, attempts := chain.Answer(context.Background(), "вопрос", nil)
	if answer != MsgNoAPIKey {
		t.Fatalf("expected configuration-error message, got %q", answer)
	}
	if len(g.calls) != 0 {
		t.Fatal("no provider call may be attempted without a key")
	}
	if attempts != nil {
		t.Fatalf("expected no attempts, got %v", attempts)
	}
}

func TestAnswerStopsChainOnExpiredContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := &scriptedGenerator{outcomes: map[string]error{
		"model-a": context.Canceled,
		"model-b": context.Canceled,
	}}
	chain := testChain(g, []string{"model-a", "model-b"}, true)

	_, attempts := chain.Answer(ctx, "вопрос", nil)
	if len(g.calls) != 1 {
		t.Fatalf("expected chain to stop after first attempt on dead context, got %d calls", len(g.calls))
	}
	if len(attempts) != 1 {
		t.Fatalf("expected one attempt, got %d", len(attempts))
	}
}
