// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Canned replies returned by the simulator.
const (
	ReplyGreeting = "Hello there! How can I assist you today?"
	ReplyHelp     = "I'm here to help! You can ask me questions, request explanations, or even ask for code examples. What would you like to do?"
	ReplyCode     = "Here's a simple JavaScript function to calculate factorial:\n\n```javascript\nfunction factorial(n) {\n  if (n === 0 || n === 1) {\n    return 1;\n  }\n  return n * factorial(n - 1);\n}\n\nconsole.log(factorial(5)); // Output: 120\n```\n\nLet me know if you need help with anything specific!"
	ReplyPoem     = "Here's a short poem about AI:\n\n*Silicon thoughts in circuits deep,\nWhere algorithms softly sleep.\nAwakened by a human quest,\nTo solve problems and do our best.\n\nWith data streams and neural nets,\nNo challenge that it can't begets.\nA digital mind, both vast and keen,\nIn service to what we have seen.*"
	ReplyFallback = "I understand your query. Based on my knowledge, here's what I can tell you about that topic. Remember that I'm an AI assistant and my knowledge has limitations. Is there anything specific you'd like me to elaborate on?"
)

// Simulator delay defaults.
const (
	DefaultMinDelay = 1 * time.Second
	DefaultMaxDelay = 2 * time.Second
)

// CannedReply picks the simulator reply for a user message. Matching is
// case-insensitive and checked in order: greeting, help, code, poem.
func CannedReply(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "hello") || hasWord(lower, "hi"):
		return ReplyGreeting
	case strings.Contains(lower, "help"):
		return ReplyHelp
	case strings.Contains(lower, "code") || strings.Contains(lower, "programming"):
		return ReplyCode
	case strings.Contains(lower, "poem"):
		return ReplyPoem
	default:
		return ReplyFallback
	}
}

func hasWord(text, word string) bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		if f == word {
			return true
		}
	}
	return false
}

// SimulatorOptions configures a Simulator.
type SimulatorOptions struct {
	// MinDelay and MaxDelay bound the randomized reply delay.
	MinDelay time.Duration
	MaxDelay time.Duration

	// RequestsPerMinute throttles requests; extra requests fail with
	// ErrRateLimited. 0 disables throttling.
	RequestsPerMinute float64

	// Burst is how many requests may arrive back to back (default 1).
	Burst int

	// Seed makes delays reproducible. 0 seeds from the clock.
	Seed int64

	Logger zerolog.Logger
}

// Simulator is a local stand-in for a text-generation service. It answers
// from a fixed set of keyword-matched replies after a short random delay.
type Simulator struct {
	minDelay time.Duration
	maxDelay time.Duration
	limiter  *rate.Limiter
	logger   zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a simulator. Zero delays mean "reply immediately";
// use DefaultMinDelay/DefaultMaxDelay for the interactive feel.
func NewSimulator(opts SimulatorOptions) *Simulator {
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = opts.MinDelay
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Limit(opts.RequestsPerMinute / 60)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Simulator{
		minDelay: opts.MinDelay,
		maxDelay: opts.MaxDelay,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   opts.Logger.With().Str("backend", "simulator").Logger(),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Complete waits a random delay and returns the canned reply for the last
// user turn.
func (s *Simulator) Complete(ctx context.Context, turns []Turn) (string, error) {
	last, ok := LastUserTurn(turns)
	if !ok {
		return "", errors.Wrap(ErrRequestFailed, ErrNoUserTurn.Error())
	}

	if !s.limiter.Allow() {
		s.logger.Debug().Msg("simulated rate limit")
		return "", errors.Wrap(ErrRateLimited, "simulator: too many requests (429)")
	}

	delay := s.delay()
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", errors.Wrap(ErrRequestFailed, ctx.Err().Error())
	case <-timer.C:
	}

	reply := CannedReply(last)
	s.logger.Debug().Dur("delay", delay).Int("turns", len(turns)).Msg("simulated reply")
	return reply, nil
}

func (s *Simulator) delay() time.Duration {
	span := s.maxDelay - s.minDelay
	if span <= 0 {
		return s.minDelay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minDelay + time.Duration(s.rng.Int63n(int64(span)+1))
}
