package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fatih/color"

	"partdex/internal/digikey"
	"partdex/internal/logging"
	"partdex/internal/match"
	"partdex/internal/parts"
	"partdex/internal/prompt"
)

// similarLimit is how many products one fallback keyword search requests
const similarLimit = 15

// Outcome is the result of resolving one part number
type Outcome struct {
	Part       *parts.Part
	Candidates []match.Candidate
	FromCache  bool
	APICalls   int
}

// Lookup resolves a part number against the cache first, then the API.
// Any cached outcome, including a recorded failure, short-circuits so a
// part that already burned an API call never burns another. Fresh
// failures fall through to a normalized retry and then one keyword
// search for similar candidates. Rate limit errors abort immediately.
func (a *App) Lookup(ctx context.Context, partNumber string) (*Outcome, error) {
	logger := logging.Get(ctx)

	partNumber = strings.TrimSpace(partNumber)
	if partNumber == "" {
		return nil, errors.New("empty part number")
	}

	cached, err := a.store.Get(ctx, partNumber)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		logger.Debug().Str("part", partNumber).Msg("cache hit")
		return &Outcome{Part: cached, FromCache: true}, nil
	}

	outcome := &Outcome{}

	part, err := a.searchAndRecord(ctx, partNumber, outcome)
	if err != nil {
		return nil, err
	}
	if !part.Failed() {
		outcome.Part = part
		return outcome, nil
	}
	failed := part

	normalized := parts.Normalize(partNumber)
	if normalized != "" && normalized != partNumber {
		logger.Debug().Str("part", partNumber).Str("normalized", normalized).
			Msg("retrying with normalized part number")
		retried, err := a.searchAndRecord(ctx, normalized, outcome)
		if err != nil {
			return nil, err
		}
		if !retried.Failed() {
			outcome.Part = retried
			return outcome, nil
		}
	}

	candidates, err := a.similarCandidates(ctx, partNumber, outcome)
	if err != nil {
		return nil, err
	}
	outcome.Candidates = candidates

	if a.prompter != nil {
		if len(candidates) > 0 {
			chosen, err := a.chooseCandidate(ctx, partNumber, candidates)
			if err != nil {
				return nil, err
			}
			if chosen != nil {
				outcome.Part = chosen
				return outcome, nil
			}
		}

		resolved, err := a.lookupEdited(ctx, partNumber, outcome)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			outcome.Part = resolved
			return outcome, nil
		}

		a.printSearchLinks(partNumber)
	}

	outcome.Part = failed
	return outcome, nil
}

// lookupEdited asks the operator for a corrected part number and resolves
// it through the full pipeline. Returns nil when skipped or still failed.
func (a *App) lookupEdited(ctx context.Context, partNumber string, outcome *Outcome) (*parts.Part, error) {
	edited, err := prompt.TextInput(a.prompter, "Corrected part number (enter to skip)", "")
	if err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			return nil, nil
		}
		return nil, err
	}
	if edited == "" || edited == partNumber {
		return nil, nil
	}

	retried, err := a.Lookup(ctx, edited)
	if err != nil {
		return nil, err
	}
	outcome.APICalls += retried.APICalls
	if retried.Part.Failed() {
		return nil, nil
	}
	return retried.Part, nil
}

// searchAndRecord runs one API search, counts the call and caches the
// outcome whether it succeeded or not. Rate limit errors propagate
// uncounted and uncached.
func (a *App) searchAndRecord(ctx context.Context, partNumber string, outcome *Outcome) (*parts.Part, error) {
	logger := logging.Get(ctx)

	part, err := a.client.Search(ctx, partNumber)
	if err != nil {
		if digikey.IsRateLimit(err) {
			return nil, err
		}
		logger.Warn().Err(err).Str("part", partNumber).Msg("search failed")
		part = parts.Failure(partNumber, err)
	}

	outcome.APICalls++
	if err := a.store.IncrementCalls(ctx); err != nil {
		return nil, err
	}
	if err := a.store.Save(ctx, part); err != nil {
		return nil, err
	}
	return part, nil
}

// similarCandidates runs one keyword search and ranks the products by
// similarity to the queried part number
func (a *App) similarCandidates(ctx context.Context, partNumber string, outcome *Outcome) ([]match.Candidate, error) {
	logger := logging.Get(ctx)

	results, err := a.client.SearchKeyword(ctx, partNumber, similarLimit)
	if err != nil {
		if digikey.IsRateLimit(err) {
			return nil, err
		}
		logger.Warn().Err(err).Str("part", partNumber).Msg("similar search failed")
		results = nil
	}

	outcome.APICalls++
	if err := a.store.IncrementCalls(ctx); err != nil {
		return nil, err
	}
	return match.Rank(partNumber, results), nil
}

// chooseCandidate lets the operator pick one of the similar products.
// A picked record is cached under its own part number. Returns nil when
// the operator skips.
func (a *App) chooseCandidate(ctx context.Context, partNumber string, candidates []match.Candidate) (*parts.Part, error) {
	fmt.Fprintf(a.out, "\nNo exact match for %s. Similar parts:\n", color.YellowString(partNumber))
	for i, candidate := range candidates {
		fmt.Fprintf(a.out, "  %2d. %s  %s  (%.0f%%)\n",
			i+1,
			color.CyanString(candidate.Part.PartNumber),
			candidate.Part.Manufacturer,
			candidate.Ratio*100)
	}

	index, err := prompt.SelectIndex(a.prompter, "Select a part", len(candidates))
	if err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			return nil, nil
		}
		return nil, err
	}
	if index < 0 {
		return nil, nil
	}

	part := candidates[index].Part
	if err := a.store.Save(ctx, &part); err != nil {
		return nil, err
	}
	return &part, nil
}

// printSearchLinks prints manual search URLs for an unresolved part
func (a *App) printSearchLinks(partNumber string) {
	escaped := url.QueryEscape(partNumber)
	fmt.Fprintln(a.out, "Search manually:")
	fmt.Fprintf(a.out, "  https://www.digikey.com/en/products/result?keywords=%s\n", escaped)
	fmt.Fprintf(a.out, "  https://www.google.com/search?q=%s\n", escaped)
}
