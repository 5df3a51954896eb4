// internal/core/usecases/transformer.go
package usecases

import (
	"context"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/ports"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/validator"
)

// FieldPolicy is the rule set mapping a check outcome to a field mutation.
type FieldPolicy struct {
	// Fields lists the record fields whose URLs are checked.
	Fields []string

	// FollowRedirects rewrites redirected URLs to their final location and
	// emits a redirect event. When off, the original URL is kept.
	FollowRedirects bool

	// DeleteTimeouts removes URLs whose checks timed out. The default is
	// to retain them, since a slow server is not proof of a dead link.
	DeleteTimeouts bool
}

// Events collects what happened to one record: URLs that timed out, URLs
// rewritten to a redirect target. Events never influence later records.
type Events struct {
	Timeouts  []string
	Redirects []domain.Redirect
}

// Transformer applies the field policy to one record at a time using the
// checker. It mutates records in place; the caller owns them exclusively.
type Transformer struct {
	checker ports.Checker
	stats   *domain.Statistics
	policy  FieldPolicy
	logger  logx.Logger
}

// NewTransformer creates a transformer bound to a checker and a shared
// statistics accumulator.
func NewTransformer(checker ports.Checker, stats *domain.Statistics, policy FieldPolicy, logger logx.Logger) *Transformer {
	if logger == nil {
		logger = logx.NewSilent()
	}
	return &Transformer{
		checker: checker,
		stats:   stats,
		policy:  policy,
		logger:  logger.With("component", "transformer"),
	}
}

// Transform cleans every configured field of one record and reports the
// per-record events. Fields that are absent are skipped.
func (t *Transformer) Transform(ctx context.Context, rec *domain.Record) Events {
	var ev Events

	for _, field := range t.policy.Fields {
		raw, ok := rec.Field(field)
		if !ok {
			continue
		}

		if elems, isArray := domain.AsStringArray(raw); isArray {
			t.transformArray(ctx, rec, field, elems, &ev)
			continue
		}

		if value, isString := domain.AsString(raw); isString {
			t.transformScalar(ctx, rec, field, value, &ev)
			continue
		}

		// A configured field holding neither a string nor an array is not
		// URL data at all; drop it.
		t.logger.Debug("deleting non-string field", "field", field)
		rec.Delete(field)
	}

	return ev
}

// transformScalar applies the outcome policy to a single-URL field.
func (t *Transformer) transformScalar(ctx context.Context, rec *domain.Record, field, value string, ev *Events) {
	outcome := t.checkOne(ctx, field, value)

	switch {
	case outcome.Kind == domain.OutcomeValid:
		// keep as-is

	case outcome.Kind == domain.OutcomeRedirected:
		rec.SetString(field, outcome.Target)
		ev.Redirects = append(ev.Redirects, domain.Redirect{Source: value, Target: outcome.Target})

	case outcome.Transient():
		ev.Timeouts = append(ev.Timeouts, value)
		if t.policy.DeleteTimeouts {
			rec.Delete(field)
		}

	default: // NotFound, InvalidSyntax
		t.logger.Debug("deleting field", "field", field, "url", value, "outcome", outcome.Kind.String())
		rec.Delete(field)
	}
}

// transformArray checks every element independently, preserving order of
// the survivors. An emptied array removes the field entirely.
func (t *Transformer) transformArray(ctx context.Context, rec *domain.Record, field string, elems []string, ev *Events) {
	kept := make([]string, 0, len(elems))

	for _, value := range elems {
		outcome := t.checkOne(ctx, field, value)

		switch {
		case outcome.Kind == domain.OutcomeValid:
			kept = append(kept, value)

		case outcome.Kind == domain.OutcomeRedirected:
			kept = append(kept, outcome.Target)
			ev.Redirects = append(ev.Redirects, domain.Redirect{Source: value, Target: outcome.Target})

		case outcome.Transient():
			ev.Timeouts = append(ev.Timeouts, value)
			if !t.policy.DeleteTimeouts {
				kept = append(kept, value)
			}

		default:
			t.logger.Debug("dropping array element", "field", field, "url", value, "outcome", outcome.Kind.String())
		}
	}

	if len(kept) == 0 {
		rec.Delete(field)
		return
	}
	rec.SetStrings(field, kept)
}

// checkOne classifies the value syntactically, then asks the checker, and
// records the result in the statistics.
func (t *Transformer) checkOne(ctx context.Context, field, value string) domain.Outcome {
	var outcome domain.Outcome
	if !validator.IsCheckableURL(value) {
		outcome = domain.Outcome{Kind: domain.OutcomeInvalidSyntax}
	} else {
		outcome = t.checker.Check(ctx, value)
	}

	t.stats.Add(field, value, outcome.Kind)
	return outcome
}
