package automation

// The rule-automation engine watches record saves: the caller hands it
// the before and after states and the engine decides, per registered
// action, whether the trigger condition newly holds. Every firing action
// enqueues exactly one mail job. Idempotence rests entirely on the
// before/after diff: re-saving an unchanged record enqueues nothing.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gestionale/internal/models"
	"gestionale/internal/registry"
	"gestionale/internal/utils"
	console "gestionale/internal/utils/logger"
)

// OverrideSource resolves the persisted RuleOverride for an action.
// A missing override means the action runs with its defaults.
type OverrideSource interface {
	Get(ctx context.Context, actionID string) (*models.RuleOverride, error)
}

// JobQueue receives the jobs the engine produces. The engine enqueues and
// returns; dispatch happens elsewhere.
type JobQueue interface {
	Enqueue(ctx context.Context, job *models.MailJob) error
}

// SaveInput carries one record mutation through the engine. PreviousData
// is nil on pure creation; the engine then diffs against an implicit
// empty before-state.
type SaveInput struct {
	ResourceTypeSlug           string
	ResourceID                 string
	UserID                     string
	Data                       map[string]interface{}
	PreviousData               map[string]interface{}
	Participants               []string
	ParticipantsDetail         []map[string]interface{}
	PreviousParticipantsDetail []map[string]interface{}
}

type Engine struct {
	overrides OverrideSource
	queue     JobQueue
	actions   []Action
	from      string
	replyTo   string
	now       func() time.Time
	logger    *console.Logger
}

func NewEngine(overrides OverrideSource, queue JobQueue, from, replyTo string) *Engine {
	return &Engine{
		overrides: overrides,
		queue:     queue,
		actions:   Actions(),
		from:      from,
		replyTo:   replyTo,
		now:       time.Now,
		logger:    console.New("AUTOMATION"),
	}
}

// WithClock overrides the engine's clock. Tests only.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// RunAutoActionsOnSave evaluates every registered action against one
// save. Errors are logged per action and never propagated: a failing rule
// must not abort the batch, and automation must never fail the save.
func (e *Engine) RunAutoActionsOnSave(ctx context.Context, input SaveInput) {
	domain, ok := registry.DomainOfSlug(input.ResourceTypeSlug)
	if !ok {
		e.logger.Skip("automations: unknown resource type %q", input.ResourceTypeSlug)
		return
	}

	for _, action := range e.actions {
		if action.ResourceTypeSlug != input.ResourceTypeSlug {
			continue
		}
		if !scopeMatchesDomain(action.Scope, domain) {
			continue
		}
		if err := e.runAction(ctx, action, input); err != nil {
			_ = e.logger.Error("automation %s failed on %s/%s", err, action.ID, input.ResourceTypeSlug, input.ResourceID)
		}
	}
}

func (e *Engine) runAction(ctx context.Context, action Action, input SaveInput) error {
	override, err := e.overrides.Get(ctx, action.ID)
	if err != nil {
		return fmt.Errorf("load override: %w", err)
	}
	if override != nil && !override.Enabled {
		return nil
	}

	def, ok := registry.GetResourceDef(registry.Domain(strings.ToLower(string(action.Scope))), action.ResourceTypeSlug)
	if !ok || !def.HasField(action.Field) {
		e.logger.Skip("automation %s: field %q not in registry for %s", action.ID, action.Field, action.ResourceTypeSlug)
		return nil
	}
	if !def.HasVisibilityOption(action.Visibility) {
		e.logger.Skip("automation %s: audience %q not configured for %s", action.ID, action.Visibility, action.ResourceTypeSlug)
		return nil
	}

	if !e.triggerFires(action, input) {
		return nil
	}

	scheduledAt, ok := e.resolveSchedule(action, input)
	if !ok {
		e.logger.Skip("automation %s: no usable date in field %q, not scheduling", action.ID, action.TimeSource)
		return nil
	}

	recipient, ok := resolveRecipient(sendMode(override), input)
	if !ok {
		e.logger.Skip("automation %s: no recipient resolvable for %s/%s", action.ID, input.ResourceTypeSlug, input.ResourceID)
		return nil
	}

	vars := buildVariableBag(input)
	subject, html := e.resolveTemplates(action, override)

	job := &models.MailJob{
		Status:      models.MailJobStatusPending,
		ScopeKind:   string(action.Scope),
		ActionID:    action.ID,
		TargetSlug:  input.ResourceTypeSlug,
		TargetID:    input.ResourceID,
		ScheduledAt: scheduledAt,
		From:        e.from,
		To:          recipient,
		Subject:     RenderTemplate(subject, vars),
		HTML:        RenderTemplate(html, vars),
		ReplyTo:     e.replyTo,
	}
	if err := e.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}

	e.logger.Success("automation %s fired on %s/%s, scheduled for %s", action.ID, input.ResourceTypeSlug, input.ResourceID, scheduledAt.Format(time.RFC3339))
	return nil
}

// triggerFires implements the diff semantics. Only nil, absent and the
// empty string count as unset: numeric 0 and false are real values.
func (e *Engine) triggerFires(action Action, input SaveInput) bool {
	after := input.Data[action.Field]
	var before interface{}
	if input.PreviousData != nil {
		before = input.PreviousData[action.Field]
	}

	switch action.Trigger {
	case TriggerOnFirstSet:
		return utils.IsEmptyValue(before) && !utils.IsEmptyValue(after)
	case TriggerOnChange:
		// A nil PreviousData (pure creation) collapses to comparing
		// against an implicit empty before-state.
		return utils.NormalizeValue(before) != utils.NormalizeValue(after)
	default:
		return false
	}
}

func (e *Engine) resolveSchedule(action Action, input SaveInput) (time.Time, bool) {
	switch action.TimeKind {
	case TimeImmediate:
		return e.now(), true
	case TimeAtEventDate:
		when, ok := utils.ParseDateValue(input.Data[action.TimeSource])
		if !ok {
			return time.Time{}, false
		}
		if action.WindowDaysBefore > 0 {
			when = when.Add(-time.Duration(action.WindowDaysBefore) * 24 * time.Hour)
		}
		return when, true
	default:
		return time.Time{}, false
	}
}

func (e *Engine) resolveTemplates(action Action, override *models.RuleOverride) (subject, html string) {
	subject = action.DefaultSubject
	html = action.DefaultHTML
	if override != nil {
		if override.SubjectTemplate != "" {
			subject = override.SubjectTemplate
		}
		if override.HTMLTemplate != "" {
			html = override.HTMLTemplate
		}
	}
	return subject, html
}

func sendMode(override *models.RuleOverride) string {
	if override == nil || override.SendMode == "" {
		return SendModeReferente
	}
	return override.SendMode
}

// resolveRecipient picks the To address for a firing action. Partecipanti
// mode joins every participant email into one job; the engine guarantees
// one job per firing rule per save.
func resolveRecipient(mode string, input SaveInput) (string, bool) {
	switch mode {
	case SendModePartecipanti:
		var addresses []string
		for _, detail := range input.ParticipantsDetail {
			if email, ok := detail["email"].(string); ok && email != "" {
				addresses = append(addresses, email)
			}
		}
		if len(addresses) == 0 {
			return "", false
		}
		return strings.Join(addresses, ", "), true
	default:
		if email, ok := input.Data["email"].(string); ok && email != "" {
			return email, true
		}
		return "", false
	}
}

func scopeMatchesDomain(scope Scope, domain registry.Domain) bool {
	switch scope {
	case ScopeAnagrafica:
		return domain == registry.DomainAnagrafica
	case ScopeAula:
		return domain == registry.DomainAula
	default:
		return false
	}
}
