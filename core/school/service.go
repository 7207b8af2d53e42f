package school

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
)

// ChangePublisher is notified with the document keys touched by every successful mutation.
type ChangePublisher interface {
	Publish(keys ...string)
}

// Service implements the resource operations, named actions and the auth check over a document.Store.
type Service struct {
	store     *document.Store
	validate  *validator.Validate
	mailer    core.EmailService
	publisher ChangePublisher
	logger    core.Logger
	creator   core.CreatorConfig
}

func NewService(
	conf *core.Config,
	store *document.Store,
	validate *validator.Validate,
	mailer core.EmailService,
	publisher ChangePublisher,
	logger core.Logger,
) *Service {
	return &Service{
		store:     store,
		validate:  validate,
		mailer:    mailer,
		publisher: publisher,
		logger:    logger,
		creator:   conf.Creator,
	}
}

func (svc *Service) publish(collections ...document.Collection) {
	if svc.publisher == nil || len(collections) == 0 {
		return
	}
	keys := make([]string, len(collections))
	for i, c := range collections {
		keys[i] = c.String()
	}
	svc.publisher.Publish(keys...)
}

// mutate runs fn through the store and publishes the touched collections on success.
func (svc *Service) mutate(ctx context.Context, fn func(doc *document.Document) error, touched ...document.Collection) error {
	if _, err := svc.store.Mutate(ctx, fn); err != nil {
		return err
	}
	svc.publish(touched...)
	return nil
}

// Bootstrap returns the whole document.
func (svc *Service) Bootstrap(ctx context.Context) (*document.Document, error) {
	return svc.store.Load(ctx)
}

// List returns every record of c, in order.
func (svc *Service) List(ctx context.Context, c document.Collection) ([]document.Record, error) {
	doc, err := svc.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return *doc.Records(c), nil
}

// Create appends rec verbatim to c. Students are enrolled.
func (svc *Service) Create(ctx context.Context, c document.Collection, rec document.Record) (document.Record, error) {
	if c == document.Students {
		return svc.EnrollStudent(ctx, rec)
	}
	if rec == nil {
		rec = make(document.Record)
	}
	err := svc.mutate(ctx, func(doc *document.Document) error {
		doc.Append(c, rec.Clone())
		return nil
	}, c)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Update shallow-merges patch into the first record of c whose id loosely equals id.
// For schools, `subscription` is merged one level deeper.
func (svc *Service) Update(ctx context.Context, c document.Collection, id string, patch document.Record) (document.Record, error) {
	var updated document.Record
	err := svc.mutate(ctx, func(doc *document.Document) error {
		i, rec := doc.FindByID(c, id)
		if i < 0 {
			return core.NewNotFoundError(recordResource(c), id)
		}

		var sub map[string]interface{}
		if c == document.Schools {
			sub = mergeSubscription(rec, patch)
		}
		rec.Merge(patch)
		if sub != nil {
			rec["subscription"] = sub
		}
		updated = rec.Clone()
		return nil
	}, c)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func mergeSubscription(rec, patch document.Record) map[string]interface{} {
	patchSub, ok := patch["subscription"].(map[string]interface{})
	if !ok {
		return nil
	}
	merged := make(map[string]interface{})
	if curr, ok := rec["subscription"].(map[string]interface{}); ok {
		for k, v := range curr {
			merged[k] = v
		}
	}
	for k, v := range patchSub {
		merged[k] = v
	}
	return merged
}

// Delete removes the first record of c whose id loosely equals id. Students are withdrawn.
func (svc *Service) Delete(ctx context.Context, c document.Collection, id string) (document.Record, error) {
	if c == document.Students {
		return svc.WithdrawStudent(ctx, id)
	}
	var removed document.Record
	err := svc.mutate(ctx, func(doc *document.Document) error {
		i, _ := doc.FindByID(c, id)
		if i < 0 {
			return core.NewNotFoundError(recordResource(c), id)
		}
		removed = doc.RemoveAt(c, i)
		return nil
	}, c)
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func recordResource(c document.Collection) string {
	return c.String() + " record"
}
