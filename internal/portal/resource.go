package portal

import (
	"context"
	"fmt"

	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/ports"
)

// resource is the load, filter, render and mutate cycle of one collection.
type resource[T any] struct {
	collection domain.Collection
	panel      string
	template   string

	api func(ports.ClinicAPI) ports.Collection[T]
	// visible narrows the collection for a session; nil keeps everything.
	visible func(s *domain.Session, recs []T) []T
	view    func(c *Controller, recs []T, editable bool) (data any, items int)
	editor  func(rec T) editorForm
	// afterWrite refreshes panels derived from this collection.
	afterWrite func(ctx context.Context, c *Controller)

	// shown is the last rendered set, guarded by Controller.mu.
	shown []T
}

// load fetches the whole collection and renders it into the panel. A read
// failure replaces the panel with the failure placeholder.
func (r *resource[T]) load(ctx context.Context, c *Controller, t ticket) error {
	recs, err := r.api(c.api).List(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("collection", string(r.collection)).Msg("load failed")
		c.commit(t, func() {
			r.shown = nil
			c.failPanelLocked(r.panel, fmt.Sprintf("Failed to load %s.", r.collection))
		})
		return err
	}

	if r.visible != nil {
		recs = r.visible(t.session, recs)
	}
	c.commit(t, func() {
		r.shown = recs
		r.renderLocked(c, t.session)
	})
	return nil
}

func (r *resource[T]) renderLocked(c *Controller, s *domain.Session) {
	data, items := r.view(c, r.shown, !s.Restricted())
	c.renderPanelLocked(r.panel, r.template, data, items)
}

// reload re-runs load for the state current at call time.
func (r *resource[T]) reload(ctx context.Context, c *Controller) {
	t, ok := c.current()
	if !ok {
		return
	}
	_ = r.load(ctx, c, t)
}

func (r *resource[T]) create(ctx context.Context, c *Controller, fields any) error {
	t, allowed, err := c.staff()
	if !allowed {
		return err
	}
	if !c.firstSubmit(ctx, t, string(r.collection), fields) {
		return nil
	}

	if _, err := r.api(c.api).Create(ctx, fields); err != nil {
		c.toasts.Push(ToastError, fmt.Sprintf("Failed to add %s: %v", r.collection.Singular(), err))
		return nil
	}
	r.converge(ctx, c)
	c.toasts.Push(ToastSuccess, capitalize(r.collection.Singular())+" added successfully!")
	return nil
}

func (r *resource[T]) update(ctx context.Context, c *Controller, id string, fields any) error {
	_, allowed, err := c.staff()
	if !allowed {
		return err
	}

	if _, err := r.api(c.api).Update(ctx, id, fields); err != nil {
		c.toasts.Push(ToastError, fmt.Sprintf("Failed to update %s: %v", r.collection.Singular(), err))
		return nil
	}
	r.converge(ctx, c)
	c.toasts.Push(ToastSuccess, capitalize(r.collection.Singular())+" updated successfully!")
	return nil
}

// remove asks for confirmation and deletes on a positive answer. It returns
// the prompt id, empty when nothing was asked.
func (r *resource[T]) remove(ctx context.Context, c *Controller, id string) (string, error) {
	t, allowed, err := c.staff()
	if !allowed {
		return "", err
	}
	noun := r.collection.Singular()
	if id == "" {
		c.toasts.Push(ToastError, fmt.Sprintf("No %s ID found!", noun))
		return "", nil
	}

	message := fmt.Sprintf("Are you sure you want to delete this %s?", noun)
	return c.prompter.Ask(ctx, message, func(ctx context.Context, confirmed bool) {
		if !confirmed || !c.sameSession(t) {
			return
		}
		res, err := r.api(c.api).Delete(ctx, id)
		switch {
		case err != nil:
			c.log.Warn().Err(err).Str("collection", string(r.collection)).Str("id", id).Msg("delete failed")
			c.toasts.Push(ToastError, fmt.Sprintf("Error deleting %s: %v", noun, err))
		case !res.Success:
			c.toasts.Push(ToastError, "Failed: "+res.Error)
		default:
			r.converge(ctx, c)
			c.toasts.Push(ToastSuccess, capitalize(noun)+" deleted successfully!")
		}
	}), nil
}

// openEditor fetches one record and renders its edit form.
func (r *resource[T]) openEditor(ctx context.Context, c *Controller, id string) error {
	t, allowed, err := c.staff()
	if !allowed {
		return err
	}

	rec, err := r.api(c.api).Get(ctx, id)
	if err != nil {
		c.toasts.Push(ToastError, fmt.Sprintf("Failed to load %s: %v", r.collection.Singular(), err))
		return nil
	}
	form := r.editor(*rec)
	c.commit(t, func() {
		c.renderPanelLocked(PanelEditor, "editor", form, len(form.Fields))
	})
	return nil
}

// converge re-fetches after a successful write.
func (r *resource[T]) converge(ctx context.Context, c *Controller) {
	r.reload(ctx, c)
	if r.afterWrite != nil {
		r.afterWrite(ctx, c)
	}
}
