// Package formedit is the dynamic nested-collection form editor: it binds a
// server-rendered admin form into in-memory collection models and keeps the
// flat positional field-name space valid while an operator adds, removes,
// and reorders sub-records. One collection (the projects table) pushes its
// display order to the server immediately after a drop instead of waiting
// for submit.
package formedit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/skribblez2718/byob/pkg/bind"
	"github.com/skribblez2718/byob/pkg/collection"
	"github.com/skribblez2718/byob/pkg/markup"
	"github.com/skribblez2718/byob/pkg/remotesync"
	"github.com/skribblez2718/byob/pkg/reorder"
)

// ErrCollectionAbsent is returned for operations against a kind whose
// markup was not present on the bound page.
var ErrCollectionAbsent = errors.New("formedit: collection not present on page")

// Editor owns the parsed page state and the per-collection drag
// controllers.
type Editor struct {
	page        *markup.Page
	renderer    *markup.Renderer
	sync        *remotesync.Client
	controllers map[collection.Kind]*reorder.Controller
}

// Option customises an Editor before binding.
type Option func(*Editor)

// WithReorderClient sets the client used to persist the projects table
// order after a drop.
func WithReorderClient(client *remotesync.Client) Option {
	return func(e *Editor) {
		if client != nil {
			e.sync = client
		}
	}
}

// WithRenderer overrides the markup renderer.
func WithRenderer(renderer *markup.Renderer) Option {
	return func(e *Editor) {
		if renderer != nil {
			e.renderer = renderer
		}
	}
}

// Bind parses a served page and binds editor behavior to every collection
// whose markup is present. Binding sweeps items left hidden-but-present by
// a prior interaction, renumbers the block collection, and attaches one
// drag controller per collection.
func Bind(r io.Reader, opts ...Option) (*Editor, error) {
	e := &Editor{
		controllers: make(map[collection.Kind]*reorder.Controller),
	}
	for _, opt := range opts {
		opt(e)
	}

	page, err := markup.ParsePage(r)
	if err != nil {
		return nil, err
	}
	e.page = page

	if e.renderer == nil {
		renderer, err := markup.NewRenderer()
		if err != nil {
			return nil, err
		}
		e.renderer = renderer
	}
	if e.sync == nil {
		e.sync = remotesync.New(remotesync.WithCSRFToken(page.CSRFToken))
	}

	for kind, c := range page.Collections {
		c.Sweep(page.Markers)
		if c.Policy() == collection.PolicyRenumber {
			c.Renumber()
		}
		e.controllers[kind] = reorder.NewController(c, reorder.WithDropHook(dropHook(c)))
	}
	return e, nil
}

func dropHook(c *collection.Collection) func(from, to int) {
	return func(from, to int) {
		if c.Policy() == collection.PolicyRenumber {
			c.Renumber()
		}
	}
}

// Page returns the bound page state.
func (e *Editor) Page() *markup.Page { return e.page }

// Collection returns the bound collection for kind, or nil when the page
// had no markup for it.
func (e *Editor) Collection(kind collection.Kind) *collection.Collection {
	return e.page.Collection(kind)
}

// AddItem synthesizes a new item at the end of the kind's collection.
func (e *Editor) AddItem(kind collection.Kind, values map[string]string) (*collection.Item, error) {
	c := e.page.Collection(kind)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrCollectionAbsent, kind)
	}
	return c.Append(values)
}

// AddBlock synthesizes a content block of the given type, the toolbar
// shortcut that pre-selects the discriminant.
func (e *Editor) AddBlock(blockType string) (*collection.Item, error) {
	return e.AddItem(collection.KindBlock, map[string]string{"type": blockType})
}

// AddAccomplishment appends a nested accomplishment to the work-history
// item at display position workPos.
func (e *Editor) AddAccomplishment(workPos int, values map[string]string) (*collection.Item, error) {
	c := e.page.Collection(collection.KindWork)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrCollectionAbsent, collection.KindWork)
	}
	work, err := c.Item(workPos)
	if err != nil {
		return nil, err
	}
	return c.AppendAccomplishment(work, values)
}

// RemoveItem soft-deletes the item at display position pos: a durable
// delete marker is recorded at the form root and the item is detached so
// its required fields can no longer block submission.
func (e *Editor) RemoveItem(kind collection.Kind, pos int) error {
	c := e.page.Collection(kind)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrCollectionAbsent, kind)
	}
	it, err := c.Item(pos)
	if err != nil {
		return err
	}
	c.Remove(it, e.page.Markers)
	return nil
}

// RemoveAccomplishment soft-deletes one accomplishment of the work-history
// item at workPos.
func (e *Editor) RemoveAccomplishment(workPos, accPos int) error {
	c := e.page.Collection(collection.KindWork)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrCollectionAbsent, collection.KindWork)
	}
	work, err := c.Item(workPos)
	if err != nil {
		return err
	}
	if accPos < 0 || accPos >= len(work.Accomplishments) {
		return fmt.Errorf("formedit: accomplishment position %d out of range [0,%d)", accPos, len(work.Accomplishments))
	}
	c.RemoveAccomplishment(work, work.Accomplishments[accPos], e.page.Markers)
	return nil
}

// Controller returns the drag controller bound to kind, or nil.
func (e *Editor) Controller(kind collection.Kind) *reorder.Controller {
	return e.controllers[kind]
}

// DragStart opens a drag session on the kind's collection.
func (e *Editor) DragStart(kind collection.Kind, pos int) error {
	ctrl := e.controllers[kind]
	if ctrl == nil {
		return fmt.Errorf("%w: %s", ErrCollectionAbsent, kind)
	}
	return ctrl.DragStart(pos)
}

// Drop completes the open drag session against target and runs the
// collection's post-drop behavior: renumbering for index-renumbered
// collections. For the projects table the caller follows up with
// PushProjectOrder; the visual reorder stands regardless of that call's
// outcome.
func (e *Editor) Drop(kind collection.Kind, target reorder.Target) error {
	ctrl := e.controllers[kind]
	if ctrl == nil {
		return fmt.Errorf("%w: %s", ErrCollectionAbsent, kind)
	}
	if err := ctrl.Drop(target); err != nil {
		return err
	}
	ctrl.DragEnd()
	return nil
}

// PushProjectOrder persists the projects table's current display order.
// Failures surface only through the reorder client's notifier and the
// returned error; the in-memory order is never rolled back.
func (e *Editor) PushProjectOrder(ctx context.Context) error {
	c := e.page.Collection(collection.KindProject)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrCollectionAbsent, collection.KindProject)
	}
	return e.sync.PushOrder(ctx, c.HexIDs())
}

// Validate applies the block content rules to the bound block collection.
func (e *Editor) Validate() []collection.Issue {
	return collection.ValidateBlocks(e.page.Collection(collection.KindBlock))
}

// SubmissionValues flattens the page into the field-name space the server
// binder reads: every attached item's fields, every recorded delete
// marker, and the CSRF token.
func (e *Editor) SubmissionValues() url.Values {
	return bind.Values(e.page.Collections, e.page.Markers, bind.CSRFToken(e.page.CSRFToken))
}

// RenderCollection re-renders one collection's markup from the models.
func (e *Editor) RenderCollection(kind collection.Kind) (string, error) {
	c := e.page.Collection(kind)
	if c == nil {
		return "", fmt.Errorf("%w: %s", ErrCollectionAbsent, kind)
	}
	return e.renderer.Collection(c)
}

// RenderPage re-renders the whole editable page from the models.
func (e *Editor) RenderPage() (string, error) {
	return e.renderer.Page(e.page)
}
