// Package workflow implements the delivery note recognition workflow: a
// scanned TTN is submitted for asynchronous recognition, its job is polled to
// a terminal state, the extracted line items are edited in place, and the
// confirmed delivery is committed to the backend. The same controller serves
// every dashboard that embeds the flow; it is parametrized by project.
package workflow

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/geo"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

// State is the explicit workflow state. Exactly one holds at any time, which
// rules out the illegal flag combinations of juggling is-recognizing,
// has-document and has-data booleans separately.
type State string

const (
	StateIdle         State = "idle"
	StateFileSelected State = "file_selected"
	StateRecognizing  State = "recognizing"
	StateReviewing    State = "reviewing"
	StateCommitting   State = "committing"
)

var (
	// ErrOperationInFlight is returned when submit or confirm is attempted
	// while a previous one has not settled.
	ErrOperationInFlight = errors.New("another workflow operation is in flight")
	// ErrNotReviewing is returned when an edit or commit is attempted
	// outside the reviewing state.
	ErrNotReviewing = errors.New("no recognized data is under review")
)

// ScanFile is the selected delivery note scan, owned by the workflow until
// submission.
type ScanFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Controller owns one document lifecycle at a time: file selection, the
// recognition job, the editable buffer, and the commit. It is safe for
// concurrent use, though the intended callers are single UI event loops.
type Controller struct {
	api    port.RecognitionAPI
	poller *Poller

	mu         sync.Mutex
	state      State
	projectID  uuid.UUID
	file       *ScanFile
	documentID uuid.UUID
	recognized domain.RecognizedData
	buffer     Buffer
	lastErr    error

	locator      *geo.Provider
	onTransition func(from, to State)
	onConfirmed  func(*domain.MaterialDelivery)
}

// Option configures a Controller.
type Option func(*Controller)

// WithTransitionHook registers a callback invoked on every state change, so
// a UI layer can render status without the controller knowing about it.
func WithTransitionHook(hook func(from, to State)) Option {
	return func(c *Controller) { c.onTransition = hook }
}

// WithConfirmedHook registers a callback invoked after a successful commit,
// used to refresh delivery listings.
func WithConfirmedHook(hook func(*domain.MaterialDelivery)) Option {
	return func(c *Controller) { c.onConfirmed = hook }
}

// WithLocator attaches a location provider; when present, confirmed
// deliveries are stamped with the device position on a best-effort basis.
func WithLocator(locator *geo.Provider) Option {
	return func(c *Controller) { c.locator = locator }
}

// NewController creates a workflow controller for one project context.
func NewController(api port.RecognitionAPI, projectID uuid.UUID, pollerCfg PollerConfig, opts ...Option) *Controller {
	c := &Controller{
		api:       api,
		poller:    NewPoller(api, pollerCfg),
		state:     StateIdle,
		projectID: projectID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current workflow state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// DocumentID returns the backend id of the submitted scan, or uuid.Nil
// before submission succeeds.
func (c *Controller) DocumentID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.documentID
}

// Recognized returns all shipping documents extracted from the scan. Only
// the first one feeds the review buffer.
func (c *Controller) Recognized() domain.RecognizedData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recognized
}

// Items returns a copy of the line items currently under review.
func (c *Controller) Items() []domain.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.Snapshot()
}

// LastError returns the error that caused the most recent reset, if any.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SelectFile records the chosen scan. Allowed while no job is in flight;
// selecting a new file replaces the previous one.
func (c *Controller) SelectFile(file ScanFile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle && c.state != StateFileSelected {
		return ErrOperationInFlight
	}
	c.file = &file
	c.setState(StateFileSelected)
	return nil
}

// ClearFile drops the selected file and returns to idle.
func (c *Controller) ClearFile() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateFileSelected {
		return ErrOperationInFlight
	}
	c.file = nil
	c.setState(StateIdle)
	return nil
}

// Recognize submits the selected file and blocks until the recognition job
// reaches a terminal state. Validation failures are reported before any
// network call. On success the controller moves to reviewing with the buffer
// populated; on any failure it resets to idle and the error is returned.
func (c *Controller) Recognize(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateRecognizing || c.state == StateCommitting {
		c.mu.Unlock()
		return ErrOperationInFlight
	}
	if c.file == nil {
		c.mu.Unlock()
		return domain.ErrFileRequired
	}
	if c.projectID == uuid.Nil {
		c.mu.Unlock()
		return domain.ErrProjectRequired
	}
	file := *c.file
	c.setState(StateRecognizing)
	c.lastErr = nil
	c.mu.Unlock()

	docID, err := c.api.RecognizeDocument(ctx, port.SubmitScanInput{
		ProjectID:   c.projectID,
		FileName:    file.Name,
		ContentType: file.ContentType,
		Body:        bytes.NewReader(file.Data),
	})
	if err != nil {
		c.failRecognition(err)
		return err
	}

	c.mu.Lock()
	c.documentID = docID
	c.mu.Unlock()

	result, err := c.poller.WaitForResult(ctx, docID)
	if err != nil {
		c.failRecognition(err)
		return err
	}

	c.mu.Lock()
	c.recognized = result.RecognizedData
	c.buffer.Initialize(result.RecognizedData)
	c.setState(StateReviewing)
	c.mu.Unlock()
	return nil
}

// SetItemField edits one field of one item in the review buffer.
func (c *Controller) SetItemField(index int, field ItemField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReviewing {
		return ErrNotReviewing
	}
	return c.buffer.SetField(index, field, value)
}

// Confirm commits the edited items as a material delivery. On success all
// workflow state is reset and the confirmed hook fires; on failure the
// buffer and document id are left untouched so the user can retry without
// re-uploading or re-recognizing.
func (c *Controller) Confirm(ctx context.Context) (*domain.MaterialDelivery, error) {
	c.mu.Lock()
	if c.state != StateReviewing {
		c.mu.Unlock()
		return nil, ErrNotReviewing
	}
	if c.documentID == uuid.Nil {
		c.mu.Unlock()
		return nil, domain.ErrDocumentNotCompleted
	}
	input := port.CreateDeliveryInput{
		ProjectID:  c.projectID,
		DocumentID: c.documentID,
		Items:      c.buffer.Snapshot(),
	}
	c.setState(StateCommitting)
	c.mu.Unlock()

	if c.locator != nil && c.locator.Available() {
		if pos, err := c.locator.CurrentLocation(ctx); err == nil {
			input.Latitude = &pos.Latitude
			input.Longitude = &pos.Longitude
		} else {
			log.Printf("workflow: delivery location stamp unavailable: %v", err)
		}
	}

	delivery, err := c.api.CreateDelivery(ctx, input)
	if err != nil {
		c.mu.Lock()
		c.setState(StateReviewing)
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()

	if c.onConfirmed != nil {
		c.onConfirmed(delivery)
	}
	return delivery, nil
}

// Discard abandons the recognized data without committing. The buffer and
// document id are dropped; the original file selection is kept so the user
// can immediately resubmit.
func (c *Controller) Discard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReviewing {
		return ErrNotReviewing
	}
	c.documentID = uuid.Nil
	c.recognized = nil
	c.buffer.Reset()
	if c.file != nil {
		c.setState(StateFileSelected)
	} else {
		c.setState(StateIdle)
	}
	return nil
}

func (c *Controller) failRecognition(cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	log.Printf("workflow: recognition for project %s failed: %v", c.projectID, cause)
	c.lastErr = cause
	c.resetLocked()
}

// resetLocked returns the controller to its initial state. Callers hold mu.
func (c *Controller) resetLocked() {
	c.file = nil
	c.documentID = uuid.Nil
	c.recognized = nil
	c.buffer.Reset()
	c.setState(StateIdle)
}

func (c *Controller) setState(to State) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
}
