package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/geo"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
	"github.com/KoTeHok22/Locus-sub001/internal/workflow"
	"github.com/KoTeHok22/Locus-sub001/mocks"
)

type fixedSource struct {
	pos geo.Position
}

func (s fixedSource) Position(ctx context.Context) (*geo.Position, error) {
	p := s.pos
	return &p, nil
}

func newFixedProvider(lat, lon float64) *geo.Provider {
	return geo.NewProvider(fixedSource{pos: geo.Position{Latitude: lat, Longitude: lon}})
}

var testScan = workflow.ScanFile{
	Name:        "ttn.pdf",
	ContentType: "application/pdf",
	Data:        []byte("%PDF-1.4 scan"),
}

func newController(api *mocks.MockRecognitionAPI, opts ...workflow.Option) *workflow.Controller {
	return workflow.NewController(api, uuid.New(), workflow.PollerConfig{
		Interval:    5 * time.Millisecond,
		MaxAttempts: 10,
	}, opts...)
}

func expectRecognition(api *mocks.MockRecognitionAPI, docID uuid.UUID, data domain.RecognizedData) {
	api.On("RecognizeDocument", mock.Anything, mock.AnythingOfType("port.SubmitScanInput")).
		Return(docID, nil).Once()
	api.On("GetRecognitionStatus", mock.Anything, docID).
		Return(&domain.RecognitionResult{
			DocumentID:     docID,
			Status:         domain.RecognitionStatusCompleted,
			RecognizedData: data,
		}, nil).Once()
}

func TestController_Recognize_NoFileSelected(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	ctrl := newController(api)

	err := ctrl.Recognize(context.Background())

	assert.ErrorIs(t, err, domain.ErrFileRequired)
	assert.Equal(t, workflow.StateIdle, ctrl.State())
	api.AssertNotCalled(t, "RecognizeDocument")
}

func TestController_Recognize_NoProjectSelected(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	ctrl := workflow.NewController(api, uuid.Nil, workflow.PollerConfig{Interval: time.Millisecond})
	assert.NoError(t, ctrl.SelectFile(testScan))

	err := ctrl.Recognize(context.Background())

	assert.ErrorIs(t, err, domain.ErrProjectRequired)
	api.AssertNotCalled(t, "RecognizeDocument")
}

func TestController_Recognize_Success(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	var transitions []workflow.State
	ctrl := newController(api, workflow.WithTransitionHook(func(_, to workflow.State) {
		transitions = append(transitions, to)
	}))

	docID := uuid.New()
	expectRecognition(api, docID, sampleData())

	assert.NoError(t, ctrl.SelectFile(testScan))
	assert.NoError(t, ctrl.Recognize(context.Background()))

	assert.Equal(t, workflow.StateReviewing, ctrl.State())
	assert.Equal(t, docID, ctrl.DocumentID())
	assert.Len(t, ctrl.Items(), 2)
	assert.Equal(t, []workflow.State{
		workflow.StateFileSelected,
		workflow.StateRecognizing,
		workflow.StateReviewing,
	}, transitions)
}

func TestController_Recognize_FailureResetsToIdle(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	ctrl := newController(api)

	docID := uuid.New()
	api.On("RecognizeDocument", mock.Anything, mock.Anything).Return(docID, nil).Once()
	api.On("GetRecognitionStatus", mock.Anything, docID).
		Return(&domain.RecognitionResult{
			DocumentID: docID,
			Status:     domain.RecognitionStatusFailed,
		}, nil).Once()

	assert.NoError(t, ctrl.SelectFile(testScan))
	err := ctrl.Recognize(context.Background())

	assert.ErrorIs(t, err, domain.ErrRecognitionFailed)
	assert.Equal(t, workflow.StateIdle, ctrl.State())
	assert.Equal(t, uuid.Nil, ctrl.DocumentID())
	assert.Empty(t, ctrl.Items())
	assert.ErrorIs(t, ctrl.LastError(), domain.ErrRecognitionFailed)
}

func TestController_Recognize_SubmitErrorResetsToIdle(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	ctrl := newController(api)

	submitErr := errors.New("bad gateway")
	api.On("RecognizeDocument", mock.Anything, mock.Anything).Return(uuid.Nil, submitErr).Once()

	assert.NoError(t, ctrl.SelectFile(testScan))
	err := ctrl.Recognize(context.Background())

	assert.ErrorIs(t, err, submitErr)
	assert.Equal(t, workflow.StateIdle, ctrl.State())
}

func TestController_SetItemField_OnlyWhileReviewing(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	ctrl := newController(api)

	err := ctrl.SetItemField(0, workflow.FieldQuantity, "10")
	assert.ErrorIs(t, err, workflow.ErrNotReviewing)
}

func TestController_Confirm_Success(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	var confirmed *domain.MaterialDelivery
	ctrl := newController(api, workflow.WithConfirmedHook(func(d *domain.MaterialDelivery) {
		confirmed = d
	}))

	docID := uuid.New()
	expectRecognition(api, docID, sampleData())

	delivery := &domain.MaterialDelivery{ID: uuid.New(), DocumentID: docID}
	api.On("CreateDelivery", mock.Anything, mock.MatchedBy(func(input port.CreateDeliveryInput) bool {
		return input.DocumentID == docID &&
			len(input.Items) == 2 &&
			input.Items[0].Quantity == "45"
	})).Return(delivery, nil).Once()

	assert.NoError(t, ctrl.SelectFile(testScan))
	assert.NoError(t, ctrl.Recognize(context.Background()))
	assert.NoError(t, ctrl.SetItemField(0, workflow.FieldQuantity, "45"))

	result, err := ctrl.Confirm(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, delivery, result)
	assert.Equal(t, delivery, confirmed)
	assert.Equal(t, workflow.StateIdle, ctrl.State())
	assert.Equal(t, uuid.Nil, ctrl.DocumentID())
	assert.Empty(t, ctrl.Items())
}

func TestController_Confirm_EmptyRecognizedItems(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	ctrl := newController(api)

	docID := uuid.New()
	// A legible scan can still yield a note with no extractable lines; the
	// review grid starts empty and confirmation is not blocked.
	expectRecognition(api, docID, domain.RecognizedData{
		{DocumentNumber: "TTN-1044"},
	})
	api.On("CreateDelivery", mock.Anything, mock.MatchedBy(func(input port.CreateDeliveryInput) bool {
		return input.DocumentID == docID && len(input.Items) == 0
	})).Return(&domain.MaterialDelivery{ID: uuid.New(), DocumentID: docID}, nil).Once()

	assert.NoError(t, ctrl.SelectFile(testScan))
	assert.NoError(t, ctrl.Recognize(context.Background()))

	assert.Equal(t, workflow.StateReviewing, ctrl.State())
	assert.Empty(t, ctrl.Items())

	_, err := ctrl.Confirm(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, workflow.StateIdle, ctrl.State())
	api.AssertExpectations(t)
}

func TestController_Confirm_FailureKeepsReviewState(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	ctrl := newController(api)

	docID := uuid.New()
	expectRecognition(api, docID, sampleData())
	api.On("CreateDelivery", mock.Anything, mock.Anything).
		Return(nil, domain.ErrDeliveryExists).Once()

	assert.NoError(t, ctrl.SelectFile(testScan))
	assert.NoError(t, ctrl.Recognize(context.Background()))
	assert.NoError(t, ctrl.SetItemField(1, workflow.FieldUnit, "m3"))

	_, err := ctrl.Confirm(context.Background())

	assert.ErrorIs(t, err, domain.ErrDeliveryExists)
	// Edits and document id survive so the user can retry without
	// re-uploading.
	assert.Equal(t, workflow.StateReviewing, ctrl.State())
	assert.Equal(t, docID, ctrl.DocumentID())
	assert.Equal(t, "m3", ctrl.Items()[1].Unit)
}

func TestController_Confirm_NotReviewing(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	ctrl := newController(api)

	_, err := ctrl.Confirm(context.Background())
	assert.ErrorIs(t, err, workflow.ErrNotReviewing)
}

func TestController_Confirm_StampsLocation(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	ctrl := newController(api, workflow.WithLocator(newFixedProvider(55.75, 37.61)))

	docID := uuid.New()
	expectRecognition(api, docID, sampleData())
	api.On("CreateDelivery", mock.Anything, mock.MatchedBy(func(input port.CreateDeliveryInput) bool {
		return input.Latitude != nil && *input.Latitude == 55.75 &&
			input.Longitude != nil && *input.Longitude == 37.61
	})).Return(&domain.MaterialDelivery{ID: uuid.New()}, nil).Once()

	assert.NoError(t, ctrl.SelectFile(testScan))
	assert.NoError(t, ctrl.Recognize(context.Background()))

	_, err := ctrl.Confirm(context.Background())
	assert.NoError(t, err)
}

func TestController_Discard_KeepsFileSelection(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	ctrl := newController(api)

	docID := uuid.New()
	expectRecognition(api, docID, sampleData())

	assert.NoError(t, ctrl.SelectFile(testScan))
	assert.NoError(t, ctrl.Recognize(context.Background()))
	assert.NoError(t, ctrl.Discard())

	assert.Equal(t, workflow.StateFileSelected, ctrl.State())
	assert.Equal(t, uuid.Nil, ctrl.DocumentID())
	assert.Empty(t, ctrl.Items())
}

func TestController_SelectFile_ReplacesPrevious(t *testing.T) {
	api := new(mocks.MockRecognitionAPI)
	ctrl := newController(api)

	assert.NoError(t, ctrl.SelectFile(testScan))
	assert.NoError(t, ctrl.SelectFile(workflow.ScanFile{Name: "other.jpg", ContentType: "image/jpeg"}))
	assert.Equal(t, workflow.StateFileSelected, ctrl.State())

	assert.NoError(t, ctrl.ClearFile())
	assert.Equal(t, workflow.StateIdle, ctrl.State())
}
