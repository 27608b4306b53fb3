package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
	"github.com/KoTeHok22/Locus-sub001/internal/service"
	"github.com/KoTeHok22/Locus-sub001/mocks"
)

type deliveryServiceMocks struct {
	deliveryRepo *mocks.MockDeliveryRepo
	docRepo      *mocks.MockDocumentRepo
	projectRepo  *mocks.MockProjectRepo
	materialRepo *mocks.MockMaterialRepo
	email        *mocks.MockEmailSender
}

func newDeliveryService(t *testing.T) (service.DeliveryService, deliveryServiceMocks) {
	t.Helper()
	m := deliveryServiceMocks{
		deliveryRepo: new(mocks.MockDeliveryRepo),
		docRepo:      new(mocks.MockDocumentRepo),
		projectRepo:  new(mocks.MockProjectRepo),
		materialRepo: new(mocks.MockMaterialRepo),
		email:        new(mocks.MockEmailSender),
	}
	svc := service.NewDeliveryService(m.deliveryRepo, m.docRepo, m.projectRepo,
		m.materialRepo, m.email, "manager@locus.dev")
	return svc, m
}

func completedDocument(projectID uuid.UUID, docDate string) *domain.Document {
	return &domain.Document{
		ID:                uuid.New(),
		ProjectID:         projectID,
		RecognitionStatus: domain.RecognitionStatusCompleted,
		RecognizedData: domain.RecognizedData{
			{DocumentDate: docDate, Items: []domain.LineItem{
				{Name: "Cement M500", Quantity: "40", Unit: "bags"},
			}},
		},
	}
}

func confirmInput(projectID, docID uuid.UUID) *service.ConfirmDeliveryInput {
	return &service.ConfirmDeliveryInput{
		ProjectID:  projectID,
		DocumentID: docID,
		ForemanID:  uuid.New(),
		Items: []domain.LineItem{
			{Name: "Cement M500", Quantity: "40", Unit: "bags"},
		},
	}
}

func TestDeliveryService_Create_Success(t *testing.T) {
	svc, m := newDeliveryService(t)
	projectID := uuid.New()
	doc := completedDocument(projectID, "15.03.2026")
	material := &domain.Material{ID: uuid.New(), Name: "Cement M500", Unit: "bags"}

	m.projectRepo.On("GetByID", mock.Anything, projectID).
		Return(&domain.Project{ID: projectID, Name: "Riverside Tower"}, nil)
	m.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	m.deliveryRepo.On("GetByDocumentID", mock.Anything, doc.ID).
		Return(nil, domain.ErrNotFound)
	m.materialRepo.On("GetByName", mock.Anything, "Cement M500").Return(material, nil)
	m.deliveryRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.MaterialDelivery) bool {
		return d.ProjectID == projectID &&
			d.DocumentID == doc.ID &&
			len(d.Items) == 1 &&
			d.Items[0].MaterialID == material.ID &&
			d.Items[0].Quantity == 40
	})).Return(nil)
	m.email.On("Send", mock.Anything, mock.MatchedBy(func(msg port.EmailMessage) bool {
		return msg.To == "manager@locus.dev"
	})).Return(nil)

	delivery, err := svc.Create(context.Background(), confirmInput(projectID, doc.ID))

	require.NoError(t, err)
	// The date comes from the recognized waybill when the foreman set none.
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), delivery.DeliveryDate)
	m.deliveryRepo.AssertExpectations(t)
	m.email.AssertExpectations(t)
}

func TestDeliveryService_Create_DuplicateDocument(t *testing.T) {
	svc, m := newDeliveryService(t)
	projectID := uuid.New()
	doc := completedDocument(projectID, "")

	m.projectRepo.On("GetByID", mock.Anything, projectID).
		Return(&domain.Project{ID: projectID}, nil)
	m.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	m.deliveryRepo.On("GetByDocumentID", mock.Anything, doc.ID).
		Return(&domain.MaterialDelivery{ID: uuid.New()}, nil)

	_, err := svc.Create(context.Background(), confirmInput(projectID, doc.ID))

	assert.ErrorIs(t, err, domain.ErrDeliveryExists)
	m.deliveryRepo.AssertNotCalled(t, "Create")
}

func TestDeliveryService_Create_DocumentNotCompleted(t *testing.T) {
	svc, m := newDeliveryService(t)
	projectID := uuid.New()
	doc := completedDocument(projectID, "")
	doc.RecognitionStatus = domain.RecognitionStatusProcessing

	m.projectRepo.On("GetByID", mock.Anything, projectID).
		Return(&domain.Project{ID: projectID}, nil)
	m.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := svc.Create(context.Background(), confirmInput(projectID, doc.ID))

	assert.ErrorIs(t, err, domain.ErrDocumentNotCompleted)
}

func TestDeliveryService_Create_DocumentFromOtherProject(t *testing.T) {
	svc, m := newDeliveryService(t)
	projectID := uuid.New()
	doc := completedDocument(uuid.New(), "")

	m.projectRepo.On("GetByID", mock.Anything, projectID).
		Return(&domain.Project{ID: projectID}, nil)
	m.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := svc.Create(context.Background(), confirmInput(projectID, doc.ID))

	assert.ErrorIs(t, err, domain.ErrDocumentNotProject)
}

func TestDeliveryService_Create_DecimalCommaQuantity(t *testing.T) {
	svc, m := newDeliveryService(t)
	projectID := uuid.New()
	doc := completedDocument(projectID, "")
	material := &domain.Material{ID: uuid.New(), Name: "Sand", Unit: "t"}

	m.projectRepo.On("GetByID", mock.Anything, projectID).
		Return(&domain.Project{ID: projectID}, nil)
	m.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	m.deliveryRepo.On("GetByDocumentID", mock.Anything, doc.ID).
		Return(nil, domain.ErrNotFound)
	m.materialRepo.On("GetByName", mock.Anything, "Sand").Return(material, nil)
	m.deliveryRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.MaterialDelivery) bool {
		return d.Items[0].Quantity == 12.5
	})).Return(nil)
	m.email.On("Send", mock.Anything, mock.Anything).Return(nil)

	input := confirmInput(projectID, doc.ID)
	input.Items = []domain.LineItem{{Name: "Sand", Quantity: "12,5", Unit: "t"}}

	_, err := svc.Create(context.Background(), input)

	assert.NoError(t, err)
	m.deliveryRepo.AssertExpectations(t)
}

func TestDeliveryService_Create_InvalidQuantity(t *testing.T) {
	for _, quantity := range []string{"", "abc", "0", "-5"} {
		svc, m := newDeliveryService(t)
		projectID := uuid.New()
		doc := completedDocument(projectID, "")

		m.projectRepo.On("GetByID", mock.Anything, projectID).
			Return(&domain.Project{ID: projectID}, nil)
		m.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
		m.deliveryRepo.On("GetByDocumentID", mock.Anything, doc.ID).
			Return(nil, domain.ErrNotFound)

		input := confirmInput(projectID, doc.ID)
		input.Items = []domain.LineItem{{Name: "Sand", Quantity: quantity, Unit: "t"}}

		_, err := svc.Create(context.Background(), input)

		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "quantity %q", quantity)
		m.deliveryRepo.AssertNotCalled(t, "Create")
	}
}

func TestDeliveryService_Create_BlankItemName(t *testing.T) {
	svc, m := newDeliveryService(t)
	projectID := uuid.New()
	doc := completedDocument(projectID, "")

	m.projectRepo.On("GetByID", mock.Anything, projectID).
		Return(&domain.Project{ID: projectID}, nil)
	m.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	m.deliveryRepo.On("GetByDocumentID", mock.Anything, doc.ID).
		Return(nil, domain.ErrNotFound)

	input := confirmInput(projectID, doc.ID)
	input.Items = []domain.LineItem{{Name: "   ", Quantity: "5", Unit: "t"}}

	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrItemNameMissing)
}

func TestDeliveryService_Create_NewMaterialRegistered(t *testing.T) {
	svc, m := newDeliveryService(t)
	projectID := uuid.New()
	doc := completedDocument(projectID, "")

	m.projectRepo.On("GetByID", mock.Anything, projectID).
		Return(&domain.Project{ID: projectID}, nil)
	m.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	m.deliveryRepo.On("GetByDocumentID", mock.Anything, doc.ID).
		Return(nil, domain.ErrNotFound)
	m.materialRepo.On("GetByName", mock.Anything, "Rebar A500C").
		Return(nil, domain.ErrNotFound)
	m.materialRepo.On("Create", mock.Anything, mock.MatchedBy(func(mat *domain.Material) bool {
		return mat.Name == "Rebar A500C" && mat.Unit == "t"
	})).Return(nil)
	m.deliveryRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.email.On("Send", mock.Anything, mock.Anything).Return(nil)

	input := confirmInput(projectID, doc.ID)
	input.Items = []domain.LineItem{{Name: "Rebar A500C", Quantity: "2", Unit: "t"}}

	_, err := svc.Create(context.Background(), input)

	assert.NoError(t, err)
	m.materialRepo.AssertExpectations(t)
}

func TestDeliveryService_Create_KeepsWaybillItemOrder(t *testing.T) {
	svc, m := newDeliveryService(t)
	projectID := uuid.New()
	doc := completedDocument(projectID, "")

	m.projectRepo.On("GetByID", mock.Anything, projectID).
		Return(&domain.Project{ID: projectID}, nil)
	m.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	m.deliveryRepo.On("GetByDocumentID", mock.Anything, doc.ID).
		Return(nil, domain.ErrNotFound)
	for _, name := range []string{"Sand", "Rebar A500C", "Cement M500"} {
		m.materialRepo.On("GetByName", mock.Anything, name).
			Return(&domain.Material{ID: uuid.New(), Name: name}, nil)
	}
	// Names are deliberately out of alphabetical order; the stored lines
	// carry the waybill position so reads cannot reorder them.
	m.deliveryRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.MaterialDelivery) bool {
		if len(d.Items) != 3 {
			return false
		}
		return d.Items[0].MaterialName == "Sand" && d.Items[0].LineNo == 0 &&
			d.Items[1].MaterialName == "Rebar A500C" && d.Items[1].LineNo == 1 &&
			d.Items[2].MaterialName == "Cement M500" && d.Items[2].LineNo == 2
	})).Return(nil)
	m.email.On("Send", mock.Anything, mock.Anything).Return(nil)

	input := confirmInput(projectID, doc.ID)
	input.Items = []domain.LineItem{
		{Name: "Sand", Quantity: "12,5", Unit: "t"},
		{Name: "Rebar A500C", Quantity: "2", Unit: "t"},
		{Name: "Cement M500", Quantity: "40", Unit: "bags"},
	}

	_, err := svc.Create(context.Background(), input)

	assert.NoError(t, err)
	m.deliveryRepo.AssertExpectations(t)
}

func TestDeliveryService_Create_NoItems(t *testing.T) {
	svc, m := newDeliveryService(t)
	projectID := uuid.New()
	doc := completedDocument(projectID, "")

	m.projectRepo.On("GetByID", mock.Anything, projectID).
		Return(&domain.Project{ID: projectID}, nil)
	m.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	m.deliveryRepo.On("GetByDocumentID", mock.Anything, doc.ID).
		Return(nil, domain.ErrNotFound)
	m.deliveryRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.MaterialDelivery) bool {
		return len(d.Items) == 0
	})).Return(nil)
	m.email.On("Send", mock.Anything, mock.Anything).Return(nil)

	input := confirmInput(projectID, doc.ID)
	input.Items = nil

	// A delivery note can arrive with nothing extractable; the bare record
	// is still registered.
	_, err := svc.Create(context.Background(), input)

	assert.NoError(t, err)
	m.materialRepo.AssertNotCalled(t, "GetByName")
	m.deliveryRepo.AssertExpectations(t)
}

func TestDeliveryService_Create_EmailFailureDoesNotFailDelivery(t *testing.T) {
	svc, m := newDeliveryService(t)
	projectID := uuid.New()
	doc := completedDocument(projectID, "")
	material := &domain.Material{ID: uuid.New(), Name: "Cement M500"}

	m.projectRepo.On("GetByID", mock.Anything, projectID).
		Return(&domain.Project{ID: projectID}, nil)
	m.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	m.deliveryRepo.On("GetByDocumentID", mock.Anything, doc.ID).
		Return(nil, domain.ErrNotFound)
	m.materialRepo.On("GetByName", mock.Anything, "Cement M500").Return(material, nil)
	m.deliveryRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.email.On("Send", mock.Anything, mock.Anything).Return(errors.New("ses throttled"))

	_, err := svc.Create(context.Background(), confirmInput(projectID, doc.ID))

	assert.NoError(t, err)
}

func TestDeliveryService_SuggestProject(t *testing.T) {
	svc, m := newDeliveryService(t)

	near := projectAt("Near site", 55.7560, 37.6175)
	far := projectAt("Far site", 59.9311, 30.3609)
	m.projectRepo.On("ListWithCoordinates", mock.Anything).
		Return([]domain.Project{far, near}, nil)

	project, distance, err := svc.SuggestProject(context.Background(), 55.7558, 37.6173)

	require.NoError(t, err)
	assert.Equal(t, "Near site", project.Name)
	assert.Less(t, distance, 100.0)
}

func TestDeliveryService_SuggestProject_NoCandidates(t *testing.T) {
	svc, m := newDeliveryService(t)

	m.projectRepo.On("ListWithCoordinates", mock.Anything).
		Return([]domain.Project{}, nil)

	_, _, err := svc.SuggestProject(context.Background(), 55.7558, 37.6173)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func projectAt(name string, lat, lon float64) domain.Project {
	return domain.Project{ID: uuid.New(), Name: name, Latitude: &lat, Longitude: &lon}
}
