package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/export"
	"github.com/KoTeHok22/Locus-sub001/internal/geo"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

// ConfirmDeliveryInput is the DTO for registering a confirmed delivery from a
// recognized delivery note.
type ConfirmDeliveryInput struct {
	ProjectID    uuid.UUID
	DocumentID   uuid.UUID
	ForemanID    uuid.UUID
	Items        []domain.LineItem
	DeliveryDate *time.Time
	Latitude     *float64
	Longitude    *float64
}

// DeliveryService defines the material delivery contract.
type DeliveryService interface {
	// Create registers the delivery. One document yields at most one
	// delivery; a second confirmation returns ErrDeliveryExists.
	Create(ctx context.Context, input *ConfirmDeliveryInput) (*domain.MaterialDelivery, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, offset, limit int) ([]domain.MaterialDelivery, int, error)

	// ExportReport renders the project's delivery log as an xlsx workbook.
	ExportReport(ctx context.Context, projectID uuid.UUID) ([]byte, error)

	// SuggestProject returns the project whose site is closest to the given
	// position, with the distance in meters.
	SuggestProject(ctx context.Context, latitude, longitude float64) (*domain.Project, float64, error)
}

type deliveryService struct {
	deliveryRepo port.DeliveryRepository
	docRepo      port.DocumentRepository
	projectRepo  port.ProjectRepository
	materialRepo port.MaterialRepository
	email        port.EmailSender
	managerTo    string
}

// NewDeliveryService creates a new DeliveryService implementation.
func NewDeliveryService(
	deliveryRepo port.DeliveryRepository,
	docRepo port.DocumentRepository,
	projectRepo port.ProjectRepository,
	materialRepo port.MaterialRepository,
	email port.EmailSender,
	managerTo string,
) DeliveryService {
	return &deliveryService{
		deliveryRepo: deliveryRepo,
		docRepo:      docRepo,
		projectRepo:  projectRepo,
		materialRepo: materialRepo,
		email:        email,
		managerTo:    managerTo,
	}
}

func (s *deliveryService) Create(ctx context.Context, input *ConfirmDeliveryInput) (*domain.MaterialDelivery, error) {
	project, err := s.projectRepo.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.ProjectID != input.ProjectID {
		return nil, domain.ErrDocumentNotProject
	}
	if doc.RecognitionStatus != domain.RecognitionStatusCompleted {
		return nil, domain.ErrDocumentNotCompleted
	}

	if _, err := s.deliveryRepo.GetByDocumentID(ctx, input.DocumentID); err == nil {
		return nil, domain.ErrDeliveryExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking for existing delivery: %w", err)
	}

	items, err := s.resolveItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	deliveryDate := time.Now().UTC()
	if input.DeliveryDate != nil {
		deliveryDate = *input.DeliveryDate
	} else if d, ok := documentDate(doc.RecognizedData); ok {
		deliveryDate = d
	}

	delivery := &domain.MaterialDelivery{
		ID:           uuid.New(),
		ProjectID:    input.ProjectID,
		DocumentID:   input.DocumentID,
		ForemanID:    input.ForemanID,
		DeliveryDate: deliveryDate,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Items:        items,
	}

	if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
		return nil, fmt.Errorf("creating delivery: %w", err)
	}

	log.Printf("deliveryService.Create: delivery %s registered for project %s (%d items)",
		delivery.ID, input.ProjectID, len(items))

	s.notifyManager(ctx, project, delivery)
	return delivery, nil
}

func (s *deliveryService) ListByProject(ctx context.Context, projectID uuid.UUID, offset, limit int) ([]domain.MaterialDelivery, int, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, 0, err
	}
	return s.deliveryRepo.ListByProject(ctx, projectID, offset, limit)
}

func (s *deliveryService) ExportReport(ctx context.Context, projectID uuid.UUID) ([]byte, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	deliveries, _, err := s.deliveryRepo.ListByProject(ctx, projectID, 0, 10000)
	if err != nil {
		return nil, err
	}
	return export.DeliveryReport(project, deliveries)
}

func (s *deliveryService) SuggestProject(ctx context.Context, latitude, longitude float64) (*domain.Project, float64, error) {
	projects, err := s.projectRepo.ListWithCoordinates(ctx)
	if err != nil {
		return nil, 0, err
	}
	if len(projects) == 0 {
		return nil, 0, domain.ErrProjectNotFound
	}

	var nearest *domain.Project
	best := 0.0
	for i := range projects {
		p := &projects[i]
		d := geo.Distance(latitude, longitude, *p.Latitude, *p.Longitude)
		if nearest == nil || d < best {
			nearest = p
			best = d
		}
	}
	return nearest, best, nil
}

// resolveItems validates the confirmed lines and maps each one to a catalog
// material, creating catalog entries on first sight of a name.
func (s *deliveryService) resolveItems(ctx context.Context, items []domain.LineItem) ([]domain.MaterialDeliveryItem, error) {
	resolved := make([]domain.MaterialDeliveryItem, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, domain.ErrItemNameMissing
		}
		quantity, err := parseQuantity(item.Quantity)
		if err != nil {
			return nil, err
		}

		material, err := s.materialRepo.GetByName(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			material = &domain.Material{
				ID:   uuid.New(),
				Name: name,
				Unit: strings.TrimSpace(item.Unit),
			}
			if err := s.materialRepo.Create(ctx, material); err != nil {
				return nil, fmt.Errorf("creating material %q: %w", name, err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("looking up material %q: %w", name, err)
		}

		resolved = append(resolved, domain.MaterialDeliveryItem{
			ID:           uuid.New(),
			MaterialID:   material.ID,
			MaterialName: name,
			Unit:         strings.TrimSpace(item.Unit),
			Quantity:     quantity,
			LineNo:       len(resolved),
		})
	}
	return resolved, nil
}

func (s *deliveryService) notifyManager(ctx context.Context, project *domain.Project, delivery *domain.MaterialDelivery) {
	if s.email == nil || s.managerTo == "" {
		return
	}

	var lines []string
	for _, item := range delivery.Items {
		lines = append(lines, fmt.Sprintf("  - %s: %g %s", item.MaterialName, item.Quantity, item.Unit))
	}
	body := fmt.Sprintf("A material delivery was registered for %s on %s.\n\nItems:\n%s\n",
		project.Name, delivery.DeliveryDate.Format("02.01.2006"), strings.Join(lines, "\n"))

	if err := s.email.Send(ctx, port.EmailMessage{
		To:       s.managerTo,
		Subject:  fmt.Sprintf("New material delivery: %s", project.Name),
		BodyText: body,
	}); err != nil {
		log.Printf("deliveryService.notifyManager: sending notification for %s failed: %v", delivery.ID, err)
	}
}

// parseQuantity parses a quantity as entered on a waybill. Russian documents
// use a decimal comma, so both "12.5" and "12,5" are accepted.
func parseQuantity(raw string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	q, err := strconv.ParseFloat(normalized, 64)
	if err != nil || q <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	return q, nil
}

// documentDate pulls the delivery date from the first recognized document
// when the foreman did not set one explicitly.
func documentDate(data domain.RecognizedData) (time.Time, bool) {
	if len(data) == 0 || data[0].DocumentDate == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"02.01.2006", "2006-01-02"} {
		if d, err := time.Parse(layout, data[0].DocumentDate); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
