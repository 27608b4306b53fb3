package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a construction site tracked by the system.
type Project struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Latitude  *float64  `db:"latitude" json:"latitude"`
	Longitude *float64  `db:"longitude" json:"longitude"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user (foreman, manager, or inspector).
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Document represents an uploaded delivery note (TTN) scan and the outcome of
// its asynchronous recognition job.
type Document struct {
	ID                uuid.UUID         `db:"id" json:"id"`
	ProjectID         uuid.UUID         `db:"project_id" json:"project_id"`
	UploaderID        uuid.UUID         `db:"uploader_id" json:"uploader_id"`
	FileName          string            `db:"file_name" json:"file_name"`
	ContentType       string            `db:"content_type" json:"content_type"`
	FileSize          int64             `db:"file_size" json:"file_size"`
	S3Bucket          string            `db:"s3_bucket" json:"-"`
	S3Key             string            `db:"s3_key" json:"-"`
	RecognitionStatus RecognitionStatus `db:"recognition_status" json:"recognition_status"`
	RecognitionError  string            `db:"recognition_error" json:"recognition_error,omitempty"`
	RecognizedData    RecognizedData    `db:"recognized_data" json:"recognized_data,omitempty"`
	RecognizeAttempts int               `db:"recognize_attempts" json:"-"`
	RecognizedAt      *time.Time        `db:"recognized_at" json:"recognized_at,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// RecognizedDocument is one logical shipping note extracted from a scan. A
// single physical scan may contain several of them.
type RecognizedDocument struct {
	DocumentNumber  string     `json:"document_number,omitempty"`
	DocumentDate    string     `json:"document_date,omitempty"`
	Sender          string     `json:"sender,omitempty"`
	Recipient       string     `json:"recipient,omitempty"`
	Carrier         string     `json:"carrier,omitempty"`
	ShippingAddress string     `json:"shipping_address,omitempty"`
	DeliveryAddress string     `json:"delivery_address,omitempty"`
	Items           []LineItem `json:"items"`
}

// LineItem is one material entry on a shipping note. Quantity stays textual
// while the item is being edited and is parsed when a delivery is confirmed.
type LineItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// RecognitionResult is the status payload for one recognition job as exposed
// by the API and consumed by the workflow poller.
type RecognitionResult struct {
	DocumentID     uuid.UUID         `json:"document_id"`
	Status         RecognitionStatus `json:"recognition_status"`
	RecognizedData RecognizedData    `json:"recognized_data,omitempty"`
}

// Material is a catalog entry deduplicated by name across deliveries.
type Material struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Unit      string    `db:"unit" json:"unit"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MaterialDelivery is the persisted result of confirming a recognized TTN
// against a project.
type MaterialDelivery struct {
	ID           uuid.UUID              `db:"id" json:"id"`
	ProjectID    uuid.UUID              `db:"project_id" json:"project_id"`
	DocumentID   uuid.UUID              `db:"document_id" json:"document_id"`
	ForemanID    uuid.UUID              `db:"foreman_id" json:"foreman_id"`
	DeliveryDate time.Time              `db:"delivery_date" json:"delivery_date"`
	Latitude     *float64               `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64               `db:"longitude" json:"longitude,omitempty"`
	CreatedAt    time.Time              `db:"created_at" json:"created_at"`
	Items        []MaterialDeliveryItem `db:"-" json:"items,omitempty"`
}

// MaterialDeliveryItem is one confirmed line of a delivery.
type MaterialDeliveryItem struct {
	ID           uuid.UUID `db:"id" json:"id"`
	DeliveryID   uuid.UUID `db:"delivery_id" json:"delivery_id"`
	MaterialID   uuid.UUID `db:"material_id" json:"material_id"`
	MaterialName string    `db:"material_name" json:"material_name"`
	Unit         string    `db:"unit" json:"unit"`
	Quantity     float64   `db:"quantity" json:"quantity"`
	// LineNo is the item's position on the waybill; reads preserve it.
	LineNo int `db:"line_no" json:"line_no"`
}
