package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository"
	"github.com/SankThomas/helpdesk/internal/storage"
)

const presignTTL = 15 * time.Minute

type AttachmentService struct {
	attachments repository.AttachmentRepository
	tickets     repository.TicketRepository
	store       storage.Provider
	log         zerolog.Logger
}

func NewAttachmentService(attachments repository.AttachmentRepository, tickets repository.TicketRepository, store storage.Provider, log zerolog.Logger) *AttachmentService {
	return &AttachmentService{attachments: attachments, tickets: tickets, store: store, log: log}
}

func (s *AttachmentService) ticketForViewer(ctx context.Context, actor *models.User, ticketID string) (*models.Ticket, error) {
	t, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if !CanViewTicket(actor, t) {
		return nil, ErrForbidden
	}
	return t, nil
}

// UploadTarget is handed to the browser, which PUTs the bytes directly to
// URL and then registers the attachment under Key.
type UploadTarget struct {
	Key string `json:"storageKey"`
	URL string `json:"uploadUrl"`
}

func (s *AttachmentService) NewUploadTarget(ctx context.Context, actor *models.User, ticketID, fileName string) (*UploadTarget, error) {
	if _, err := s.ticketForViewer(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: fileName is required", ErrInvalid)
	}
	key := storage.NewKey(ticketID, fileName)
	url, err := s.store.PresignUpload(ctx, key, presignTTL)
	if err != nil {
		return nil, err
	}
	return &UploadTarget{Key: key, URL: url}, nil
}

// Attach records the metadata for a blob the client already uploaded.
func (s *AttachmentService) Attach(ctx context.Context, actor *models.User, ticketID, storageKey, fileName string, size int64, now time.Time) (*models.Attachment, error) {
	if _, err := s.ticketForViewer(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" || strings.TrimSpace(storageKey) == "" {
		return nil, fmt.Errorf("%w: fileName and storageKey are required", ErrInvalid)
	}

	a := &models.Attachment{
		TicketID:   ticketID,
		UploaderID: actor.ID,
		FileName:   fileName,
		Size:       size,
		StorageKey: storageKey,
		CreatedAt:  now,
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		return nil, err
	}
	a.UploaderName = actor.Name
	return a, nil
}

func (s *AttachmentService) ListForTicket(ctx context.Context, actor *models.User, ticketID string) ([]models.Attachment, error) {
	if _, err := s.ticketForViewer(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	items, err := s.attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		url, err := s.store.PresignDownload(ctx, items[i].StorageKey, presignTTL)
		if err != nil {
			s.log.Error().Err(err).Str("attachment", items[i].ID).Msg("presign download failed")
			continue
		}
		items[i].FileURL = url
	}
	return items, nil
}

// Delete is allowed for the uploader, the ticket's assigned agent, or an
// admin. The blob itself is removed best-effort after the record.
func (s *AttachmentService) Delete(ctx context.Context, actor *models.User, id string) error {
	a, err := s.attachments.Get(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNotFound
	}

	allowed := actor.Role == models.RoleAdmin || a.UploaderID == actor.ID
	if !allowed {
		t, err := s.tickets.Get(ctx, a.TicketID)
		if err != nil {
			return err
		}
		allowed = t != nil && t.AssigneeID != "" && t.AssigneeID == actor.ID
	}
	if !allowed {
		return ErrForbidden
	}

	if err := s.attachments.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, a.StorageKey); err != nil {
		s.log.Error().Err(err).Str("key", a.StorageKey).Msg("blob delete failed")
	}
	return nil
}
