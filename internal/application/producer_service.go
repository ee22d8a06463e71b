package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	repo "github.com/oksasatya/farm-registry/internal/domain/repository"
	"github.com/oksasatya/farm-registry/internal/domain/shared"
	"github.com/oksasatya/farm-registry/pkg/document"
	"github.com/oksasatya/farm-registry/pkg/fieldcrypt"
	"github.com/oksasatya/farm-registry/pkg/query"
)

const (
	msgProducerNotFound  = "producer not found"
	msgInvalidDocument   = "invalid CPF/CNPJ"
	msgDuplicateDocument = "a producer with this CPF/CNPJ already exists"
	msgEncryptedOrder    = "cannot order by cpfCnpj while documents are encrypted"
)

type ProducerService struct {
	Repo   repo.ProducerRepository
	Codec  fieldcrypt.Codec
	Events EventPublisher
	Logger *logrus.Logger
}

func NewProducerService(r repo.ProducerRepository, codec fieldcrypt.Codec, events EventPublisher, logger *logrus.Logger) *ProducerService {
	return &ProducerService{Repo: r, Codec: codec, Events: events, Logger: logger}
}

type CreateProducerInput struct {
	CPFCNPJ string
	Name    string
}

// UpdateProducerInput is a partial update; nil fields are left unchanged.
type UpdateProducerInput struct {
	CPFCNPJ *string
	Name    *string
}

type ProducerFilter struct {
	Name    string
	CPFCNPJ string
	Orders  map[string]string
	Page    int
	Limit   int
}

func (s *ProducerService) recorder() recorder {
	return recorder{events: s.Events, logger: s.Logger}
}

// checkedDocument normalizes doc and verifies its check digits.
func checkedDocument(doc string) (string, error) {
	doc = document.Normalize(doc)
	if !document.IsValid(doc) {
		return "", shared.NewValidation(msgInvalidDocument)
	}
	return doc, nil
}

func (s *ProducerService) Create(ctx context.Context, in CreateProducerInput) (*entity.Producer, error) {
	doc, err := checkedDocument(in.CPFCNPJ)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, shared.NewValidation("name is required")
	}
	stored, err := s.Codec.Encrypt(doc)
	if err != nil {
		return nil, shared.Wrap(err, "encrypt producer document")
	}

	p := &entity.Producer{CPFCNPJ: stored, DocumentDigest: s.Codec.Digest(doc), Name: name}
	if err := s.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, shared.NewConflict(msgDuplicateDocument)
		}
		return nil, shared.Wrap(err, "create producer")
	}
	p.CPFCNPJ = doc
	s.recorder().publish(ctx, "producer.created", "producer", p.ID, map[string]any{"name": p.Name})
	return p, nil
}

// Filter pages through live producers. The document filter is an exact
// match and is compared by digest, so it works with encryption enabled.
// Filter pages through live producers. Ciphertext has no useful order, so the
// cpfCnpj order is refused while encryption is on.
func (s *ProducerService) Filter(ctx context.Context, f ProducerFilter) (query.Page[entity.Producer], error) {
	if _, ok := f.Orders["cpfCnpj"]; ok && s.Codec.Enabled() {
		return query.Page[entity.Producer]{}, shared.NewValidation(msgEncryptedOrder)
	}
	filters := map[string]string{"name": f.Name}
	if doc := document.Normalize(strings.TrimSpace(f.CPFCNPJ)); doc != "" {
		filters["cpfCnpj"] = s.Codec.Digest(doc)
	}
	items, total, err := s.Repo.Filter(ctx, query.Request{Filters: filters, Orders: f.Orders, Page: f.Page, Limit: f.Limit})
	if err != nil {
		return query.Page[entity.Producer]{}, filterError(err, "producers")
	}
	for i := range items {
		if err := s.reveal(&items[i]); err != nil {
			return query.Page[entity.Producer]{}, err
		}
	}
	return query.NewPage(items, total, f.Page, f.Limit), nil
}

func (s *ProducerService) FindOne(ctx context.Context, id string) (*entity.Producer, error) {
	if !validID(id) {
		return nil, shared.NewNotFound(msgProducerNotFound)
	}
	p, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, shared.NewNotFound(msgProducerNotFound)
		}
		return nil, shared.Wrap(err, "load producer")
	}
	if p.IsDeleted() {
		return nil, shared.NewNotFound(msgProducerNotFound)
	}
	if err := s.reveal(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProducerService) Update(ctx context.Context, id string, in UpdateProducerInput) (*entity.Producer, error) {
	var doc string
	if in.CPFCNPJ != nil {
		d, err := checkedDocument(*in.CPFCNPJ)
		if err != nil {
			return nil, err
		}
		doc = d
	}
	p, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CPFCNPJ != nil {
		p.CPFCNPJ = doc
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, shared.NewValidation("name cannot be empty")
		}
		p.Name = name
	}

	plain := p.CPFCNPJ
	stored, err := s.Codec.Encrypt(plain)
	if err != nil {
		return nil, shared.Wrap(err, "encrypt producer document")
	}
	p.CPFCNPJ = stored
	p.DocumentDigest = s.Codec.Digest(plain)
	if err := s.Repo.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, shared.NewNotFound(msgProducerNotFound)
		case errors.Is(err, repo.ErrDuplicate):
			return nil, shared.NewConflict(msgDuplicateDocument)
		}
		return nil, shared.Wrap(err, "update producer")
	}
	p.CPFCNPJ = plain
	s.recorder().publish(ctx, "producer.updated", "producer", p.ID, map[string]any{"name": p.Name})
	return p, nil
}

// Remove soft-deletes the producer and returns it with DeletedAt set. Its
// properties are left untouched.
func (s *ProducerService) Remove(ctx context.Context, id string) (*entity.Producer, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}
	p, err := s.Repo.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, shared.NewNotFound(msgProducerNotFound)
		}
		return nil, shared.Wrap(err, "delete producer")
	}
	if err := s.reveal(p); err != nil {
		return nil, err
	}
	s.recorder().publish(ctx, "producer.deleted", "producer", p.ID, nil)
	return p, nil
}

// reveal replaces the stored document with its plaintext.
func (s *ProducerService) reveal(p *entity.Producer) error {
	return revealProducer(s.Codec, p)
}

func revealProducer(codec fieldcrypt.Codec, p *entity.Producer) error {
	if p == nil {
		return nil
	}
	plain, err := codec.Decrypt(p.CPFCNPJ)
	if err != nil {
		return shared.Wrap(err, "decrypt producer document")
	}
	p.CPFCNPJ = plain
	return nil
}
