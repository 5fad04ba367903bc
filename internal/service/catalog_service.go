package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/repository"
	"github.com/narama3535-tech/fazancloud/internal/sanitize"
	"github.com/narama3535-tech/fazancloud/internal/scrape"
	"github.com/narama3535-tech/fazancloud/internal/storage"
)

// seedProducts is the initial catalog installed on an empty store.
var seedProducts = []domain.Product{
	{
		ID:          "1",
		Name:        "Husky Premium - Ice Wolf",
		Description: "Ледяной арбуз с нотками мяты. Премиальная линейка, насыщенный вкус.",
		Price:       650,
		Category:    domain.CategoryLiquid,
		Image:       "https://images.unsplash.com/photo-1602153508753-4ace888c10a0?q=80&w=800&auto=format&fit=crop",
		InStock:     true,
		Stock:       50,
	},
	{
		ID:          "2",
		Name:        "XROS 3 Mini",
		Description: "Компактная POD-система с отличной вкусопередачей и мощным аккумулятором.",
		Price:       2100,
		Category:    domain.CategoryDevice,
		Image:       "https://images.unsplash.com/photo-1600863073099-2e707e781190?q=80&w=800&auto=format&fit=crop",
		InStock:     true,
		Stock:       15,
	},
	{
		ID:          "3",
		Name:        "Smoant Pasito 2",
		Description: "Легендарное устройство. Регулировка мощности, большой бак, стильный дизайн.",
		Price:       2900,
		Category:    domain.CategoryDevice,
		Image:       "https://images.unsplash.com/photo-1574921674465-9556a3575913?q=80&w=800&auto=format&fit=crop",
		InStock:     true,
		Stock:       8,
	},
	{
		ID:          "4",
		Name:        "Brusko - Ягодная Хвоя",
		Description: "Необычное сочетание лесных ягод и еловых ноток.",
		Price:       450,
		Category:    domain.CategoryLiquid,
		Image:       "https://images.unsplash.com/photo-1558652611-e40798198f26?q=80&w=800&auto=format&fit=crop",
		InStock:     true,
		Stock:       100,
	},
	{
		ID:          "5",
		Name:        "Charon Baby Plus",
		Description: "Обновленная версия популярного устройства. Сменные панели и улучшенная вкусопередача.",
		Price:       2500,
		Category:    domain.CategoryDevice,
		Image:       "https://images.unsplash.com/photo-1534125916361-b1e77f02d448?q=80&w=800&auto=format&fit=crop",
		InStock:     true,
		Stock:       20,
	},
	{
		ID:          "6",
		Name:        "Lost Mary 5000",
		Description: "Одноразовая ЭС с возможностью подзарядки. Вкус: Виноградный Энергетик.",
		Price:       950,
		Category:    domain.CategoryPod,
		Image:       "https://images.unsplash.com/photo-1517142089942-ba376ce32a2e?q=80&w=800&auto=format&fit=crop",
		InStock:     false,
		Stock:       0,
	},
	{
		ID:          "7",
		Name:        "Aegis Hero 2 (H45)",
		Description: "Защита от влаги и ударов, отличный вкус, компактный размер.",
		Price:       3200,
		Category:    domain.CategoryDevice,
		Image:       "https://images.unsplash.com/photo-1504194569462-22c8ce3f075d?q=80&w=800&auto=format&fit=crop",
		InStock:     true,
		Stock:       5,
	},
	{
		ID:          "8",
		Name:        "The Scandalist - Ex's Heart",
		Description: "Сочное сочетание киви и малины. Классика вейпинга.",
		Price:       800,
		Category:    domain.CategoryLiquid,
		Image:       "https://images.unsplash.com/photo-1527661591475-527312dd65f5?q=80&w=800&auto=format&fit=crop",
		InStock:     true,
		Stock:       30,
	},
}

// CatalogService handles product management.
type CatalogService struct {
	productRepo repository.ProductRepository
	images      storage.ImageStore
	scraper     *scrape.TelegramScraper
	audit       *AuditService
	logger      zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(productRepo repository.ProductRepository, images storage.ImageStore, scraper *scrape.TelegramScraper, audit *AuditService, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		images:      images,
		scraper:     scraper,
		audit:       audit,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// Seed installs the initial catalog if the store is empty.
func (s *CatalogService) Seed(ctx context.Context) error {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range seedProducts {
		p := seedProducts[i]
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := s.productRepo.Create(ctx, &p); err != nil {
			return fmt.Errorf("%w: failed to seed product '%s': %v", ErrInternalError, p.Name, err)
		}
	}

	s.logger.Info().Int("count", len(seedProducts)).Msg("catalog seeded")
	return nil
}

// List returns all products in insertion order.
func (s *CatalogService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return products, nil
}

// Get retrieves a product by ID.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return product, nil
}

// CreateProductInput contains the data needed to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    domain.Category
	Image       string
	InStock     bool
	Stock       int
}

// Create adds a product to the catalog.
func (s *CatalogService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        sanitize.Input(input.Name),
		Description: sanitize.Input(input.Description),
		Price:       input.Price,
		Category:    input.Category,
		Image:       input.Image,
		InStock:     input.InStock,
		Stock:       input.Stock,
	}

	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.audit.Record(ctx, domain.LogAction, "Товар добавлен: "+product.Name, "Admin", "")
	s.logger.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return product, nil
}

// Update replaces a product's fields.
func (s *CatalogService) Update(ctx context.Context, product *domain.Product) error {
	product.Name = sanitize.Input(product.Name)
	product.Description = sanitize.Input(product.Description)

	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return ErrProductNotFound
		}
		s.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to update product")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.audit.Record(ctx, domain.LogAction, "Товар обновлен: "+product.Name, "Admin", "")
	return nil
}

// Delete removes a product and its stored image.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := s.images.Delete(ctx, imageKey(id)); err != nil {
		s.logger.Warn().Err(err).Str("product_id", id).Msg("failed to delete product image")
	}

	s.audit.Record(ctx, domain.LogAction, "Товар удален: "+product.Name, "Admin", "")
	return nil
}

// SetImage stores an uploaded product photo and points the product at
// the internal image route.
func (s *CatalogService) SetImage(ctx context.Context, productID string, reader io.Reader, size int64, contentType string) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := s.images.Store(ctx, imageKey(productID), reader, size, contentType); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to store product image")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	product.Image = "/api/products/" + productID + "/image"
	if err := s.productRepo.Update(ctx, product); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.audit.Record(ctx, domain.LogAction, "Фото товара обновлено: "+product.Name, "Admin", "")
	return nil
}

// GetImage opens the stored photo for a product.
func (s *CatalogService) GetImage(ctx context.Context, productID string) (io.ReadCloser, string, error) {
	body, contentType, err := s.images.Retrieve(ctx, imageKey(productID))
	if err != nil {
		if errors.Is(err, storage.ErrImageNotFound) {
			return nil, "", ErrProductNotFound
		}
		return nil, "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return body, contentType, nil
}

// ImportTelegramImage scrapes a t.me post preview and uses it as the
// product photo.
func (s *CatalogService) ImportTelegramImage(ctx context.Context, productID, postURL string) (string, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return "", ErrProductNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	imageURL, err := s.scraper.ExtractImage(ctx, postURL)
	if err != nil {
		return "", err
	}

	product.Image = imageURL
	if err := s.productRepo.Update(ctx, product); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.audit.Record(ctx, domain.LogAction, "Фото товара импортировано из Telegram: "+product.Name, "Admin", postURL)
	return imageURL, nil
}

// imageKey is the storage key for a product photo.
func imageKey(productID string) string {
	return "products/" + productID + ".jpg"
}
