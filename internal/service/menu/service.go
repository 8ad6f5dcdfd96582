package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/comanda-app/comanda/internal/cache"
	"github.com/comanda-app/comanda/internal/config"
	"github.com/comanda-app/comanda/internal/entity"
	productrepo "github.com/comanda-app/comanda/internal/repository/product"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/comanda-app/comanda/service/menu")

// AllCategories is the sentinel clients send to skip category filtering.
const AllCategories = "all"

// CachePrefix prefixes every cached menu variant. Catalog writers flush the
// whole prefix after a change.
const CachePrefix = "menu:"

// Item is a menu entry as shown to diners.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Image       string  `json:"image,omitempty"`
}

// Menu groups available items by category.
type Menu struct {
	Groups     map[string][]Item `json:"menu"`
	Categories []string          `json:"categories"`
}

// Service answers read-only menu queries for the diner-facing client.
type Service struct {
	products *productrepo.Repository
	cache    cache.Store
	cacheTTL time.Duration
	currency string
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Products *productrepo.Repository
	Cache    cache.Store
	Config   config.Config
	Logger   *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		products: p.Products,
		cache:    p.Cache,
		cacheTTL: p.Config.Cache.DefaultTTL,
		currency: p.Config.Restaurant.Currency,
		logger:   p.Logger,
	}
}

// Query returns available products matching the filters, grouped by category.
// The category "all" (or empty) matches every category; search is a
// case-insensitive substring match on the product name. Results are cached
// briefly since diners hammer this endpoint while browsing.
func (s *Service) Query(ctx context.Context, category, search string) (*Menu, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Query", trace.WithAttributes(
		attribute.String("menu.category", category),
		attribute.String("menu.search", search),
	))
	defer span.End()

	if strings.EqualFold(category, AllCategories) {
		category = ""
	}
	search = strings.TrimSpace(search)

	key := s.cacheKey(category, search)
	if menu, err := s.getFromCache(ctx, key); err == nil {
		return menu, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		if s.logger != nil {
			s.logger.Warn("menu cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	products, err := s.products.ListAvailable(ctx, category, search)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load menu", errorbank.WithCause(err))
	}

	menu := groupProducts(products, s.currency)
	if err := s.storeInCache(ctx, key, menu); err != nil {
		if s.logger != nil {
			s.logger.Warn("menu cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return menu, nil
}

// Categories lists the distinct categories with at least one available
// product.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Categories")
	defer span.End()

	categories, err := s.products.Categories(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load categories", errorbank.WithCause(err))
	}
	return categories, nil
}

// groupProducts folds a category-and-name-sorted product slice into the
// grouped menu shape, preserving the sorted order within each category.
func groupProducts(products []*entity.Product, currency string) *Menu {
	menu := &Menu{Groups: make(map[string][]Item)}
	for _, p := range products {
		category := p.Category
		if category == "" {
			category = entity.DefaultCategory
		}
		if _, ok := menu.Groups[category]; !ok {
			menu.Categories = append(menu.Categories, category)
		}
		menu.Groups[category] = append(menu.Groups[category], Item{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Currency:    currency,
			Category:    category,
			Image:       p.ImagePath,
		})
	}
	sort.Strings(menu.Categories)
	return menu
}

func (s *Service) cacheKey(category, search string) string {
	return fmt.Sprintf("%s%s:%s", CachePrefix, strings.ToLower(category), strings.ToLower(search))
}

func (s *Service) getFromCache(ctx context.Context, key string) (*Menu, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var menu Menu
	if err := json.Unmarshal(bytes, &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

func (s *Service) storeInCache(ctx context.Context, key string, menu *Menu) error {
	if s.cache == nil || menu == nil {
		return nil
	}
	bytes, err := json.Marshal(menu)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, bytes, s.cacheTTL)
}
