package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"salesorder-service/internal/catalog"
	"salesorder-service/internal/domain"
	"salesorder-service/internal/infra"
	"salesorder-service/internal/infra/pdf"
	rabbit "salesorder-service/internal/infra/rabbitmq"
	"salesorder-service/internal/infra/rediscache"
	"salesorder-service/internal/infra/storage"
	"salesorder-service/internal/normalize"
	"salesorder-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const ordersListKey = "orders:all"

func orderKey(id uint64) string {
	return fmt.Sprintf("orders:%d", id)
}

type OrderService struct {
	repo       repository.OrderRepository
	extractor  infra.ExtractionClientInterface
	matcher    infra.MatchingClientInterface
	catalog    catalog.ReaderInterface
	files      storage.FileStoreInterface
	publisher  rabbit.PublisherInterface
	cache      rediscache.CacheInterface
	cacheTTL   time.Duration
	normalizer normalize.Normalizer
	countPages func([]byte) (int, error)
	now        func() time.Time
	logger     *zap.Logger
}

func NewOrderService(
	r repository.OrderRepository,
	extractor infra.ExtractionClientInterface,
	matcher infra.MatchingClientInterface,
	cat catalog.ReaderInterface,
	files storage.FileStoreInterface,
	pub rabbit.PublisherInterface,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		repo:       r,
		extractor:  extractor,
		matcher:    matcher,
		catalog:    cat,
		files:      files,
		publisher:  pub,
		countPages: pdf.PageCount,
		now:        time.Now,
		logger:     logger.Named("order_service"),
	}
}

func (u *OrderService) SetCache(cache rediscache.CacheInterface, ttl time.Duration) {
	u.cache = cache
	u.cacheTTL = ttl
}

func (u *OrderService) SetNormalizer(n normalize.Normalizer) {
	u.normalizer = n
}

type IngestResult struct {
	ID               uint64                 `json:"id"`
	Filename         string                 `json:"filename"`
	OriginalFilename string                 `json:"original_filename"`
	ExtractedData    []domain.ExtractedItem `json:"extracted_data"`
	MatchedItems     []MatchedItem          `json:"matched_items"`
}

type MatchedItem struct {
	LineItem       domain.ExtractedItem `json:"line_item"`
	CatalogMatchID *string              `json:"catalog_match_id"`
	CatalogMatch   *domain.CatalogItem  `json:"catalog_match"`
	Confidence     float64              `json:"confidence"`
}

type OrderDetail struct {
	Order     domain.Order      `json:"order"`
	LineItems []domain.LineItem `json:"line_items"`
}

// LineItemFields is the full set of user-editable line item values.
type LineItemFields struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// Ingest runs an uploaded PDF through extraction and matching and persists the result.
// The order is stored before matching, so a matching failure leaves an order without items.
func (u *OrderService) Ingest(ctx context.Context, content []byte, originalName string) (*IngestResult, error) {
	if !strings.EqualFold(filepath.Ext(originalName), ".pdf") {
		return nil, domain.ErrInvalidFileType
	}
	log := u.logger.With(zap.String("original_filename", originalName))

	storedName := u.storedName(originalName)
	if err := u.files.Save(storedName, content); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	defer func() {
		if err := u.files.Remove(storedName); err != nil {
			log.Warn("could not delete uploaded file", zap.String("filename", storedName), zap.Error(err))
		}
	}()

	pages, err := u.countPages(content)
	if err != nil {
		log.Warn("could not read page count", zap.Error(err))
	}

	log.Info("calling extraction API", zap.Int("bytes", len(content)))
	rows, err := u.extractor.Extract(ctx, originalName, content)
	if err != nil {
		log.Error("extraction failed", zap.Error(err))
		return nil, err
	}

	items := u.normalizeRows(rows, log)
	if len(items) == 0 {
		return nil, domain.ErrNoValidItems
	}
	log.Info("rows normalized", zap.Int("extracted", len(rows)), zap.Int("valid", len(items)))

	order := &domain.Order{
		Filename:         storedName,
		OriginalFilename: originalName,
		PageCount:        pages,
		Status:           domain.StatusPending,
		CreatedAt:        u.now(),
	}
	if err := u.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	u.invalidate(ctx, ordersListKey)
	log = log.With(zap.Uint64("order_id", order.ID))

	descriptions := make([]string, len(items))
	for i, item := range items {
		descriptions[i] = item.Description
	}
	matches, err := u.matcher.MatchBatch(ctx, descriptions)
	if err != nil {
		log.Error("batch matching failed", zap.Error(err))
		return nil, err
	}

	lineItems := make([]*domain.LineItem, 0, len(items))
	matched := make([]MatchedItem, 0, len(items))
	matchedCount := 0
	for _, item := range items {
		li, mi := u.buildLineItem(ctx, order.ID, item, matches[item.Description], log)
		if li.CatalogMatchID != nil {
			matchedCount++
		}
		lineItems = append(lineItems, li)
		matched = append(matched, mi)
	}

	if err := u.repo.SaveLineItems(ctx, lineItems); err != nil {
		return nil, err
	}
	u.invalidate(ctx, orderKey(order.ID))
	log.Info("order ingested", zap.Int("line_items", len(lineItems)), zap.Int("matched", matchedCount))

	go u.publish(domain.EventOrderCreated, domain.OrderCreatedEvent{
		OrderID:          order.ID,
		Filename:         order.Filename,
		OriginalFilename: order.OriginalFilename,
		LineItemCount:    len(lineItems),
		MatchedCount:     matchedCount,
		CreatedAt:        order.CreatedAt,
	})

	return &IngestResult{
		ID:               order.ID,
		Filename:         storedName,
		OriginalFilename: originalName,
		ExtractedData:    items,
		MatchedItems:     matched,
	}, nil
}

func (u *OrderService) storedName(originalName string) string {
	return fmt.Sprintf("%s_%s_%s",
		u.now().Format("20060102_150405"),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		filepath.Base(originalName))
}

func (u *OrderService) normalizeRows(rows []map[string]any, log *zap.Logger) []domain.ExtractedItem {
	items := make([]domain.ExtractedItem, 0, len(rows))
	for i, row := range rows {
		item, err := u.normalizer.Normalize(row)
		if err != nil {
			log.Warn("skipping extracted row", zap.Int("row", i), zap.Any("data", row), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items
}

// buildLineItem takes the first candidate as the best match.
func (u *OrderService) buildLineItem(ctx context.Context, orderID uint64, item domain.ExtractedItem, candidates []infra.MatchCandidate, log *zap.Logger) (*domain.LineItem, MatchedItem) {
	li := &domain.LineItem{
		SalesOrderID: orderID,
		Description:  item.Description,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		TotalPrice:   item.TotalPrice,
		Status:       domain.LineItemPending,
	}
	mi := MatchedItem{LineItem: item}

	if len(candidates) == 0 {
		zero := 0.0
		li.ConfidenceScore = &zero
		return li, mi
	}

	best := candidates[0]
	score := best.Score
	li.ConfidenceScore = &score
	mi.Confidence = score

	catalogItem := u.resolveCatalogItem(ctx, best.Match, log)
	li.SetMatch(best.Match, matchData(best.Match, catalogItem))
	mi.CatalogMatchID = li.CatalogMatchID
	mi.CatalogMatch = catalogItem
	return li, mi
}

// resolveCatalogItem looks a match key up by display name, then by composite id.
// Catalog failures only cost the metadata.
func (u *OrderService) resolveCatalogItem(ctx context.Context, key string, log *zap.Logger) *domain.CatalogItem {
	item, err := u.catalog.FindByName(ctx, key)
	if err == nil && item == nil {
		item, err = u.catalog.FindByID(ctx, key)
	}
	if err != nil {
		log.Warn("error finding catalog item", zap.String("match", key), zap.Error(err))
		return nil
	}
	return item
}

func matchData(key string, item *domain.CatalogItem) domain.CatalogMatch {
	if item != nil {
		return item.Match()
	}
	return domain.CatalogMatch{ID: key, Name: key, Description: key}
}

func (u *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var cached []domain.Order
	if u.cacheGet(ctx, ordersListKey, &cached) {
		return cached, nil
	}

	orders, err := u.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	u.cacheSet(ctx, ordersListKey, orders)
	return orders, nil
}

func (u *OrderService) GetOrder(ctx context.Context, id uint64) (*OrderDetail, error) {
	var cached OrderDetail
	if u.cacheGet(ctx, orderKey(id), &cached) {
		return &cached, nil
	}

	o, err := u.repo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}

	items, err := u.repo.ListLineItems(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{Order: *o, LineItems: items}
	u.cacheSet(ctx, orderKey(id), detail)
	return detail, nil
}

// UpdateMatch records a manually confirmed catalog match and marks the item verified.
func (u *OrderService) UpdateMatch(ctx context.Context, orderID, lineItemID uint64, catalogItemID string) (*domain.LineItem, error) {
	li, err := u.findLineItem(ctx, orderID, lineItemID)
	if err != nil {
		return nil, err
	}

	log := u.logger.With(zap.Uint64("order_id", orderID), zap.Uint64("line_item_id", lineItemID))
	li.SetMatch(catalogItemID, matchData(catalogItemID, u.resolveCatalogItem(ctx, catalogItemID, log)))
	li.Status = domain.LineItemVerified

	if err := u.repo.UpdateLineItem(ctx, li); err != nil {
		return nil, err
	}
	u.invalidate(ctx, orderKey(orderID))
	log.Info("match updated", zap.String("catalog_item_id", catalogItemID))

	go u.publish(domain.EventLineItemVerified, u.lineItemEvent(li))
	return li, nil
}

// UpdateLineItem overwrites all editable fields of a line item.
func (u *OrderService) UpdateLineItem(ctx context.Context, orderID, lineItemID uint64, fields LineItemFields) (*domain.LineItem, error) {
	li, err := u.findLineItem(ctx, orderID, lineItemID)
	if err != nil {
		return nil, err
	}

	li.Description = fields.Description
	li.Quantity = fields.Quantity
	li.UnitPrice = fields.UnitPrice
	li.TotalPrice = fields.TotalPrice

	if err := u.repo.UpdateLineItem(ctx, li); err != nil {
		return nil, err
	}
	u.invalidate(ctx, orderKey(orderID))

	go u.publish(domain.EventLineItemUpdated, u.lineItemEvent(li))
	return li, nil
}

func (u *OrderService) MarkExported(ctx context.Context, orderID uint64) error {
	o, err := u.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return domain.ErrOrderNotFound
	}
	return u.markExported(ctx, orderID)
}

func (u *OrderService) markExported(ctx context.Context, orderID uint64) error {
	if err := u.repo.UpdateOrderStatus(ctx, orderID, domain.StatusExported); err != nil {
		return err
	}
	u.invalidate(ctx, orderKey(orderID), ordersListKey)
	return nil
}

func (u *OrderService) ListCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	items, err := u.catalog.List(ctx)
	if err != nil {
		u.logger.Error("error reading catalog file", zap.Error(err))
		return nil, err
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}
	return items, nil
}

func (u *OrderService) FilePath(name string) (string, error) {
	return u.files.Path(name)
}

func (u *OrderService) findLineItem(ctx context.Context, orderID, lineItemID uint64) (*domain.LineItem, error) {
	li, err := u.repo.FindLineItem(ctx, orderID, lineItemID)
	if err != nil {
		return nil, err
	}
	if li == nil {
		return nil, domain.ErrLineItemNotFound
	}
	return li, nil
}

func (u *OrderService) lineItemEvent(li *domain.LineItem) domain.LineItemEvent {
	return domain.LineItemEvent{
		OrderID:        li.SalesOrderID,
		LineItemID:     li.ID,
		CatalogMatchID: li.CatalogMatchID,
		Status:         li.Status,
		OccurredAt:     u.now(),
	}
}

func (u *OrderService) publish(pattern string, evt any) {
	if err := u.publisher.Publish(context.Background(), pattern, evt); err != nil {
		u.logger.Warn("failed to publish event", zap.String("pattern", pattern), zap.Error(err))
	}
}

func (u *OrderService) cacheGet(ctx context.Context, key string, dest any) bool {
	if u.cache == nil {
		return false
	}
	err := u.cache.GetJSON(ctx, key, dest)
	if err != nil && !errors.Is(err, rediscache.ErrCacheMiss) {
		u.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	return err == nil
}

func (u *OrderService) cacheSet(ctx context.Context, key string, value any) {
	if u.cache == nil {
		return
	}
	if err := u.cache.SetJSON(ctx, key, value, u.cacheTTL); err != nil {
		u.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (u *OrderService) invalidate(ctx context.Context, keys ...string) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Del(ctx, keys...); err != nil {
		u.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
