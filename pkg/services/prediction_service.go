package services

import (
	"context"
	"io"
	"net/http"

	"dalal-chat-api/pkg/apierr"
	"dalal-chat-api/pkg/logger"
	"dalal-chat-api/pkg/models"
	"dalal-chat-api/pkg/predictor"
)

// Predictor is the outbound prediction call.
type Predictor interface {
	Predict(ctx context.Context, items []models.Item) (predictor.Response, error)
}

// PredictionService validates item batches and proxies them to the
// prediction service.
type PredictionService struct {
	predictor Predictor
	log       *logger.Logger
}

func NewPredictionService(p Predictor, log *logger.Logger) *PredictionService {
	if log == nil {
		log = logger.Nop()
	}
	return &PredictionService{predictor: p, log: log}
}

// CoerceToItems extracts the item list from a decoded JSON body. It accepts
// {"items": [...]}, {"item": {...}} or a single flat item object. Anything
// else, including an empty object, yields no items.
func CoerceToItems(body any) []models.Item {
	obj, ok := body.(map[string]any)
	if !ok || len(obj) == 0 {
		return []models.Item{}
	}
	if list, ok := obj["items"].([]any); ok {
		items := make([]models.Item, 0, len(list))
		for _, entry := range list {
			// Non-object entries stay in place as empty items so validation
			// reports them at the right index.
			m, _ := entry.(map[string]any)
			if m == nil {
				m = map[string]any{}
			}
			items = append(items, models.Item(m))
		}
		return items
	}
	if single, ok := obj["item"].(map[string]any); ok {
		return []models.Item{models.Item(single)}
	}
	return []models.Item{models.Item(obj)}
}

// ValidateItem reports the required fields absent from item, in the order
// of models.RequiredItemFields. A present field with a null value counts as
// present.
func ValidateItem(item models.Item) (bool, []string) {
	var missing []string
	for _, field := range models.RequiredItemFields {
		if _, ok := item[field]; !ok {
			missing = append(missing, field)
		}
	}
	return len(missing) == 0, missing
}

// Predict coerces body to items and forwards them.
func (s *PredictionService) Predict(ctx context.Context, body any) (any, error) {
	return s.PredictItems(ctx, CoerceToItems(body))
}

// PredictItems validates every item, then forwards the batch. The first
// invalid item aborts the call. On success the upstream body is returned
// as-is.
func (s *PredictionService) PredictItems(ctx context.Context, items []models.Item) (any, error) {
	if len(items) == 0 {
		return nil, apierr.Validation("No items provided", "items")
	}
	for i, item := range items {
		if ok, missing := ValidateItem(item); !ok {
			return nil, apierr.MissingFields(i, missing)
		}
	}

	resp, err := s.predictor.Predict(ctx, items)
	if err != nil {
		s.log.Error("prediction request failed", "error", err)
		return nil, apierr.Upstream(http.StatusInternalServerError, "Prediction failed", nil, err)
	}
	if !resp.OK() {
		s.log.Error("Model error", "status", resp.StatusCode, "detail", resp.Body)
		return nil, apierr.Upstream(resp.StatusCode, "Model service error", resp.Body, nil)
	}
	return resp.Body, nil
}

// PredictSheet parses an uploaded .xlsx or .csv item sheet and forwards its
// rows.
func (s *PredictionService) PredictSheet(ctx context.Context, filename string, r io.Reader) (any, error) {
	items, err := ParseItemSheet(filename, r)
	if err != nil {
		return nil, err
	}
	s.log.Info("item sheet parsed", "file", filename, "items", len(items))
	return s.PredictItems(ctx, items)
}

// ModelHealth posts one fully populated sample item and reports how the
// prediction service answered, whatever the status.
func (s *PredictionService) ModelHealth(ctx context.Context) (models.ModelHealth, error) {
	resp, err := s.predictor.Predict(ctx, []models.Item{SampleItem()})
	if err != nil {
		s.log.Error("model health check failed", "error", err)
		return models.ModelHealth{}, apierr.Transport("Model health check failed", err)
	}
	return models.ModelHealth{OK: resp.OK(), Status: resp.StatusCode, Body: resp.Body}, nil
}

// SampleItem returns a valid item used by the health probe.
func SampleItem() models.Item {
	return models.Item{
		"category": "laptop", "brand_tier": "mid", "condition": "new", "season": "winter",
		"division": "Dhaka", "delivery_zone": "Dhaka-Metro",
		"seller_rating": 4.5, "stock": 50, "shipping_days": 2, "demand_index": 0.6,
		"competitor_price_bdt": 90000, "cost_bdt": 60000, "discount_pct": 0.05,
		"clicks_last_7d": 100, "views_last_7d": 300, "conversions_last_7d": 10, "time_on_market_days": 7,
		"bkash_share": 0.4, "nagad_share": 0.2, "cod_share": 0.3, "card_share": 0.1,
		"is_weekend": 0, "is_ramadan": 0, "is_eid": 0, "is_puja": 0, "is_boishakh": 0, "vat_included": 1,
	}
}
