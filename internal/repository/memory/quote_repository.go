package memory

import (
	"time"

	"meal-subscription-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Quote is what was priced at initiate time for a gateway order. SubscriptionId
// is the row being renewed or upgraded and is zero for purchases.
type Quote struct {
	OrderId        string
	Purpose        entity.PaymentPurpose
	UserId         uuid.UUID
	SubscriptionId uuid.UUID
	PlanId         uuid.UUID
	MealType       entity.MealType
	Amount         float64
}

type QuoteRepository struct {
	cache *cache.Cache
}

// NewQuoteRepository keeps quotes for ttl. A gateway order verified after its
// quote is gone cannot be applied.
func NewQuoteRepository(ttl time.Duration) *QuoteRepository {
	return &QuoteRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *QuoteRepository) Save(quote *Quote) {
	r.cache.Set(quote.OrderId, quote, cache.DefaultExpiration)
}

func (r *QuoteRepository) Get(orderId string) (*Quote, bool) {
	if x, found := r.cache.Get(orderId); found {
		return x.(*Quote), true
	}
	return nil, false
}

func (r *QuoteRepository) Delete(orderId string) {
	r.cache.Delete(orderId)
}
